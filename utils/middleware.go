package utils

import (
	"net"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// AdminOnlyMiddleware ensures the requester carries the admin role.
func AdminOnlyMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	if claims.Role != "admin" {
		ctx.StopWithJSON(iris.StatusForbidden, iris.Map{
			"status":  "error",
			"message": "admin access required",
		})
		return
	}
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("userRole", claims.Role)
	ctx.Next()
}

// OwnerOrAdmin reports whether the acting identity owns the resource or is
// an admin. Role checks gate route groups; this gates individual rows.
func OwnerOrAdmin(ctx iris.Context, ownerID uint) bool {
	claims := jwt.Get(ctx).(*AccessToken)
	return claims.ID == ownerID || claims.Role == "admin"
}

// ActingUserID returns the resolved identity from context values, 0 when
// the route allows anonymous access and no token was presented.
func ActingUserID(ctx iris.Context) uint {
	if v := ctx.Values().Get("userID"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// ClientIP resolves the originating address, honoring proxies.
func ClientIP(ctx iris.Context) string {
	if ip := ctx.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	ip, _, _ := net.SplitHostPort(ctx.RemoteAddr())
	return ip
}
