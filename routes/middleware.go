package routes

import (
	"errors"
	"os"
	"strings"

	"github.com/foremostprojects1/Locatex-final-backend/models"
	"github.com/foremostprojects1/Locatex-final-backend/storage"
	"github.com/foremostprojects1/Locatex-final-backend/utils"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

// RequireUser resolves the acting identity behind a verified token. The
// token alone is not enough: the account must still exist and be active,
// so deactivated or deleted users lose access before token expiry.
func RequireUser(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var user models.User
	err := storage.DB.First(&user, claims.ID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(ctx, iris.StatusUnauthorized, "account no longer exists")
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	if user.IsActive != nil && !*user.IsActive {
		utils.JSONError(ctx, iris.StatusUnauthorized, "account is deactivated")
		return
	}

	ctx.Values().Set("userID", user.ID)
	ctx.Values().Set("userRole", user.Role)
	ctx.Next()
}

// OptionalUser resolves the acting identity when a Bearer token is
// presented but never rejects the request. Public routes that show
// extra detail to owners and admins, like a pending listing's detail
// page, use it ahead of the handler.
func OptionalUser(ctx iris.Context) {
	header := ctx.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		ctx.Next()
		return
	}

	raw := strings.TrimSpace(header[len(prefix):])
	verified, err := jwt.Verify(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")), []byte(raw))
	if err != nil {
		ctx.Next()
		return
	}

	var claims utils.AccessToken
	if err := verified.Claims(&claims); err != nil {
		ctx.Next()
		return
	}

	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("userRole", claims.Role)
	ctx.Next()
}

// getUserByID loads a user row; (nil, nil) when it does not exist.
func getUserByID(id uint) (*models.User, error) {
	var user models.User
	result := storage.DB.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}
