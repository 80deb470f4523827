package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/foremostprojects1/Locatex-final-backend/utils"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// buildTestApp wires the admin guard in front of a probe handler so the
// checks run without a database.
func buildTestApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/probe", func(ctx iris.Context) {
			ctx.JSON(iris.Map{"status": "success"})
		})
	}
	return app
}

func signTestToken(t *testing.T, role string) string {
	t.Helper()
	token, err := utils.CreateAccessToken(1, role)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAdminRBAC(t *testing.T) {
	app := buildTestApp()
	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}

	// No token.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/probe", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code == http.StatusOK {
		t.Fatalf("expected non-200 without token, got %d", resp.Code)
	}

	// Regular user.
	req2 := httptest.NewRequest(http.MethodGet, "/api/admin/probe", nil)
	req2.Header.Set("Authorization", "Bearer "+signTestToken(t, "user"))
	resp2 := httptest.NewRecorder()
	app.ServeHTTP(resp2, req2)
	if resp2.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user role, got %d", resp2.Code)
	}

	// Agents are not admins either.
	req3 := httptest.NewRequest(http.MethodGet, "/api/admin/probe", nil)
	req3.Header.Set("Authorization", "Bearer "+signTestToken(t, "agent"))
	resp3 := httptest.NewRecorder()
	app.ServeHTTP(resp3, req3)
	if resp3.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for agent role, got %d", resp3.Code)
	}

	// Admin passes through to the handler.
	req4 := httptest.NewRequest(http.MethodGet, "/api/admin/probe", nil)
	req4.Header.Set("Authorization", "Bearer "+signTestToken(t, "admin"))
	resp4 := httptest.NewRecorder()
	app.ServeHTTP(resp4, req4)
	if resp4.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", resp4.Code)
	}
}
