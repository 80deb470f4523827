package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/foremostprojects1/Locatex-final-backend/utils"
	"github.com/kataras/iris/v12"
)

// buildOptionalAuthApp serves an identity echo behind OptionalUser so the
// middleware runs without a database.
func buildOptionalAuthApp() *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()
	app.Get("/whoami", OptionalUser, func(ctx iris.Context) {
		role, _ := ctx.Values().Get("userRole").(string)
		ctx.JSON(iris.Map{"id": utils.ActingUserID(ctx), "role": role})
	})
	return app
}

func TestOptionalUserAnonymous(t *testing.T) {
	app := buildOptionalAuthApp()
	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("anonymous request must pass through, got %d", resp.Code)
	}

	var body struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != 0 || body.Role != "" {
		t.Fatalf("anonymous caller should have no identity, got id=%d role=%q", body.ID, body.Role)
	}
}

func TestOptionalUserResolvesToken(t *testing.T) {
	app := buildOptionalAuthApp()
	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "admin"))
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != 1 || body.Role != "admin" {
		t.Fatalf("identity not resolved, got id=%d role=%q", body.ID, body.Role)
	}
}

func TestOptionalUserIgnoresBadToken(t *testing.T) {
	app := buildOptionalAuthApp()
	if err := app.Build(); err != nil {
		t.Fatalf("build app: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("a garbage token must not block a public route, got %d", resp.Code)
	}

	var body struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != 0 {
		t.Fatalf("garbage token must not grant an identity, got id=%d", body.ID)
	}
}
