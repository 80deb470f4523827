package utils

import (
	"os"
	"testing"

	"github.com/kataras/iris/v12/middleware/jwt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")

	token, err := CreateAccessToken(42, "agent")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	verified, err := jwt.Verify(jwt.HS256, []byte("testsecret"), []byte(token))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	var claims AccessToken
	if err := verified.Claims(&claims); err != nil {
		t.Fatalf("claims: %v", err)
	}
	if claims.ID != 42 || claims.Role != "agent" {
		t.Fatalf("got ID=%d role=%s", claims.ID, claims.Role)
	}
}

func TestGenerateShortToken(t *testing.T) {
	a := GenerateShortToken(32)
	b := GenerateShortToken(32)
	if len(a) != 64 || len(b) != 64 {
		t.Fatalf("expected 64 hex chars, got %d and %d", len(a), len(b))
	}
	if a == b {
		t.Fatal("two tokens should not collide")
	}
	for _, c := range a {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			t.Fatalf("non-hex char %q", c)
		}
	}
}

func TestHashResetToken(t *testing.T) {
	h1 := HashResetToken("abc")
	h2 := HashResetToken("abc")
	if h1 != h2 {
		t.Fatal("hash must be deterministic")
	}
	if len(h1) != 64 {
		t.Fatalf("expected sha256 hex length 64, got %d", len(h1))
	}
	if HashResetToken("abd") == h1 {
		t.Fatal("different tokens must hash differently")
	}
	if h1 == "abc" {
		t.Fatal("hash must not equal the cleartext")
	}
}
