package repository

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"exp": exp.Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func TestTokenExpiryWarningExpired(t *testing.T) {
	repo := Repository{Name: "nexus", Password: signedToken(t, time.Now().Add(-time.Hour))}
	if warning := TokenExpiryWarning(repo); warning == "" {
		t.Fatal("expected a warning for an expired token")
	}
}

func TestTokenExpiryWarningValid(t *testing.T) {
	repo := Repository{Name: "nexus", Password: signedToken(t, time.Now().Add(time.Hour))}
	if warning := TokenExpiryWarning(repo); warning != "" {
		t.Fatalf("expected no warning for a valid token, got %q", warning)
	}
}

func TestTokenExpiryWarningNotAJWT(t *testing.T) {
	repo := Repository{Name: "nexus", Password: "opaque-pat-1234"}
	if warning := TokenExpiryWarning(repo); warning != "" {
		t.Fatalf("expected no warning for a non-JWT token, got %q", warning)
	}
}

func TestTokenExpiryWarningBasicAuthSkipped(t *testing.T) {
	repo := Repository{Name: "nexus", Username: "user", Password: signedToken(t, time.Now().Add(-time.Hour))}
	if warning := TokenExpiryWarning(repo); warning != "" {
		t.Fatalf("expected username+password to be treated as basic auth, not bearer, got %q", warning)
	}
}
