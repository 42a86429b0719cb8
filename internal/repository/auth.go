package repository

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// applyAuth attaches the repository's credentials to an outgoing
// request. A username+password pair becomes HTTP basic auth; a
// password alone (no username) is treated as a bearer token.
func applyAuth(req *http.Request, repo Repository) {
	switch {
	case repo.Username != "" && repo.Password != "":
		req.SetBasicAuth(repo.Username, repo.Password)
	case repo.Username != "":
		req.SetBasicAuth(repo.Username, "")
	case repo.Password != "":
		req.Header.Set("Authorization", "Bearer "+repo.Password)
	}
}

// bearerTokenExpiry inspects a JWT bearer token's "exp" claim without
// verifying its signature, purely to warn the caller ahead of a 401
// that an expired token is configured for this repository. Repository
// passwords that aren't JWTs (opaque PATs, basic-auth secrets) simply
// fail to parse and are reported as "unknown expiry".
func bearerTokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenExpiryWarning returns a human-readable warning if the
// repository's configured bearer token is a JWT that has already
// expired, or an empty string otherwise.
func TokenExpiryWarning(repo Repository) string {
	if repo.Username != "" || repo.Password == "" {
		return ""
	}
	expiry, ok := bearerTokenExpiry(repo.Password)
	if !ok {
		return ""
	}
	if time.Now().After(expiry) {
		return "bearer token for repository " + repo.Name + " expired at " + expiry.Format(time.RFC3339)
	}
	return ""
}
