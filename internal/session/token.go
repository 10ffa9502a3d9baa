package session

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// tokenExpiry peeks at the exp claim of an access token without
// verifying the signature. Verification belongs to the backend; the
// client only needs the claim to discard sessions that are already
// dead and to show expiry in the header. Opaque (non-JWT) tokens
// report no expiry and are kept as-is.
func tokenExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
