package tokens

import "github.com/golang-jwt/jwt/v5"

// AccessClaims authorize API calls for the subject user. Carried in the
// response body, sent back as a bearer header, never persisted server-side.
type AccessClaims struct {
	jwt.RegisteredClaims
}

// RefreshClaims mint new access tokens. Carried only in the HTTP-only
// cookie scoped to the refresh endpoint.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// ResetClaims grant a single password reset. Signed with their own secret
// so a reset link can never double as an API credential.
type ResetClaims struct {
	jwt.RegisteredClaims
}
