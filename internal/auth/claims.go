package auth

import (
	"time"
)

// AccessClaims represents the claims stored in a PASETO access token.
// v4.local tokens are encrypted, so these are not readable without the key.
type AccessClaims struct {
	UserID      string `json:"user_id"`
	ExternalUID string `json:"external_uid"`
	Email       string `json:"email"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// IsFresh reports whether the token was issued within the given window.
// Sensitive operations (account deletion, email change) require a token
// from a recent password login rather than one minted off a refresh token.
func (c *AccessClaims) IsFresh(window time.Duration) bool {
	return time.Since(c.IssuedAt) <= window
}
