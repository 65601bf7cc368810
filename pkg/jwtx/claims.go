package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token use values carried in the token_use claim. Access and refresh
// tokens share the signing key, the claim is what keeps them from being
// swapped for one another.
const (
	TokenUseAccess  = "access"
	TokenUseRefresh = "refresh"
)

// Claims are the token claims shared by access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims

	// SID identifies the session the token belongs to.
	SID string `json:"sid,omitempty"`

	// TokenUse is "access" or "refresh".
	TokenUse string `json:"token_use,omitempty"`

	// DisplayName mirrors the account display name for client convenience.
	DisplayName string `json:"display_name,omitempty"`
}

// NewClaims builds minimally-correct claims for a token.
// jti is supplied by the caller so refresh tokens can be tied to their
// session record.
func NewClaims(subject, sid, jti, use, displayName, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
		SID:         sid,
		TokenUse:    use,
		DisplayName: displayName,
	}
}

// ValidateIssuer checks the issuer claim against the expected value.
// An empty expectation enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}
