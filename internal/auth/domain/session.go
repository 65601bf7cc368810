package domain

import "time"

// Session is the single active login session for an account.
// DeviceFingerprint is an opaque, client-supplied string kept for
// observability only, it is never a trust boundary.
type Session struct {
	ID                string
	AccountID         string
	IssuedAt          time.Time
	ExpiresAt         time.Time
	DeviceFingerprint string

	// RefreshTokenID is the jti of the currently valid refresh token.
	// It rotates on every successful refresh, which is what invalidates
	// the previous refresh token.
	RefreshTokenID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
