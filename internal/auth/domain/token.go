package domain

import "time"

// TokenPair is what a successful login or refresh returns: a short-lived
// access token and a longer-lived refresh token, both signed JWTs.
type TokenPair struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	ExpiresIn    time.Duration `json:"-"` // access token lifetime
}
