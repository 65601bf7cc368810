package http

import "time"

// Request/response schemas for the auth endpoints. Bodies are strongly
// typed and validated at the gateway boundary before any service call.

type deviceInfo struct {
	Fingerprint string `json:"fingerprint"`
}

type loginRequest struct {
	AccountID  string     `json:"accountId"`
	Pin        string     `json:"pin"`
	DeviceInfo deviceInfo `json:"deviceInfo"`
}

type userPayload struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsDemo      bool   `json:"isDemo"`
	IsPremium   bool   `json:"isPremium"`
}

type tokensPayload struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type loginResponse struct {
	Success bool           `json:"success"`
	User    *userPayload   `json:"user,omitempty"`
	Tokens  *tokensPayload `json:"tokens,omitempty"`

	// Failure fields. AttemptsRemaining rides along on declined
	// credentials, LockoutUntil on locked accounts.
	Error             string     `json:"error,omitempty"`
	AttemptsRemaining *uint      `json:"attemptsRemaining,omitempty"`
	LockoutUntil      *time.Time `json:"lockoutUntil,omitempty"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	Success bool           `json:"success"`
	Tokens  *tokensPayload `json:"tokens,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type meResponse struct {
	User userPayload `json:"user"`
}

type logoutResponse struct {
	Success bool `json:"success"`
}

type pinStrengthRequest struct {
	Pin string `json:"pin"`
}

type pinStrengthResponse struct {
	Score    int    `json:"score"`
	Strength string `json:"strength"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type healthChecks struct {
	Database string `json:"database,omitempty"`
	Signer   string `json:"signer,omitempty"`
}

type healthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *healthChecks `json:"checks,omitempty"`
}
