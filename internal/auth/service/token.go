package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/domain"
	"github.com/Damatnic/astral-planner-sub006/pkg/idx"
	"github.com/Damatnic/astral-planner-sub006/pkg/jwtx"
)

var (
	// ErrTokenExpired means a structurally valid token whose exp has
	// passed, the caller should log in again.
	ErrTokenExpired = errors.New("token_expired")

	// ErrTokenMalformed means the token failed to decode or verify,
	// corrupted or forged.
	ErrTokenMalformed = errors.New("token_malformed")
)

// Default token lifetimes. The refresh lifetime is a deployment constant,
// seven days unless configured otherwise.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// TokenService mints and validates access/refresh token pairs. It is
// purely CPU-bound, no network or disk I/O.
type TokenService struct {
	Signer     jwtx.Signer
	Verifier   jwtx.Verifier
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now is the clock, overridable in tests. Nil means time.Now.
	Now func() time.Time
}

// Rotation is the outcome of a successful refresh-token rotation.
type Rotation struct {
	Pair      domain.TokenPair
	AccountID string
	SessionID string

	// PresentedID is the jti of the refresh token that was spent,
	// NextID the jti of its replacement.
	PresentedID string
	NextID      string
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue mints a fresh token pair for an account. The returned refreshJTI
// is stored on the session so the active refresh token can be identified.
func (s *TokenService) Issue(account domain.Account, sessionID string) (domain.TokenPair, string, error) {
	now := s.now()

	access, err := s.Signer.Sign(jwtx.NewClaims(
		account.ID, sessionID, idx.New().String(),
		jwtx.TokenUseAccess, account.DisplayName,
		s.Issuer, s.AccessTTL, now,
	))
	if err != nil {
		return domain.TokenPair{}, "", fmt.Errorf("sign access token: %w", err)
	}

	refreshJTI := idx.New().String()
	refresh, err := s.Signer.Sign(jwtx.NewClaims(
		account.ID, sessionID, refreshJTI,
		jwtx.TokenUseRefresh, "",
		s.Issuer, s.RefreshTTL, now,
	))
	if err != nil {
		return domain.TokenPair{}, "", fmt.Errorf("sign refresh token: %w", err)
	}

	return domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.AccessTTL,
	}, refreshJTI, nil
}

// Rotate validates a refresh token and mints a replacement pair. The
// refresh token itself rotates, presenting the old one again after a
// successful rotation will not work once the session has moved on.
func (s *TokenService) Rotate(refreshToken string) (Rotation, error) {
	claims, err := s.verify(refreshToken, jwtx.TokenUseRefresh)
	if err != nil {
		return Rotation{}, err
	}

	now := s.now()

	access, err := s.Signer.Sign(jwtx.NewClaims(
		claims.Subject, claims.SID, idx.New().String(),
		jwtx.TokenUseAccess, claims.DisplayName,
		s.Issuer, s.AccessTTL, now,
	))
	if err != nil {
		return Rotation{}, fmt.Errorf("sign access token: %w", err)
	}

	nextJTI := idx.New().String()
	nextRefresh, err := s.Signer.Sign(jwtx.NewClaims(
		claims.Subject, claims.SID, nextJTI,
		jwtx.TokenUseRefresh, "",
		s.Issuer, s.RefreshTTL, now,
	))
	if err != nil {
		return Rotation{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return Rotation{
		Pair: domain.TokenPair{
			AccessToken:  access,
			RefreshToken: nextRefresh,
			ExpiresIn:    s.AccessTTL,
		},
		AccountID:   claims.Subject,
		SessionID:   claims.SID,
		PresentedID: claims.ID,
		NextID:      nextJTI,
	}, nil
}

// VerifyAccess validates an access token and returns its claims.
func (s *TokenService) VerifyAccess(accessToken string) (jwtx.Claims, error) {
	return s.verify(accessToken, jwtx.TokenUseAccess)
}

func (s *TokenService) verify(token, wantUse string) (jwtx.Claims, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		switch {
		case errors.Is(err, jwtx.ErrExpired):
			return jwtx.Claims{}, ErrTokenExpired
		default:
			return jwtx.Claims{}, ErrTokenMalformed
		}
	}

	// An access token presented as a refresh token (or the reverse) is
	// treated as forged, not expired.
	if claims.TokenUse != wantUse {
		return jwtx.Claims{}, ErrTokenMalformed
	}

	return claims, nil
}
