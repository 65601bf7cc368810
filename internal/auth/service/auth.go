package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/domain"
	"github.com/Damatnic/astral-planner-sub006/internal/auth/registry"
	"github.com/Damatnic/astral-planner-sub006/pkg/cryptox"
	"github.com/Damatnic/astral-planner-sub006/pkg/idx"
	"github.com/Damatnic/astral-planner-sub006/pkg/slogx"
)

// ErrMalformedPIN reports a supplied PIN that is not exactly 4 ASCII
// digits. Malformed input never reaches the verifier and never counts
// against the lockout threshold.
var ErrMalformedPIN = errors.New("malformed_pin")

// LockedError reports a login attempt against an account inside its
// lockout window.
type LockedError struct {
	Until     time.Time
	Remaining time.Duration
}

func (e *LockedError) Error() string { return "account_locked" }

// InvalidCredentialsError covers both a wrong PIN and an unknown account
// id. The two are indistinguishable to the caller so account ids cannot
// be enumerated.
type InvalidCredentialsError struct {
	AttemptsRemaining uint
}

func (e *InvalidCredentialsError) Error() string { return "invalid_credentials" }

// LoginResult is what a successful login hands back to the gateway.
type LoginResult struct {
	Account domain.Account
	Session domain.Session
	Tokens  domain.TokenPair
}

// AuthService orchestrates the login, refresh, whoami and logout flows
// across the registry, lockout tracker, token issuer and session store.
type AuthService struct {
	Registry *registry.Registry
	Lockout  *LockoutTracker
	Tokens   *TokenService
	Sessions *SessionService
}

// Login authenticates an account by PIN and establishes its session.
func (s *AuthService) Login(ctx context.Context, accountID, pin, deviceFingerprint string) (*LoginResult, error) {
	l := slogx.FromContext(ctx)

	if accountID == "" || !ValidPINFormat(pin) {
		return nil, ErrMalformedPIN
	}

	if allowed, remaining := s.Lockout.CheckAllowed(accountID); !allowed {
		l.Info("login rejected, account locked", "account_id", accountID, "remaining_ms", remaining.Milliseconds())
		return nil, &LockedError{
			Until:     s.Lockout.now().Add(remaining),
			Remaining: remaining,
		}
	}

	account, err := s.Registry.Lookup(accountID)
	if err != nil {
		// Unknown accounts burn an attempt too. If they didn't, the
		// attempts-remaining counter would reveal which ids exist.
		state := s.Lockout.RecordFailure(accountID)
		l.Info("login failed, unknown account", "account_id", accountID, "failures", state.Failures)
		return nil, s.failureError(state)
	}

	if !cryptox.VerifyPIN(account.PINReference, pin) {
		state := s.Lockout.RecordFailure(accountID)
		l.Info("login failed, wrong pin", "account_id", accountID, "failures", state.Failures)
		return nil, s.failureError(state)
	}

	s.Lockout.RecordSuccess(accountID)

	sessionID := idx.New().String()
	pair, refreshJTI, err := s.Tokens.Issue(account, sessionID)
	if err != nil {
		return nil, err
	}

	session, err := s.Sessions.Record(ctx, sessionID, accountID, deviceFingerprint, refreshJTI)
	if err != nil {
		return nil, err
	}

	l.Info("login succeeded", "account_id", accountID, "session_id", session.ID)

	return &LoginResult{
		Account: account,
		Session: session,
		Tokens:  pair,
	}, nil
}

// Refresh rotates a refresh token and extends the owning session.
// A refresh token whose session is gone, expired, or already rotated away
// behaves exactly like an expired token: the client must log in again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	rotation, err := s.Tokens.Rotate(refreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}

	session, err := s.Sessions.Get(ctx, rotation.AccountID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return domain.TokenPair{}, ErrTokenExpired
		}
		return domain.TokenPair{}, err
	}

	if session.RefreshTokenID != rotation.PresentedID {
		l.Warn("refresh with superseded token", "account_id", rotation.AccountID)
		return domain.TokenPair{}, ErrTokenExpired
	}

	if err := s.Sessions.Touch(ctx, rotation.AccountID, rotation.NextID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return domain.TokenPair{}, ErrTokenExpired
		}
		return domain.TokenPair{}, err
	}

	l.Info("tokens refreshed", "account_id", rotation.AccountID, "session_id", rotation.SessionID)

	return rotation.Pair, nil
}

// Whoami resolves an access token to its account profile.
func (s *AuthService) Whoami(ctx context.Context, accessToken string) (domain.Account, error) {
	claims, err := s.Tokens.VerifyAccess(accessToken)
	if err != nil {
		return domain.Account{}, err
	}

	account, err := s.Registry.Lookup(claims.Subject)
	if err != nil {
		// A signed token for an account no longer in the directory.
		return domain.Account{}, fmt.Errorf("whoami: %w", ErrTokenMalformed)
	}

	return account, nil
}

// Logout invalidates the account's session. Idempotent.
func (s *AuthService) Logout(ctx context.Context, accountID string) error {
	return s.Sessions.Invalidate(ctx, accountID)
}

// failureError reads the tracker's clock so the whole lockout path stays
// deterministic under an injected test clock.
func (s *AuthService) failureError(state domain.LockoutState) error {
	now := s.Lockout.now()
	if state.Locked(now) {
		return &LockedError{
			Until:     state.LockedUntil,
			Remaining: state.LockedUntil.Sub(now),
		}
	}

	return &InvalidCredentialsError{
		AttemptsRemaining: s.Lockout.Threshold() - state.Failures,
	}
}

// ValidPINFormat reports whether pin is exactly 4 ASCII digits.
func ValidPINFormat(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}
