package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/domain"
	"github.com/Damatnic/astral-planner-sub006/internal/auth/store"
)

// DefaultSessionTTL bounds a session's life from its issue time. Expiry
// is evaluated lazily at read time, never by a background sweep.
const DefaultSessionTTL = 24 * time.Hour

// ErrSessionNotFound covers both a genuinely absent session and an
// expired one, the two are indistinguishable to callers by design.
var ErrSessionNotFound = errors.New("session_not_found")

// SessionService tracks the single active session per account.
type SessionService struct {
	Store store.Store
	TTL   time.Duration

	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultSessionTTL
}

// Record creates (or replaces) the account's session. Logging in again
// displaces any previous session, one active record per account.
func (s *SessionService) Record(ctx context.Context, sessionID, accountID, deviceFingerprint, refreshTokenID string) (domain.Session, error) {
	now := s.now().UTC()

	session := domain.Session{
		ID:                sessionID,
		AccountID:         accountID,
		IssuedAt:          now,
		ExpiresAt:         now.Add(s.ttl()),
		DeviceFingerprint: deviceFingerprint,
		RefreshTokenID:    refreshTokenID,
	}

	if err := s.Store.Sessions().UpsertSession(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("record session: %w", err)
	}

	return session, nil
}

// Get returns the account's live session. An expired session is deleted
// opportunistically and reported exactly like an absent one.
func (s *SessionService) Get(ctx context.Context, accountID string) (domain.Session, error) {
	session, err := s.Store.Sessions().GetSessionByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	if s.IsExpired(session) {
		_ = s.Store.Sessions().DeleteSession(ctx, accountID)
		return domain.Session{}, ErrSessionNotFound
	}

	return session, nil
}

// IsExpired reports whether the session has passed its hard lifetime cap,
// measured from issue time. Refreshes extend ExpiresAt but never this cap.
func (s *SessionService) IsExpired(session domain.Session) bool {
	return s.now().Sub(session.IssuedAt) >= s.ttl()
}

// Touch extends the session's expiry and swaps in the rotated refresh
// token id after a successful refresh.
func (s *SessionService) Touch(ctx context.Context, accountID, refreshTokenID string) error {
	expiresAt := s.now().UTC().Add(s.ttl())

	err := s.Store.Sessions().UpdateSessionRefresh(ctx, accountID, refreshTokenID, expiresAt)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Invalidate removes the account's session. Idempotent, invalidating a
// missing session is not an error.
func (s *SessionService) Invalidate(ctx context.Context, accountID string) error {
	if err := s.Store.Sessions().DeleteSession(ctx, accountID); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}
