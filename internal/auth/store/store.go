package store

import (
	"context"
	"errors"
	"time"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/domain"
)

// ErrNotFound reports a missing row.
var ErrNotFound = errors.New("store: not found")

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. Every session operation is a single-row statement, so
// unlike a multi-table schema there is no transaction surface here.
type Store interface {
	Sessions() Sessions

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Sessions persists the one-active-session-per-account records.
type Sessions interface {
	// UpsertSession replaces the account's session, enforcing the single
	// active session per account.
	UpsertSession(ctx context.Context, s domain.Session) error

	// GetSessionByAccount returns the stored session for an account.
	// Expiry is the service's concern, the store returns whatever exists.
	GetSessionByAccount(ctx context.Context, accountID string) (domain.Session, error)

	// UpdateSessionRefresh swaps the refresh token id and extends the
	// expiry, used on successful refresh.
	UpdateSessionRefresh(ctx context.Context, accountID, refreshTokenID string, expiresAt time.Time) error

	// DeleteSession removes the account's session. Deleting a missing
	// session is not an error (logout is idempotent).
	DeleteSession(ctx context.Context, accountID string) error

	// DeleteExpiredSessions removes sessions issued before the cutoff.
	// Housekeeping only, read-time expiry does not depend on it.
	DeleteExpiredSessions(ctx context.Context, issuedBefore time.Time) (int64, error)
}
