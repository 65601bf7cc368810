package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Damatnic/astral-planner-sub006/internal/auth/domain"
)

type sessionsRepo struct {
	db *sql.DB
}

func (r *sessionsRepo) UpsertSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (account_id, id, issued_at, expires_at, device_fingerprint, refresh_token_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT (account_id) DO UPDATE SET
			id = excluded.id,
			issued_at = excluded.issued_at,
			expires_at = excluded.expires_at,
			device_fingerprint = excluded.device_fingerprint,
			refresh_token_id = excluded.refresh_token_id,
			updated_at = CURRENT_TIMESTAMP
	`, s.AccountID, s.ID, s.IssuedAt, s.ExpiresAt, s.DeviceFingerprint, s.RefreshTokenID)
	return err
}

func (r *sessionsRepo) GetSessionByAccount(ctx context.Context, accountID string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT account_id, id, issued_at, expires_at, device_fingerprint, refresh_token_id, created_at, updated_at
		FROM sessions
		WHERE account_id = ?
	`, accountID)

	var s domain.Session
	err := row.Scan(
		&s.AccountID,
		&s.ID,
		&s.IssuedAt,
		&s.ExpiresAt,
		&s.DeviceFingerprint,
		&s.RefreshTokenID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) UpdateSessionRefresh(ctx context.Context, accountID, refreshTokenID string, expiresAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions
		SET refresh_token_id = ?, expires_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE account_id = ?
	`, refreshTokenID, expiresAt, accountID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE account_id = ?`, accountID)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, issuedBefore time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE issued_at < ?`, issuedBefore)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
