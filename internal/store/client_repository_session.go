package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/models"
)

const (
	saveSession = `INSERT INTO sessions (id, user_id, login, token, expires_at)
    VALUES (1, ?, ?, ?, ?)
    ON CONFLICT (id) DO UPDATE SET
        user_id = excluded.user_id,
        login = excluded.login,
        token = excluded.token,
        expires_at = excluded.expires_at;`

	loadSession = `SELECT user_id, login, token, expires_at FROM sessions WHERE id = 1;`

	clearSession = `DELETE FROM sessions;`
)

// sessionRepository keeps the signed-in session in the client's sqlite file
// so the client can restore it on the next start.
type sessionRepository struct {
	db     *DB
	logger *logger.Logger
}

func NewSessionRepository(db *DB, logger *logger.Logger) SessionStore {
	return &sessionRepository{db: db, logger: logger}
}

func (r *sessionRepository) Save(ctx context.Context, session models.Session) error {
	var expiresAt sql.NullTime
	if !session.ExpiresAt.IsZero() {
		expiresAt = sql.NullTime{Time: session.ExpiresAt.UTC(), Valid: true}
	}

	if _, err := r.db.ExecContext(ctx, saveSession, session.UserID, session.Login, session.Token, expiresAt); err != nil {
		r.logger.Err(err).Str("func", "*sessionRepository.Save").Msg("error saving session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (r *sessionRepository) Load(ctx context.Context) (models.Session, error) {
	var (
		session   models.Session
		expiresAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, loadSession).Scan(&session.UserID, &session.Login, &session.Token, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Session{}, ErrSessionNotFound
	}
	if err != nil {
		r.logger.Err(err).Str("func", "*sessionRepository.Load").Msg("error loading session")
		return models.Session{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if expiresAt.Valid {
		session.ExpiresAt = expiresAt.Time
	}
	return session, nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, clearSession); err != nil {
		r.logger.Err(err).Str("func", "*sessionRepository.Clear").Msg("error clearing session")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}
