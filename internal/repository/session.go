package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nstepanov/passvault/internal/models"
)

// PostgresSessionRepository implements session persistence using a PostgreSQL database.
type PostgresSessionRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository using the
// provided *sql.DB.
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{DB: db}
}

// CreateSession stores a new session row.
func (s *PostgresSessionRepository) CreateSession(ctx context.Context, sess models.Session) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO sessions (token, csrf_token, user_id, expires_at)
		VALUES ($1, $2, $3, $4)
	`, sess.Token, sess.CSRFToken, sess.UserID, sess.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SessionByToken fetches a live (unexpired) session by its token.
// Returns sql.ErrNoRows when the token is unknown or expired.
func (s *PostgresSessionRepository) SessionByToken(ctx context.Context, token string) (*models.Session, error) {
	var sess models.Session
	err := s.DB.QueryRowContext(ctx, `
		SELECT token, csrf_token, user_id, expires_at FROM sessions
		WHERE token = $1 AND expires_at > NOW()
	`, token).Scan(&sess.Token, &sess.CSRFToken, &sess.UserID, &sess.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// DeleteSession removes a session by token. Deleting an unknown token is not
// an error.
func (s *PostgresSessionRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}
