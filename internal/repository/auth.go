// Package repository provides PostgreSQL persistence for the vault server:
// users, sessions, login attempts, and stored accounts.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nstepanov/passvault/internal/models"
)

// LoginAttempt tracks failed logins for one email inside a rolling window.
type LoginAttempt struct {
	// Email is the login identifier the failures were recorded against.
	Email string
	// Attempts is the number of failures inside the current window.
	Attempts int
	// FirstAttemptAt opens the rolling window.
	FirstAttemptAt time.Time
	// LastAttemptAt is the most recent failure.
	LastAttemptAt time.Time
	// LockedUntil is non-nil while the email is locked out.
	LockedUntil *time.Time
}

// PostgresUserRepository implements user persistence using a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given
// database connection. db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// EmailExists checks whether a user with the specified email exists.
// It returns true if the user exists, false otherwise.
func (s *PostgresUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts a new user record.
func (s *PostgresUserRepository) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO users (id, username, email, password_hash) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Username, u.Email, u.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// UserByEmail fetches a user by email. Returns sql.ErrNoRows if absent.
func (s *PostgresUserRepository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByID fetches a user by id. Returns sql.ErrNoRows if absent.
func (s *PostgresUserRepository) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Attempt returns the login-attempt row for an email, or nil when none exists.
func (s *PostgresUserRepository) Attempt(ctx context.Context, email string) (*LoginAttempt, error) {
	var la LoginAttempt
	err := s.DB.QueryRowContext(ctx, `
		SELECT email, attempts, first_attempt_at, last_attempt_at, locked_until
		  FROM login_attempts WHERE email = $1
	`, email).Scan(&la.Email, &la.Attempts, &la.FirstAttemptAt, &la.LastAttemptAt, &la.LockedUntil)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	return &la, nil
}

// UpsertAttempt writes the login-attempt row for an email, replacing any
// previous state.
func (s *PostgresUserRepository) UpsertAttempt(ctx context.Context, la LoginAttempt) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO login_attempts (email, attempts, first_attempt_at, last_attempt_at, locked_until)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			attempts = EXCLUDED.attempts,
			first_attempt_at = EXCLUDED.first_attempt_at,
			last_attempt_at = EXCLUDED.last_attempt_at,
			locked_until = EXCLUDED.locked_until
	`, la.Email, la.Attempts, la.FirstAttemptAt, la.LastAttemptAt, la.LockedUntil)
	if err != nil {
		return fmt.Errorf("upsert attempt: %w", err)
	}
	return nil
}

// ResetAttempts clears the login-attempt row for an email.
func (s *PostgresUserRepository) ResetAttempts(ctx context.Context, email string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM login_attempts WHERE email = $1`, email)
	return err
}
