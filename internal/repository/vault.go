package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nstepanov/passvault/internal/models"
)

// PostgresVaultRepository implements stored-account persistence against a
// PostgreSQL database. Secrets are stored already encrypted; this layer never
// sees plaintext.
type PostgresVaultRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresVaultRepository creates a new PostgresVaultRepository using the
// provided *sql.DB.
func NewPostgresVaultRepository(db *sql.DB) *PostgresVaultRepository {
	return &PostgresVaultRepository{DB: db}
}

// AccountsByUser fetches the metadata of all accounts owned by the user, in
// insertion order.
func (s *PostgresVaultRepository) AccountsByUser(ctx context.Context, userID string) ([]models.Account, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, name FROM accounts WHERE user_id = $1 ORDER BY ctid
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("AccountsByUser: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// SecretByID fetches the encrypted secret of one account owned by the user.
// Returns sql.ErrNoRows when the account does not exist or belongs to someone
// else.
func (s *PostgresVaultRepository) SecretByID(ctx context.Context, userID, id string) (string, error) {
	var secret string
	err := s.DB.QueryRowContext(ctx, `
		SELECT secret FROM accounts WHERE user_id = $1 AND id = $2
	`, userID, id).Scan(&secret)
	if err != nil {
		return "", err
	}
	return secret, nil
}

// CreateAccount inserts a new account row with an already-encrypted secret.
func (s *PostgresVaultRepository) CreateAccount(ctx context.Context, userID, id, name, secret string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, secret) VALUES ($1, $2, $3, $4)
	`, id, userID, name, secret)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// UpdateAccount replaces the name and encrypted secret of an account owned by
// the user. Returns sql.ErrNoRows when nothing matched.
func (s *PostgresVaultRepository) UpdateAccount(ctx context.Context, userID, id, name, secret string) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE accounts SET name = $3, secret = $4 WHERE user_id = $1 AND id = $2
	`, userID, id, name, secret)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteAccount removes an account owned by the user. Deleting an unknown id
// is not an error.
func (s *PostgresVaultRepository) DeleteAccount(ctx context.Context, userID, id string) error {
	_, err := s.DB.ExecContext(ctx, `
		DELETE FROM accounts WHERE user_id = $1 AND id = $2
	`, userID, id)
	return err
}
