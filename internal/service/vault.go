package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/nstepanov/passvault/internal/crypt"
	"github.com/nstepanov/passvault/internal/models"
)

// ErrAccountNotFound is returned when an account id does not exist for the
// requesting user.
var ErrAccountNotFound = errors.New("account not found")

// VaultRepository defines the stored-account persistence operations required
// by the vault service.
type VaultRepository interface {
	// AccountsByUser fetches metadata of all accounts owned by the user.
	AccountsByUser(ctx context.Context, userID string) ([]models.Account, error)
	// SecretByID fetches the encrypted secret, sql.ErrNoRows if absent.
	SecretByID(ctx context.Context, userID, id string) (string, error)
	// CreateAccount inserts an account with an encrypted secret.
	CreateAccount(ctx context.Context, userID, id, name, secret string) error
	// UpdateAccount replaces name and secret, sql.ErrNoRows if absent.
	UpdateAccount(ctx context.Context, userID, id, name, secret string) error
	// DeleteAccount removes an account.
	DeleteAccount(ctx context.Context, userID, id string) error
}

// VaultService implements per-user account storage. Secrets are double
// encrypted before they reach the repository and decrypted only on reveal.
type VaultService struct {
	repo VaultRepository

	// secret1 and secret2 are the independent encryption secrets.
	secret1 string
	secret2 string
}

// NewVaultService constructs a VaultService with the provided repository and
// the two encryption secrets.
func NewVaultService(repo VaultRepository, secret1, secret2 string) *VaultService {
	return &VaultService{repo: repo, secret1: secret1, secret2: secret2}
}

// List returns the metadata of all accounts owned by the user, in server
// storage order. Plaintext secrets are never part of the listing.
func (s *VaultService) List(ctx context.Context, userID string) ([]models.Account, error) {
	return s.repo.AccountsByUser(ctx, userID)
}

// Show decrypts and returns the plaintext secret of one account.
func (s *VaultService) Show(ctx context.Context, userID, id string) (string, error) {
	enc, err := s.repo.SecretByID(ctx, userID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrAccountNotFound
	}
	if err != nil {
		return "", err
	}
	return crypt.DoubleDecrypt(enc, s.secret1, s.secret2)
}

// Add stores a new account and returns its assigned id.
func (s *VaultService) Add(ctx context.Context, userID, name, password string) (string, error) {
	enc, err := crypt.DoubleEncrypt(password, s.secret1, s.secret2)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.repo.CreateAccount(ctx, userID, id, name, enc); err != nil {
		return "", err
	}
	return id, nil
}

// Edit replaces the name and secret of an existing account.
func (s *VaultService) Edit(ctx context.Context, userID, id, name, password string) error {
	enc, err := crypt.DoubleEncrypt(password, s.secret1, s.secret2)
	if err != nil {
		return err
	}
	err = s.repo.UpdateAccount(ctx, userID, id, name, enc)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAccountNotFound
	}
	return err
}

// Delete removes an account. Deleting an unknown id is not an error, matching
// the delete endpoint's contract.
func (s *VaultService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.DeleteAccount(ctx, userID, id)
}
