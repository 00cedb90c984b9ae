// Package service provides the business logic of the vault server:
// registration, login with lockout, session issuance, and encrypted account
// storage. Persistence is delegated to repository interfaces.
package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nstepanov/passvault/internal/models"
	"github.com/nstepanov/passvault/internal/repository"
)

var (
	// ErrEmailExists is returned when registering an already-known email.
	ErrEmailExists = errors.New("email exists")
	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLocked is returned while the email is locked out after repeated
	// failed logins.
	ErrLocked = errors.New("too many failed attempts")
	// ErrSessionNotFound is returned for unknown or expired session tokens.
	ErrSessionNotFound = errors.New("session not found")
)

// UserRepository defines the user and login-attempt persistence operations
// required by the auth service.
type UserRepository interface {
	// EmailExists returns true if a user with the given email exists.
	EmailExists(ctx context.Context, email string) (bool, error)
	// CreateUser creates a new user record.
	CreateUser(ctx context.Context, u models.User) error
	// UserByEmail fetches a user by email, sql.ErrNoRows if absent.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID fetches a user by id, sql.ErrNoRows if absent.
	UserByID(ctx context.Context, id string) (*models.User, error)
	// Attempt returns the login-attempt row for an email, nil when none.
	Attempt(ctx context.Context, email string) (*repository.LoginAttempt, error)
	// UpsertAttempt writes the login-attempt row for an email.
	UpsertAttempt(ctx context.Context, la repository.LoginAttempt) error
	// ResetAttempts clears the login-attempt row for an email.
	ResetAttempts(ctx context.Context, email string) error
}

// SessionRepository defines the session persistence operations required by
// the auth service.
type SessionRepository interface {
	// CreateSession stores a new session.
	CreateSession(ctx context.Context, sess models.Session) error
	// SessionByToken fetches a live session, sql.ErrNoRows if absent.
	SessionByToken(ctx context.Context, token string) (*models.Session, error)
	// DeleteSession removes a session by token.
	DeleteSession(ctx context.Context, token string) error
}

// LockoutPolicy tunes the failed-login lockout.
type LockoutPolicy struct {
	// MaxAttempts is the number of failures that triggers a lock.
	MaxAttempts int
	// Window is the rolling window failures are counted in.
	Window time.Duration
	// LockDuration is how long a triggered lock lasts.
	LockDuration time.Duration
}

// AuthService implements registration, login with lockout, and sessions.
type AuthService struct {
	users    UserRepository
	sessions SessionRepository
	policy   LockoutPolicy
	ttl      time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(users UserRepository, sessions SessionRepository, policy LockoutPolicy, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		policy:   policy,
		ttl:      sessionTTL,
		now:      time.Now,
	}
}

// newToken returns a 256-bit random token in hex.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// issueSession creates and stores a fresh session for the user.
func (s *AuthService) issueSession(ctx context.Context, userID string) (*models.Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	csrf, err := newToken()
	if err != nil {
		return nil, err
	}
	sess := models.Session{
		Token:     token,
		CSRFToken: csrf,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Register creates a new user and logs them in. Returns ErrEmailExists when
// the email is taken.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, *models.Session, error) {
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}
	if err := s.users.ResetAttempts(ctx, email); err != nil {
		return nil, nil, err
	}

	sess, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return &user, sess, nil
}

// Login verifies credentials and issues a session. Repeated failures inside
// the policy window lock the email out for the lock duration.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	now := s.now()

	la, err := s.users.Attempt(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if la != nil && la.LockedUntil != nil && la.LockedUntil.After(now) {
		return nil, nil, ErrLocked
	}

	user, err := s.users.UserByEmail(ctx, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, err
	}
	if err != nil || bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		if ferr := s.registerFailure(ctx, email, la, now); ferr != nil {
			return nil, nil, ferr
		}
		return nil, nil, ErrInvalidCredentials
	}

	if err := s.users.ResetAttempts(ctx, email); err != nil {
		return nil, nil, err
	}

	sess, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// registerFailure records one failed login, restarting the window when the
// previous one has lapsed and locking the email once the attempt budget is
// spent.
func (s *AuthService) registerFailure(ctx context.Context, email string, la *repository.LoginAttempt, now time.Time) error {
	if la == nil || now.Sub(la.FirstAttemptAt) > s.policy.Window {
		return s.users.UpsertAttempt(ctx, repository.LoginAttempt{
			Email:          email,
			Attempts:       1,
			FirstAttemptAt: now,
			LastAttemptAt:  now,
		})
	}

	la.Attempts++
	la.LastAttemptAt = now
	if la.Attempts >= s.policy.MaxAttempts {
		lockedUntil := now.Add(s.policy.LockDuration)
		la.LockedUntil = &lockedUntil
	}
	return s.users.UpsertAttempt(ctx, *la)
}

// Identify resolves a session token to its user. Returns ErrSessionNotFound
// for unknown or expired tokens.
func (s *AuthService) Identify(ctx context.Context, token string) (*models.User, *models.Session, error) {
	sess, err := s.sessions.SessionByToken(ctx, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.UserByID(ctx, sess.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return user, sess, nil
}

// Logout destroys the session for the given token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}
