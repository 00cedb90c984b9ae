// Package dashboard implements the client-side state of the credential-vault
// dashboard: the account cache, the reveal-on-demand secret flow, the
// create/edit form session, and the delete-confirmation workflow. All state
// lives behind one Controller so a page owns exactly one instance.
package dashboard

import (
	"context"
	"errors"

	"github.com/nstepanov/passvault/internal/models"
)

// VaultAPI is the remote store the dashboard synchronizes with. Every
// mutation is followed by a full reload; the dashboard never patches its
// cache incrementally.
type VaultAPI interface {
	// Me performs the identity check for the current session.
	Me(ctx context.Context) (models.Identity, error)
	// List fetches the metadata of all stored accounts.
	List(ctx context.Context) ([]models.Account, error)
	// Show fetches the plaintext secret of one account.
	Show(ctx context.Context, id string) (string, error)
	// Add creates a new stored account.
	Add(ctx context.Context, name, password string) error
	// Edit updates the name and secret of an existing account.
	Edit(ctx context.Context, id, name, password string) error
	// Delete removes a stored account.
	Delete(ctx context.Context, id string) error
	// Logout destroys the server-side session.
	Logout(ctx context.Context) error
}

// Level classifies a notification.
type Level int

const (
	// LevelInfo is a success or neutral notice.
	LevelInfo Level = iota
	// LevelError is a failure notice.
	LevelError
)

// Notifier receives fire-and-forget user notifications. Implementations must
// not block; the dashboard never waits on them.
type Notifier interface {
	Notify(level Level, message string)
}

// RevealPhase is the visibility state of one account's secret.
type RevealPhase int

const (
	// Hidden means no plaintext is held for the record.
	Hidden RevealPhase = iota
	// Loading means a secret fetch is in flight.
	Loading
	// Visible means the plaintext is held and displayed.
	Visible
)

// RevealState is the per-record secret-visibility state. Plaintext is only
// ever non-empty in the Visible phase; hiding discards it.
type RevealState struct {
	Phase     RevealPhase
	Plaintext string
}

// Mode distinguishes creating a new record from updating an existing one.
type Mode int

const (
	// ModeCreate means form submission creates a new account.
	ModeCreate Mode = iota
	// ModeEditing means form submission updates TargetID.
	ModeEditing
)

// EditSession is the single global form state of the dashboard.
type EditSession struct {
	Mode       Mode
	TargetID   string
	FormName   string
	FormSecret string
}

var (
	// ErrAuthRequired is returned when the identity check fails; the
	// caller must navigate away from the dashboard.
	ErrAuthRequired = errors.New("authentication required")
	// ErrNotFound is returned when an operation targets an id that is not
	// in the cache.
	ErrNotFound = errors.New("account not found")
	// ErrFieldsRequired is returned by Submit when either form field is
	// empty; no request is issued.
	ErrFieldsRequired = errors.New("both fields required")
	// ErrNoSecret is returned by CopySecret when no plaintext could be
	// resolved for the record.
	ErrNoSecret = errors.New("no password to copy")
)

// userMessager is satisfied by transport errors that carry a user-facing
// message (the server's own when present).
type userMessager interface {
	UserMessage() string
}

// message extracts the user-facing text of err, falling back to a generic
// one.
func message(err error, fallback string) string {
	var um userMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return fallback
}
