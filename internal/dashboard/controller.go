package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nstepanov/passvault/internal/models"
)

// Controller owns all dashboard state for one page. Methods are safe for
// concurrent use; blocking fetches release the lock while in flight, and a
// reload generation counter discards completions that settle after the
// record set was replaced underneath them.
type Controller struct {
	api      VaultAPI
	notifier Notifier
	log      *zap.Logger

	mu sync.Mutex
	// gen increments on every cache replacement; in-flight fetches
	// started under an older generation are discarded on completion.
	gen      uint64
	identity models.Identity
	accounts []models.Account
	reveal   map[string]*RevealState
	edit     EditSession
	// pendingDelete is non-empty only while the confirmation modal is open.
	pendingDelete string
	query         string
}

// New constructs a Controller. notifier may be nil when no notification sink
// is attached.
func New(api VaultAPI, notifier Notifier, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		api:      api,
		notifier: notifier,
		log:      log,
		reveal:   make(map[string]*RevealState),
	}
}

func (c *Controller) notify(level Level, msg string) {
	if c.notifier != nil {
		c.notifier.Notify(level, msg)
	}
}

// Activate resolves the session identity and performs the initial load. On
// identity failure it returns ErrAuthRequired and touches nothing else; the
// caller must leave the dashboard. No retry is attempted.
func (c *Controller) Activate(ctx context.Context) error {
	identity, err := c.api.Me(ctx)
	if err != nil {
		c.log.Debug("identity check failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrAuthRequired, err)
	}

	c.mu.Lock()
	c.identity = identity
	c.mu.Unlock()

	_ = c.Reload(ctx)
	return nil
}

// Identity returns the authenticated identity bound at activation.
func (c *Controller) Identity() models.Identity {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// Reload replaces the account cache wholesale with the server's list and
// resets all reveal, edit, and deletion state to defaults, so stale secrets
// or edit targets pointing at removed records cannot survive a refresh. On
// failure the previous cache stays intact and a non-fatal notification is
// emitted.
func (c *Controller) Reload(ctx context.Context) error {
	accounts, err := c.api.List(ctx)
	if err != nil {
		c.notify(LevelError, message(err, "Failed to load accounts"))
		return err
	}

	c.mu.Lock()
	c.accounts = accounts
	c.resetTransientLocked()
	c.mu.Unlock()
	return nil
}

// resetTransientLocked clears per-record and form state and invalidates
// in-flight fetches. Callers must hold mu.
func (c *Controller) resetTransientLocked() {
	c.gen++
	c.reveal = make(map[string]*RevealState)
	c.edit = EditSession{}
	c.pendingDelete = ""
}

// Accounts returns a copy of the cached metadata in server order.
func (c *Controller) Accounts() []models.Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// Find looks an account up by id. The second return is false when the id is
// not cached.
func (c *Controller) Find(id string) (models.Account, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findLocked(id)
}

func (c *Controller) findLocked(id string) (models.Account, bool) {
	for _, a := range c.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return models.Account{}, false
}

// SetQuery stores the current search query.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
}

// Query returns the current search query.
func (c *Controller) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Visible returns the accounts matching the current query, a fresh view over
// the cache. It is recomputed on every call, so it can never go stale after
// a reload.
func (c *Controller) Visible() []models.Account {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Filter(c.accounts, c.query)
}

// Filter returns the accounts whose name contains query, case-insensitively.
// An empty query returns the full set. The input slice is never mutated.
func Filter(accounts []models.Account, query string) []models.Account {
	q := strings.ToLower(query)
	out := make([]models.Account, 0, len(accounts))
	for _, a := range accounts {
		if q == "" || strings.Contains(strings.ToLower(a.Name), q) {
			out = append(out, a)
		}
	}
	return out
}

// Reveal returns the visibility state for one record, Hidden by default.
func (c *Controller) Reveal(id string) RevealState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.reveal[id]; ok {
		return *st
	}
	return RevealState{Phase: Hidden}
}

// ToggleReveal flips the visibility of one record's secret. Hidden starts a
// single fetch (a second toggle while Loading is ignored, so no duplicate
// request can be in flight for the same id); Visible discards the plaintext
// locally with no network call; a failed fetch falls back to Hidden with a
// notification. Toggles on different ids are independent.
func (c *Controller) ToggleReveal(ctx context.Context, id string) error {
	c.mu.Lock()
	if st, ok := c.reveal[id]; ok {
		switch st.Phase {
		case Loading:
			c.mu.Unlock()
			return nil
		case Visible:
			delete(c.reveal, id)
			c.mu.Unlock()
			return nil
		}
	}
	c.reveal[id] = &RevealState{Phase: Loading}
	gen := c.gen
	c.mu.Unlock()

	password, err := c.api.Show(ctx, id)

	c.mu.Lock()
	if c.gen != gen {
		// The record set was replaced while the fetch was in flight;
		// the result must not resurrect pre-reload state.
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		delete(c.reveal, id)
		c.mu.Unlock()
		c.notify(LevelError, message(err, "Could not retrieve password"))
		return err
	}
	c.reveal[id] = &RevealState{Phase: Visible, Plaintext: password}
	c.mu.Unlock()
	return nil
}

// CopySecret resolves the plaintext for the clipboard. A Hidden record goes
// through the same fetch-to-Visible transition as a reveal; if that fails,
// the copy fails with a user-visible message instead of yielding an empty
// value.
func (c *Controller) CopySecret(ctx context.Context, id string) (string, error) {
	if st := c.Reveal(id); st.Phase == Visible {
		return st.Plaintext, nil
	}

	if err := c.ToggleReveal(ctx, id); err != nil {
		return "", err
	}

	st := c.Reveal(id)
	if st.Phase != Visible {
		c.notify(LevelError, "No password to copy")
		return "", ErrNoSecret
	}
	return st.Plaintext, nil
}

// EditState returns the current form session.
func (c *Controller) EditState() EditSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.edit
}

// EnterEdit fetches the secret of one record and, on success, populates the
// form and switches to editing mode. On failure the mode is left unchanged
// and an error notification is emitted. Entering edit while already editing
// another record silently replaces it; there is only one form.
func (c *Controller) EnterEdit(ctx context.Context, id string) error {
	c.mu.Lock()
	acc, ok := c.findLocked(id)
	gen := c.gen
	c.mu.Unlock()
	if !ok {
		c.notify(LevelError, "Account not found")
		return ErrNotFound
	}

	password, err := c.api.Show(ctx, id)
	if err != nil {
		c.notify(LevelError, message(err, "Could not fetch password"))
		return err
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return nil
	}
	c.edit = EditSession{
		Mode:       ModeEditing,
		TargetID:   id,
		FormName:   acc.Name,
		FormSecret: password,
	}
	c.mu.Unlock()
	c.notify(LevelInfo, "Editing mode enabled")
	return nil
}

// CancelEdit drops the edit target and clears the form.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edit = EditSession{}
}

// Submit validates the form and either creates a new account or updates the
// current edit target. Validation failures are local; no request is issued.
// On request failure the mode and form are preserved so the user can retry
// without re-entering data. On success the form is cleared, the mode returns
// to create, and the cache is reloaded before Submit returns.
func (c *Controller) Submit(ctx context.Context, name, secret string) error {
	name = strings.TrimSpace(name)
	secret = strings.TrimSpace(secret)
	if name == "" || secret == "" {
		c.notify(LevelError, "Both fields required!")
		return ErrFieldsRequired
	}

	c.mu.Lock()
	c.edit.FormName = name
	c.edit.FormSecret = secret
	mode := c.edit.Mode
	target := c.edit.TargetID
	c.mu.Unlock()

	if mode == ModeEditing {
		if err := c.api.Edit(ctx, target, name, secret); err != nil {
			c.notify(LevelError, message(err, "Update failed"))
			return err
		}
		c.clearForm()
		c.notify(LevelInfo, "Account updated!")
		_ = c.Reload(ctx)
		return nil
	}

	if err := c.api.Add(ctx, name, secret); err != nil {
		c.notify(LevelError, message(err, "Save failed"))
		return err
	}
	c.clearForm()
	c.notify(LevelInfo, "Account saved!")
	_ = c.Reload(ctx)
	return nil
}

func (c *Controller) clearForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edit = EditSession{}
}

// RequestDelete opens the confirmation modal for one record. Selecting while
// one is already open replaces the pending target.
func (c *Controller) RequestDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = id
}

// CancelDelete closes the confirmation modal without deleting.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = ""
}

// PendingDeletion returns the pending target, and whether the modal is open.
func (c *Controller) PendingDeletion() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingDelete, c.pendingDelete != ""
}

// ConfirmDelete issues the delete for the pending target. The modal closes
// regardless of the outcome: success reloads the cache, failure surfaces a
// notification but does not reopen the modal. Confirming with no pending
// target is a no-op.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	id := c.pendingDelete
	c.pendingDelete = ""
	c.mu.Unlock()
	if id == "" {
		return nil
	}

	if err := c.api.Delete(ctx, id); err != nil {
		c.notify(LevelError, message(err, "Delete failed"))
		return err
	}
	c.notify(LevelInfo, "Account deleted!")
	_ = c.Reload(ctx)
	return nil
}

// Logout calls the logout collaborator and clears all local state, identity
// included, regardless of the call's outcome. The caller navigates to the
// entry page either way.
func (c *Controller) Logout(ctx context.Context) error {
	err := c.api.Logout(ctx)

	c.mu.Lock()
	c.identity = models.Identity{}
	c.accounts = nil
	c.resetTransientLocked()
	c.mu.Unlock()

	if err != nil {
		c.notify(LevelError, message(err, "Logout failed"))
		return err
	}
	c.notify(LevelInfo, "Logged out")
	return nil
}
