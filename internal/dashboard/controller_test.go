package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/nstepanov/passvault/internal/models"
)

// fakeVaultAPI implements VaultAPI for testing. Unset funcs succeed with
// zero values.
type fakeVaultAPI struct {
	MeFunc     func(ctx context.Context) (models.Identity, error)
	ListFunc   func(ctx context.Context) ([]models.Account, error)
	ShowFunc   func(ctx context.Context, id string) (string, error)
	AddFunc    func(ctx context.Context, name, password string) error
	EditFunc   func(ctx context.Context, id, name, password string) error
	DeleteFunc func(ctx context.Context, id string) error
	LogoutFunc func(ctx context.Context) error
}

func (f *fakeVaultAPI) Me(ctx context.Context) (models.Identity, error) {
	if f.MeFunc != nil {
		return f.MeFunc(ctx)
	}
	return models.Identity{}, nil
}

func (f *fakeVaultAPI) List(ctx context.Context) ([]models.Account, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	return nil, nil
}

func (f *fakeVaultAPI) Show(ctx context.Context, id string) (string, error) {
	if f.ShowFunc != nil {
		return f.ShowFunc(ctx, id)
	}
	return "", nil
}

func (f *fakeVaultAPI) Add(ctx context.Context, name, password string) error {
	if f.AddFunc != nil {
		return f.AddFunc(ctx, name, password)
	}
	return nil
}

func (f *fakeVaultAPI) Edit(ctx context.Context, id, name, password string) error {
	if f.EditFunc != nil {
		return f.EditFunc(ctx, id, name, password)
	}
	return nil
}

func (f *fakeVaultAPI) Delete(ctx context.Context, id string) error {
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, id)
	}
	return nil
}

func (f *fakeVaultAPI) Logout(ctx context.Context) error {
	if f.LogoutFunc != nil {
		return f.LogoutFunc(ctx)
	}
	return nil
}

// recordingNotifier collects notifications in order.
type recordingNotifier struct {
	mu       sync.Mutex
	levels   []Level
	messages []string
}

func (n *recordingNotifier) Notify(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.levels = append(n.levels, level)
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) last() (Level, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return LevelInfo, ""
	}
	return n.levels[len(n.levels)-1], n.messages[len(n.messages)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func twoAccounts() []models.Account {
	return []models.Account{
		{ID: "id-1", Name: "GitHub"},
		{ID: "id-2", Name: "Mail"},
	}
}

func TestActivate_Success(t *testing.T) {
	api := &fakeVaultAPI{
		MeFunc: func(ctx context.Context) (models.Identity, error) {
			return models.Identity{Username: "bob"}, nil
		},
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			return twoAccounts(), nil
		},
	}
	c := New(api, nil, nil)

	if err := c.Activate(context.Background()); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}
	if got := c.Identity().Username; got != "bob" {
		t.Errorf("Identity().Username = %q; want %q", got, "bob")
	}
	if got := len(c.Accounts()); got != 2 {
		t.Errorf("len(Accounts()) = %d; want 2", got)
	}
}

func TestActivate_AuthFailure(t *testing.T) {
	listCalled := false
	api := &fakeVaultAPI{
		MeFunc: func(ctx context.Context) (models.Identity, error) {
			return models.Identity{}, errors.New("401")
		},
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			listCalled = true
			return nil, nil
		},
	}
	c := New(api, nil, nil)

	err := c.Activate(context.Background())
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("Activate error = %v; want ErrAuthRequired", err)
	}
	if listCalled {
		t.Error("expected no list fetch after failed identity check")
	}
}

func TestReload_FailureKeepsCache(t *testing.T) {
	calls := 0
	api := &fakeVaultAPI{
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			calls++
			if calls > 1 {
				return nil, errors.New("boom")
			}
			return twoAccounts(), nil
		},
	}
	notes := &recordingNotifier{}
	c := New(api, notes, nil)

	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("first Reload returned error: %v", err)
	}
	if err := c.Reload(context.Background()); err == nil {
		t.Fatal("second Reload returned nil; want error")
	}

	if got := len(c.Accounts()); got != 2 {
		t.Errorf("len(Accounts()) after failed reload = %d; want 2", got)
	}
	level, msg := notes.last()
	if level != LevelError || msg != "Failed to load accounts" {
		t.Errorf("notification = (%v, %q); want (LevelError, %q)", level, msg, "Failed to load accounts")
	}
}

func TestReload_ResetsTransientState(t *testing.T) {
	api := &fakeVaultAPI{
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			return twoAccounts(), nil
		},
		ShowFunc: func(ctx context.Context, id string) (string, error) {
			return "plain", nil
		},
	}
	c := New(api, nil, nil)
	ctx := context.Background()

	if err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}
	if err := c.ToggleReveal(ctx, "id-1"); err != nil {
		t.Fatalf("ToggleReveal returned error: %v", err)
	}
	if err := c.EnterEdit(ctx, "id-2"); err != nil {
		t.Fatalf("EnterEdit returned error: %v", err)
	}
	c.RequestDelete("id-1")

	if err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}

	if st := c.Reveal("id-1"); st.Phase != Hidden || st.Plaintext != "" {
		t.Errorf("reveal state after reload = %+v; want hidden and empty", st)
	}
	if es := c.EditState(); es.Mode != ModeCreate || es.TargetID != "" || es.FormName != "" {
		t.Errorf("edit state after reload = %+v; want zero value", es)
	}
	if _, open := c.PendingDeletion(); open {
		t.Error("delete confirmation still open after reload")
	}
}

func TestToggleReveal_FetchThenHide(t *testing.T) {
	shows := 0
	api := &fakeVaultAPI{
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			return twoAccounts(), nil
		},
		ShowFunc: func(ctx context.Context, id string) (string, error) {
			shows++
			if id != "id-1" {
				t.Errorf("Show received id = %q; want %q", id, "id-1")
			}
			return "hunter2", nil
		},
	}
	c := New(api, nil, nil)
	ctx := context.Background()
	if err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}

	if err := c.ToggleReveal(ctx, "id-1"); err != nil {
		t.Fatalf("ToggleReveal returned error: %v", err)
	}
	st := c.Reveal("id-1")
	if st.Phase != Visible || st.Plaintext != "hunter2" {
		t.Fatalf("reveal state = %+v; want visible %q", st, "hunter2")
	}
	if st := c.Reveal("id-2"); st.Phase != Hidden {
		t.Errorf("untouched record state = %+v; want hidden", st)
	}

	// hiding is local, no second fetch
	if err := c.ToggleReveal(ctx, "id-1"); err != nil {
		t.Fatalf("ToggleReveal returned error: %v", err)
	}
	if st := c.Reveal("id-1"); st.Phase != Hidden || st.Plaintext != "" {
		t.Errorf("reveal state after hide = %+v; want hidden and empty", st)
	}
	if shows != 1 {
		t.Errorf("Show called %d times; want 1", shows)
	}
}

func TestToggleReveal_FailureFallsBackToHidden(t *testing.T) {
	api := &fakeVaultAPI{
		ShowFunc: func(ctx context.Context, id string) (string, error) {
			return "", errors.New("boom")
		},
	}
	notes := &recordingNotifier{}
	c := New(api, notes, nil)

	if err := c.ToggleReveal(context.Background(), "id-1"); err == nil {
		t.Fatal("ToggleReveal returned nil; want error")
	}
	if st := c.Reveal("id-1"); st.Phase != Hidden {
		t.Errorf("reveal state after failure = %+v; want hidden", st)
	}
	if _, msg := notes.last(); msg != "Could not retrieve password" {
		t.Errorf("notification = %q; want %q", msg, "Could not retrieve password")
	}
}

func TestToggleReveal_SecondToggleWhileLoadingIgnored(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	shows := 0
	var mu sync.Mutex
	api := &fakeVaultAPI{
		ShowFunc: func(ctx context.Context, id string) (string, error) {
			mu.Lock()
			shows++
			first := shows == 1
			mu.Unlock()
			if first {
				close(started)
				<-release
			}
			return "hunter2", nil
		},
	}
	c := New(api, nil, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.ToggleReveal(ctx, "id-1") }()
	<-started

	if st := c.Reveal("id-1"); st.Phase != Loading {
		t.Fatalf("reveal state mid-fetch = %+v; want loading", st)
	}
	if err := c.ToggleReveal(ctx, "id-1"); err != nil {
		t.Fatalf("second ToggleReveal returned error: %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first ToggleReveal returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if shows != 1 {
		t.Errorf("Show called %d times; want 1", shows)
	}
	if st := c.Reveal("id-1"); st.Phase != Visible {
		t.Errorf("reveal state = %+v; want visible", st)
	}
}

func TestToggleReveal_StaleCompletionDiscardedAfterReload(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeVaultAPI{
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			return twoAccounts(), nil
		},
		ShowFunc: func(ctx context.Context, id string) (string, error) {
			close(started)
			<-release
			return "hunter2", nil
		},
	}
	c := New(api, nil, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.ToggleReveal(ctx, "id-1") }()
	<-started

	// record set replaced while the fetch is in flight
	if err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("ToggleReveal returned error: %v", err)
	}

	if st := c.Reveal("id-1"); st.Phase != Hidden {
		t.Errorf("reveal state after reload = %+v; want hidden", st)
	}
}

func TestCopySecret_VisibleSkipsFetch(t *testing.T) {
	shows := 0
	api := &fakeVaultAPI{
		ShowFunc: func(ctx context.Context, id string) (string, error) {
			shows++
			return "hunter2", nil
		},
	}
	c := New(api, nil, nil)
	ctx := context.Background()

	if err := c.ToggleReveal(ctx, "id-1"); err != nil {
		t.Fatalf("ToggleReveal returned error: %v", err)
	}
	got, err := c.CopySecret(ctx, "id-1")
	if err != nil {
		t.Fatalf("CopySecret returned error: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("CopySecret = %q; want %q", got, "hunter2")
	}
	if shows != 1 {
		t.Errorf("Show called %d times; want 1", shows)
	}
}

func TestCopySecret_FetchesHidden(t *testing.T) {
	api := &fakeVaultAPI{
		ShowFunc: func(ctx context.Context, id string) (string, error) {
			return "hunter2", nil
		},
	}
	c := New(api, nil, nil)

	got, err := c.CopySecret(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("CopySecret returned error: %v", err)
	}
	if got != "hunter2" {
		t.Errorf("CopySecret = %q; want %q", got, "hunter2")
	}
	if st := c.Reveal("id-1"); st.Phase != Visible {
		t.Errorf("reveal state after copy = %+v; want visible", st)
	}
}

func TestCopySecret_FailurePropagates(t *testing.T) {
	api := &fakeVaultAPI{
		ShowFunc: func(ctx context.Context, id string) (string, error) {
			return "", errors.New("boom")
		},
	}
	c := New(api, nil, nil)

	if _, err := c.CopySecret(context.Background(), "id-1"); err == nil {
		t.Fatal("CopySecret returned nil; want error")
	}
}

func TestEnterEdit_PopulatesForm(t *testing.T) {
	api := &fakeVaultAPI{
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			return twoAccounts(), nil
		},
		ShowFunc: func(ctx context.Context, id string) (string, error) {
			return "hunter2", nil
		},
	}
	notes := &recordingNotifier{}
	c := New(api, notes, nil)
	ctx := context.Background()
	if err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}

	if err := c.EnterEdit(ctx, "id-1"); err != nil {
		t.Fatalf("EnterEdit returned error: %v", err)
	}
	es := c.EditState()
	if es.Mode != ModeEditing || es.TargetID != "id-1" || es.FormName != "GitHub" || es.FormSecret != "hunter2" {
		t.Errorf("edit state = %+v; want editing id-1 with prefilled form", es)
	}
	if _, msg := notes.last(); msg != "Editing mode enabled" {
		t.Errorf("notification = %q; want %q", msg, "Editing mode enabled")
	}

	c.CancelEdit()
	if es := c.EditState(); es.Mode != ModeCreate || es.TargetID != "" {
		t.Errorf("edit state after cancel = %+v; want zero value", es)
	}
}

func TestEnterEdit_UnknownID(t *testing.T) {
	notes := &recordingNotifier{}
	c := New(&fakeVaultAPI{}, notes, nil)

	err := c.EnterEdit(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("EnterEdit error = %v; want ErrNotFound", err)
	}
	if _, msg := notes.last(); msg != "Account not found" {
		t.Errorf("notification = %q; want %q", msg, "Account not found")
	}
}

func TestEnterEdit_ShowFailureKeepsMode(t *testing.T) {
	api := &fakeVaultAPI{
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			return twoAccounts(), nil
		},
		ShowFunc: func(ctx context.Context, id string) (string, error) {
			return "", errors.New("boom")
		},
	}
	notes := &recordingNotifier{}
	c := New(api, notes, nil)
	ctx := context.Background()
	if err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}

	if err := c.EnterEdit(ctx, "id-1"); err == nil {
		t.Fatal("EnterEdit returned nil; want error")
	}
	if es := c.EditState(); es.Mode != ModeCreate {
		t.Errorf("edit state after failed enter = %+v; want create mode", es)
	}
	if _, msg := notes.last(); msg != "Could not fetch password" {
		t.Errorf("notification = %q; want the fetch-failure message", msg)
	}
}

func TestSubmit_EmptyFieldsRejectedLocally(t *testing.T) {
	added := false
	api := &fakeVaultAPI{
		AddFunc: func(ctx context.Context, name, password string) error {
			added = true
			return nil
		},
	}
	notes := &recordingNotifier{}
	c := New(api, notes, nil)

	err := c.Submit(context.Background(), "  ", "secret")
	if !errors.Is(err, ErrFieldsRequired) {
		t.Fatalf("Submit error = %v; want ErrFieldsRequired", err)
	}
	if added {
		t.Error("expected no request for an invalid form")
	}
	if _, msg := notes.last(); msg != "Both fields required!" {
		t.Errorf("notification = %q; want %q", msg, "Both fields required!")
	}
}

func TestSubmit_Create(t *testing.T) {
	lists := 0
	stored := twoAccounts()
	api := &fakeVaultAPI{
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			lists++
			return stored, nil
		},
		AddFunc: func(ctx context.Context, name, password string) error {
			if name != "GitHub" || password != "hunter2" {
				t.Errorf("Add received (%q, %q); want (%q, %q)", name, password, "GitHub", "hunter2")
			}
			stored = append(stored, models.Account{ID: "id-3", Name: name})
			return nil
		},
	}
	notes := &recordingNotifier{}
	c := New(api, notes, nil)

	if err := c.Submit(context.Background(), " GitHub ", " hunter2 "); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if es := c.EditState(); es.Mode != ModeCreate || es.FormName != "" || es.FormSecret != "" {
		t.Errorf("form not cleared after create: %+v", es)
	}
	if lists != 1 {
		t.Errorf("List called %d times; want 1 reload after create", lists)
	}
	if acc, ok := c.Find("id-3"); !ok || acc.Name != "GitHub" {
		t.Errorf("created record not in the reloaded cache: (%+v, %v)", acc, ok)
	}
	level, msg := notes.last()
	if level != LevelInfo || msg != "Account saved!" {
		t.Errorf("notification = (%v, %q); want (LevelInfo, %q)", level, msg, "Account saved!")
	}
}

func TestSubmit_Edit(t *testing.T) {
	edited := false
	api := &fakeVaultAPI{
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			return twoAccounts(), nil
		},
		ShowFunc: func(ctx context.Context, id string) (string, error) {
			return "old", nil
		},
		EditFunc: func(ctx context.Context, id, name, password string) error {
			edited = true
			if id != "id-1" || name != "GitHub 2" || password != "new" {
				t.Errorf("Edit received (%q, %q, %q); want (id-1, GitHub 2, new)", id, name, password)
			}
			return nil
		},
	}
	notes := &recordingNotifier{}
	c := New(api, notes, nil)
	ctx := context.Background()
	if err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}
	if err := c.EnterEdit(ctx, "id-1"); err != nil {
		t.Fatalf("EnterEdit returned error: %v", err)
	}

	if err := c.Submit(ctx, "GitHub 2", "new"); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if !edited {
		t.Fatal("expected Edit to be called")
	}
	if es := c.EditState(); es.Mode != ModeCreate || es.TargetID != "" {
		t.Errorf("edit state after submit = %+v; want back to create mode", es)
	}
	if _, msg := notes.last(); msg != "Account updated!" {
		t.Errorf("notification = %q; want %q", msg, "Account updated!")
	}
}

func TestSubmit_FailurePreservesForm(t *testing.T) {
	api := &fakeVaultAPI{
		AddFunc: func(ctx context.Context, name, password string) error {
			return errors.New("boom")
		},
	}
	c := New(api, &recordingNotifier{}, nil)

	if err := c.Submit(context.Background(), "GitHub", "hunter2"); err == nil {
		t.Fatal("Submit returned nil; want error")
	}
	es := c.EditState()
	if es.FormName != "GitHub" || es.FormSecret != "hunter2" {
		t.Errorf("form after failed submit = %+v; want fields preserved for retry", es)
	}
}

func TestDeleteConfirmationFlow(t *testing.T) {
	deleted := ""
	lists := 0
	api := &fakeVaultAPI{
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			lists++
			return twoAccounts(), nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	notes := &recordingNotifier{}
	c := New(api, notes, nil)
	ctx := context.Background()

	c.RequestDelete("id-1")
	if id, open := c.PendingDeletion(); !open || id != "id-1" {
		t.Fatalf("PendingDeletion = (%q, %v); want (id-1, true)", id, open)
	}

	c.CancelDelete()
	if _, open := c.PendingDeletion(); open {
		t.Fatal("confirmation still open after cancel")
	}
	if err := c.ConfirmDelete(ctx); err != nil {
		t.Fatalf("ConfirmDelete returned error: %v", err)
	}
	if deleted != "" {
		t.Fatalf("Delete called with %q after cancel; want no call", deleted)
	}

	c.RequestDelete("id-2")
	if err := c.ConfirmDelete(ctx); err != nil {
		t.Fatalf("ConfirmDelete returned error: %v", err)
	}
	if deleted != "id-2" {
		t.Errorf("Delete called with %q; want id-2", deleted)
	}
	if _, open := c.PendingDeletion(); open {
		t.Error("confirmation still open after confirm")
	}
	if lists != 1 {
		t.Errorf("List called %d times; want 1 reload after delete", lists)
	}
	if _, msg := notes.last(); msg != "Account deleted!" {
		t.Errorf("notification = %q; want %q", msg, "Account deleted!")
	}
}

func TestConfirmDelete_FailureClosesModal(t *testing.T) {
	api := &fakeVaultAPI{
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			return twoAccounts(), nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			return errors.New("boom")
		},
	}
	notes := &recordingNotifier{}
	c := New(api, notes, nil)
	ctx := context.Background()
	if err := c.Reload(ctx); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}

	c.RequestDelete("id-1")
	if err := c.ConfirmDelete(ctx); err == nil {
		t.Fatal("ConfirmDelete returned nil; want error")
	}
	if _, open := c.PendingDeletion(); open {
		t.Error("confirmation still open after failed delete")
	}
	if _, ok := c.Find("id-1"); !ok {
		t.Error("record vanished from the cache after a failed delete")
	}
	if _, msg := notes.last(); msg != "Delete failed" {
		t.Errorf("notification = %q; want %q", msg, "Delete failed")
	}
}

func TestLogout_ClearsStateEvenOnError(t *testing.T) {
	api := &fakeVaultAPI{
		MeFunc: func(ctx context.Context) (models.Identity, error) {
			return models.Identity{Username: "bob"}, nil
		},
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			return twoAccounts(), nil
		},
		LogoutFunc: func(ctx context.Context) error {
			return errors.New("boom")
		},
	}
	c := New(api, &recordingNotifier{}, nil)
	ctx := context.Background()
	if err := c.Activate(ctx); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}

	if err := c.Logout(ctx); err == nil {
		t.Fatal("Logout returned nil; want error")
	}
	if got := c.Identity().Username; got != "" {
		t.Errorf("identity after logout = %q; want empty", got)
	}
	if got := len(c.Accounts()); got != 0 {
		t.Errorf("len(Accounts()) after logout = %d; want 0", got)
	}
}

func TestServerMessageSurfaced(t *testing.T) {
	api := &fakeVaultAPI{
		ListFunc: func(ctx context.Context) ([]models.Account, error) {
			return nil, &messagedError{msg: "Too many requests"}
		},
	}
	notes := &recordingNotifier{}
	c := New(api, notes, nil)

	if err := c.Reload(context.Background()); err == nil {
		t.Fatal("Reload returned nil; want error")
	}
	if _, msg := notes.last(); msg != "Too many requests" {
		t.Errorf("notification = %q; want the server's own message", msg)
	}
}

// messagedError mimics a transport error carrying a server message.
type messagedError struct{ msg string }

func (e *messagedError) Error() string       { return e.msg }
func (e *messagedError) UserMessage() string { return e.msg }

func TestFilter(t *testing.T) {
	accounts := []models.Account{
		{ID: "1", Name: "GitHub"},
		{ID: "2", Name: "GitLab"},
		{ID: "3", Name: "Mail"},
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"empty query returns all", "", 3},
		{"case insensitive", "GIT", 2},
		{"substring", "ail", 1},
		{"no match", "zzz", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(accounts, tt.query)
			if len(got) != tt.want {
				t.Errorf("Filter(%q) returned %d accounts; want %d", tt.query, len(got), tt.want)
			}
		})
	}

	if got := Filter(accounts, "zzz"); got == nil {
		t.Error("Filter returned nil; want empty slice")
	}
	if len(accounts) != 3 {
		t.Error("Filter mutated its input")
	}
}
