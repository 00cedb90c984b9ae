// Package tui implements the terminal dashboard driving the vault
// controller.
package tui

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nstepanov/passvault/internal/dashboard"
)

type viewID int

const (
	viewList viewID = iota
	viewForm
)

// flash is one queued notification.
type flash struct {
	level   dashboard.Level
	message string
}

// Queue collects notifications emitted by the controller from command
// goroutines until the update loop drains them.
type Queue struct {
	mu    sync.Mutex
	queue []flash
}

// Notify implements dashboard.Notifier. It never blocks.
func (q *Queue) Notify(level dashboard.Level, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queue = append(q.queue, flash{level: level, message: message})
}

func (q *Queue) drain() []flash {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.queue
	q.queue = nil
	return out
}

type (
	// activatedMsg reports the session gate outcome.
	activatedMsg struct{ err error }
	// opDoneMsg reports that a controller operation settled.
	opDoneMsg struct{}
	// loggedOutMsg reports that logout completed.
	loggedOutMsg struct{}
)

// Model is the root TUI model.
type Model struct {
	ctrl    *dashboard.Controller
	flashes *Queue

	active viewID
	cursor int

	search      textinput.Model
	searching   bool
	nameInput   textinput.Model
	secretInput textinput.Model
	focusSecret bool

	flash      string
	flashErr   bool
	authFailed bool
	width      int
	height     int
}

// New creates the root model. flashes must be the same queue the controller
// was constructed with, so notifications reach the footer.
func New(ctrl *dashboard.Controller, flashes *Queue) Model {
	search := textinput.New()
	search.Placeholder = "search"
	search.Prompt = "/ "
	search.CharLimit = 64

	name := textinput.New()
	name.Placeholder = "account name"
	name.CharLimit = 128

	secret := textinput.New()
	secret.Placeholder = "password"
	secret.CharLimit = 128
	secret.EchoMode = textinput.EchoPassword

	return Model{
		ctrl:        ctrl,
		flashes:     flashes,
		search:      search,
		nameInput:   name,
		secretInput: secret,
	}
}

// NewQueue returns the notification queue to construct the controller with.
func NewQueue() *Queue { return &Queue{} }

// AuthFailed reports whether the session gate rejected us; the caller should
// send the user back to login.
func (m Model) AuthFailed() bool { return m.authFailed }

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		return activatedMsg{err: m.ctrl.Activate(context.Background())}
	}
}

// refresh drains queued notifications into the footer flash.
func (m *Model) refresh() {
	for _, f := range m.flashes.drain() {
		m.flash = f.message
		m.flashErr = f.level == dashboard.LevelError
	}
	if n := len(m.ctrl.Visible()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case activatedMsg:
		if msg.err != nil {
			// Failed gate: leave the dashboard unconditionally.
			m.authFailed = errors.Is(msg.err, dashboard.ErrAuthRequired)
			return m, tea.Quit
		}
		m.refresh()
		return m, nil

	case opDoneMsg:
		m.refresh()
		return m, nil

	case loggedOutMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.active == viewForm {
		return m.updateForm(msg)
	}
	if _, open := m.ctrl.PendingDeletion(); open {
		return m.updateConfirm(msg)
	}
	if m.searching {
		return m.updateSearch(msg)
	}
	return m.updateList(msg)
}

// op wraps a controller call into a command; the settled message drains
// notifications.
func (m Model) op(fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		_ = fn(context.Background())
		return opDoneMsg{}
	}
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.ctrl.Visible()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case "enter", "r":
		if m.cursor < len(visible) {
			id := visible[m.cursor].ID
			return m, m.op(func(ctx context.Context) error {
				return m.ctrl.ToggleReveal(ctx, id)
			})
		}
		return m, nil

	case "c":
		if m.cursor < len(visible) {
			id := visible[m.cursor].ID
			return m, m.op(func(ctx context.Context) error {
				secret, err := m.ctrl.CopySecret(ctx, id)
				if err != nil {
					return err
				}
				return clipboard.WriteAll(secret)
			})
		}
		return m, nil

	case "e":
		if m.cursor < len(visible) {
			id := visible[m.cursor].ID
			m.active = viewForm
			m.focusSecret = false
			m.nameInput.SetValue("")
			m.secretInput.SetValue("")
			m.nameInput.Focus()
			m.secretInput.Blur()
			return m, tea.Batch(
				m.op(func(ctx context.Context) error {
					return m.ctrl.EnterEdit(ctx, id)
				}),
				textinput.Blink,
			)
		}
		return m, nil

	case "a", "n":
		m.ctrl.CancelEdit()
		m.nameInput.SetValue("")
		m.secretInput.SetValue("")
		m.nameInput.Focus()
		m.secretInput.Blur()
		m.focusSecret = false
		m.active = viewForm
		return m, textinput.Blink

	case "d":
		if m.cursor < len(visible) {
			m.ctrl.RequestDelete(visible[m.cursor].ID)
		}
		return m, nil

	case "R":
		return m, m.op(m.ctrl.Reload)

	case "ctrl+l":
		return m, func() tea.Msg {
			_ = m.ctrl.Logout(context.Background())
			return loggedOutMsg{}
		}
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetQuery(m.search.Value())
	m.cursor = 0
	return m, cmd
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return m, m.op(m.ctrl.ConfirmDelete)
	case "n", "esc":
		m.ctrl.CancelDelete()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Populate inputs from the edit session once the secret fetch lands.
	if es := m.ctrl.EditState(); es.Mode == dashboard.ModeEditing &&
		m.nameInput.Value() == "" && m.secretInput.Value() == "" {
		m.nameInput.SetValue(es.FormName)
		m.secretInput.SetValue(es.FormSecret)
	}

	switch msg.String() {
	case "esc":
		m.ctrl.CancelEdit()
		m.nameInput.SetValue("")
		m.secretInput.SetValue("")
		m.active = viewList
		return m, nil

	case "tab", "shift+tab":
		m.focusSecret = !m.focusSecret
		if m.focusSecret {
			m.nameInput.Blur()
			m.secretInput.Focus()
		} else {
			m.secretInput.Blur()
			m.nameInput.Focus()
		}
		return m, textinput.Blink

	case "enter":
		name := m.nameInput.Value()
		secret := m.secretInput.Value()
		m.active = viewList
		m.nameInput.SetValue("")
		m.secretInput.SetValue("")
		return m, m.op(func(ctx context.Context) error {
			return m.ctrl.Submit(ctx, name, secret)
		})

	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	if m.focusSecret {
		m.secretInput, cmd = m.secretInput.Update(msg)
	} else {
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	secretStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	modalStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

func (m Model) View() string {
	var b strings.Builder

	identity := m.ctrl.Identity()
	b.WriteString(titleStyle.Render("passvault") + dimStyle.Render("  "+identity.Username) + "\n\n")

	if id, open := m.ctrl.PendingDeletion(); open {
		name := id
		if acc, ok := m.ctrl.Find(id); ok {
			name = acc.Name
		}
		b.WriteString(modalStyle.Render(
			"Delete "+name+"?\n\n"+dimStyle.Render("y confirm · n cancel")) + "\n")
		return b.String()
	}

	if m.active == viewForm {
		b.WriteString(m.viewForm())
	} else {
		b.WriteString(m.viewList())
	}

	if m.flash != "" {
		style := infoStyle
		if m.flashErr {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.flash) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render(m.helpLine()) + "\n")
	return b.String()
}

func (m Model) viewList() string {
	var b strings.Builder

	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View() + "\n\n")
	}

	visible := m.ctrl.Visible()
	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("No accounts found.") + "\n")
		return b.String()
	}

	for i, acc := range visible {
		marker := "  "
		name := acc.Name
		if i == m.cursor {
			marker = "> "
			name = selectedStyle.Render(name)
		}

		line := marker + name
		switch st := m.ctrl.Reveal(acc.ID); st.Phase {
		case dashboard.Loading:
			line += dimStyle.Render("  Loading...")
		case dashboard.Visible:
			line += secretStyle.Render("  " + st.Plaintext)
		default:
			line += dimStyle.Render("  ••••••••")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder

	title := "New account"
	if es := m.ctrl.EditState(); es.Mode == dashboard.ModeEditing {
		title = "Edit account"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(m.nameInput.View() + "\n")
	b.WriteString(m.secretInput.View() + "\n")

	if secret := m.secretInput.Value(); secret != "" {
		b.WriteString(dimStyle.Render("Strength: ") +
			strengthStyle(dashboard.CheckStrength(secret)) + "\n")
	}
	return b.String()
}

func strengthStyle(s dashboard.Strength) string {
	colors := map[dashboard.Strength]string{
		dashboard.Weak:   "9",
		dashboard.Fair:   "208",
		dashboard.Good:   "12",
		dashboard.Strong: "10",
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(colors[s])).Render(s.String())
}

func (m Model) helpLine() string {
	if m.active == viewForm {
		return "tab next · enter save · esc cancel"
	}
	if m.searching {
		return "enter/esc done"
	}
	return "j/k navigate · / search · r reveal · c copy · e edit · a add · d delete · R reload · ctrl+l logout · q quit"
}
