// Package prompt is a single-line text input modal.
//
// The modal resolves exactly once: enter produces SubmitMsg with the typed
// value (possibly empty), esc produces CancelMsg.
package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/soundpad/internal/ui/styles"
)

const boxWidth = 48

// Config describes one prompt.
type Config struct {
	// Kind and Subject travel back on the result messages so the caller
	// knows what was answered.
	Kind    string
	Subject string

	Title       string
	Message     string
	Placeholder string
	Value       string
	CharLimit   int
	Hint        string
}

// SubmitMsg is sent when the user presses enter.
type SubmitMsg struct {
	Kind    string
	Subject string
	Value   string
}

// CancelMsg is sent when the user presses esc.
type CancelMsg struct {
	Kind    string
	Subject string
}

var keys = struct {
	Submit key.Binding
	Cancel key.Binding
}{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

// Model is the prompt state.
type Model struct {
	cfg    Config
	input  textinput.Model
	width  int
	height int
}

// New builds a focused prompt.
func New(cfg Config) Model {
	ti := textinput.New()
	ti.Placeholder = cfg.Placeholder
	ti.CharLimit = cfg.CharLimit
	ti.Width = boxWidth - 6
	ti.Prompt = "> "
	ti.SetValue(cfg.Value)
	ti.CursorEnd()
	ti.Focus()
	return Model{cfg: cfg, input: ti}
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Value returns the current text.
func (m Model) Value() string {
	return m.input.Value()
}

// Update handles a message.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Submit):
			out := SubmitMsg{Kind: m.cfg.Kind, Subject: m.cfg.Subject, Value: strings.TrimSpace(m.input.Value())}
			return m, func() tea.Msg { return out }
		case key.Matches(msg, keys.Cancel):
			out := CancelMsg{Kind: m.cfg.Kind, Subject: m.cfg.Subject}
			return m, func() tea.Msg { return out }
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// SetSize records the terminal size used by Overlay.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height
	return m
}

// View renders the modal box.
func (m Model) View() string {
	inner := boxWidth - 4
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(m.cfg.Title))
	if m.cfg.Message != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(styles.TextSecondaryColor).Render(wordwrap.String(m.cfg.Message, inner)))
	}
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	hint := m.cfg.Hint
	if hint == "" {
		hint = "enter save • esc cancel"
	}
	b.WriteString(styles.MutedStyle.Render(wordwrap.String(hint, inner)))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Padding(0, 1).
		Width(boxWidth).
		Render(b.String())
}

// Overlay centres the modal over the terminal. The board underneath is
// replaced rather than composited.
func (m Model) Overlay() string {
	if m.width == 0 || m.height == 0 {
		return m.View()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.View())
}
