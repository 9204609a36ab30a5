// Package board is the main soundboard screen: the Base and Custom panels,
// keyboard dispatch, mouse gestures and the modals they open.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bubbleshelp "github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/soundpad/internal/log"
	"github.com/zjrosen/soundpad/internal/sound"
	"github.com/zjrosen/soundpad/internal/soundboard/application"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"
	"github.com/zjrosen/soundpad/internal/ui/help"
	"github.com/zjrosen/soundpad/internal/ui/prompt"
	"github.com/zjrosen/soundpad/internal/ui/shared/editor"
)

// Service is the part of the soundboard the screen drives.
type Service interface {
	Snapshot() application.Snapshot
	Upload(ctx context.Context, paths []string) ([]string, error)
	Delete(ctx context.Context, name string) error
	Assign(ctx context.Context, name, input string) error
	EditHotkey(ctx context.Context, name string, input *string) (bool, error)
	ApplyHotkeys(ctx context.Context, sheet map[string]string) (bool, error)
	Reorder(ctx context.Context, source, target string) (bool, error)
	Toggle(ctx context.Context, name string) (sound.State, error)
	Stop()
	Dispatch(ctx context.Context, key string) (string, error)
	Reload(ctx context.Context) (bool, error)
}

// Config wires a Model.
type Config struct {
	Service Service
	// Zones tracks mouse regions. A fresh manager is created when nil.
	Zones *zone.Manager
	// Context bounds every store and playback call. Defaults to Background.
	Context       context.Context
	ShowStatusBar bool
}

// PlaybackEndedMsg reports that a sound finished on its own.
type PlaybackEndedMsg struct {
	Name string
}

// StoreChangedMsg reports that the store was written by someone else.
type StoreChangedMsg struct{}

type opDoneMsg struct {
	status string
	err    error
}

type toggledMsg struct {
	name string
	err  error
}

type reloadedMsg struct {
	changed bool
	err     error
}

type overlay int

const (
	overlayNone overlay = iota
	overlayPrompt
	overlayHelp
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusWarn
	statusError
)

// Prompt kinds.
const (
	kindAssign = "assign"
	kindEdit   = "edit"
	kindUpload = "upload"
)

// Model is the board screen.
type Model struct {
	svc        Service
	ctx        context.Context
	zones      *zone.Manager
	prefix     string
	showStatus bool

	snap    application.Snapshot
	sel     int
	grabbed string
	press   *hit

	overlay overlay
	prompt  prompt.Model
	help    help.Model
	footer  bubbleshelp.Model

	status     string
	statusKind statusKind
	width      int
	height     int
}

// New builds the screen from the service's current snapshot.
func New(cfg Config) Model {
	zones := cfg.Zones
	if zones == nil {
		zones = zone.New()
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		svc:        cfg.Service,
		ctx:        ctx,
		zones:      zones,
		prefix:     zones.NewPrefix(),
		showStatus: cfg.ShowStatusBar,
		footer:     bubbleshelp.New(),
		width:      80,
		height:     24,
	}
	return m.refresh()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the terminal size.
func (m Model) SetSize(width, height int) Model {
	m.width, m.height = width, height
	m.footer.Width = width
	m.prompt = m.prompt.SetSize(width, height)
	if m.overlay == overlayHelp {
		m.help = m.help.SetSize(width, height)
	}
	return m
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil

	case prompt.SubmitMsg:
		m.overlay = overlayNone
		return m.answer(msg)

	case prompt.CancelMsg:
		m.overlay = overlayNone
		return m, nil

	case help.CloseMsg:
		m.overlay = overlayNone
		return m, nil

	case editor.ExecMsg:
		return m, msg.ExecCmd()

	case editor.FinishedMsg:
		return m.applySheet(msg)

	case opDoneMsg:
		m = m.refresh()
		return m.report(msg.status, msg.err), nil

	case toggledMsg:
		m = m.refresh()
		if msg.err != nil {
			return m.report("", msg.err), nil
		}
		if m.snap.Playing == msg.name {
			return m.report("Playing "+msg.name, nil), nil
		}
		return m.report("Stopped "+msg.name, nil), nil

	case PlaybackEndedMsg:
		return m.refresh(), nil

	case StoreChangedMsg:
		return m, m.reloadCmd()

	case reloadedMsg:
		if msg.err != nil {
			return m.report("", msg.err), nil
		}
		if !msg.changed {
			return m, nil
		}
		m = m.refresh()
		return m.report("Board updated from disk", nil), nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, keys.Quit) {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.overlay {
	case overlayPrompt:
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	case overlayHelp:
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Help):
		m.overlay = overlayHelp
		m.help = help.New(helpSections()).SetSize(m.width, m.height)
		return m, nil
	case key.Matches(msg, keys.Up):
		return m.move(0, -1), nil
	case key.Matches(msg, keys.Down):
		return m.move(0, 1), nil
	case key.Matches(msg, keys.Left):
		return m.move(-1, 0), nil
	case key.Matches(msg, keys.Right):
		return m.move(1, 0), nil
	case key.Matches(msg, keys.Toggle):
		if m.grabbed != "" {
			return m.drop()
		}
		if name, ok := m.selected(); ok {
			return m, m.toggleCmd(name)
		}
		return m, nil
	case key.Matches(msg, keys.Grab):
		if m.grabbed != "" {
			return m.drop()
		}
		if name, ok := m.selected(); ok {
			m.grabbed = name
			return m.report("Moving "+name+": pick a spot and press ctrl+g", nil), nil
		}
		return m, nil
	case key.Matches(msg, keys.Cancel):
		if m.grabbed != "" {
			m.grabbed = ""
			return m.report("Move cancelled", nil), nil
		}
		return m, nil
	case key.Matches(msg, keys.Edit):
		if name, ok := m.selected(); ok {
			return m.openHotkeyPrompt(name)
		}
		return m, nil
	case key.Matches(msg, keys.Delete):
		if name, ok := m.selected(); ok {
			return m, m.deleteCmd(name)
		}
		return m, nil
	case key.Matches(msg, keys.Upload):
		return m.openPrompt(prompt.Config{
			Kind:        kindUpload,
			Title:       "Add sounds",
			Message:     "Audio files to add, separated by spaces.",
			Placeholder: "~/sfx/*.wav",
			Hint:        "Globs and ~ are expanded • enter add • esc cancel",
		})
	case key.Matches(msg, keys.EditAll):
		return m.openSheet()
	case key.Matches(msg, keys.Stop):
		return m, m.stopCmd()
	}

	switch msg.Type {
	case tea.KeyRunes:
		if msg.Paste || len(msg.Runes) == 0 {
			return m, nil
		}
		return m, m.dispatchCmd(string(msg.Runes))
	case tea.KeySpace:
		return m, m.dispatchCmd(" ")
	}
	return m, nil
}

// handleMouse implements click and drag. A press picks the sound under the
// pointer; the release decides what happens. Releasing on a different sound
// swaps the two, releasing outside every button does nothing.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		h := hitTest(m.zones, m.prefix, m.snap.Entries, msg)
		if h.kind == hitNone {
			m.press = nil
			return m, nil
		}
		m.press = &h
		if e, ok := m.snap.Find(h.name); ok {
			m.sel = e.Slot
		}
		return m, nil

	case tea.MouseActionRelease:
		press := m.press
		m.press = nil
		if press == nil {
			return m, nil
		}
		h := hitTest(m.zones, m.prefix, m.snap.Entries, msg)
		switch {
		case h.kind == hitNone:
			return m, nil
		case h.name != press.name:
			return m, m.reorderCmd(press.name, h.name)
		case press.kind == hitDelete && h.kind == hitDelete:
			return m, m.deleteCmd(h.name)
		case press.kind == hitLabel && h.kind == hitLabel:
			return m.openHotkeyPrompt(h.name)
		case press.kind == hitButton && h.kind == hitButton:
			return m, m.toggleCmd(h.name)
		}
	}
	return m, nil
}

// move shifts the selection. Horizontal moves walk the slot order; vertical
// moves stay on the grid and cross between the panels.
func (m Model) move(dx, dy int) Model {
	n := m.snap.Len()
	if n == 0 {
		return m
	}
	if dx != 0 {
		m.sel = min(max(m.sel+dx, 0), n-1)
		return m
	}
	cols := m.columns()
	start, size := 0, min(n, domain.BaseSlots)
	if m.sel >= domain.BaseSlots {
		start, size = domain.BaseSlots, n-domain.BaseSlots
	}
	j := m.sel - start
	col := j % cols
	t := j + dy*cols
	switch {
	case t >= 0 && t < size:
		m.sel = start + t
	case dy > 0 && start == 0 && n > domain.BaseSlots:
		m.sel = domain.BaseSlots + min(col, n-domain.BaseSlots-1)
	case dy < 0 && start == domain.BaseSlots:
		last := (domain.BaseSlots - 1) / cols * cols
		m.sel = min(last+col, domain.BaseSlots-1)
	}
	return m
}

func (m Model) selected() (string, bool) {
	e, ok := m.selectedEntry()
	return e.Name, ok
}

func (m Model) drop() (tea.Model, tea.Cmd) {
	source := m.grabbed
	m.grabbed = ""
	target, ok := m.selected()
	if !ok || target == source {
		return m.report("Move cancelled", nil), nil
	}
	return m, m.reorderCmd(source, target)
}

// refresh re-reads the snapshot and keeps the selection in range.
func (m Model) refresh() Model {
	m.snap = m.svc.Snapshot()
	m.sel = min(m.sel, m.snap.Len()-1)
	m.sel = max(m.sel, 0)
	if m.grabbed != "" {
		if _, ok := m.snap.Find(m.grabbed); !ok {
			m.grabbed = ""
		}
	}
	return m
}

// report sets the status line from an outcome.
func (m Model) report(status string, err error) Model {
	if err == nil {
		m.status, m.statusKind = status, statusInfo
		return m
	}
	var (
		ve *domain.ValidationError
		nf *domain.SoundNotFoundError
		pe *domain.PersistenceError
	)
	switch {
	case errors.As(err, &ve):
		m.status, m.statusKind = ve.Message, statusWarn
	case errors.As(err, &nf):
		m.status, m.statusKind = fmt.Sprintf("No sound named %q", nf.Name), statusWarn
	case errors.As(err, &pe):
		log.ErrorErr(log.CatDB, "Store access failed", err, "op", pe.Op)
		verb := "load"
		if pe.Op == "save" {
			verb = "save"
		}
		m.status, m.statusKind = fmt.Sprintf("Could not %s: %v", verb, pe.Err), statusError
	default:
		log.ErrorErr(log.CatUI, "Action failed", err)
		m.status, m.statusKind = err.Error(), statusError
	}
	return m
}

func (m Model) openPrompt(cfg prompt.Config) (tea.Model, tea.Cmd) {
	m.overlay = overlayPrompt
	m.prompt = prompt.New(cfg).SetSize(m.width, m.height)
	return m, m.prompt.Init()
}

// openHotkeyPrompt asks for a new hotkey. A sound with a hotkey gets the
// edit prompt, pre-filled, where an empty answer removes it.
func (m Model) openHotkeyPrompt(name string) (tea.Model, tea.Cmd) {
	e, ok := m.snap.Find(name)
	if !ok {
		return m, nil
	}
	cfg := prompt.Config{
		Kind:      kindAssign,
		Subject:   name,
		Title:     "Assign hotkey",
		Message:   fmt.Sprintf("Hotkey for %q", name),
		CharLimit: 4,
		Hint:      "A single letter or digit • enter save • esc cancel",
	}
	if e.Hotkey != "" {
		cfg.Kind = kindEdit
		cfg.Title = "Edit hotkey"
		cfg.Value = e.Hotkey
		cfg.Hint = "A single letter or digit, or leave empty to remove • esc cancel"
	}
	return m.openPrompt(cfg)
}

func (m Model) answer(msg prompt.SubmitMsg) (tea.Model, tea.Cmd) {
	switch msg.Kind {
	case kindAssign:
		return m, m.assignCmd(msg.Subject, msg.Value)
	case kindEdit:
		return m, m.editCmd(msg.Subject, msg.Value)
	case kindUpload:
		paths, err := expandPaths(msg.Value)
		if err != nil {
			return m.report("", err), nil
		}
		if len(paths) == 0 {
			return m.report("Nothing to add", nil), nil
		}
		return m, m.uploadCmd(paths)
	}
	return m, nil
}

func (m Model) openSheet() (tea.Model, tea.Cmd) {
	if m.snap.Len() == 0 {
		return m.report("No sounds to edit", nil), nil
	}
	rows := make([]editor.Row, 0, m.snap.Len())
	for _, e := range m.snap.Entries {
		rows = append(rows, editor.Row{Name: e.Name, Hotkey: e.Hotkey})
	}
	text, err := editor.EncodeSheet(rows)
	if err != nil {
		return m.report("", err), nil
	}
	return m, editor.OpenCmd(text, editor.SheetPattern)
}

func (m Model) applySheet(msg editor.FinishedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		return m.report("", msg.Err), nil
	}
	sheet, err := editor.DecodeSheet(msg.Content)
	if err != nil {
		return m.report("", &domain.ValidationError{Field: "sheet", Message: err.Error()}), nil
	}
	svc, ctx := m.svc, m.ctx
	return m, func() tea.Msg {
		changed, err := svc.ApplyHotkeys(ctx, sheet)
		if err != nil || !changed {
			return opDoneMsg{status: "No hotkey changes", err: err}
		}
		return opDoneMsg{status: "Hotkeys updated"}
	}
}

func (m Model) toggleCmd(name string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		_, err := svc.Toggle(ctx, name)
		return toggledMsg{name: name, err: err}
	}
}

// dispatchCmd sends a key press to the board. Keys that match nothing
// produce no message.
func (m Model) dispatchCmd(k string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		name, err := svc.Dispatch(ctx, k)
		if name == "" && err == nil {
			return nil
		}
		return toggledMsg{name: name, err: err}
	}
}

func (m Model) stopCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		svc.Stop()
		return opDoneMsg{status: "Stopped"}
	}
}

func (m Model) deleteCmd(name string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if err := svc.Delete(ctx, name); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{status: "Deleted " + name}
	}
}

func (m Model) reorderCmd(source, target string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		changed, err := svc.Reorder(ctx, source, target)
		if err != nil || !changed {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{status: fmt.Sprintf("Swapped %s and %s", source, target)}
	}
}

func (m Model) assignCmd(name, value string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if err := svc.Assign(ctx, name, value); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{status: fmt.Sprintf("Hotkey of %s set to %s", name, strings.ToUpper(value))}
	}
}

func (m Model) editCmd(name, value string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if _, err := svc.EditHotkey(ctx, name, &value); err != nil {
			return opDoneMsg{err: err}
		}
		if value == "" {
			return opDoneMsg{status: "Hotkey of " + name + " removed"}
		}
		return opDoneMsg{status: fmt.Sprintf("Hotkey of %s set to %s", name, strings.ToUpper(value))}
	}
}

func (m Model) uploadCmd(paths []string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		names, err := svc.Upload(ctx, paths)
		if err != nil {
			return opDoneMsg{err: err}
		}
		if len(names) == 1 {
			return opDoneMsg{status: "Added " + names[0]}
		}
		return opDoneMsg{status: fmt.Sprintf("Added %d sounds", len(names))}
	}
}

func (m Model) reloadCmd() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		changed, err := svc.Reload(ctx)
		return reloadedMsg{changed: changed, err: err}
	}
}
