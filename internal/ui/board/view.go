package board

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/soundpad/internal/soundboard/application"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"
	"github.com/zjrosen/soundpad/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	switch m.overlay {
	case overlayPrompt:
		return m.prompt.Overlay()
	case overlayHelp:
		return m.help.View()
	}
	return m.zones.Scan(m.renderBoard())
}

// columns is how many buttons fit on one panel row.
func (m Model) columns() int {
	return max((m.width-2)/buttonWidth, 1)
}

func (m Model) renderBoard() string {
	footer := []string{m.footer.View(keys)}
	if m.showStatus {
		footer = append([]string{m.renderStatus()}, footer...)
	}
	avail := max(m.height-len(footer), 6)
	cols := m.columns()

	base, custom := m.snap.Base(), m.snap.Custom()
	baseRows := max((len(base)+cols-1)/cols, 1)
	baseH := min(baseRows*buttonHeight+2, max(avail-buttonHeight-2, buttonHeight+2))
	customH := max(avail-baseH, buttonHeight+2)

	inCustom := m.sel >= domain.BaseSlots
	basePanel := m.renderPanel("Base", base, cols, baseH, !inCustom,
		fmt.Sprintf("%d/%d", len(base), domain.BaseSlots),
		"No sounds yet. Press ctrl+o to add audio files, f1 for help.")
	customPanel := m.renderPanel("Custom", custom, cols, customH, inCustom && len(custom) > 0,
		fmt.Sprintf("%d", len(custom)),
		"Sounds past the ninth land here. Give them a hotkey with ctrl+e.")

	return lipgloss.JoinVertical(lipgloss.Left, append([]string{basePanel, customPanel}, footer...)...)
}

// renderPanel draws one partition. When it has more rows than fit, the
// window scrolls to keep the selection visible.
func (m Model) renderPanel(title string, entries []application.Entry, cols, height int, focused bool, info, empty string) string {
	if len(entries) == 0 {
		return styles.RenderPanel(styles.MutedStyle.Render(empty), title, "", m.width, height, focused)
	}

	visible := max((height-2)/buttonHeight, 1)
	total := (len(entries) + cols - 1) / cols
	first := 0
	for i, e := range entries {
		if e.Slot == m.sel && i/cols >= visible {
			first = i/cols - visible + 1
		}
	}
	if total > visible {
		info = fmt.Sprintf("%s • rows %d-%d of %d", info, first+1, min(first+visible, total), total)
	}

	rows := make([]string, 0, visible)
	for r := first; r < min(first+visible, total); r++ {
		row := entries[r*cols : min((r+1)*cols, len(entries))]
		cells := make([]string, 0, len(row))
		for _, e := range row {
			cells = append(cells, soundButton{e}.render(m.zones, m.prefix, e.Slot == m.sel, m.isGrabbed(e.Name)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return styles.RenderPanel(strings.Join(rows, "\n"), title, info, m.width, height, focused)
}

func (m Model) isGrabbed(name string) bool {
	return m.grabbed == name || (m.press != nil && m.press.name == name)
}

// renderStatus is the status message on the left and the selected sound on
// the right.
func (m Model) renderStatus() string {
	var right string
	if e, ok := m.selectedEntry(); ok {
		parts := []string{e.Name, e.Label, styles.FormatBytes(e.Size)}
		if e.MIME != "" {
			parts = append(parts, e.MIME)
		}
		right = strings.Join(parts, " • ")
	}
	if m.grabbed != "" {
		right = "moving " + m.grabbed
	}
	right = ansi.Truncate(right, m.width/2, "…")

	left := styles.FitLeft(m.status, max(m.width-ansi.StringWidth(right)-1, 0))
	switch m.statusKind {
	case statusWarn:
		left = lipgloss.NewStyle().Foreground(styles.StatusWarningColor).Render(left)
	case statusError:
		left = styles.ErrorStyle.Render(left)
	default:
		left = styles.StatusBarStyle.Render(left)
	}
	return left + " " + styles.MutedStyle.Render(right)
}

func (m Model) selectedEntry() (application.Entry, bool) {
	if m.sel < 0 || m.sel >= m.snap.Len() {
		return application.Entry{}, false
	}
	return m.snap.Entries[m.sel], true
}
