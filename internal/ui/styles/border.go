package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Rounded border pieces.
const (
	borderTopLeft     = "╭"
	borderTopRight    = "╮"
	borderBottomLeft  = "╰"
	borderBottomRight = "╯"
	borderHorizontal  = "─"
	borderVertical    = "│"
)

// RenderPanel draws content in a rounded box of exactly width x height cells
// with title on the left of the top border and info on the right. Either may
// be "". The border takes BorderFocusColor when focused.
func RenderPanel(content, title, info string, width, height int, focused bool) string {
	borderColor := BorderDefaultColor
	if focused {
		borderColor = BorderFocusColor
	}
	border := lipgloss.NewStyle().Foreground(borderColor)
	titles := lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(true)

	inner := max(width-2, 1)
	rows := max(height-2, 1)

	body := lipgloss.NewStyle().Width(inner).Height(rows).MaxHeight(rows).Render(content)
	lines := strings.Split(body, "\n")

	var b strings.Builder
	b.WriteString(topBorder(title, info, inner, border, titles))
	for i := range rows {
		var line string
		if i < len(lines) {
			line = ansi.Truncate(lines[i], inner, "")
		}
		if w := lipgloss.Width(line); w < inner {
			line += strings.Repeat(" ", inner-w)
		}
		b.WriteString("\n" + border.Render(borderVertical) + line + border.Render(borderVertical))
	}
	b.WriteString("\n" + border.Render(borderBottomLeft+strings.Repeat(borderHorizontal, inner)+borderBottomRight))
	return b.String()
}

// topBorder builds ╭─ title ───── info ─╮. When both do not fit, info is
// dropped first and then title is truncated.
func topBorder(title, info string, inner int, border, titles lipgloss.Style) string {
	plain := func() string {
		return border.Render(borderTopLeft + strings.Repeat(borderHorizontal, inner) + borderTopRight)
	}
	if title == "" && info == "" {
		return plain()
	}

	// "─ " + title + " " ... " " + info + " ─"
	if title != "" && info != "" && inner < lipgloss.Width(title)+lipgloss.Width(info)+7 {
		info = ""
	}
	if title != "" {
		if avail := inner - 4; avail < 1 {
			return plain()
		} else if lipgloss.Width(title) > avail {
			title = ansi.Truncate(title, avail, "…")
		}
	} else if inner < lipgloss.Width(info)+4 {
		return plain()
	}

	used := 0
	var b strings.Builder
	b.WriteString(border.Render(borderTopLeft))
	if title != "" {
		b.WriteString(border.Render(borderHorizontal+" ") + titles.Render(title) + border.Render(" "))
		used += lipgloss.Width(title) + 3
	}
	tail := ""
	if info != "" {
		tail = border.Render(" ") + titles.Render(info) + border.Render(" "+borderHorizontal)
		used += lipgloss.Width(info) + 3
	}
	b.WriteString(border.Render(strings.Repeat(borderHorizontal, max(inner-used, 0))))
	b.WriteString(tail)
	b.WriteString(border.Render(borderTopRight))
	return b.String()
}
