package board

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/soundpad/internal/soundboard/application"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"
	"github.com/zjrosen/soundpad/internal/ui/styles"
)

// buttonWidth is the outer width of one sound button, border included.
const buttonWidth = 24

// buttonHeight is the outer height of one sound button.
const buttonHeight = 3

// hitKind says which part of a button a pointer is over.
type hitKind int

const (
	hitNone hitKind = iota
	hitButton
	hitLabel
	hitDelete
)

// hit is the result of a pointer hit test.
type hit struct {
	kind hitKind
	name string
}

// soundButton wraps an entry for rendering.
type soundButton struct {
	application.Entry
}

// zoneIDs returns the zone ids for the name, label and delete segments.
func zoneIDs(prefix string, slot int) (btn, lbl, del string) {
	s := strconv.Itoa(slot)
	return prefix + "btn:" + s, prefix + "lbl:" + s, prefix + "del:" + s
}

// Title returns the text shown for the sound.
func (b soundButton) Title() string {
	if b.Playing {
		return "▶ " + b.Name
	}
	return b.Name
}

// render draws the button. The inner line is "[label] name x" with each
// segment in its own zone.
func (b soundButton) render(zones *zone.Manager, prefix string, selected, grabbed bool) string {
	btnID, lblID, delID := zoneIDs(prefix, b.Slot)
	inner := buttonWidth - 4

	label := ansi.Truncate(b.Label, inner/2, "…")
	nameWidth := max(inner-ansi.StringWidth(label)-3, 1)

	line := zones.Mark(lblID, styles.HotkeyStyle.Render(label)) +
		" " + zones.Mark(btnID, styles.FitLeft(b.Title(), nameWidth)) +
		" " + zones.Mark(delID, styles.DeleteStyle.Render("x"))

	custom := b.Partition == domain.PartitionCustom
	return styles.ButtonStyle(custom, selected, b.Playing, grabbed).
		Width(buttonWidth - 2).
		Render(line)
}

// hitTest finds the button segment under the pointer.
func hitTest(zones *zone.Manager, prefix string, entries []application.Entry, msg tea.MouseMsg) hit {
	for _, e := range entries {
		btnID, lblID, delID := zoneIDs(prefix, e.Slot)
		switch {
		case zones.Get(delID).InBounds(msg):
			return hit{kind: hitDelete, name: e.Name}
		case zones.Get(lblID).InBounds(msg):
			return hit{kind: hitLabel, name: e.Name}
		case zones.Get(btnID).InBounds(msg):
			return hit{kind: hitButton, name: e.Name}
		}
	}
	return hit{}
}
