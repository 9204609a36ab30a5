package board

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/zjrosen/soundpad/internal/ui/help"
)

// keyMap holds the board bindings. Only arrows and control keys are bound so
// every printable character stays free for hotkeys.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Toggle  key.Binding
	Grab    key.Binding
	Cancel  key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Upload  key.Binding
	EditAll key.Binding
	Stop    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
	Down:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
	Left:    key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
	Right:   key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
	Toggle:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play/stop")),
	Grab:    key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "grab/drop")),
	Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel grab")),
	Edit:    key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "edit hotkey")),
	Delete:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "delete")),
	Upload:  key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "add files")),
	EditAll: key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "edit all hotkeys")),
	Stop:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "stop")),
	Help:    key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}

// ShortHelp implements help.KeyMap for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Grab, k.Edit, k.Delete, k.Upload, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.Stop},
		{k.Grab, k.Cancel},
		{k.Edit, k.EditAll, k.Delete, k.Upload},
		{k.Help, k.Quit},
	}
}

func helpSections() []help.Section {
	return []help.Section{
		{Title: "Navigate", Bindings: []key.Binding{keys.Up, keys.Down, keys.Left, keys.Right}},
		{
			Title:    "Play",
			Bindings: []key.Binding{keys.Toggle, keys.Stop},
			Notes: []string{
				"Digits 1-9 play the sound in that slot.",
				"Any other letter or digit plays the sound with that hotkey.",
				"Pressing the key of the playing sound stops it.",
			},
		},
		{
			Title:    "Arrange",
			Bindings: []key.Binding{keys.Grab, keys.Cancel},
			Notes: []string{
				"Grab a sound, move to another and drop to swap them. Hotkeys travel with their sounds.",
			},
		},
		{Title: "Edit", Bindings: []key.Binding{keys.Edit, keys.EditAll, keys.Delete, keys.Upload}},
		{
			Title: "Mouse",
			Notes: []string{
				"Click a sound to play or stop it.",
				"Drag a sound onto another to swap them.",
				"Click the label to edit the hotkey, click `x` to delete.",
			},
		},
		{Title: "Other", Bindings: []key.Binding{keys.Help, keys.Quit}},
	}
}
