// Package editor round-trips text through the user's external editor.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// FinishedMsg is sent when the external editor closes.
type FinishedMsg struct {
	Content string
	Err     error
}

// ExecMsg carries the prepared editor command. The parent handles it by
// returning msg.ExecCmd() from Update.
type ExecMsg struct {
	cmd     *exec.Cmd
	tmpPath string
}

// Command returns the editor command line from $VISUAL, then $EDITOR, then
// vi. Values with arguments such as "code --wait" are split on spaces.
func Command() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}

// OpenCmd writes content to a temp file with the given pattern and prepares
// the editor on it.
func OpenCmd(content, pattern string) tea.Cmd {
	return func() tea.Msg {
		tmpFile, err := os.CreateTemp("", pattern)
		if err != nil {
			return FinishedMsg{Err: fmt.Errorf("creating temp file: %w", err)}
		}
		tmpPath := tmpFile.Name()

		if _, err := tmpFile.WriteString(content); err != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
			return FinishedMsg{Err: fmt.Errorf("writing temp file: %w", err)}
		}
		if err := tmpFile.Close(); err != nil {
			_ = os.Remove(tmpPath)
			return FinishedMsg{Err: fmt.Errorf("closing temp file: %w", err)}
		}

		argv := append(Command(), tmpPath)
		// #nosec G204 -- editor command comes from VISUAL/EDITOR or is "vi"
		cmd := exec.Command(argv[0], argv[1:]...)
		return ExecMsg{cmd: cmd, tmpPath: tmpPath}
	}
}

// ExecCmd suspends the program, runs the editor and reads the file back.
// The temp file is always removed.
func (msg ExecMsg) ExecCmd() tea.Cmd {
	return tea.ExecProcess(msg.cmd, func(err error) tea.Msg {
		defer func() { _ = os.Remove(msg.tmpPath) }()
		if err != nil {
			return FinishedMsg{Err: fmt.Errorf("running editor: %w", err)}
		}
		return readBack(msg.tmpPath)
	})
}

func readBack(path string) FinishedMsg {
	content, err := os.ReadFile(path)
	if err != nil {
		return FinishedMsg{Err: fmt.Errorf("reading edited file: %w", err)}
	}
	return FinishedMsg{Content: strings.TrimRight(string(content), "\n")}
}
