package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandHome_TableDriven(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde path", "~/music/boom.wav", filepath.Join(home, "music", "boom.wav")},
		{"absolute", "/var/lib/soundpad.db", filepath.FromSlash("/var/lib/soundpad.db")},
		{"relative is cleaned", "./data/../soundpad.db", "soundpad.db"},
		{"tilde user not expanded", "~bob/x", "~bob/x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ExpandHome(tc.input))
		})
	}
}

func TestDataDir_HonoursXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", filepath.FromSlash("/tmp/xdg-data"))
	require.Equal(t, filepath.FromSlash("/tmp/xdg-data/soundpad"), DataDir())
	require.Equal(t, filepath.FromSlash("/tmp/xdg-data/soundpad/soundpad.db"), DefaultDBPath())
	require.Equal(t, filepath.FromSlash("/tmp/xdg-data/soundpad/soundpad.log"), DefaultLogPath())
}

func TestConfigDir_HonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", filepath.FromSlash("/tmp/xdg-config"))
	require.Equal(t, filepath.FromSlash("/tmp/xdg-config/soundpad/config.yaml"), DefaultConfigPath())
}
