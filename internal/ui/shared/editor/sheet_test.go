package editor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEncodeSheet_KeepsOrder(t *testing.T) {
	out, err := EncodeSheet([]Row{{"tada", ""}, {"boom", "Q"}, {"click", "1"}})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(out, "# Hotkeys"))
	body := out[strings.Index(out, "tada"):]
	require.Equal(t, "tada: \"\"\nboom: \"Q\"\nclick: \"1\"\n", body)
}

func TestDecodeSheet(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]string
	}{
		{"plain", "boom: Q\nclick: \"1\"\n", map[string]string{"boom": "Q", "click": "1"}},
		{"null clears", "boom:\n", map[string]string{"boom": ""}},
		{"empty string clears", "boom: \"\"\n", map[string]string{"boom": ""}},
		{"digits stay strings", "boom: 7\n", map[string]string{"boom": "7"}},
		{"empty document", "", map[string]string{}},
		{"comments only", "# nothing here\n", map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSheet(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeSheet_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"sequence", "- boom\n- click\n"},
		{"nested value", "boom:\n  key: Q\n"},
		{"duplicate", "boom: Q\nboom: W\n"},
		{"invalid yaml", "boom: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSheet(tt.in)
			require.Error(t, err)
		})
	}
}

func TestSheetRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z][a-z0-9 _-]{0,12}`), 0, 12, func(s string) string { return s }).Draw(t, "names")
		rows := make([]Row, len(names))
		want := map[string]string{}
		for i, n := range names {
			k := rapid.SampledFrom([]string{"", "Q", "1", "z", ":", "#"}).Draw(t, "key")
			rows[i] = Row{Name: n, Hotkey: k}
			want[n] = k
		}

		text, err := EncodeSheet(rows)
		if err != nil {
			t.Fatal(err)
		}
		got, err := DecodeSheet(text)
		if err != nil {
			t.Fatalf("decode %q: %v", text, err)
		}
		require.Equal(t, want, got)
	})
}
