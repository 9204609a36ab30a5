package log

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// syncBuffer guards a bytes.Buffer so SafeGo goroutines can write to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestErrorErr_IncludesCategoryAndError(t *testing.T) {
	var buf syncBuffer
	SetOutput(&buf, slog.LevelDebug)
	t.Cleanup(func() { SetOutput(io.Discard, slog.LevelInfo) })

	ErrorErr(CatDB, "Failed to save record", errors.New("disk full"), "key", "soundsData")

	out := buf.String()
	require.Contains(t, out, "cat=db")
	require.Contains(t, out, `error="disk full"`)
	require.Contains(t, out, "key=soundsData")
}

func TestDebug_FilteredAtInfoLevel(t *testing.T) {
	var buf syncBuffer
	SetOutput(&buf, slog.LevelInfo)
	t.Cleanup(func() { SetOutput(io.Discard, slog.LevelInfo) })

	Debug(CatUI, "hidden")
	Info(CatUI, "shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	var buf syncBuffer
	SetOutput(&buf, slog.LevelDebug)
	t.Cleanup(func() { SetOutput(io.Discard, slog.LevelInfo) })

	SafeGo("boom", func() { panic("kaboom") })

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(buf.String()), []byte("kaboom"))
	}, time.Second, 10*time.Millisecond)
	require.Contains(t, buf.String(), "goroutine=boom")
}

func TestInit_EmptyPathIsNoop(t *testing.T) {
	closeFn, err := Init(Options{})
	require.NoError(t, err)
	require.NoError(t, closeFn())
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "soundpad.log")

	closeFn, err := Init(Options{Path: path, Debug: true})
	require.NoError(t, err)

	Debug(CatConfig, "Loaded config", "path", "/tmp/x.yaml")
	require.NoError(t, closeFn())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "Loaded config")
	require.Contains(t, string(content), "cat=config")
}
