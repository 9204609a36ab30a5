package sound

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/zjrosen/soundpad/internal/config"
	"github.com/zjrosen/soundpad/internal/log"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"
)

// ErrNoPlayer is returned when auto-detection finds no player on PATH.
var ErrNoPlayer = errors.New("no audio player found on PATH (tried afplay, paplay, aplay, ffplay, mpv)")

// knownPlayers are probed in order by auto-detection. The file path is
// appended to each argv.
var knownPlayers = [][]string{
	{"afplay"},
	{"paplay"},
	{"aplay", "-q"},
	{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
	{"mpv", "--no-video", "--really-quiet"},
}

var lookPath = exec.LookPath

// ResolvePlayer turns the audio.player setting into an argv.
func ResolvePlayer(player string) ([]string, error) {
	if player != config.PlayerAuto {
		argv := strings.Fields(player)
		if len(argv) == 0 {
			return nil, fmt.Errorf("empty audio player command")
		}
		return argv, nil
	}
	for _, argv := range knownPlayers {
		if _, err := lookPath(argv[0]); err == nil {
			return argv, nil
		}
	}
	return nil, ErrNoPlayer
}

// ExecBackend plays payloads through an external command. Payloads are
// written once to a temp file and reused while they stay in the cache;
// expired files are removed from disk.
type ExecBackend struct {
	argv  []string
	dir   string
	files *cache.Cache
}

// NewExecBackend builds a backend for the audio.player setting. Temp files
// live in dir (os.TempDir when empty) for ttl after their last use.
func NewExecBackend(player string, ttl time.Duration, dir string) (*ExecBackend, error) {
	argv, err := ResolvePlayer(player)
	if err != nil {
		return nil, err
	}
	return newExecBackend(argv, ttl, dir), nil
}

func newExecBackend(argv []string, ttl time.Duration, dir string) *ExecBackend {
	if dir == "" {
		dir = os.TempDir()
	}
	files := cache.New(ttl, ttl)
	files.OnEvicted(func(_ string, v any) {
		removeTemp(v.(string))
	})
	log.Debug(log.CatAudio, "Audio player configured", "argv", strings.Join(argv, " "))
	return &ExecBackend{argv: argv, dir: dir, files: files}
}

// Start implements Backend.
func (b *ExecBackend) Start(ctx context.Context, name string, p domain.Payload) (Playback, error) {
	path, err := b.tempFile(p)
	if err != nil {
		return nil, fmt.Errorf("preparing %q for playback: %w", name, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	args := append(append([]string{}, b.argv[1:]...), path)
	cmd := exec.CommandContext(ctx, b.argv[0], args...) //nolint:gosec // G204: player comes from config
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("starting %s: %w", b.argv[0], err)
	}
	log.Debug(log.CatAudio, "Playback started", "sound", name, "pid", cmd.Process.Pid)

	pb := &procPlayback{cancel: cancel, done: make(chan struct{})}
	log.SafeGo("sound.exec.wait", func() {
		defer close(pb.done)
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			log.Warn(log.CatAudio, "Player exited with error", "sound", name, "error", err)
		}
	})
	return pb, nil
}

// tempFile returns a file holding p, writing it on first use.
func (b *ExecBackend) tempFile(p domain.Payload) (string, error) {
	sum := sha256.Sum256(p.Data)
	key := hex.EncodeToString(sum[:])
	if v, ok := b.files.Get(key); ok {
		path := v.(string)
		if _, err := os.Stat(path); err == nil {
			b.files.SetDefault(key, path)
			return path, nil
		}
	}

	path := filepath.Join(b.dir, "soundpad-"+uuid.NewString()+extensionFor(p.MIME))
	if err := os.WriteFile(path, p.Data, 0o600); err != nil {
		return "", err
	}
	b.files.SetDefault(key, path)
	return path, nil
}

// Close removes every temp file still cached.
func (b *ExecBackend) Close() error {
	for _, item := range b.files.Items() {
		removeTemp(item.Object.(string))
	}
	b.files.Flush()
	return nil
}

func removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn(log.CatAudio, "Failed to remove temp file", "path", path, "error", err)
	}
}

var mimeExtensions = map[string]string{
	"audio/mpeg": ".mp3",
	"audio/wav":  ".wav",
	"audio/wave": ".wav",
	"audio/ogg":  ".ogg",
	"audio/flac": ".flac",
	"audio/aac":  ".aac",
	"audio/mp4":  ".m4a",
	"audio/webm": ".webm",
}

// extensionFor picks a file extension players will recognise.
func extensionFor(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	if ext, ok := mimeExtensions[strings.TrimSpace(base)]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".audio"
}

type procPlayback struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (p *procPlayback) Done() <-chan struct{} { return p.done }

func (p *procPlayback) Stop() {
	p.cancel()
	<-p.done
}
