package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/soundpad/internal/config"
	"github.com/zjrosen/soundpad/internal/infrastructure/sqlite"
	"github.com/zjrosen/soundpad/internal/log"
	"github.com/zjrosen/soundpad/internal/paths"
	"github.com/zjrosen/soundpad/internal/sound"
	"github.com/zjrosen/soundpad/internal/soundboard/application"
	"github.com/zjrosen/soundpad/internal/soundboard/domain"
	"github.com/zjrosen/soundpad/internal/tracing"
)

const envPrefix = "SOUNDPAD"

// localConfigName is looked up in the working directory before the user
// config.
const localConfigName = ".soundpad.yaml"

// mutedDuration is how long a sound "plays" with audio muted.
var mutedDuration = 2 * time.Second

// commandContext carries flags and loaded configuration between commands.
type commandContext struct {
	configFlag string

	cfg        config.Config
	configPath string
	closeLog   func() error

	// opener hands out the process's single store connection.
	opener *sqlite.Opener
}

// load resolves the configuration: defaults, then the config file, then
// SOUNDPAD_* environment variables, then flags.
func (c *commandContext) load(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, config.Defaults())

	flags := cmd.Flags()
	for key, flag := range map[string]string{
		"db_path":     "db",
		"log.debug":   "debug",
		"audio.muted": "mute",
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding --%s: %w", flag, err)
			}
		}
	}

	path, err := c.findConfig()
	if err != nil {
		return err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = paths.DefaultDBPath()
	}
	cfg.DBPath = paths.ExpandHome(cfg.DBPath)
	if cfg.Log.File == "" {
		cfg.Log.File = paths.DefaultLogPath()
	}
	cfg.Log.File = paths.ExpandHome(cfg.Log.File)
	cfg.Tracing.File = paths.ExpandHome(cfg.Tracing.File)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	closeLog, err := log.Init(log.Options{Path: cfg.Log.File, Debug: cfg.Log.Debug})
	if err != nil {
		return err
	}
	c.cfg, c.configPath, c.closeLog = cfg, path, closeLog
	log.Debug(log.CatConfig, "Configuration loaded", "file", path, "db", cfg.DBPath)
	return nil
}

// findConfig returns the --config file, else the first existing default
// location, else "".
func (c *commandContext) findConfig() (string, error) {
	if c.configFlag != "" {
		p := paths.ExpandHome(c.configFlag)
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return p, nil
	}
	for _, p := range []string{localConfigName, paths.DefaultConfigPath()} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("auto_refresh", d.AutoRefresh)
	v.SetDefault("auto_refresh_debounce", d.AutoRefreshDebounce)
	v.SetDefault("audio.player", d.Audio.Player)
	v.SetDefault("audio.muted", d.Audio.Muted)
	v.SetDefault("audio.temp_ttl", d.Audio.TempTTL)
	v.SetDefault("upload.duplicates", d.Upload.Duplicates)
	v.SetDefault("upload.max_bytes", d.Upload.MaxBytes)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file", d.Tracing.File)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("ui.show_status_bar", d.UI.ShowStatusBar)
	v.SetDefault("theme.preset", d.Theme.Preset)
}

func (c *commandContext) close() {
	if c.opener != nil {
		if db, err := c.opener.Open(); err == nil {
			if err := db.Close(); err != nil {
				log.ErrorErr(log.CatDB, "Closing store failed", err)
			}
		}
		c.opener = nil
	}
	if c.closeLog != nil {
		_ = c.closeLog()
		c.closeLog = nil
	}
}

// services is everything a command needs to drive the board. The store
// connection belongs to the commandContext and outlives the services.
type services struct {
	tracing *tracing.Tracing
	store   *sqlite.RecordStore
	player  *sound.Player
	board   *application.Board
}

// open builds the tracer, store, player and board, and loads the board.
func (c *commandContext) open(ctx context.Context) (*services, error) {
	tr, err := tracing.Setup(ctx, c.cfg.Tracing, filepath.Join(paths.DataDir(), "soundpad-trace.jsonl"))
	if err != nil {
		return nil, err
	}
	s := &services{tracing: tr}

	if c.opener == nil {
		c.opener = sqlite.NewOpener(c.cfg.DBPath)
	}
	db, err := c.opener.Open()
	if err != nil {
		log.ErrorErr(log.CatDB, "Opening store failed", err, "path", c.cfg.DBPath)
		_ = s.close(ctx)
		return nil, err
	}
	s.store = db.Records(tr.Tracer("github.com/zjrosen/soundpad/internal/infrastructure/sqlite"))

	backend, err := c.backend()
	if err != nil {
		_ = s.close(ctx)
		return nil, err
	}
	s.player = sound.NewPlayer(backend)

	s.board = application.NewBoard(s.store, s.player, application.Options{
		Duplicates: domain.DuplicatePolicy(c.cfg.Upload.Duplicates),
		MaxBytes:   c.cfg.Upload.MaxBytes,
		Tracer:     tr.Tracer("github.com/zjrosen/soundpad/internal/soundboard/application"),
	})
	if err := s.board.Load(ctx); err != nil {
		_ = s.close(ctx)
		return nil, err
	}
	return s, nil
}

func (c *commandContext) backend() (sound.Backend, error) {
	if c.cfg.Audio.Muted {
		log.Info(log.CatAudio, "Audio muted")
		return sound.NullBackend{Duration: mutedDuration}, nil
	}
	b, err := sound.NewExecBackend(c.cfg.Audio.Player, c.cfg.Audio.TempTTL, "")
	if err != nil {
		return nil, fmt.Errorf("audio: %w (set audio.player or use --mute)", err)
	}
	return b, nil
}

// withServices opens the services, runs fn and closes them.
func (c *commandContext) withServices(ctx context.Context, fn func(*services) error) (err error) {
	s, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, s.close(context.WithoutCancel(ctx)))
	}()
	return fn(s)
}

func (s *services) close(ctx context.Context) error {
	var errs []error
	if s.player != nil {
		errs = append(errs, s.player.Close())
	}
	errs = append(errs, s.tracing.Shutdown(ctx))
	return errors.Join(errs...)
}
