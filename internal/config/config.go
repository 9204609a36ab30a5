// Package config provides configuration types and defaults for soundpad.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Duplicate-name policies for uploads.
const (
	DuplicatesSuffix  = "suffix"
	DuplicatesReplace = "replace"
	DuplicatesReject  = "reject"
)

// Tracing exporters.
const (
	ExporterFile = "file"
	ExporterOTLP = "otlp"
)

// PlayerAuto probes PATH for a known audio player.
const PlayerAuto = "auto"

// Config holds all configuration options for soundpad.
type Config struct {
	DBPath              string        `mapstructure:"db_path" yaml:"db_path"`
	AutoRefresh         bool          `mapstructure:"auto_refresh" yaml:"auto_refresh"`
	AutoRefreshDebounce time.Duration `mapstructure:"auto_refresh_debounce" yaml:"auto_refresh_debounce"`
	Audio               AudioConfig   `mapstructure:"audio" yaml:"audio"`
	Upload              UploadConfig  `mapstructure:"upload" yaml:"upload"`
	Log                 LogConfig     `mapstructure:"log" yaml:"log"`
	Tracing             TracingConfig `mapstructure:"tracing" yaml:"tracing"`
	UI                  UIConfig      `mapstructure:"ui" yaml:"ui"`
	Theme               ThemeConfig   `mapstructure:"theme" yaml:"theme"`
}

// AudioConfig controls the playback backend.
type AudioConfig struct {
	// Player is "auto" or a command line; the temp file path is appended.
	Player string `mapstructure:"player" yaml:"player"`
	Muted  bool   `mapstructure:"muted" yaml:"muted"`
	// TempTTL is how long an extracted payload file is kept for replay.
	TempTTL time.Duration `mapstructure:"temp_ttl" yaml:"temp_ttl"`
}

// UploadConfig controls batch uploads.
type UploadConfig struct {
	Duplicates string `mapstructure:"duplicates" yaml:"duplicates"`
	MaxBytes   int64  `mapstructure:"max_bytes" yaml:"max_bytes"`
}

// LogConfig controls the log file.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Debug bool   `mapstructure:"debug" yaml:"debug"`
}

// TracingConfig controls OpenTelemetry tracing.
type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Exporter string `mapstructure:"exporter" yaml:"exporter"`
	File     string `mapstructure:"file" yaml:"file"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool `mapstructure:"show_status_bar" yaml:"show_status_bar"`
}

// ThemeConfig holds theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "", "default", "high-contrast", "mono"
	Preset string `mapstructure:"preset" yaml:"preset"`

	// Colors overrides individual color tokens, e.g. "button.playing".
	Colors map[string]string `mapstructure:"colors" yaml:"colors,omitempty"`
}

// Defaults returns a Config with sensible default values.
// DBPath and Log.File are left empty; callers fill them from the paths package.
func Defaults() Config {
	return Config{
		AutoRefresh:         true,
		AutoRefreshDebounce: 250 * time.Millisecond,
		Audio: AudioConfig{
			Player:  PlayerAuto,
			TempTTL: 10 * time.Minute,
		},
		Upload: UploadConfig{
			Duplicates: DuplicatesSuffix,
			MaxBytes:   10 << 20,
		},
		Tracing: TracingConfig{
			Exporter: ExporterFile,
			Endpoint: "localhost:4317",
		},
		UI: UIConfig{
			ShowStatusBar: true,
		},
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	switch c.Upload.Duplicates {
	case DuplicatesSuffix, DuplicatesReplace, DuplicatesReject:
	default:
		return fmt.Errorf("upload.duplicates: unknown policy %q (want suffix, replace or reject)", c.Upload.Duplicates)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive, got %d", c.Upload.MaxBytes)
	}
	if strings.TrimSpace(c.Audio.Player) == "" {
		return fmt.Errorf("audio.player is required (use %q to detect)", PlayerAuto)
	}
	if c.AutoRefreshDebounce < 0 {
		return fmt.Errorf("auto_refresh_debounce must not be negative")
	}
	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case ExporterFile:
		case ExporterOTLP:
			if c.Tracing.Endpoint == "" {
				return fmt.Errorf("tracing.endpoint is required for the otlp exporter")
			}
		default:
			return fmt.Errorf("tracing.exporter: unknown exporter %q", c.Tracing.Exporter)
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Soundpad Configuration

# SQLite database holding your sounds and hotkeys
# db_path: ~/.local/share/soundpad/soundpad.db

# Reload when another soundpad process changes the database
auto_refresh: true
auto_refresh_debounce: 250ms

audio:
  # "auto" tries afplay, paplay, aplay, ffplay and mpv in that order.
  # Anything else is run as a command line with the sound file appended:
  # player: "mpv --no-video --really-quiet"
  player: auto
  muted: false
  temp_ttl: 10m

upload:
  # What to do when an uploaded file has the same name as an existing sound:
  #   suffix  - keep both, the new one becomes "name-2"
  #   replace - overwrite the existing sound in place
  #   reject  - refuse the whole batch
  duplicates: suffix
  max_bytes: 10485760

log:
  # file: ~/.local/share/soundpad/soundpad.log
  debug: false

tracing:
  enabled: false
  exporter: file         # file | otlp
  # file: /tmp/soundpad-trace.json
  endpoint: localhost:4317

ui:
  show_status_bar: true

theme:
  # preset: high-contrast
  #
  # Available presets:
  #   default        - Default soundpad theme
  #   high-contrast  - High contrast for accessibility
  #   mono           - No colors, bold/underline only
  #
  # colors:
  #   button.playing: "#73F59F"
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
