// Package styles holds the Lip Gloss palette and shared renderers.
package styles

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ColorToken names one themable color.
type ColorToken string

// Color tokens. Config overrides use these names.
const (
	TokenTextPrimary    ColorToken = "text.primary"
	TokenTextSecondary  ColorToken = "text.secondary"
	TokenTextMuted      ColorToken = "text.muted"
	TokenStatusSuccess  ColorToken = "status.success"
	TokenStatusWarning  ColorToken = "status.warning"
	TokenStatusError    ColorToken = "status.error"
	TokenBorderDefault  ColorToken = "border.default"
	TokenBorderFocus    ColorToken = "border.focus"
	TokenButtonBase     ColorToken = "button.base"
	TokenButtonCustom   ColorToken = "button.custom"
	TokenButtonPlaying  ColorToken = "button.playing"
	TokenButtonSelected ColorToken = "button.selected"
	TokenButtonGrabbed  ColorToken = "button.grabbed"
	TokenHotkeyLabel    ColorToken = "hotkey.label"
	TokenDelete         ColorToken = "delete"
)

// Preset is a named built-in theme.
type Preset struct {
	Name        string
	Description string
	Colors      map[ColorToken]string
}

// DefaultPreset is applied first; other presets and overrides layer on top.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Soft dark palette",
	Colors: map[ColorToken]string{
		TokenTextPrimary:    "#E6E6E6",
		TokenTextSecondary:  "#A8A8B3",
		TokenTextMuted:      "#6C6C7A",
		TokenStatusSuccess:  "#7CCB8A",
		TokenStatusWarning:  "#E5C07B",
		TokenStatusError:    "#E06C75",
		TokenBorderDefault:  "#4B4B5A",
		TokenBorderFocus:    "#61AFEF",
		TokenButtonBase:     "#2F3B52",
		TokenButtonCustom:   "#3B2F52",
		TokenButtonPlaying:  "#2E7D4F",
		TokenButtonSelected: "#61AFEF",
		TokenButtonGrabbed:  "#E5C07B",
		TokenHotkeyLabel:    "#C678DD",
		TokenDelete:         "#E06C75",
	},
}

// Presets lists the built-in themes by name.
var Presets = map[string]Preset{
	"default": DefaultPreset,
	"high-contrast": {
		Name:        "high-contrast",
		Description: "Maximum contrast for bright rooms and projectors",
		Colors: map[ColorToken]string{
			TokenTextPrimary:    "#FFFFFF",
			TokenTextSecondary:  "#FFFFFF",
			TokenTextMuted:      "#C0C0C0",
			TokenBorderDefault:  "#FFFFFF",
			TokenBorderFocus:    "#FFFF00",
			TokenButtonBase:     "#000080",
			TokenButtonCustom:   "#800080",
			TokenButtonPlaying:  "#008000",
			TokenButtonSelected: "#FFFF00",
			TokenButtonGrabbed:  "#FF8000",
			TokenHotkeyLabel:    "#00FFFF",
		},
	},
	"mono": {
		Name:        "mono",
		Description: "Greys only",
		Colors: map[ColorToken]string{
			TokenTextPrimary:    "#FFFFFF",
			TokenTextSecondary:  "#BBBBBB",
			TokenTextMuted:      "#777777",
			TokenStatusSuccess:  "#FFFFFF",
			TokenStatusWarning:  "#BBBBBB",
			TokenStatusError:    "#FFFFFF",
			TokenBorderDefault:  "#555555",
			TokenBorderFocus:    "#FFFFFF",
			TokenButtonBase:     "#333333",
			TokenButtonCustom:   "#444444",
			TokenButtonPlaying:  "#888888",
			TokenButtonSelected: "#FFFFFF",
			TokenButtonGrabbed:  "#BBBBBB",
			TokenHotkeyLabel:    "#FFFFFF",
			TokenDelete:         "#BBBBBB",
		},
	},
}

// ThemeConfig mirrors the theme section of the config file.
type ThemeConfig struct {
	Preset string
	Colors map[string]string
}

// Palette colors. ApplyTheme rewrites them.
var (
	TextPrimaryColor    lipgloss.AdaptiveColor
	TextSecondaryColor  lipgloss.AdaptiveColor
	TextMutedColor      lipgloss.AdaptiveColor
	StatusSuccessColor  lipgloss.AdaptiveColor
	StatusWarningColor  lipgloss.AdaptiveColor
	StatusErrorColor    lipgloss.AdaptiveColor
	BorderDefaultColor  lipgloss.AdaptiveColor
	BorderFocusColor    lipgloss.AdaptiveColor
	ButtonBaseColor     lipgloss.AdaptiveColor
	ButtonCustomColor   lipgloss.AdaptiveColor
	ButtonPlayingColor  lipgloss.AdaptiveColor
	ButtonSelectedColor lipgloss.AdaptiveColor
	ButtonGrabbedColor  lipgloss.AdaptiveColor
	HotkeyLabelColor    lipgloss.AdaptiveColor
	DeleteColor         lipgloss.AdaptiveColor
)

func colorTargets() map[ColorToken]*lipgloss.AdaptiveColor {
	return map[ColorToken]*lipgloss.AdaptiveColor{
		TokenTextPrimary:    &TextPrimaryColor,
		TokenTextSecondary:  &TextSecondaryColor,
		TokenTextMuted:      &TextMutedColor,
		TokenStatusSuccess:  &StatusSuccessColor,
		TokenStatusWarning:  &StatusWarningColor,
		TokenStatusError:    &StatusErrorColor,
		TokenBorderDefault:  &BorderDefaultColor,
		TokenBorderFocus:    &BorderFocusColor,
		TokenButtonBase:     &ButtonBaseColor,
		TokenButtonCustom:   &ButtonCustomColor,
		TokenButtonPlaying:  &ButtonPlayingColor,
		TokenButtonSelected: &ButtonSelectedColor,
		TokenButtonGrabbed:  &ButtonGrabbedColor,
		TokenHotkeyLabel:    &HotkeyLabelColor,
		TokenDelete:         &DeleteColor,
	}
}

// Shared styles, rebuilt whenever the palette changes.
var (
	TitleStyle     lipgloss.Style
	MutedStyle     lipgloss.Style
	ErrorStyle     lipgloss.Style
	SuccessStyle   lipgloss.Style
	HotkeyStyle    lipgloss.Style
	DeleteStyle    lipgloss.Style
	StatusBarStyle lipgloss.Style
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func init() {
	_ = ApplyTheme(ThemeConfig{})
}

// ApplyTheme resets the palette to the default preset, layers cfg.Preset on
// top, then applies individual color overrides.
func ApplyTheme(cfg ThemeConfig) error {
	colors := maps.Clone(DefaultPreset.Colors)
	if cfg.Preset != "" {
		p, ok := Presets[cfg.Preset]
		if !ok {
			return fmt.Errorf("unknown theme preset %q (available: %s)", cfg.Preset, strings.Join(PresetNames(), ", "))
		}
		maps.Copy(colors, p.Colors)
	}

	targets := colorTargets()
	for name, value := range cfg.Colors {
		token := ColorToken(name)
		if _, ok := targets[token]; !ok {
			return fmt.Errorf("unknown color token %q", name)
		}
		if !hexColor.MatchString(value) {
			return fmt.Errorf("color %s: %q is not a hex color", name, value)
		}
		colors[token] = value
	}

	for token, target := range targets {
		c := colors[token]
		*target = lipgloss.AdaptiveColor{Light: c, Dark: c}
	}
	rebuildStyles()
	return nil
}

// PresetNames returns the built-in preset names, sorted.
func PresetNames() []string {
	return slices.Sorted(maps.Keys(Presets))
}

func rebuildStyles() {
	TitleStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor).Bold(true)
	MutedStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	HotkeyStyle = lipgloss.NewStyle().Foreground(HotkeyLabelColor).Bold(true)
	DeleteStyle = lipgloss.NewStyle().Foreground(DeleteColor)
	StatusBarStyle = lipgloss.NewStyle().Foreground(TextSecondaryColor)
}

// ButtonStyle returns the style of a sound button in the given state.
func ButtonStyle(custom, selected, playing, grabbed bool) lipgloss.Style {
	bg := ButtonBaseColor
	if custom {
		bg = ButtonCustomColor
	}
	if playing {
		bg = ButtonPlayingColor
	}
	border := BorderDefaultColor
	switch {
	case grabbed:
		border = ButtonGrabbedColor
	case selected:
		border = ButtonSelectedColor
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Background(bg).
		Foreground(TextPrimaryColor).
		Padding(0, 1)
}
