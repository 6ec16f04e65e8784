// Package ui holds the color theme and lipgloss styles shared by the
// special-block widgets and the CLI.
package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette.
type Theme struct {
	Primary   lipgloss.Color // main accent (bars, links)
	Secondary lipgloss.Color // secondary accent (headers, borders)
	Success   lipgloss.Color // high-confidence, positive cells
	Error     lipgloss.Color // low-confidence, negative cells
	Warning   lipgloss.Color // mid-range values
	Muted     lipgloss.Color // dimmed/secondary text
	Text      lipgloss.Color // primary text
	Border    lipgloss.Color // borders and dividers
}

// DefaultTheme returns the default palette (gruvbox).
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#b8bb26"), // gruvbox green
		Secondary: lipgloss.Color("#83a598"), // gruvbox aqua
		Success:   lipgloss.Color("#b8bb26"), // gruvbox green
		Error:     lipgloss.Color("#fb4934"), // gruvbox red
		Warning:   lipgloss.Color("#fabd2f"), // gruvbox yellow
		Muted:     lipgloss.Color("#928374"), // gruvbox gray
		Text:      lipgloss.Color("#ebdbb2"), // gruvbox foreground
		Border:    lipgloss.Color("#83a598"), // gruvbox aqua
	}
}

// ThemeConfig carries color overrides from configuration. Values can be
// ANSI color numbers (0-255) or hex codes (#RRGGBB); empty keeps the
// default.
type ThemeConfig struct {
	Primary   string `mapstructure:"primary"`   // main accent (bars, links)
	Secondary string `mapstructure:"secondary"` // secondary accent (headers, borders)
	Success   string `mapstructure:"success"`   // high-confidence cells
	Error     string `mapstructure:"error"`     // low-confidence cells
	Warning   string `mapstructure:"warning"`   // mid-range values
	Muted     string `mapstructure:"muted"`     // dimmed text
	Text      string `mapstructure:"text"`      // primary text
}

// ThemeFromConfig creates a theme with config overrides applied.
func ThemeFromConfig(cfg ThemeConfig) *Theme {
	theme := DefaultTheme()
	if cfg.Primary != "" {
		theme.Primary = lipgloss.Color(cfg.Primary)
	}
	if cfg.Secondary != "" {
		theme.Secondary = lipgloss.Color(cfg.Secondary)
		theme.Border = lipgloss.Color(cfg.Secondary)
	}
	if cfg.Success != "" {
		theme.Success = lipgloss.Color(cfg.Success)
	}
	if cfg.Error != "" {
		theme.Error = lipgloss.Color(cfg.Error)
	}
	if cfg.Warning != "" {
		theme.Warning = lipgloss.Color(cfg.Warning)
	}
	if cfg.Muted != "" {
		theme.Muted = lipgloss.Color(cfg.Muted)
	}
	if cfg.Text != "" {
		theme.Text = lipgloss.Color(cfg.Text)
	}
	return theme
}

// Styles returns styled text helpers bound to a renderer.
type Styles struct {
	renderer *lipgloss.Renderer
	theme    *Theme

	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Warning     lipgloss.Style
	Muted       lipgloss.Style
	Bold        lipgloss.Style
	Highlighted lipgloss.Style

	Bar      lipgloss.Style // filled gauge/chart cells
	BarEmpty lipgloss.Style // unfilled gauge/chart cells
	Panel    lipgloss.Style // bordered boxes (cards, comparisons)
	Link     lipgloss.Style // source URLs
}

// NewStyles creates a Styles instance for the given output.
func NewStyles(output io.Writer) *Styles {
	return NewStylesWithTheme(output, DefaultTheme())
}

// NewStylesWithTheme creates styles bound to a specific theme.
func NewStylesWithTheme(output io.Writer, theme *Theme) *Styles {
	r := lipgloss.NewRenderer(output)

	return &Styles{
		renderer: r,
		theme:    theme,

		Title:       r.NewStyle().Bold(true).Foreground(theme.Text),
		Subtitle:    r.NewStyle().Foreground(theme.Muted),
		Success:     r.NewStyle().Foreground(theme.Success),
		Error:       r.NewStyle().Foreground(theme.Error),
		Warning:     r.NewStyle().Foreground(theme.Warning),
		Muted:       r.NewStyle().Foreground(theme.Muted),
		Bold:        r.NewStyle().Bold(true),
		Highlighted: r.NewStyle().Bold(true).Foreground(theme.Primary),

		Bar:      r.NewStyle().Foreground(theme.Primary),
		BarEmpty: r.NewStyle().Foreground(theme.Muted),
		Panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		Link: r.NewStyle().Foreground(theme.Secondary).Underline(true),
	}
}

// Theme returns the theme these styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}
