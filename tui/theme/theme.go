package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const defaultThemeName = "kanagawa"

// EnvTheme overrides the configured palette.
const EnvTheme = "TEAMWATCH_THEME"

// Colors is the palette a theme draws from.
type Colors struct {
	Green  lipgloss.TerminalColor
	Yellow lipgloss.TerminalColor
	Red    lipgloss.TerminalColor
	Orange lipgloss.TerminalColor
	Cyan   lipgloss.TerminalColor
	Violet lipgloss.TerminalColor
	Text   lipgloss.TerminalColor
	Muted  lipgloss.TerminalColor
	Border lipgloss.TerminalColor
}

// Theme holds the styles used by the terminal dashboard.
type Theme struct {
	Name   string
	Colors Colors

	Header lipgloss.Style
	Badge  lipgloss.Style
	Muted  lipgloss.Style
	Bold   lipgloss.Style

	Connected    lipgloss.Style
	Disconnected lipgloss.Style

	// Team cards
	TeamCard  lipgloss.Style
	TeamName  lipgloss.Style
	Section   lipgloss.Style
	Desk      lipgloss.Style
	EmptyText lipgloss.Style

	// Agents
	AgentName lipgloss.Style
	AgentType lipgloss.Style
	InMotion  lipgloss.Style
	Resting   lipgloss.Style
	Dialogue  lipgloss.Style

	// Keyed by status class; see StatusStyle.
	AgentStatus map[string]lipgloss.Style
	TaskStatus  map[string]lipgloss.Style

	Process lipgloss.Style
	Footer  lipgloss.Style
}

type palette struct {
	green, yellow, red, orange, cyan, violet, text, muted, border [2]string
}

// Light/dark pairs.
var palettes = map[string]palette{
	"kanagawa": {
		green:  [2]string{"#4E7C5A", "#98BB6C"},
		yellow: [2]string{"#A68A64", "#FF9E3B"},
		red:    [2]string{"#C34043", "#FF5D62"},
		orange: [2]string{"#CC6B4E", "#FFA066"},
		cyan:   [2]string{"#5B8BBE", "#7E9CD8"},
		violet: [2]string{"#674D7A", "#957FB8"},
		text:   [2]string{"#2B2F42", "#DCD7BA"},
		muted:  [2]string{"#6C7086", "#727169"},
		border: [2]string{"#B5BDC5", "#363646"},
	},
	"gruvbox": {
		green:  [2]string{"#98971A", "#B8BB26"},
		yellow: [2]string{"#D79921", "#FABD2F"},
		red:    [2]string{"#CC241D", "#FB4934"},
		orange: [2]string{"#D65D0E", "#FE8019"},
		cyan:   [2]string{"#458588", "#83A598"},
		violet: [2]string{"#8F3F71", "#B16286"},
		text:   [2]string{"#3C3836", "#EBDBB2"},
		muted:  [2]string{"#928374", "#BDAE93"},
		border: [2]string{"#D5C4A1", "#504945"},
	},
}

var themeAliases = map[string]string{
	"kanagawa-dark":   "kanagawa",
	"kanagawa-dragon": "kanagawa",
	"gruvbox-dark":    "gruvbox",
	"gruvbox-light":   "gruvbox",
	"ansi":            "terminal",
}

// Names lists the selectable palettes.
func Names() []string {
	return []string{"kanagawa", "gruvbox", "terminal"}
}

// ResolveName picks the palette: TEAMWATCH_THEME wins over the configured
// name, and unknown names fall back to the default.
func ResolveName(configured string) string {
	for _, candidate := range []string{os.Getenv(EnvTheme), configured} {
		key := normalizeThemeName(candidate)
		if alias, ok := themeAliases[key]; ok {
			key = alias
		}
		if key == "terminal" {
			return key
		}
		if _, ok := palettes[key]; ok {
			return key
		}
	}
	return defaultThemeName
}

// New builds the theme for a palette name after resolving it.
func New(name string) *Theme {
	resolved := ResolveName(name)
	return newThemeFromColors(resolved, colorsFor(resolved))
}

// StatusStyle returns the style for a status class, falling back to the
// muted style for unknown classes.
func (t *Theme) StatusStyle(styles map[string]lipgloss.Style, class string) lipgloss.Style {
	if s, ok := styles[class]; ok {
		return s
	}
	return t.Muted
}

func colorsFor(name string) Colors {
	if name == "terminal" {
		return Colors{
			Green:  lipgloss.Color("2"),
			Yellow: lipgloss.Color("3"),
			Red:    lipgloss.Color("1"),
			Orange: lipgloss.Color("208"),
			Cyan:   lipgloss.Color("6"),
			Violet: lipgloss.Color("5"),
			Text:   lipgloss.Color("7"),
			Muted:  lipgloss.Color("8"),
			Border: lipgloss.Color("8"),
		}
	}
	p := palettes[name]
	adaptive := func(pair [2]string) lipgloss.TerminalColor {
		return lipgloss.AdaptiveColor{Light: pair[0], Dark: pair[1]}
	}
	return Colors{
		Green:  adaptive(p.green),
		Yellow: adaptive(p.yellow),
		Red:    adaptive(p.red),
		Orange: adaptive(p.orange),
		Cyan:   adaptive(p.cyan),
		Violet: adaptive(p.violet),
		Text:   adaptive(p.text),
		Muted:  adaptive(p.muted),
		Border: adaptive(p.border),
	}
}

func newThemeFromColors(name string, colors Colors) *Theme {
	t := &Theme{
		Name:   name,
		Colors: colors,

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Cyan),

		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Violet),

		Muted: lipgloss.NewStyle().
			Foreground(colors.Muted),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Connected: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),

		Disconnected: lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true),

		TeamCard: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1).
			MarginBottom(1),

		TeamName: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Orange),

		Section: lipgloss.NewStyle().
			Bold(true).
			Underline(true),

		Desk: lipgloss.NewStyle().
			Foreground(colors.Yellow),

		EmptyText: lipgloss.NewStyle().
			Foreground(colors.Muted).
			Italic(true),

		AgentName: lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Text),

		AgentType: lipgloss.NewStyle().
			Foreground(colors.Muted),

		InMotion: lipgloss.NewStyle().
			Foreground(colors.Green),

		Resting: lipgloss.NewStyle().
			Foreground(colors.Muted),

		Dialogue: lipgloss.NewStyle().
			Foreground(colors.Text).
			Italic(true).
			PaddingLeft(2),

		Process: lipgloss.NewStyle().
			Foreground(colors.Text),

		Footer: lipgloss.NewStyle().
			Foreground(colors.Muted),
	}

	t.AgentStatus = map[string]lipgloss.Style{
		"working":   lipgloss.NewStyle().Foreground(colors.Green).Bold(true),
		"idle":      lipgloss.NewStyle().Foreground(colors.Yellow),
		"completed": lipgloss.NewStyle().Foreground(colors.Cyan),
	}
	t.TaskStatus = map[string]lipgloss.Style{
		"pending":     lipgloss.NewStyle().Foreground(colors.Yellow),
		"in_progress": lipgloss.NewStyle().Foreground(colors.Orange).Bold(true),
		"completed":   lipgloss.NewStyle().Foreground(colors.Green),
	}
	return t
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return normalized
}
