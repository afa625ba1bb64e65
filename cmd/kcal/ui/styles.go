// Package ui provides the visual styling for the kcal terminal interface:
// a light and a dark theme, detection of the terminal background, and the
// lipgloss styles the form view renders with.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light mode colors
	LightBackground = lipgloss.Color("#fafaf7")
	LightForeground = lipgloss.Color("#1f2430")
	LightPrimary    = lipgloss.Color("#e86f2d") // burnt orange
	LightAccent     = lipgloss.Color("#43a047") // leaf green
	LightSecondary  = lipgloss.Color("#e8e6e1")
	LightMuted      = lipgloss.Color("#8a8f98")
	LightBorder     = lipgloss.Color("#d9d6cf")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark mode colors
	DarkBackground = lipgloss.Color("#16181d")
	DarkForeground = lipgloss.Color("#e8e6e1")
	DarkPrimary    = lipgloss.Color("#ff8f4c")
	DarkAccent     = lipgloss.Color("#66bb6a")
	DarkSecondary  = lipgloss.Color("#242832")
	DarkMuted      = lipgloss.Color("#6b7280")
	DarkBorder     = lipgloss.Color("#343a46")
	DarkCard       = lipgloss.Color("#1e222a")

	// Semantic colors, same in both modes
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#66bb6a")
	Warning     = lipgloss.Color("#ffb300")
	Info        = lipgloss.Color("#42a5f5")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// Toggle flips between the light and dark theme.
func (t Theme) Toggle() Theme {
	if t.IsDark {
		return LightTheme()
	}
	return DarkTheme()
}

// DetectTheme picks a theme from the terminal environment. COLORFGBG is
// usually "foreground;background" with ANSI indexes; a dark background index
// selects the dark theme.
func DetectTheme() Theme {
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	if os.Getenv("KCAL_DARK_MODE") == "1" {
		return DarkTheme()
	}

	return LightTheme()
}

// ThemeByName maps a configured theme name to a Theme. Anything other than
// "light" or "dark" falls back to detection.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// Styles holds all the styled components the form view renders with.
type Styles struct {
	Theme Theme

	// Layout
	App    lipgloss.Style
	Header lipgloss.Style
	Footer lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style

	// Form
	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	FieldError   lipgloss.Style
	Hint         lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Result panel
	ResultPanel    lipgloss.Style
	ResultValue    lipgloss.Style
	ResultLight    lipgloss.Style
	ResultModerate lipgloss.Style
	ResultIntense  lipgloss.Style

	// History panel
	HistoryTitle lipgloss.Style
	HistoryRow   lipgloss.Style
	HistoryTime  lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Divider lipgloss.Style
	Help    lipgloss.Style
}

// NewStyles creates a Styles instance for the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		App: lipgloss.NewStyle().
			Background(theme.Background).
			Foreground(theme.Foreground),

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Label: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Width(18),

		LabelFocused: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Width(18),

		FieldError: lipgloss.NewStyle().
			Foreground(Destructive),

		Hint: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		ResultPanel: lipgloss.NewStyle().
			Background(theme.Card).
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		ResultValue: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		ResultLight: lipgloss.NewStyle().
			Foreground(Info).
			Bold(true),

		ResultModerate: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		ResultIntense: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		HistoryTitle: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		HistoryRow: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		HistoryTime: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles for the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider of the given width.
func (s Styles) RenderDivider(width int) string {
	if width < 0 {
		width = 0
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
