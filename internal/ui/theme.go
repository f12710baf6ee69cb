package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/shelf/internal/config"
)

// Catppuccin Mocha palette, mutable so config can override.
var (
	ColorGreen  = lipgloss.Color("#a6e3a1")
	ColorBlue   = lipgloss.Color("#89b4fa")
	ColorYellow = lipgloss.Color("#f9e2af")
	ColorRed    = lipgloss.Color("#f38ba8")
	ColorMauve  = lipgloss.Color("#cba6f7")
	ColorMuted  = lipgloss.Color("#5a6278")
	ColorBright = lipgloss.Color("#cdd6f4")
)

// Pre-built styles, rebuilt by rebuildStyles() after color changes.
var (
	styleHeader      lipgloss.Style
	styleCategory    lipgloss.Style
	styleCount       lipgloss.Style
	styleIndex       lipgloss.Style
	styleName        lipgloss.Style
	styleIconDone    lipgloss.Style
	styleIconFailed  lipgloss.Style
	styleIconSkipped lipgloss.Style
	styleMuted       lipgloss.Style
	styleError       lipgloss.Style
	stylePrompt      lipgloss.Style
	styleNotice      lipgloss.Style
)

func init() {
	rebuildStyles()
}

func rebuildStyles() {
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorBright)
	styleCategory = lipgloss.NewStyle().Bold(true).Foreground(ColorMauve)
	styleCount = lipgloss.NewStyle().Foreground(ColorMuted)
	styleIndex = lipgloss.NewStyle().Foreground(ColorBlue)
	styleName = lipgloss.NewStyle().Foreground(ColorBright)
	styleIconDone = lipgloss.NewStyle().Foreground(ColorGreen)
	styleIconFailed = lipgloss.NewStyle().Foreground(ColorRed)
	styleIconSkipped = lipgloss.NewStyle().Foreground(ColorMuted)
	styleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
	styleError = lipgloss.NewStyle().Foreground(ColorRed)
	stylePrompt = lipgloss.NewStyle().Bold(true).Foreground(ColorYellow)
	styleNotice = lipgloss.NewStyle().Foreground(ColorGreen)
}

// ApplyTheme overrides colors from a config ThemeConfig and rebuilds all styles.
func ApplyTheme(tc config.ThemeConfig) {
	set := func(dst *lipgloss.Color, v *string) {
		if v != nil {
			*dst = lipgloss.Color(*v)
		}
	}
	set(&ColorGreen, tc.Green)
	set(&ColorBlue, tc.Blue)
	set(&ColorYellow, tc.Yellow)
	set(&ColorRed, tc.Red)
	set(&ColorMauve, tc.Mauve)
	set(&ColorMuted, tc.Muted)
	set(&ColorBright, tc.Bright)
	rebuildStyles()
}

// painter renders styled text when color output is on and plain text
// otherwise.
type painter bool

func (p painter) paint(s lipgloss.Style, text string) string {
	if !p {
		return text
	}
	return s.Render(text)
}
