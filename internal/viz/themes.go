package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeFlame = Theme{
		Name:    "flame",
		Primary: lipgloss.Color("#ff8c00"),
		Accent:  lipgloss.Color("#ffd166"),
		Text:    lipgloss.Color("#fff5e6"),
		Muted:   lipgloss.Color("#8c6f56"),
		Success: lipgloss.Color("#06d6a0"),
		Warning: lipgloss.Color("#ffc048"),
		Error:   lipgloss.Color("#ef476f"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Primary: lipgloss.Color("#0077be"),
		Accent:  lipgloss.Color("#ffd700"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Success: lipgloss.Color("#00ff88"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff4444"),
	}

	Themes = []Theme{ThemeFlame, ThemeRetroGreen, ThemeOcean}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// next returns the theme after t, wrapping around.
func (t Theme) next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
