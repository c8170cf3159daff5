package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the control surface chrome. The visualization itself
// uses the per-mode palette.
type Theme struct {
	Name    string
	Title   lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Border  lipgloss.Color
	Track   lipgloss.Color
	Active  lipgloss.Color
	Bypass  lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeStudio = Theme{
		Name:    "studio",
		Title:   lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#e0e0f0"),
		Muted:   lipgloss.Color("#666688"),
		Border:  lipgloss.Color("#333355"), // matches the canvas background
		Track:   lipgloss.Color("#333333"),
		Active:  lipgloss.Color("#00ff88"),
		Bypass:  lipgloss.Color("#ff4444"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemePhosphor = Theme{
		Name:    "phosphor",
		Title:   lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Border:  lipgloss.Color("#00aa00"),
		Track:   lipgloss.Color("#003300"),
		Active:  lipgloss.Color("#88ff88"),
		Bypass:  lipgloss.Color("#ff0000"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Title:   lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#cccccc"),
		Muted:   lipgloss.Color("#888888"),
		Border:  lipgloss.Color("#444444"),
		Track:   lipgloss.Color("#333333"),
		Active:  lipgloss.Color("#0088ff"),
		Bypass:  lipgloss.Color("#ff0000"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Title:   lipgloss.Color("#feca57"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Border:  lipgloss.Color("#ff6b6b"),
		Track:   lipgloss.Color("#2d1b2e"),
		Active:  lipgloss.Color("#5fd068"),
		Bypass:  lipgloss.Color("#ff4757"),
		Warning: lipgloss.Color("#ffc048"),
	}

	CurrentTheme = ThemeStudio

	Themes = []Theme{
		ThemeStudio,
		ThemePhosphor,
		ThemeMinimal,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to studio.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeStudio
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme cycles CurrentTheme and returns the new one.
func NextTheme() Theme {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return CurrentTheme
		}
	}
	CurrentTheme = Themes[0]
	return CurrentTheme
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
