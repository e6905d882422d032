package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name   string
	Bottle lipgloss.Color
	Title  lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
	Spin   lipgloss.Color
	Held   lipgloss.Color
	Idle   lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:   "cyberpunk",
		Bottle: lipgloss.Color("#00ffff"),
		Title:  lipgloss.Color("#ff00ff"),
		Accent: lipgloss.Color("#ffff00"),
		Muted:  lipgloss.Color("#666666"),
		Spin:   lipgloss.Color("#00ff00"),
		Held:   lipgloss.Color("#ff8800"),
		Idle:   lipgloss.Color("#888888"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Bottle: lipgloss.Color("#00ff00"),
		Title:  lipgloss.Color("#88ff88"),
		Accent: lipgloss.Color("#ccffcc"),
		Muted:  lipgloss.Color("#005500"),
		Spin:   lipgloss.Color("#88ff88"),
		Held:   lipgloss.Color("#ffff00"),
		Idle:   lipgloss.Color("#00aa00"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Bottle: lipgloss.Color("#feca57"),
		Title:  lipgloss.Color("#ff6b6b"),
		Accent: lipgloss.Color("#ff9ff3"),
		Muted:  lipgloss.Color("#8b6b8c"),
		Spin:   lipgloss.Color("#5fd068"),
		Held:   lipgloss.Color("#ffc048"),
		Idle:   lipgloss.Color("#aa8899"),
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
