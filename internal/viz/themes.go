package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
	Faster lipgloss.Color
	Slower lipgloss.Color
}

var (
	ThemePitLane = Theme{
		Name:   "pitlane",
		Title:  lipgloss.Color("#00ffff"),
		Accent: lipgloss.Color("#ff00ff"),
		Text:   lipgloss.Color("#e0e0e0"),
		Muted:  lipgloss.Color("#666688"),
		Border: lipgloss.Color("#444466"),
		Faster: lipgloss.Color("#00ff88"),
		Slower: lipgloss.Color("#ff4444"),
	}

	ThemeNightRun = Theme{
		Name:   "nightrun",
		Title:  lipgloss.Color("#ffaa00"),
		Accent: lipgloss.Color("#ffdd55"),
		Text:   lipgloss.Color("#ffeedd"),
		Muted:  lipgloss.Color("#775533"),
		Border: lipgloss.Color("#553311"),
		Faster: lipgloss.Color("#88ff88"),
		Slower: lipgloss.Color("#ff6666"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Title:  lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Border: lipgloss.Color("#444444"),
		Faster: lipgloss.Color("#00ff00"),
		Slower: lipgloss.Color("#ff0000"),
	}
)

var themes = []Theme{ThemePitLane, ThemeNightRun, ThemeMinimal}

// CurrentTheme is the active theme
var CurrentTheme = ThemePitLane

func SetTheme(name string) bool {
	for _, t := range themes {
		if t.Name == name {
			CurrentTheme = t
			return true
		}
	}
	return false
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// nextTheme switches to the theme after the current one.
func nextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
	CurrentTheme = themes[0]
}
