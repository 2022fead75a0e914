package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

func panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme.Border).
		Padding(0, 1)
}

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Title)
}

func labelStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Width(16)
}

func valueStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Text).Bold(true)
}

func selectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true)
}

func hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Italic(true)
}

// GradientText colors text from start to end, blending in Lab space.
func GradientText(text string, start, end lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	c1, err1 := colorful.Hex(string(start))
	c2, err2 := colorful.Hex(string(end))
	if err1 != nil || err2 != nil {
		return text
	}

	var sb strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := lipgloss.Color(c1.BlendLab(c2, t).Clamped().Hex())
		sb.WriteString(lipgloss.NewStyle().Foreground(c).Render(string(r)))
	}
	return sb.String()
}

// Delta renders a time difference, green when faster.
func Delta(seconds float64) string {
	switch {
	case seconds < -0.005:
		return lipgloss.NewStyle().Foreground(CurrentTheme.Faster).Render(fmt.Sprintf("%+.2fs", seconds))
	case seconds > 0.005:
		return lipgloss.NewStyle().Foreground(CurrentTheme.Slower).Render(fmt.Sprintf("%+.2fs", seconds))
	}
	return hintStyle().Render(" ±0.00s")
}

// Separator draws a muted rule.
func Separator(width int) string {
	if width < 8 {
		width = 8
	}
	mid := width / 2
	return hintStyle().Render(strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-2))
}
