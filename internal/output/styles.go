package output

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/egralens/internal/messages"
	"github.com/dotcommander/egralens/internal/scoring"
)

// Level colors: green mastery, yellow developing, red emerging.
var levelColors = map[scoring.Level]lipgloss.Color{
	scoring.Mastery:    lipgloss.Color("10"),
	scoring.Developing: lipgloss.Color("3"),
	scoring.Emerging:   lipgloss.Color("9"),
}

type styles struct {
	header lipgloss.Style
	bold   lipgloss.Style
	dim    lipgloss.Style
}

func newStyles() styles {
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		bold:   lipgloss.NewStyle().Bold(true),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// LevelStyle returns the foreground style of a level.
func LevelStyle(level scoring.Level) lipgloss.Style {
	c, ok := levelColors[level]
	if !ok {
		c = lipgloss.Color("8")
	}
	return lipgloss.NewStyle().Foreground(c)
}

// levelBadge renders a level label. Without color it is wrapped in brackets
// so the level stays visible in plain text.
func levelBadge(level scoring.Level, lang messages.Language, colorize bool) string {
	label := messages.LevelLabel(level, lang)
	if !colorize {
		return "[" + label + "]"
	}
	return LevelStyle(level).Bold(true).Render(label)
}

// levelIcon is the one-character marker used in compact tables.
func levelIcon(level scoring.Level) string {
	switch level {
	case scoring.Mastery:
		return "●"
	case scoring.Developing:
		return "◐"
	case scoring.Emerging:
		return "○"
	default:
		return "?"
	}
}

func render(style lipgloss.Style, colorize bool, s string) string {
	if !colorize {
		return s
	}
	return style.Render(s)
}
