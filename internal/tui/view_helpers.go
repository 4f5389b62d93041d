package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const pageWidth = 72

var bodyStyle = lipgloss.NewStyle().PaddingLeft(2)

// renderPage frames body between the title and the hot keys line.
func renderPage(title, body, hotKeys string) string {
	rule := helpStyle.Render(strings.Repeat("─", pageWidth))

	body = strings.TrimRight(body, "\n")
	if strings.TrimSpace(body) == "" {
		body = "-"
	}

	footer := "ctrl+c: выход"
	if hotKeys != "" {
		footer = hotKeys + " │ " + footer
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		rule,
		"",
		bodyStyle.Render(body),
		"",
		rule,
		helpStyle.Render(footer),
	)
}

// fitText cuts v to max runes, marking the cut with "...".
func fitText(v string, max int) string {
	runes := []rune(v)
	if max <= 0 || len(runes) <= max {
		return v
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
