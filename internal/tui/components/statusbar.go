package components

import (
	"github.com/theirongolddev/tiffin/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the bottom bar reports on its right side.
type StatusInfo struct {
	Store      string // backend label
	Refreshed  string // age of the last authoritative snapshot
	Refreshing bool
	Message    string // last action result or error
	IsError    bool
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	msgStyle := lipgloss.NewStyle().Foreground(t.Info).Background(t.Surface)
	if info.IsError {
		msgStyle = msgStyle.Foreground(t.Owed)
	}

	left := barStyle.Render(" ") +
		keyStyle.Render("[s]") + barStyle.Render("kip today  ") +
		keyStyle.Render("[p]") + barStyle.Render("ay  ") +
		keyStyle.Render("[r]") + barStyle.Render("efresh  ") +
		keyStyle.Render("[?]") + barStyle.Render("help  ") +
		keyStyle.Render("[q]") + barStyle.Render("uit")

	right := ""
	switch {
	case info.Message != "":
		right = msgStyle.Render(info.Message + " ")
	case info.Refreshing:
		right = barStyle.Render("Refreshing... ")
	case info.Refreshed != "":
		right = barStyle.Render(info.Store + " · " + info.Refreshed + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	gap := lipgloss.NewStyle().Background(t.Surface).Width(padding).Render("")

	return lipgloss.NewStyle().Width(width).MaxWidth(width).Background(t.Surface).
		Render(left + gap + right)
}
