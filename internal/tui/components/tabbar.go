package components

import (
	"strings"

	"github.com/theirongolddev/tiffin/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Dashboard", Key: 'd', KeyPos: 0},
	{Name: "History", Key: 'h', KeyPos: 0},
}

// RenderTabBar renders the tab bar with the given active index.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Padding(0, 1)

	sepStyle := lipgloss.NewStyle().Background(t.Surface)

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
		} else {
			parts = append(parts, inactiveStyle.Render(tabLabel(tab)))
		}
	}

	bar := strings.Join(parts, sepStyle.Render(" "))
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(bar)
}

// tabLabel marks the shortcut letter of an inactive tab, e.g. "[H]istory".
func tabLabel(tab Tab) string {
	if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
		return tab.Name[:tab.KeyPos] + "[" + string(tab.Name[tab.KeyPos]) + "]" + tab.Name[tab.KeyPos+1:]
	}
	return tab.Name + "[" + string(tab.Key) + "]"
}

// TabVisualWidth returns the rendered width of a tab including padding.
func TabVisualWidth(tab Tab, active bool) int {
	if active {
		return lipgloss.Width(tab.Name) + 2
	}
	return lipgloss.Width(tabLabel(tab)) + 2
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
