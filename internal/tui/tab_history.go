package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tiffin/internal/cli"
	"github.com/theirongolddev/tiffin/internal/tui/components"
	"github.com/theirongolddev/tiffin/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderHistoryTab(cw, h int) string {
	t := theme.Active

	if !a.hasHistory {
		return components.ContentCard("History", lipgloss.NewStyle().
			Foreground(t.TextMuted).Background(t.Surface).
			Render("This store does not keep a record listing."), cw)
	}

	// Card chrome: 2 border lines + title line.
	rows := h - 3
	if rows < 1 {
		rows = 1
	}

	widths := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		widths = []int{cw, cw}
		rows = rows/2 - 2
		if rows < 1 {
			rows = 1
		}
	}

	payLines := a.paymentLines(components.CardInnerWidth(widths[0]))
	skipLines := a.skipLines()

	payCard := components.ContentCard(
		fmt.Sprintf("Payments (%d) · %s", len(a.history.Payments), a.money(a.snap.TotalPaid)),
		scrollWindow(payLines, a.histScroll, rows), widths[0])
	skipCard := components.ContentCard(
		fmt.Sprintf("Skipped days (%d)", len(a.history.Skips)),
		scrollWindow(skipLines, a.histScroll, rows), widths[1])

	if a.isCompactLayout() {
		return payCard + "\n" + skipCard
	}
	return components.CardRow([]string{payCard, skipCard})
}

// paymentLines lists payments newest first as date, note and amount.
func (a App) paymentLines(inner int) []string {
	t := theme.Active
	dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	amtStyle := lipgloss.NewStyle().Foreground(t.Advance).Background(t.Surface).Bold(true)

	if len(a.history.Payments) == 0 {
		return []string{dateStyle.Render("No payments yet. Press [p] to add one.")}
	}

	lines := make([]string, 0, len(a.history.Payments))
	for i := len(a.history.Payments) - 1; i >= 0; i-- {
		p := a.history.Payments[i]
		date := p.PaidAt.Local().Format("02 Jan 15:04")
		amount := a.money(p.Amount)

		noteW := inner - lipgloss.Width(date) - lipgloss.Width(amount) - 4
		note := truncStr(p.Note, noteW)
		gap := inner - lipgloss.Width(date) - lipgloss.Width(note) - lipgloss.Width(amount) - 2
		if gap < 1 {
			gap = 1
		}

		lines = append(lines, dateStyle.Render(date+"  ")+
			noteStyle.Render(note+strings.Repeat(" ", gap))+
			amtStyle.Render(amount))
	}
	return lines
}

// skipLines lists skipped days newest first.
func (a App) skipLines() []string {
	t := theme.Active
	dayStyle := lipgloss.NewStyle().Foreground(t.Skipped).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	if len(a.history.Skips) == 0 {
		return []string{dimStyle.Render("No skipped days.")}
	}

	lines := make([]string, 0, len(a.history.Skips))
	for i := len(a.history.Skips) - 1; i >= 0; i-- {
		s := a.history.Skips[i]
		lines = append(lines, dayStyle.Render(cli.FormatDate(s.Date))+
			dimStyle.Render("  marked "+s.CreatedAt.Local().Format(time.DateTime)))
	}
	return lines
}

// scrollWindow returns at most n lines starting at offset, clamped so the
// last page stays full.
func scrollWindow(lines []string, offset, n int) string {
	if offset > len(lines)-n {
		offset = len(lines) - n
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + n
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[offset:end], "\n")
}
