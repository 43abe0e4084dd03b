package tui

import (
	"strings"

	"github.com/theirongolddev/tiffin/internal/cli"
	"github.com/theirongolddev/tiffin/internal/tui/components"
	"github.com/theirongolddev/tiffin/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const (
	tabDashboard = iota
	tabHistory
)

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	snap := a.snap
	lc := a.ledger.Config()

	var b strings.Builder

	// Header line
	headStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Background).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
	b.WriteString(headStyle.Render(" " + a.user))
	b.WriteString(subStyle.Render("  " + cli.FormatSince(lc.StartDate) + " · " + a.money(lc.CostPerMeal) + " per meal"))
	b.WriteString("\n")

	// Balance hero card
	label, amount := cli.FormatBalance(a.cfg.Ledger.Currency, snap.Balance)
	balanceStyle := lipgloss.NewStyle().
		Foreground(t.BalanceColor(snap.Owes())).
		Background(t.Surface).
		Bold(true)
	hero := balanceStyle.Render(amount)
	if a.busy {
		hero += lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("  (saving...)")
	}
	b.WriteString(components.ContentCard(label, hero, cw))
	b.WriteString("\n")

	// Metric cards
	metrics := []components.Metric{
		{Label: "Days", Value: cli.FormatNumber(int64(snap.TotalDays)), Note: cli.FormatDays(snap.ChargeableDays()) + " billed"},
		{Label: "Skipped", Value: cli.FormatNumber(int64(snap.SkippedDays)), Color: t.Skipped},
		{Label: "Total Bill", Value: a.money(snap.TotalCost)},
		{Label: "Total Paid", Value: a.money(snap.TotalPaid), Color: t.Advance},
	}
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(metrics[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(metrics[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(metrics, cw))
	}
	b.WriteString("\n")

	// Today + attendance
	halves := components.LayoutRow(cw, 2)
	if a.isCompactLayout() {
		halves = []int{cw, cw}
	}

	todayCard := components.ContentCard("Today · "+cli.FormatDate(snap.Today), a.renderToday(), halves[0])
	attendance := components.AttendanceBar(snap.ChargeableDays(), snap.TotalDays, components.CardInnerWidth(halves[1]))
	attendCard := components.ContentCard("Meals eaten", attendance, halves[1])

	if a.isCompactLayout() {
		b.WriteString(todayCard)
		b.WriteString("\n")
		b.WriteString(attendCard)
	} else {
		b.WriteString(components.CardRow([]string{todayCard, attendCard}))
	}

	if snap.TotalDays == 0 {
		b.WriteString("\n")
		b.WriteString(subStyle.Render(" Billing starts " + cli.FormatDate(lc.StartDate.Format("2006-01-02"))))
	}

	return b.String()
}

func (a App) renderToday() string {
	t := theme.Active

	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	if a.snap.IsTodaySkipped {
		state := lipgloss.NewStyle().Foreground(t.Skipped).Background(t.Surface).Bold(true).Render("Skipped")
		return state + hintStyle.Render("   [s] I ate today")
	}
	state := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Render("Eating")
	return state + hintStyle.Render("   [s] skip today")
}
