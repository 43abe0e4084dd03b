package tui

import (
	"errors"
	"strings"

	"github.com/theirongolddev/tiffin/internal/cli"
	"github.com/theirongolddev/tiffin/internal/ledger"
	"github.com/theirongolddev/tiffin/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// paymentValues holds the payment dialog's bound fields.
type paymentValues struct {
	amount string
	note   string
}

func newPaymentForm(vals *paymentValues, currency string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Amount (" + currency + ")").
				Placeholder("e.g. 600").
				Value(&vals.amount).
				Validate(func(s string) error {
					_, err := parseAmount(s)
					return err
				}),
			huh.NewInput().
				Title("Note").
				Placeholder(ledger.DefaultNote).
				CharLimit(80).
				Value(&vals.note),
		),
	).WithShowHelp(true)
}

// parseAmount accepts a positive decimal amount.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("enter an amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("not a number")
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.New("amount must be positive")
	}
	return d, nil
}

func (a App) openPaymentForm() (tea.Model, tea.Cmd) {
	if a.busy {
		return a, nil
	}
	a.payVals = &paymentValues{}
	a.payForm = newPaymentForm(a.payVals, a.cfg.Ledger.Currency)
	if a.width > 0 {
		a.payForm = a.payForm.WithWidth(dialogWidth(a.width))
	}
	return a, a.payForm.Init()
}

func (a App) updatePaymentForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.payForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.payForm = f
	}

	switch a.payForm.State {
	case huh.StateCompleted:
		vals := a.payVals
		a.payForm, a.payVals = nil, nil

		amount, err := parseAmount(vals.amount)
		if err != nil {
			a.setMessage(err.Error(), true)
			return a, nil
		}
		a.snap = optimisticPayment(a.snap, amount)
		a.busy = true
		return a, recordPaymentCmd(a.ledger, a.user, amount, strings.TrimSpace(vals.note))

	case huh.StateAborted:
		a.payForm, a.payVals = nil, nil
		return a, nil
	}

	return a, cmd
}

func dialogWidth(termWidth int) int {
	w := termWidth - 10
	if w > 56 {
		w = 56
	}
	if w < 30 {
		w = 30
	}
	return w
}

func (a App) viewPaymentDialog() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	label, amount := cli.FormatBalance(a.cfg.Ledger.Currency, a.snap.Balance)

	body := titleStyle.Render("◈ Record Payment") + "\n" +
		dimStyle.Render(label+": "+amount) + "\n\n" +
		a.payForm.View() + "\n" +
		dimStyle.Render("esc to cancel")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}
