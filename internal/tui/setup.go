package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/theirongolddev/tiffin/internal/config"
	"github.com/theirongolddev/tiffin/internal/ledger"
	"github.com/theirongolddev/tiffin/internal/model"
	"github.com/theirongolddev/tiffin/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
)

// setupValues holds the first-run wizard's bound fields.
type setupValues struct {
	userID    string
	cost      string
	startDate string
	theme     string
}

func newSetupValues(cfg config.Config) *setupValues {
	return &setupValues{
		userID:    cfg.Ledger.UserID,
		cost:      cfg.Ledger.CostPerMeal,
		startDate: cfg.Ledger.StartDate,
		theme:     cfg.Appearance.Theme,
	}
}

func newSetupForm(vals *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, th := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(th.Name, th.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to tiffin!").
				Description("Let's set up your meal ledger.\nRun `tiffin setup` anytime to reconfigure."),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("User id").
				Value(&vals.userID).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("user id is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Cost per meal").
				Value(&vals.cost).
				Validate(validateCost),
			huh.NewInput().
				Title("Billing start date").
				Description("YYYY-MM-DD").
				Value(&vals.startDate).
				Validate(validateDate),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	).WithShowHelp(true)
}

func validateCost(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("not a number")
	}
	if d.IsNegative() {
		return errors.New("cost must not be negative")
	}
	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(model.DateLayout, strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		err := a.applySetup()
		a.setupForm, a.setupVals = nil, nil
		if err != nil {
			a.setMessage("Setup not saved: "+err.Error(), true)
			return a, nil
		}
		a.setMessage("Saved "+config.Path(), false)
		a.refreshing = true
		return a, loadCmd(a.ledger, a.user)

	case huh.StateAborted:
		a.setupForm, a.setupVals = nil, nil
		return a, nil
	}

	return a, cmd
}

// fileConfig is the on-disk config without environment overrides, falling
// back to the running config when the file can't be read.
func (a *App) fileConfig() config.Config {
	cfg, err := config.LoadFile()
	if err != nil {
		return a.cfg
	}
	return cfg
}

// applySetup saves the wizard answers and rebuilds the ledger with the new
// accrual parameters.
func (a *App) applySetup() error {
	cfg, err := config.LoadFile()
	if err != nil {
		return err
	}
	cfg.Ledger.UserID = strings.TrimSpace(a.setupVals.userID)
	cfg.Ledger.CostPerMeal = strings.TrimSpace(a.setupVals.cost)
	cfg.Ledger.StartDate = strings.TrimSpace(a.setupVals.startDate)
	cfg.Appearance.Theme = a.setupVals.theme

	lc, err := cfg.Accrual()
	if err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	theme.SetActive(cfg.Appearance.Theme)
	a.cfg.Ledger = cfg.Ledger
	a.cfg.Appearance = cfg.Appearance
	a.user = cfg.Ledger.UserID
	a.ledger = ledger.New(a.store, lc)
	return nil
}
