// Package tui provides the interactive Bubble Tea dashboard for tiffin.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tiffin/internal/cli"
	"github.com/theirongolddev/tiffin/internal/config"
	"github.com/theirongolddev/tiffin/internal/ledger"
	"github.com/theirongolddev/tiffin/internal/model"
	"github.com/theirongolddev/tiffin/internal/tui/components"
	"github.com/theirongolddev/tiffin/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// SnapshotMsg carries an authoritative read of the ledger.
type SnapshotMsg struct {
	Snapshot   model.Snapshot
	History    ledger.History
	HasHistory bool
	Err        error
	Took       time.Duration
}

// SkipDoneMsg is sent when a today-skip write completes.
type SkipDoneMsg struct {
	Skipped bool
	Err     error
}

// PaymentDoneMsg is sent when a payment write completes.
type PaymentDoneMsg struct {
	Record model.PaymentRecord
	Err    error
}

type tickMsg struct{}

// Options configures a new App.
type Options struct {
	Config     config.Config
	Store      ledger.Store
	Ledger     *ledger.Ledger
	UserID     string
	StoreLabel string
	NeedSetup  bool
}

// App is the root Bubble Tea model.
type App struct {
	// Ledger access
	cfg        config.Config
	store      ledger.Store
	ledger     *ledger.Ledger
	user       string
	storeLabel string

	// Data
	snap        model.Snapshot
	history     ledger.History
	hasHistory  bool
	loaded      bool
	loadErr     error
	lastRefresh time.Time
	loadTime    time.Duration

	// In-flight state
	refreshing bool
	busy       bool // a write is pending; the snapshot is an estimate
	message    string
	messageErr bool

	// UI state
	width      int
	height     int
	activeTab  int
	showHelp   bool
	histScroll int

	// Payment dialog (huh form)
	payForm *huh.Form
	payVals *paymentValues

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 60
	compactWidth     = 100
	maxContentWidth  = 140
	minContentHeight = 5

	loadTimeout = 15 * time.Second

	// Periodic refresh picks up the day rollover and writes from other clients.
	autoRefreshEvery = time.Minute
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		cfg:        opts.Config,
		store:      opts.Store,
		ledger:     opts.Ledger,
		user:       opts.UserID,
		storeLabel: opts.StoreLabel,
		needSetup:  opts.NeedSetup,
		spinner:    sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadCmd(a.ledger, a.user),
		a.spinner.Tick,
		tickCmd(),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.payForm != nil {
			a.payForm = a.payForm.WithWidth(dialogWidth(msg.Width))
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		// Global: quit
		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup wizard intercepts all keys
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		// Payment dialog intercepts all keys
		if a.payForm != nil {
			if key == "esc" {
				a.payForm, a.payVals = nil, nil
				return a, nil
			}
			return a.updatePaymentForm(msg)
		}

		if !a.loaded {
			if key == "q" {
				return a, tea.Quit
			}
			if key == "r" && a.loadErr != nil && !a.refreshing {
				a.refreshing = true
				return a, loadCmd(a.ledger, a.user)
			}
			return a, nil
		}

		// Help toggle
		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}

		// Dismiss help
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		a.message = ""

		switch key {
		case "q":
			return a, tea.Quit
		case "s", " ":
			return a.toggleToday()
		case "p":
			return a.openPaymentForm()
		case "r":
			if a.refreshing {
				return a, nil
			}
			a.refreshing = true
			return a, loadCmd(a.ledger, a.user)
		case "j", "down":
			if a.activeTab == tabHistory {
				a.histScroll++
			}
			return a, nil
		case "k", "up":
			if a.activeTab == tabHistory && a.histScroll > 0 {
				a.histScroll--
			}
			return a, nil
		case "left", "shift+tab":
			a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
			return a, nil
		case "right", "tab":
			a.activeTab = (a.activeTab + 1) % len(components.Tabs)
			return a, nil
		}

		if len(msg.Runes) == 1 {
			if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
		return a, nil

	case SnapshotMsg:
		a.refreshing = false
		if msg.Err != nil {
			if !a.loaded {
				a.loadErr = msg.Err
			}
			a.busy = false
			a.setMessage(msg.Err.Error(), true)
			return a, nil
		}

		// An estimate for a pending write stays until the write reports back.
		if !a.busy {
			a.snap = msg.Snapshot
		}
		a.history = msg.History
		a.hasHistory = msg.HasHistory
		a.loaded = true
		a.loadErr = nil
		a.lastRefresh = time.Now()
		a.loadTime = msg.Took

		// Activate first-run setup after data loads
		if a.needSetup && a.setupForm == nil {
			a.needSetup = false
			a.setupVals = newSetupValues(a.fileConfig())
			a.setupForm = newSetupForm(a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case SkipDoneMsg:
		a.busy = false
		if msg.Err != nil {
			a.setMessage("Skip not saved: "+msg.Err.Error(), true)
		} else if msg.Skipped {
			a.setMessage("Skipped today", false)
		} else {
			a.setMessage("Marked today as eaten", false)
		}
		a.refreshing = true
		return a, loadCmd(a.ledger, a.user)

	case PaymentDoneMsg:
		a.busy = false
		if msg.Err != nil {
			a.setMessage("Payment not saved: "+msg.Err.Error(), true)
		} else {
			a.setMessage("Recorded "+a.money(msg.Record.Amount), false)
		}
		a.refreshing = true
		return a, loadCmd(a.ledger, a.user)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && !a.refreshing && !a.busy {
			a.refreshing = true
			cmds = append(cmds, loadCmd(a.ledger, a.user))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to active forms (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.payForm != nil {
		return a.updatePaymentForm(msg)
	}

	return a, nil
}

// toggleToday flips today's skip optimistically and issues the write.
func (a App) toggleToday() (tea.Model, tea.Cmd) {
	if a.busy {
		return a, nil
	}
	if a.snap.Today != a.ledger.Config().Today() {
		// The snapshot is from before midnight; let the ledger read today's state.
		a.busy = true
		return a, toggleTodayCmd(a.ledger, a.user)
	}
	want := !a.snap.IsTodaySkipped
	a.snap = optimisticToggle(a.snap, a.ledger.Config().CostPerMeal)
	a.busy = true
	return a, setSkipCmd(a.ledger, a.user, a.snap.Today, want)
}

// optimisticToggle estimates the snapshot after flipping today's skip by
// moving one meal's cost. The next authoritative read replaces it.
func optimisticToggle(s model.Snapshot, costPerMeal decimal.Decimal) model.Snapshot {
	if s.IsTodaySkipped {
		s.SkippedDays--
		s.TotalCost = s.TotalCost.Add(costPerMeal)
		s.Balance = s.Balance.Add(costPerMeal)
	} else {
		s.SkippedDays++
		s.TotalCost = s.TotalCost.Sub(costPerMeal)
		s.Balance = s.Balance.Sub(costPerMeal)
	}
	s.IsTodaySkipped = !s.IsTodaySkipped
	return s
}

// optimisticPayment estimates the snapshot after a payment lands.
func optimisticPayment(s model.Snapshot, amount decimal.Decimal) model.Snapshot {
	s.TotalPaid = s.TotalPaid.Add(amount)
	s.Balance = s.Balance.Sub(amount)
	return s
}

func (a *App) setMessage(msg string, isErr bool) {
	a.message = msg
	a.messageErr = isErr
}

func (a App) money(d decimal.Decimal) string {
	return cli.FormatMoney(a.cfg.Ledger.Currency, d)
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.setupForm != nil {
		return a.setupForm.View()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.payForm != nil {
		return a.viewPaymentDialog()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  tiffin needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Owed).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ tiffin"))
	b.WriteString(subtitleStyle.Render(" · Meal Ledger"))
	b.WriteString("\n\n")

	switch {
	case a.loadErr != nil && !a.refreshing:
		b.WriteString(errStyle.Render("Could not load the ledger"))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render(truncStr(a.loadErr.Error(), 60)))
		b.WriteString("\n\n")
		b.WriteString(subtitleStyle.Render("[r] retry  [q] quit"))
	default:
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Loading " + a.user + " from " + a.storeLabel + "..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"s / space", "Skip today / I ate today"},
		{"p", "Record a payment"},
		{"r", "Refresh"},
		{"d h", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Scroll history"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	info := components.StatusInfo{
		Store:      a.storeLabel,
		Refreshing: a.refreshing || a.busy,
		Message:    a.message,
		IsError:    a.messageErr,
	}
	if !a.lastRefresh.IsZero() {
		info.Refreshed = "updated " + a.lastRefresh.Format("15:04")
	}
	statusBar := components.RenderStatusBar(w, info)

	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch a.activeTab {
	case tabDashboard:
		content = a.renderDashboardTab(cw)
	case tabHistory:
		content = a.renderHistoryTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(autoRefreshEvery, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadCmd reads the snapshot and history for user.
func loadCmd(l *ledger.Ledger, user string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		snap, err := l.ComputeSnapshot(ctx, user)
		if err != nil {
			return SnapshotMsg{Err: err, Took: time.Since(start)}
		}

		h, err := l.History(ctx, user)
		switch {
		case errors.Is(err, ledger.ErrNoHistory):
			return SnapshotMsg{Snapshot: snap, Took: time.Since(start)}
		case err != nil:
			return SnapshotMsg{Err: err, Took: time.Since(start)}
		}
		return SnapshotMsg{Snapshot: snap, History: h, HasHistory: true, Took: time.Since(start)}
	}
}

func setSkipCmd(l *ledger.Ledger, user, date string, skipped bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		return SkipDoneMsg{Skipped: skipped, Err: l.SetSkip(ctx, user, date, skipped)}
	}
}

func toggleTodayCmd(l *ledger.Ledger, user string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		skipped, err := l.ToggleToday(ctx, user)
		return SkipDoneMsg{Skipped: skipped, Err: err}
	}
}

func recordPaymentCmd(l *ledger.Ledger, user string, amount decimal.Decimal, note string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		rec, err := l.RecordPaymentNote(ctx, user, amount, note)
		return PaymentDoneMsg{Record: rec, Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
