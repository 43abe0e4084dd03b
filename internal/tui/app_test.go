package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/tiffin/internal/config"
	"github.com/theirongolddev/tiffin/internal/ledger"
	"github.com/theirongolddev/tiffin/internal/model"
	"github.com/theirongolddev/tiffin/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

var errPutSkip = errors.New("put skip refused")

// refusingStore fails every skip write.
type refusingStore struct {
	*store.Memory
}

func (refusingStore) PutSkip(context.Context, string, model.SkipRecord) error {
	return errPutSkip
}

func testApp(t *testing.T, st ledger.Store) App {
	t.Helper()
	now := time.Date(2026, time.February, 5, 12, 0, 0, 0, time.UTC)
	lc := ledger.Config{
		CostPerMeal: decimal.NewFromInt(60),
		StartDate:   time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		Location:    time.UTC,
		Now:         func() time.Time { return now },
	}
	a := NewApp(Options{
		Config:     config.DefaultConfig(),
		Store:      st,
		Ledger:     ledger.New(st, lc),
		UserID:     "u",
		StoreLabel: "memory",
	})
	return step(t, a, loadCmd(a.ledger, a.user)())
}

// step feeds msg to the app and returns the updated model.
func step(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	return m.(App)
}

func press(t *testing.T, a App, key rune) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{key}})
	return m.(App), cmd
}

func TestToggleTodayOptimisticThenAuthoritative(t *testing.T) {
	mem := store.NewMemory()
	a := testApp(t, mem)

	if !a.loaded || !a.snap.Balance.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("initial snapshot: loaded=%v balance=%s", a.loaded, a.snap.Balance)
	}

	a, cmd := press(t, a, 's')
	if !a.snap.IsTodaySkipped || !a.snap.Balance.Equal(decimal.NewFromInt(240)) || !a.busy {
		t.Fatalf("optimistic: skipped=%v balance=%s busy=%v", a.snap.IsTodaySkipped, a.snap.Balance, a.busy)
	}
	if dates, _ := mem.SkipDates(context.Background(), "u"); len(dates) != 0 {
		t.Fatalf("write happened before the command ran: %v", dates)
	}

	// A second press while the write is pending is ignored.
	a, again := press(t, a, 's')
	if again != nil || !a.snap.IsTodaySkipped {
		t.Fatal("toggle accepted while busy")
	}

	done := cmd()
	m, refresh := a.Update(done)
	a = m.(App)
	if a.busy || refresh == nil {
		t.Fatalf("after write: busy=%v refresh=%v", a.busy, refresh != nil)
	}

	a = step(t, a, refresh())
	if !a.snap.IsTodaySkipped || a.snap.SkippedDays != 1 || !a.snap.Balance.Equal(decimal.NewFromInt(240)) {
		t.Errorf("authoritative: %+v", a.snap)
	}
	if len(a.history.Skips) != 1 || a.history.Skips[0].Date != "2026-02-05" {
		t.Errorf("history skips = %+v", a.history.Skips)
	}

	// Toggle back restores the original balance.
	a, cmd = press(t, a, 's')
	a = step(t, a, cmd())
	a = step(t, a, loadCmd(a.ledger, a.user)())
	if a.snap.IsTodaySkipped || !a.snap.Balance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("after untoggle: %+v", a.snap)
	}
}

func TestToggleFailureRevertsOnRefresh(t *testing.T) {
	a := testApp(t, refusingStore{Memory: store.NewMemory()})

	a, cmd := press(t, a, 's')
	if !a.snap.IsTodaySkipped {
		t.Fatal("no optimistic update")
	}

	m, refresh := a.Update(cmd())
	a = m.(App)
	if !a.messageErr || !strings.Contains(a.message, "put skip refused") {
		t.Errorf("message = %q (err=%v)", a.message, a.messageErr)
	}

	a = step(t, a, refresh())
	if a.snap.IsTodaySkipped || !a.snap.Balance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("estimate not replaced: %+v", a.snap)
	}
}

func TestPaymentFlow(t *testing.T) {
	a := testApp(t, store.NewMemory())

	a, _ = press(t, a, 'p')
	if a.payForm == nil {
		t.Fatal("payment form not opened")
	}
	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = m.(App)
	if a.payForm != nil {
		t.Fatal("esc did not close the payment form")
	}

	a.snap = optimisticPayment(a.snap, decimal.NewFromInt(120))
	if !a.snap.Balance.Equal(decimal.NewFromInt(180)) || !a.snap.TotalPaid.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("optimistic payment: %+v", a.snap)
	}

	done := recordPaymentCmd(a.ledger, a.user, decimal.NewFromInt(120), "")()
	pm, ok := done.(PaymentDoneMsg)
	if !ok || pm.Err != nil || pm.Record.Note != ledger.DefaultNote {
		t.Fatalf("recordPaymentCmd = %#v", done)
	}

	m, refresh := a.Update(done)
	a = step(t, m.(App), refresh())
	if !a.snap.Balance.Equal(decimal.NewFromInt(180)) || len(a.history.Payments) != 1 {
		t.Errorf("after payment: balance=%s payments=%d", a.snap.Balance, len(a.history.Payments))
	}
	if !strings.Contains(a.message, "₹120") {
		t.Errorf("message = %q", a.message)
	}
}

func TestParseAmount(t *testing.T) {
	if d, err := parseAmount(" 150.75 "); err != nil || d.String() != "150.75" {
		t.Errorf("parseAmount(valid) = %s, %v", d, err)
	}
	for _, bad := range []string{"", "abc", "0", "-5"} {
		if _, err := parseAmount(bad); err == nil {
			t.Errorf("parseAmount(%q) accepted", bad)
		}
	}
}

func TestOptimisticToggleRoundTrip(t *testing.T) {
	cost := decimal.NewFromInt(60)
	s := model.Snapshot{TotalDays: 5, TotalCost: decimal.NewFromInt(300), Balance: decimal.NewFromInt(300)}

	skipped := optimisticToggle(s, cost)
	if skipped.SkippedDays != 1 || !skipped.TotalCost.Equal(decimal.NewFromInt(240)) {
		t.Errorf("skip estimate = %+v", skipped)
	}
	back := optimisticToggle(skipped, cost)
	if back.IsTodaySkipped || back.SkippedDays != 0 || !back.Balance.Equal(s.Balance) {
		t.Errorf("round trip = %+v", back)
	}
}

func TestViewRenders(t *testing.T) {
	a := testApp(t, store.NewMemory())

	for _, w := range []int{70, 140} {
		a = step(t, a, tea.WindowSizeMsg{Width: w, Height: 30})
		out := a.View()
		if !strings.Contains(out, "You Owe") || !strings.Contains(out, "₹300") {
			t.Errorf("width %d: dashboard missing balance", w)
		}

		a, _ = press(t, a, 'h')
		if out := a.View(); !strings.Contains(out, "No payments yet") {
			t.Errorf("width %d: history tab missing empty state", w)
		}
		a, _ = press(t, a, 'd')
	}

	a = step(t, a, tea.WindowSizeMsg{Width: 40, Height: 10})
	if !strings.Contains(a.View(), "too narrow") {
		t.Error("narrow terminal message missing")
	}
}

func TestToggleAfterMidnightUsesCurrentDay(t *testing.T) {
	mem := store.NewMemory()
	now := time.Date(2026, time.February, 5, 23, 59, 0, 0, time.UTC)
	lc := ledger.Config{
		CostPerMeal: decimal.NewFromInt(60),
		StartDate:   time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
		Location:    time.UTC,
		Now:         func() time.Time { return now },
	}
	a := NewApp(Options{
		Config: config.DefaultConfig(),
		Store:  mem,
		Ledger: ledger.New(mem, lc),
		UserID: "u",
	})
	a = step(t, a, loadCmd(a.ledger, a.user)())
	if a.snap.Today != "2026-02-05" {
		t.Fatalf("Today = %q", a.snap.Today)
	}

	now = now.Add(2 * time.Minute)
	a, cmd := press(t, a, 's')
	if cmd == nil || !a.busy {
		t.Fatal("toggle not issued")
	}
	a = step(t, a, cmd())

	dates, err := mem.SkipDates(context.Background(), "u")
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 1 || dates[0] != "2026-02-06" {
		t.Errorf("skip dates = %v, want [2026-02-06]", dates)
	}
	if a.busy {
		t.Error("still busy after write")
	}
}

func TestApplySetupKeepsEnvOutOfFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	config.SetPath(path)
	t.Cleanup(func() { config.SetPath("") })
	t.Setenv("TIFFIN_USER", "someone_else")
	t.Setenv("TIFFIN_DSN", "postgres://u:secret@db/tiffin")

	a := testApp(t, store.NewMemory())
	a.setupVals = &setupValues{userID: "asha", cost: "75", startDate: "2026-02-01", theme: "flexoki-dark"}
	if err := a.applySetup(); err != nil {
		t.Fatalf("applySetup: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "secret") || strings.Contains(string(data), "someone_else") {
		t.Errorf("env values persisted:\n%s", data)
	}
	if !strings.Contains(string(data), `user_id = "asha"`) {
		t.Errorf("wizard user missing:\n%s", data)
	}
	if a.user != "asha" {
		t.Errorf("user = %q", a.user)
	}
}
