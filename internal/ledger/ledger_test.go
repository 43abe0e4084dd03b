package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/tiffin/internal/ledger"
	"github.com/theirongolddev/tiffin/internal/model"
	"github.com/theirongolddev/tiffin/internal/store"

	"github.com/shopspring/decimal"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

// newLedger returns a ledger whose clock reads 09:30 UTC on now.
func newLedger(t *testing.T, start, now string) (*ledger.Ledger, *store.Memory) {
	t.Helper()
	clock := mustDate(t, now).Add(9*time.Hour + 30*time.Minute)
	cfg := ledger.Config{
		CostPerMeal: decimal.NewFromInt(60),
		StartDate:   mustDate(t, start),
		Location:    time.UTC,
		Now:         func() time.Time { return clock },
	}
	mem := store.NewMemory()
	return ledger.New(mem, cfg), mem
}

func snapshot(t *testing.T, l *ledger.Ledger, user string) model.Snapshot {
	t.Helper()
	snap, err := l.ComputeSnapshot(context.Background(), user)
	if err != nil {
		t.Fatalf("ComputeSnapshot: %v", err)
	}
	return snap
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s = %s, want %d", name, got, want)
	}
}

func TestComputeSnapshot_Scenario(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, "2026-02-01", "2026-02-05")

	snap := snapshot(t, l, "u")
	if snap.TotalDays != 5 {
		t.Fatalf("TotalDays = %d, want 5", snap.TotalDays)
	}
	assertDecimal(t, "TotalCost", snap.TotalCost, 300)
	assertDecimal(t, "Balance", snap.Balance, 300)

	if err := l.SetSkip(ctx, "u", "2026-02-03", true); err != nil {
		t.Fatal(err)
	}
	snap = snapshot(t, l, "u")
	if snap.SkippedDays != 1 {
		t.Errorf("SkippedDays = %d, want 1", snap.SkippedDays)
	}
	assertDecimal(t, "TotalCost", snap.TotalCost, 240)
	assertDecimal(t, "Balance", snap.Balance, 240)

	if _, err := l.RecordPayment(ctx, "u", decimal.NewFromInt(120)); err != nil {
		t.Fatal(err)
	}
	snap = snapshot(t, l, "u")
	assertDecimal(t, "TotalPaid", snap.TotalPaid, 120)
	assertDecimal(t, "Balance", snap.Balance, 120)
	if !snap.Owes() {
		t.Error("Owes() = false with positive balance")
	}
}

func TestComputeSnapshot_EmptyUser(t *testing.T) {
	l, _ := newLedger(t, "2026-02-01", "2026-03-10")

	snap := snapshot(t, l, "nobody")
	if snap.SkippedDays != 0 {
		t.Errorf("SkippedDays = %d, want 0", snap.SkippedDays)
	}
	if !snap.TotalPaid.IsZero() {
		t.Errorf("TotalPaid = %s, want 0", snap.TotalPaid)
	}
	want := int64(snap.TotalDays) * 60
	assertDecimal(t, "TotalCost", snap.TotalCost, want)
	assertDecimal(t, "Balance", snap.Balance, want)
	if snap.TotalDays != 38 {
		t.Errorf("TotalDays = %d, want 38", snap.TotalDays)
	}
}

func TestTotalDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		now   string
		want  int
	}{
		{"start date itself", "2026-02-01", "2026-02-01", 1},
		{"four days later", "2026-02-01", "2026-02-05", 5},
		{"across month end", "2026-01-30", "2026-02-02", 4},
		{"leap day year", "2028-02-28", "2028-03-01", 3},
		{"before start clamps", "2026-02-01", "2026-01-20", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ledger.Config{StartDate: mustDate(t, tt.start), Location: time.UTC}
			if got := cfg.TotalDays(mustDate(t, tt.now).Add(23 * time.Hour)); got != tt.want {
				t.Errorf("TotalDays = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTotalDays_UsesConfiguredZone(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)
	cfg := ledger.Config{
		StartDate: time.Date(2026, time.February, 1, 0, 0, 0, 0, kolkata),
		Location:  kolkata,
	}

	// 20:00 UTC on Feb 4 is already Feb 5 in IST.
	now := time.Date(2026, time.February, 4, 20, 0, 0, 0, time.UTC)
	if got := cfg.TotalDays(now); got != 5 {
		t.Fatalf("TotalDays = %d, want 5", got)
	}

	cfg.Now = func() time.Time { return now }
	if got := cfg.Today(); got != "2026-02-05" {
		t.Fatalf("Today = %q, want 2026-02-05", got)
	}
}

func TestTotalDays_DSTTransition(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	cfg := ledger.Config{
		StartDate: time.Date(2026, time.March, 7, 0, 0, 0, 0, ny),
		Location:  ny,
	}
	now := time.Date(2026, time.March, 9, 8, 0, 0, 0, ny)
	if got := cfg.TotalDays(now); got != 3 {
		t.Fatalf("TotalDays = %d, want 3", got)
	}
}

func TestSetSkip_Idempotent(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, "2026-02-01", "2026-02-10")

	before := snapshot(t, l, "u").SkippedDays
	for i := 0; i < 3; i++ {
		if err := l.SetSkip(ctx, "u", "2026-02-04", true); err != nil {
			t.Fatal(err)
		}
	}
	if got := snapshot(t, l, "u").SkippedDays; got != before+1 {
		t.Fatalf("SkippedDays = %d, want %d", got, before+1)
	}
}

func TestSetSkip_UnskipRestores(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, "2026-02-01", "2026-02-10")

	if err := l.SetSkip(ctx, "u", "2026-02-02", true); err != nil {
		t.Fatal(err)
	}
	before := snapshot(t, l, "u").SkippedDays

	if err := l.SetSkip(ctx, "u", "2026-02-06", true); err != nil {
		t.Fatal(err)
	}
	if err := l.SetSkip(ctx, "u", "2026-02-06", false); err != nil {
		t.Fatal(err)
	}
	if got := snapshot(t, l, "u").SkippedDays; got != before {
		t.Fatalf("SkippedDays after unskip = %d, want %d", got, before)
	}

	// Never-skipped date: no error, no change.
	if err := l.SetSkip(ctx, "u", "2026-02-09", false); err != nil {
		t.Fatalf("unskip of never-skipped date: %v", err)
	}
	if got := snapshot(t, l, "u").SkippedDays; got != before {
		t.Fatalf("SkippedDays after no-op unskip = %d, want %d", got, before)
	}
}

func TestRecordPayment_Accumulates(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, "2026-02-01", "2026-02-05")

	base := snapshot(t, l, "u")
	amounts := []string{"100", "50.5", "0.25"}
	var ids []string
	for _, a := range amounts {
		rec, err := l.RecordPayment(ctx, "u", decimal.RequireFromString(a))
		if err != nil {
			t.Fatal(err)
		}
		if rec.Note != ledger.DefaultNote {
			t.Errorf("Note = %q, want %q", rec.Note, ledger.DefaultNote)
		}
		ids = append(ids, rec.ID)
	}
	if ids[0] == ids[1] || ids[1] == ids[2] {
		t.Fatalf("payment ids not unique: %v", ids)
	}

	snap := snapshot(t, l, "u")
	wantPaid := decimal.RequireFromString("150.75")
	if !snap.TotalPaid.Equal(wantPaid) {
		t.Errorf("TotalPaid = %s, want %s", snap.TotalPaid, wantPaid)
	}
	if !snap.Balance.Equal(base.Balance.Sub(wantPaid)) {
		t.Errorf("Balance = %s, want %s", snap.Balance, base.Balance.Sub(wantPaid))
	}
}

func TestRecordPayment_Advance(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, "2026-02-01", "2026-02-01")

	if _, err := l.RecordPaymentNote(ctx, "u", decimal.NewFromInt(600), "February upfront"); err != nil {
		t.Fatal(err)
	}
	snap := snapshot(t, l, "u")
	assertDecimal(t, "Balance", snap.Balance, -540)
	if snap.Owes() {
		t.Error("Owes() = true for advance balance")
	}
}

func TestIsTodaySkipped_Toggle(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, "2026-02-01", "2026-02-05")

	if snapshot(t, l, "u").IsTodaySkipped {
		t.Fatal("IsTodaySkipped = true before any skip")
	}

	// A skip on a different day must not set today's flag.
	if err := l.SetSkip(ctx, "u", "2026-02-04", true); err != nil {
		t.Fatal(err)
	}
	if snapshot(t, l, "u").IsTodaySkipped {
		t.Fatal("IsTodaySkipped = true for yesterday's skip")
	}

	skipped, err := l.ToggleToday(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}
	if !skipped || !snapshot(t, l, "u").IsTodaySkipped {
		t.Fatal("ToggleToday did not skip today")
	}

	skipped, err = l.ToggleToday(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}
	if skipped || snapshot(t, l, "u").IsTodaySkipped {
		t.Fatal("second ToggleToday did not clear today")
	}
}

func TestUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, "2026-02-01", "2026-02-05")

	if err := l.SetSkip(ctx, "alice", "2026-02-02", true); err != nil {
		t.Fatal(err)
	}
	if _, err := l.RecordPayment(ctx, "alice", decimal.NewFromInt(60)); err != nil {
		t.Fatal(err)
	}

	bob := snapshot(t, l, "bob")
	if bob.SkippedDays != 0 || !bob.TotalPaid.IsZero() {
		t.Fatalf("bob sees alice's records: %+v", bob)
	}
}

func TestPermissiveInputs(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, "2026-02-01", "2026-02-01")

	// More skips than elapsed days, a malformed key and a negative payment
	// are all accepted as-is.
	for _, d := range []string{"2026-02-01", "2026-03-01", "not-a-date"} {
		if err := l.SetSkip(ctx, "u", d, true); err != nil {
			t.Fatalf("SetSkip(%q): %v", d, err)
		}
	}
	if _, err := l.RecordPayment(ctx, "u", decimal.NewFromInt(-10)); err != nil {
		t.Fatal(err)
	}

	snap := snapshot(t, l, "u")
	if snap.SkippedDays != 3 || snap.ChargeableDays() != -2 {
		t.Fatalf("SkippedDays=%d ChargeableDays=%d, want 3 and -2", snap.SkippedDays, snap.ChargeableDays())
	}
	assertDecimal(t, "TotalCost", snap.TotalCost, -120)
	assertDecimal(t, "Balance", snap.Balance, -110)
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, "2026-02-01", "2026-02-05")

	_ = l.SetSkip(ctx, "u", "2026-02-04", true)
	_ = l.SetSkip(ctx, "u", "2026-02-02", true)
	_, _ = l.RecordPayment(ctx, "u", decimal.NewFromInt(10))
	_, _ = l.RecordPayment(ctx, "u", decimal.NewFromInt(20))

	h, err := l.History(ctx, "u")
	if err != nil {
		t.Fatal(err)
	}
	if len(h.Skips) != 2 || h.Skips[0].Date != "2026-02-02" {
		t.Fatalf("Skips = %+v, want 2 ordered by date", h.Skips)
	}
	if len(h.Payments) != 2 || !h.Payments[1].Amount.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("Payments = %+v, want creation order", h.Payments)
	}
}

// failingStore fails every read or write according to its flags.
type failingStore struct {
	*store.Memory
	failSkips    bool
	failPayments bool
	failWrites   bool
}

var errBoom = errors.New("boom")

func (f *failingStore) SkipDates(ctx context.Context, u string) ([]string, error) {
	if f.failSkips {
		return nil, errBoom
	}
	return f.Memory.SkipDates(ctx, u)
}

func (f *failingStore) SumPayments(ctx context.Context, u string) (decimal.Decimal, error) {
	if f.failPayments {
		return decimal.Zero, errBoom
	}
	return f.Memory.SumPayments(ctx, u)
}

func (f *failingStore) PutSkip(ctx context.Context, u string, rec model.SkipRecord) error {
	if f.failWrites {
		return errBoom
	}
	return f.Memory.PutSkip(ctx, u, rec)
}

func (f *failingStore) DeleteSkip(ctx context.Context, u, d string) error {
	if f.failWrites {
		return errBoom
	}
	return f.Memory.DeleteSkip(ctx, u, d)
}

func (f *failingStore) AppendPayment(ctx context.Context, u string, rec model.PaymentRecord) error {
	if f.failWrites {
		return errBoom
	}
	return f.Memory.AppendPayment(ctx, u, rec)
}

func TestComputeSnapshot_RetrievalFailure(t *testing.T) {
	for _, tc := range []struct {
		name string
		fs   *failingStore
	}{
		{"skips", &failingStore{Memory: store.NewMemory(), failSkips: true}},
		{"payments", &failingStore{Memory: store.NewMemory(), failPayments: true}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := ledger.New(tc.fs, ledger.DefaultConfig())
			snap, err := l.ComputeSnapshot(context.Background(), "u")
			if !errors.Is(err, ledger.ErrRetrieval) {
				t.Fatalf("err = %v, want ErrRetrieval", err)
			}
			if !errors.Is(err, errBoom) {
				t.Fatalf("err = %v, want wrapped store error", err)
			}
			var re *ledger.RetrievalError
			if !errors.As(err, &re) || re.UserID != "u" {
				t.Fatalf("err = %#v, want *RetrievalError for u", err)
			}
			if snap != (model.Snapshot{}) {
				t.Fatalf("partial snapshot returned: %+v", snap)
			}
		})
	}
}

func TestWriteFailure(t *testing.T) {
	ctx := context.Background()
	fs := &failingStore{Memory: store.NewMemory(), failWrites: true}
	l := ledger.New(fs, ledger.DefaultConfig())

	if err := l.SetSkip(ctx, "u", "2026-02-02", true); !errors.Is(err, ledger.ErrWrite) {
		t.Errorf("SetSkip(true) err = %v, want ErrWrite", err)
	}
	if err := l.SetSkip(ctx, "u", "2026-02-02", false); !errors.Is(err, ledger.ErrWrite) {
		t.Errorf("SetSkip(false) err = %v, want ErrWrite", err)
	}
	if _, err := l.RecordPayment(ctx, "u", decimal.NewFromInt(5)); !errors.Is(err, ledger.ErrWrite) {
		t.Errorf("RecordPayment err = %v, want ErrWrite", err)
	}
	if errors.Is(ledger.ErrWrite, ledger.ErrRetrieval) {
		t.Error("ErrWrite matches ErrRetrieval")
	}
}
