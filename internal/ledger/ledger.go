// Package ledger computes tiffin balances from skip and payment records.
package ledger

import (
	"context"

	"github.com/theirongolddev/tiffin/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Ledger reads and writes one user's tiffin records through a Store.
// It holds no state of its own besides its config.
type Ledger struct {
	cfg   Config
	store Store
}

// New returns a ledger over store using cfg.
func New(store Store, cfg Config) *Ledger {
	return &Ledger{cfg: cfg, store: store}
}

// Config returns the accrual parameters in use.
func (l *Ledger) Config() Config {
	return l.cfg
}

// ComputeSnapshot derives the full financial summary for userID.
// Unknown users yield a snapshot with no skips and no payments.
func (l *Ledger) ComputeSnapshot(ctx context.Context, userID string) (model.Snapshot, error) {
	now := l.cfg.now()
	today := DateKey(now)

	var (
		dates []string
		paid  decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := l.store.SkipDates(gctx, userID)
		if err != nil {
			return &RetrievalError{Op: "fetch skips", UserID: userID, Err: err}
		}
		dates = d
		return nil
	})
	g.Go(func() error {
		sum, err := l.store.SumPayments(gctx, userID)
		if err != nil {
			return &RetrievalError{Op: "fetch payments", UserID: userID, Err: err}
		}
		paid = sum
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Snapshot{}, err
	}

	skipped := 0
	todaySkipped := false
	seen := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		skipped++
		if d == today {
			todaySkipped = true
		}
	}

	totalDays := l.cfg.TotalDays(now)
	cost := l.cfg.CostPerMeal.Mul(decimal.NewFromInt(int64(totalDays - skipped)))

	return model.Snapshot{
		UserID:         userID,
		At:             now,
		Today:          today,
		TotalDays:      totalDays,
		SkippedDays:    skipped,
		TotalCost:      cost,
		TotalPaid:      paid,
		Balance:        cost.Sub(paid),
		IsTodaySkipped: todaySkipped,
	}, nil
}

// SetSkip records (skipped=true) or clears (skipped=false) the skip for date.
// Both directions are idempotent. date is used verbatim as the record key.
func (l *Ledger) SetSkip(ctx context.Context, userID, date string, skipped bool) error {
	if skipped {
		rec := model.SkipRecord{Date: date, CreatedAt: l.cfg.now()}
		if err := l.store.PutSkip(ctx, userID, rec); err != nil {
			return &WriteError{Op: "put skip " + date, UserID: userID, Err: err}
		}
		return nil
	}
	if err := l.store.DeleteSkip(ctx, userID, date); err != nil {
		return &WriteError{Op: "delete skip " + date, UserID: userID, Err: err}
	}
	return nil
}

// ToggleToday flips today's skip and reports the new state. It reads a
// fresh snapshot first, so two racing toggles resolve last-write-wins.
func (l *Ledger) ToggleToday(ctx context.Context, userID string) (bool, error) {
	snap, err := l.ComputeSnapshot(ctx, userID)
	if err != nil {
		return false, err
	}
	next := !snap.IsTodaySkipped
	if err := l.SetSkip(ctx, userID, snap.Today, next); err != nil {
		return snap.IsTodaySkipped, err
	}
	return next, nil
}

// RecordPayment appends a payment with the default note.
func (l *Ledger) RecordPayment(ctx context.Context, userID string, amount decimal.Decimal) (model.PaymentRecord, error) {
	return l.RecordPaymentNote(ctx, userID, amount, DefaultNote)
}

// RecordPaymentNote appends a payment with the given note. Amounts are not
// validated; zero and negative values are stored as given.
func (l *Ledger) RecordPaymentNote(ctx context.Context, userID string, amount decimal.Decimal, note string) (model.PaymentRecord, error) {
	if note == "" {
		note = DefaultNote
	}
	rec := model.PaymentRecord{
		ID:     uuid.NewString(),
		Amount: amount,
		PaidAt: l.cfg.now(),
		Note:   note,
	}
	if err := l.store.AppendPayment(ctx, userID, rec); err != nil {
		return model.PaymentRecord{}, &WriteError{Op: "append payment", UserID: userID, Err: err}
	}
	return rec, nil
}

// History holds the raw records behind a snapshot.
type History struct {
	Skips    []model.SkipRecord
	Payments []model.PaymentRecord
}

// History lists the user's skip and payment records. The store must
// implement HistoryStore.
func (l *Ledger) History(ctx context.Context, userID string) (History, error) {
	hs, ok := l.store.(HistoryStore)
	if !ok {
		return History{}, ErrNoHistory
	}

	var h History
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		skips, err := hs.Skips(gctx, userID)
		if err != nil {
			return &RetrievalError{Op: "list skips", UserID: userID, Err: err}
		}
		h.Skips = skips
		return nil
	})
	g.Go(func() error {
		payments, err := hs.Payments(gctx, userID)
		if err != nil {
			return &RetrievalError{Op: "list payments", UserID: userID, Err: err}
		}
		h.Payments = payments
		return nil
	})
	if err := g.Wait(); err != nil {
		return History{}, err
	}
	return h, nil
}
