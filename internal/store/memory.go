package store

import (
	"context"
	"sort"
	"sync"

	"github.com/theirongolddev/tiffin/internal/model"

	"github.com/shopspring/decimal"
)

// Memory is an in-process store. Records vanish with the process.
type Memory struct {
	mu       sync.RWMutex
	skips    map[string]map[string]model.SkipRecord // userID -> date -> record
	payments map[string][]model.PaymentRecord
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		skips:    make(map[string]map[string]model.SkipRecord),
		payments: make(map[string][]model.PaymentRecord),
	}
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// SkipDates returns the user's skipped dates in ascending order.
func (m *Memory) SkipDates(_ context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dates := make([]string, 0, len(m.skips[userID]))
	for d := range m.skips[userID] {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates, nil
}

// PutSkip records a skip, replacing any existing record for the same date.
func (m *Memory) PutSkip(_ context.Context, userID string, rec model.SkipRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	days, ok := m.skips[userID]
	if !ok {
		days = make(map[string]model.SkipRecord)
		m.skips[userID] = days
	}
	days[rec.Date] = rec
	return nil
}

// DeleteSkip removes a skip. Missing records are not an error.
func (m *Memory) DeleteSkip(_ context.Context, userID, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.skips[userID], date)
	return nil
}

// AppendPayment adds a payment after the user's existing ones.
func (m *Memory) AppendPayment(_ context.Context, userID string, rec model.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[userID] = append(m.payments[userID], rec)
	return nil
}

// SumPayments totals the user's payment amounts.
func (m *Memory) SumPayments(_ context.Context, userID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, p := range m.payments[userID] {
		total = total.Add(p.Amount)
	}
	return total, nil
}

// Skips returns full skip records ordered by date.
func (m *Memory) Skips(_ context.Context, userID string) ([]model.SkipRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.SkipRecord, 0, len(m.skips[userID]))
	for _, rec := range m.skips[userID] {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// Payments returns a copy of the user's payments in insertion order.
func (m *Memory) Payments(_ context.Context, userID string) ([]model.PaymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.PaymentRecord, len(m.payments[userID]))
	copy(out, m.payments[userID])
	return out, nil
}
