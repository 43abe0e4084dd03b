package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical calendar-date key format for skip records.
const DateLayout = "2006-01-02"

// SkipRecord marks a day the user was excused from the meal charge.
type SkipRecord struct {
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentRecord is an append-only payment entry.
type PaymentRecord struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	PaidAt time.Time       `json:"paid_at"`
	Note   string          `json:"note,omitempty"`
}

// Snapshot is the derived financial summary for one user at a point in time.
type Snapshot struct {
	UserID         string          `json:"user_id"`
	At             time.Time       `json:"at"`
	Today          string          `json:"today"`
	TotalDays      int             `json:"total_days"`
	SkippedDays    int             `json:"skipped_days"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	Balance        decimal.Decimal `json:"balance"`
	IsTodaySkipped bool            `json:"is_today_skipped"`
}

// ChargeableDays returns the days that accrue cost.
func (s Snapshot) ChargeableDays() int {
	return s.TotalDays - s.SkippedDays
}

// Owes reports whether the balance is an amount due rather than an advance.
func (s Snapshot) Owes() bool {
	return s.Balance.IsPositive()
}
