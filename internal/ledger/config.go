package ledger

import (
	"time"

	"github.com/theirongolddev/tiffin/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultNote is attached to payments recorded without an explicit note.
const DefaultNote = "Manual Entry"

// Config holds the accrual parameters. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	CostPerMeal decimal.Decimal
	StartDate   time.Time      // only its calendar date is used, in its own zone
	Location    *time.Location // day boundaries and today's key
	Now         func() time.Time
}

// DefaultConfig returns 60 per meal starting 2026-02-01 in local time.
func DefaultConfig() Config {
	return Config{
		CostPerMeal: decimal.NewFromInt(60),
		StartDate:   time.Date(2026, time.February, 1, 0, 0, 0, 0, time.Local),
		Location:    time.Local,
		Now:         time.Now,
	}
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Config) now() time.Time {
	if c.Now == nil {
		return time.Now().In(c.location())
	}
	return c.Now().In(c.location())
}

// Today returns the current date key in the configured zone.
func (c Config) Today() string {
	return DateKey(c.now())
}

// DateKey formats t as a skip record key in t's own zone.
func DateKey(t time.Time) string {
	return t.Format(model.DateLayout)
}

// TotalDays counts calendar days from the start date to now, inclusive.
// A now before the start date yields 0.
func (c Config) TotalDays(now time.Time) int {
	now = now.In(c.location())
	start := c.StartDate

	// Compare calendar dates on a UTC axis so DST shifts never change the count.
	a := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if b.Before(a) {
		return 0
	}
	return int(b.Sub(a)/(24*time.Hour)) + 1
}
