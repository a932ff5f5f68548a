package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRecord_TotalEqualsBasePlusZeroPenalty(t *testing.T) {
	rec := NewRecord("12345678901", decimal.NewFromFloat(150.00), date(2025, time.September, 10))

	assert.Equal(t, StatusPending, rec.Status)
	assert.True(t, rec.TotalDue.Equal(rec.BaseAmount.Add(rec.PenaltyAmount)))
	assert.True(t, rec.PenaltyAmount.IsZero())
	assert.Equal(t, "2025-09", rec.CycleRef)
}

func TestMarkOverdue_OnlyTransitionsPending(t *testing.T) {
	rec := NewRecord("12345678901", decimal.NewFromInt(100), date(2025, time.August, 1))

	assert.True(t, rec.MarkOverdue())
	assert.Equal(t, StatusOverdue, rec.Status)

	// Re-running against an already-overdue record is a no-op.
	assert.False(t, rec.MarkOverdue())
	assert.Equal(t, StatusOverdue, rec.Status)

	rec.MarkPaid(date(2025, time.August, 5))
	assert.False(t, rec.MarkOverdue())
	assert.Equal(t, StatusPaid, rec.Status)
}

func TestMarkPaid_StampsDateAndResetsPenalty(t *testing.T) {
	rec := &Record{
		ClientCPF:     "12345678901",
		BaseAmount:    decimal.NewFromInt(100),
		PenaltyAmount: decimal.NewFromInt(10),
		TotalDue:      decimal.NewFromInt(110),
		DueDate:       date(2025, time.August, 1),
		Status:        StatusOverdue,
	}

	rec.MarkPaid(date(2025, time.August, 20))

	assert.Equal(t, StatusPaid, rec.Status)
	assert.True(t, rec.PaidAt.Valid)
	assert.Equal(t, date(2025, time.August, 20), rec.PaidAt.Time)
	assert.True(t, rec.PenaltyAmount.IsZero())
}

func TestDaysOverdue(t *testing.T) {
	rec := NewRecord("12345678901", decimal.NewFromInt(100), date(2025, time.August, 10))
	rec.MarkOverdue()

	assert.Equal(t, 1, rec.DaysOverdue(date(2025, time.August, 11)))
	assert.Equal(t, 7, rec.DaysOverdue(date(2025, time.August, 17)))
	assert.Equal(t, 500, rec.DaysOverdue(date(2026, time.December, 23)))

	// Not yet past due.
	assert.Equal(t, 0, rec.DaysOverdue(date(2025, time.August, 10)))
}

func TestDaysOverdue_ZeroWhenPaid(t *testing.T) {
	rec := NewRecord("12345678901", decimal.NewFromInt(100), date(2025, time.August, 10))
	rec.MarkPaid(date(2025, time.August, 15))

	assert.Equal(t, 0, rec.DaysOverdue(date(2025, time.August, 20)))
}

func TestNextDueDate(t *testing.T) {
	today := date(2025, time.August, 25)

	// A future start keeps its computed due date.
	due := NextDueDate(date(2025, time.August, 10), 1, today)
	assert.Equal(t, date(2025, time.September, 9), due)

	// A computed date in the past is recomputed from today.
	due = NextDueDate(date(2024, time.January, 1), 1, today)
	assert.Equal(t, date(2025, time.September, 24), due)

	// Quarterly period uses flat 30-day months.
	due = NextDueDate(today, 3, today)
	assert.Equal(t, today.AddDate(0, 0, 90), due)
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2025, time.August, 10, 23, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.August, 12, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, DaysBetween(from, to))
}

func TestDaysBetween_CalendarDaysAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Spring forward on 2026-03-08 makes that local day 23 hours long; the
	// count must still be in calendar days.
	due := time.Date(2026, time.March, 5, 0, 0, 0, 0, loc)
	today := time.Date(2026, time.March, 15, 0, 0, 0, 0, loc)

	assert.Equal(t, 10, DaysBetween(due, today))

	rec := NewRecord("12345678901", decimal.NewFromInt(100), due)
	rec.MarkOverdue()
	assert.Equal(t, 10, rec.DaysOverdue(today))
}
