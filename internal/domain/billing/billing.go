package billing

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a billing record.
// Allowed transitions: PENDING -> PAID, PENDING -> OVERDUE, OVERDUE -> PAID.
// CANCELLED records are never picked up by the daily routine.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusOverdue   Status = "OVERDUE"
	StatusCancelled Status = "CANCELLED"
)

// CycleRefFormat is the year-month reference stored on each record, e.g. "2025-08".
const CycleRefFormat = "2006-01"

// DisplayDateFormat renders dates in customer-facing messages (DD/MM/YYYY).
const DisplayDateFormat = "02/01/2006"

// daysPerMonth is the flat month length used for due-date arithmetic.
const daysPerMonth = 30

// Record is one payment obligation for one billing cycle.
type Record struct {
	ID            int64
	ClientCPF     string
	BaseAmount    decimal.Decimal
	PenaltyAmount decimal.Decimal
	TotalDue      decimal.Decimal
	DueDate       time.Time
	PaidAt        sql.NullTime
	CycleRef      string
	Status        Status
}

// NewRecord builds a pending record with zero penalty, so TotalDue equals the
// base amount and the cycle reference is derived from the due date.
func NewRecord(clientCPF string, base decimal.Decimal, dueDate time.Time) *Record {
	dueDate = DateOnly(dueDate)
	return &Record{
		ClientCPF:     clientCPF,
		BaseAmount:    base,
		PenaltyAmount: decimal.Zero,
		TotalDue:      base,
		DueDate:       dueDate,
		CycleRef:      dueDate.Format(CycleRefFormat),
		Status:        StatusPending,
	}
}

func (r *Record) IsPending() bool { return r.Status == StatusPending }
func (r *Record) IsPaid() bool    { return r.Status == StatusPaid }
func (r *Record) IsOverdue() bool { return r.Status == StatusOverdue }

// IsPastDue reports whether the due date has passed without payment.
func (r *Record) IsPastDue(today time.Time) bool {
	return r.DueDate.Before(DateOnly(today)) && !r.IsPaid()
}

// DaysOverdue returns the number of whole days past the due date, or 0 when
// the record is not past due.
func (r *Record) DaysOverdue(today time.Time) int {
	if !r.IsPastDue(today) {
		return 0
	}
	return DaysBetween(r.DueDate, today)
}

// MarkOverdue transitions PENDING -> OVERDUE. It reports whether a transition
// happened, so re-running against an already-overdue record is a no-op.
func (r *Record) MarkOverdue() bool {
	if !r.IsPending() {
		return false
	}
	r.Status = StatusOverdue
	return true
}

// MarkPaid settles the record: the payment date is stamped and the accrued
// penalty is reset to zero.
func (r *Record) MarkPaid(today time.Time) {
	r.Status = StatusPaid
	r.PaidAt = sql.NullTime{Time: DateOnly(today), Valid: true}
	r.PenaltyAmount = decimal.Zero
}

// DateOnly truncates a timestamp to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the whole calendar days from one date to another. Both
// dates are normalized to UTC midnight first, so a DST transition between them
// (a 23- or 25-hour local day) cannot skew the count.
func DaysBetween(from, to time.Time) int {
	return int(utcMidnight(to).Sub(utcMidnight(from)).Hours() / 24)
}

func utcMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDueDate computes the first due date for a contract: start plus the plan
// period in flat 30-day months. A date already in the past is recomputed from
// today so a newly provisioned client is never billed retroactively.
func NextDueDate(contractStart time.Time, periodMonths int, today time.Time) time.Time {
	today = DateOnly(today)
	due := DateOnly(contractStart).AddDate(0, 0, periodMonths*daysPerMonth)
	if due.Before(today) {
		return today.AddDate(0, 0, periodMonths*daysPerMonth)
	}
	return due
}
