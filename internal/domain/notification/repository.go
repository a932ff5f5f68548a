package notification

import (
	"context"
	"time"
)

// Repository defines the persistence operations for the notification ledger.
// Attempts are append-only: after creation only the explicit mark operations
// below may touch a row, and those exist for ad-hoc resend tooling outside
// the daily routine.
type Repository interface {
	Create(ctx context.Context, a *Attempt) error
	GetByID(ctx context.Context, id int64) (*Attempt, error)
	ListByBilling(ctx context.Context, billingID int64) ([]*Attempt, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int64, failedAt time.Time) error
}
