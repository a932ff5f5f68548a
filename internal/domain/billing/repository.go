package billing

import (
	"context"
	"time"
)

// Repository defines the persistence operations for billing records.
// The daily routine never hard-deletes a record; deletion belongs to the CRUD
// layer outside this core.
type Repository interface {
	Create(ctx context.Context, r *Record) error
	Save(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id int64) (*Record, error)
	// FindPendingDueBefore lists PENDING records whose due date is strictly
	// before the given date (overdue-marking input).
	FindPendingDueBefore(ctx context.Context, date time.Time) ([]*Record, error)
	// FindPendingDueOn lists PENDING records due exactly on the given date
	// (reminder-window input).
	FindPendingDueOn(ctx context.Context, date time.Time) ([]*Record, error)
	FindAllOverdue(ctx context.Context) ([]*Record, error)
	// FindMostRecentFor returns the client's billing with the latest due date.
	FindMostRecentFor(ctx context.Context, clientCPF string) (*Record, error)
}
