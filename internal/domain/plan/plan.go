package plan

import (
	"context"

	"github.com/shopspring/decimal"
)

// Plan is a service plan: the base amount billed every PeriodMonths months.
type Plan struct {
	ID           int64
	Name         string
	BaseAmount   decimal.Decimal
	PeriodMonths int
	Active       bool
}

// Repository defines the plan lookup the billing pipeline needs; plan
// management lives outside this service.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Plan, error)
}
