package database

import (
	"context"
	"database/sql"
	"fmt"

	"billing_notifier/internal/domain/plan"
)

var ErrPlanNotFound = fmt.Errorf("plan not found")

type PostgresPlanRepository struct {
	db *sql.DB
}

func NewPostgresPlanRepository(db *sql.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{db: db}
}

func (r *PostgresPlanRepository) GetByID(ctx context.Context, id int64) (*plan.Plan, error) {
	query := `SELECT id, name, base_amount, period_months, active FROM plans WHERE id = $1`
	p := plan.Plan{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.BaseAmount, &p.PeriodMonths, &p.Active)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("error getting plan by ID: %w", err)
	}
	return &p, nil
}
