// internal/infra/database/postgres_billing_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"billing_notifier/internal/domain/billing"
)

var ErrBillingNotFound = fmt.Errorf("billing record not found")

type PostgresBillingRepository struct {
	db *sql.DB
}

func NewPostgresBillingRepository(db *sql.DB) *PostgresBillingRepository {
	return &PostgresBillingRepository{db: db}
}

const billingColumns = `id, client_cpf, base_amount, penalty_amount, total_due, due_date, paid_at, cycle_reference, status`

func (r *PostgresBillingRepository) Create(ctx context.Context, rec *billing.Record) error {
	query := `INSERT INTO billings (client_cpf, base_amount, penalty_amount, total_due, due_date, paid_at, cycle_reference, status)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		rec.ClientCPF, rec.BaseAmount, rec.PenaltyAmount, rec.TotalDue,
		rec.DueDate, rec.PaidAt, rec.CycleRef, rec.Status,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("error creating billing record: %w", err)
	}
	return nil
}

func (r *PostgresBillingRepository) Save(ctx context.Context, rec *billing.Record) error {
	query := `UPDATE billings
              SET base_amount = $1, penalty_amount = $2, total_due = $3, due_date = $4, paid_at = $5, status = $6
              WHERE id = $7`
	res, err := r.db.ExecContext(ctx, query,
		rec.BaseAmount, rec.PenaltyAmount, rec.TotalDue, rec.DueDate, rec.PaidAt, rec.Status, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating billing record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking billing update result: %w", err)
	}
	if affected == 0 {
		return ErrBillingNotFound
	}
	return nil
}

func (r *PostgresBillingRepository) GetByID(ctx context.Context, id int64) (*billing.Record, error) {
	query := `SELECT ` + billingColumns + ` FROM billings WHERE id = $1`
	rec := billing.Record{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.ClientCPF, &rec.BaseAmount, &rec.PenaltyAmount, &rec.TotalDue,
		&rec.DueDate, &rec.PaidAt, &rec.CycleRef, &rec.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBillingNotFound
		}
		return nil, fmt.Errorf("error getting billing record by ID: %w", err)
	}
	return &rec, nil
}

func (r *PostgresBillingRepository) FindPendingDueBefore(ctx context.Context, date time.Time) ([]*billing.Record, error) {
	query := `SELECT ` + billingColumns + ` FROM billings
              WHERE status = $1 AND due_date < $2`
	rows, err := r.db.QueryContext(ctx, query, billing.StatusPending, billing.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("error querying pending billings past due: %w", err)
	}
	defer rows.Close()
	return scanBillings(rows)
}

func (r *PostgresBillingRepository) FindPendingDueOn(ctx context.Context, date time.Time) ([]*billing.Record, error) {
	query := `SELECT ` + billingColumns + ` FROM billings
              WHERE status = $1 AND due_date = $2`
	rows, err := r.db.QueryContext(ctx, query, billing.StatusPending, billing.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("error querying pending billings due on date: %w", err)
	}
	defer rows.Close()
	return scanBillings(rows)
}

func (r *PostgresBillingRepository) FindAllOverdue(ctx context.Context) ([]*billing.Record, error) {
	query := `SELECT ` + billingColumns + ` FROM billings WHERE status = $1`
	rows, err := r.db.QueryContext(ctx, query, billing.StatusOverdue)
	if err != nil {
		return nil, fmt.Errorf("error querying overdue billings: %w", err)
	}
	defer rows.Close()
	return scanBillings(rows)
}

func (r *PostgresBillingRepository) FindMostRecentFor(ctx context.Context, clientCPF string) (*billing.Record, error) {
	query := `SELECT ` + billingColumns + ` FROM billings
              WHERE client_cpf = $1 ORDER BY due_date DESC LIMIT 1`
	rec := billing.Record{}
	err := r.db.QueryRowContext(ctx, query, clientCPF).Scan(
		&rec.ID, &rec.ClientCPF, &rec.BaseAmount, &rec.PenaltyAmount, &rec.TotalDue,
		&rec.DueDate, &rec.PaidAt, &rec.CycleRef, &rec.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrBillingNotFound
		}
		return nil, fmt.Errorf("error getting latest billing for client: %w", err)
	}
	return &rec, nil
}

func scanBillings(rows *sql.Rows) ([]*billing.Record, error) {
	records := make([]*billing.Record, 0)
	for rows.Next() {
		rec := billing.Record{}
		if err := rows.Scan(
			&rec.ID, &rec.ClientCPF, &rec.BaseAmount, &rec.PenaltyAmount, &rec.TotalDue,
			&rec.DueDate, &rec.PaidAt, &rec.CycleRef, &rec.Status,
		); err != nil {
			return nil, fmt.Errorf("error scanning billing row: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating billing rows: %w", err)
	}
	return records, nil
}
