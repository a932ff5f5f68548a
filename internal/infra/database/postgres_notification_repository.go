// internal/infra/database/postgres_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"billing_notifier/internal/domain/notification"
)

var ErrAttemptNotFound = fmt.Errorf("notification attempt not found")

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, a *notification.Attempt) error {
	query := `INSERT INTO notification_attempts (billing_id, rule_tag, channel, body, scheduled_at, sent_at, status)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		a.BillingID, a.RuleTag, a.Channel, a.Body, a.ScheduledAt, a.SentAt, a.Status,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("error creating notification attempt: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) GetByID(ctx context.Context, id int64) (*notification.Attempt, error) {
	query := `SELECT id, billing_id, rule_tag, channel, body, scheduled_at, sent_at, status
              FROM notification_attempts WHERE id = $1`
	a := notification.Attempt{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.BillingID, &a.RuleTag, &a.Channel, &a.Body, &a.ScheduledAt, &a.SentAt, &a.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("error getting notification attempt by ID: %w", err)
	}
	return &a, nil
}

func (r *PostgresNotificationRepository) ListByBilling(ctx context.Context, billingID int64) ([]*notification.Attempt, error) {
	query := `SELECT id, billing_id, rule_tag, channel, body, scheduled_at, sent_at, status
              FROM notification_attempts
              WHERE billing_id = $1 ORDER BY scheduled_at DESC`
	rows, err := r.db.QueryContext(ctx, query, billingID)
	if err != nil {
		return nil, fmt.Errorf("error querying notification attempts by billing: %w", err)
	}
	defer rows.Close()

	attempts := make([]*notification.Attempt, 0)
	for rows.Next() {
		a := notification.Attempt{}
		if err := rows.Scan(&a.ID, &a.BillingID, &a.RuleTag, &a.Channel, &a.Body, &a.ScheduledAt, &a.SentAt, &a.Status); err != nil {
			return nil, fmt.Errorf("error scanning notification attempt row: %w", err)
		}
		attempts = append(attempts, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification attempt rows: %w", err)
	}
	return attempts, nil
}

func (r *PostgresNotificationRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	return r.markOutcome(ctx, id, notification.StatusSent, sentAt)
}

func (r *PostgresNotificationRepository) MarkFailed(ctx context.Context, id int64, failedAt time.Time) error {
	return r.markOutcome(ctx, id, notification.StatusFailed, failedAt)
}

func (r *PostgresNotificationRepository) markOutcome(ctx context.Context, id int64, status notification.SendStatus, at time.Time) error {
	query := `UPDATE notification_attempts SET status = $1, sent_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, status, at, id)
	if err != nil {
		return fmt.Errorf("error marking notification attempt %s: %w", status, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking notification attempt update result: %w", err)
	}
	if affected == 0 {
		return ErrAttemptNotFound
	}
	return nil
}
