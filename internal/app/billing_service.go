package app

import (
	"context"
	"fmt"
	"time"

	"billing_notifier/internal/domain/billing"
	"billing_notifier/internal/domain/client"
	"billing_notifier/internal/domain/plan"

	"github.com/sirupsen/logrus"
)

// BillingService covers the billing-side operations the daily routine needs:
// the overdue-marking transition, the eligibility scan, and the lifecycle
// operations restored from the account-provisioning flow.
type BillingService struct {
	billings           billing.Repository
	plans              plan.Repository
	reminderWindowDays int
	logger             *logrus.Logger
}

func NewBillingService(billings billing.Repository, plans plan.Repository, reminderWindowDays int, logger *logrus.Logger) *BillingService {
	return &BillingService{
		billings:           billings,
		plans:              plans,
		reminderWindowDays: reminderWindowDays,
		logger:             logger,
	}
}

// MarkOverdue transitions every PENDING record with due_date < today to
// OVERDUE and returns how many records transitioned. Safe to call more than
// once per day: a second call finds nothing pending past due and returns 0.
func (s *BillingService) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	pastDue, err := s.billings.FindPendingDueBefore(ctx, billing.DateOnly(today))
	if err != nil {
		return 0, fmt.Errorf("list pending billings past due: %w", err)
	}

	count := 0
	for _, rec := range pastDue {
		if !rec.MarkOverdue() {
			continue
		}
		if err := s.billings.Save(ctx, rec); err != nil {
			s.logger.WithError(err).WithField("billing_id", rec.ID).Error("Could not persist overdue transition")
			continue
		}
		count++
	}
	return count, nil
}

// EligibleForToday returns the billings needing a notification today: PENDING
// records due exactly reminderWindowDays from now, plus every currently
// OVERDUE record regardless of how many days overdue — overdue accounts are
// re-notified daily until paid. The two sets cannot overlap because PENDING
// and OVERDUE are mutually exclusive statuses.
func (s *BillingService) EligibleForToday(ctx context.Context, today time.Time) ([]*billing.Record, error) {
	reminderDate := billing.DateOnly(today).AddDate(0, 0, s.reminderWindowDays)

	reminders, err := s.billings.FindPendingDueOn(ctx, reminderDate)
	if err != nil {
		return nil, fmt.Errorf("list billings due on %s: %w", reminderDate.Format("2006-01-02"), err)
	}

	overdue, err := s.billings.FindAllOverdue(ctx)
	if err != nil {
		return nil, fmt.Errorf("list overdue billings: %w", err)
	}

	return append(reminders, overdue...), nil
}

// CreateInitialBilling creates the first billing for a newly provisioned
// client from its plan's base amount and periodicity.
func (s *BillingService) CreateInitialBilling(ctx context.Context, c *client.Client, today time.Time) (*billing.Record, error) {
	if !c.PlanID.Valid {
		return nil, fmt.Errorf("client %s has no plan to bill against", c.CPF)
	}

	p, err := s.plans.GetByID(ctx, c.PlanID.Int64)
	if err != nil {
		return nil, fmt.Errorf("load plan %d for client %s: %w", c.PlanID.Int64, c.CPF, err)
	}

	due := billing.NextDueDate(c.ContractStart, p.PeriodMonths, today)
	rec := billing.NewRecord(c.CPF, p.BaseAmount, due)
	if err := s.billings.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create initial billing for client %s: %w", c.CPF, err)
	}

	s.logger.WithFields(logrus.Fields{
		"client_cpf": c.CPF,
		"billing_id": rec.ID,
		"due_date":   rec.DueDate.Format("2006-01-02"),
	}).Info("Initial billing created")
	return rec, nil
}

// MarkPaid settles a billing: status PAID, payment date stamped, penalty
// reset to zero.
func (s *BillingService) MarkPaid(ctx context.Context, billingID int64, today time.Time) (*billing.Record, error) {
	rec, err := s.billings.GetByID(ctx, billingID)
	if err != nil {
		return nil, fmt.Errorf("load billing %d: %w", billingID, err)
	}

	rec.MarkPaid(today)
	if err := s.billings.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist payment for billing %d: %w", billingID, err)
	}
	return rec, nil
}
