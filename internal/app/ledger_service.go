package app

import (
	"context"
	"database/sql"
	"time"

	"billing_notifier/internal/domain/billing"
	"billing_notifier/internal/domain/client"
	"billing_notifier/internal/domain/dispatch"
	"billing_notifier/internal/domain/notification"
	idb "billing_notifier/internal/infra/database"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// LedgerService implements dispatch.Ledger: it writes one attempt row per
// channel dispatch and guarantees the row always has a billing to point at,
// synthesizing a placeholder when the client has none.
type LedgerService struct {
	attempts notification.Repository
	billings billing.Repository
	logger   *logrus.Logger
	now      func() time.Time
}

func NewLedgerService(attempts notification.Repository, billings billing.Repository, logger *logrus.Logger) *LedgerService {
	return &LedgerService{
		attempts: attempts,
		billings: billings,
		logger:   logger,
		now:      time.Now,
	}
}

// Record creates one ledger entry. SentAt is stamped iff the status is SENT.
// A persistence failure is logged and returned as a PersistenceError for the
// caller to swallow; it must never abort a dispatch.
func (s *LedgerService) Record(ctx context.Context, b *billing.Record, c *client.Client, rule notification.Rule, ch notification.Channel, body string, status notification.SendStatus) (*notification.Attempt, error) {
	if b == nil {
		var err error
		if b, err = s.PlaceholderFor(ctx, c); err != nil {
			return nil, err
		}
	}

	now := s.now()
	attempt := &notification.Attempt{
		BillingID:   b.ID,
		RuleTag:     rule.Tag(),
		Channel:     ch,
		Body:        body,
		ScheduledAt: now,
		Status:      status,
	}
	if status == notification.StatusSent {
		attempt.SentAt = sql.NullTime{Time: now, Valid: true}
	}

	if err := s.attempts.Create(ctx, attempt); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"billing_id": b.ID,
			"channel":    ch,
			"rule":       rule.Tag(),
		}).Error("Could not record notification attempt")
		return nil, &dispatch.PersistenceError{Op: "record notification attempt", Err: err}
	}
	return attempt, nil
}

// PlaceholderFor returns the client's most recent billing, or creates a
// zero-amount billing dated today when none exists. The lookup happens before
// any creation, so repeated calls reuse the first placeholder. The synthetic
// record only satisfies the ledger's billing reference; it is not an invoice.
func (s *LedgerService) PlaceholderFor(ctx context.Context, c *client.Client) (*billing.Record, error) {
	latest, err := s.billings.FindMostRecentFor(ctx, c.CPF)
	if err == nil {
		return latest, nil
	}
	if err != idb.ErrBillingNotFound {
		return nil, &dispatch.PersistenceError{Op: "look up latest billing for " + c.CPF, Err: err}
	}

	placeholder := billing.NewRecord(c.CPF, decimal.Zero, billing.DateOnly(s.now()))
	if err := s.billings.Create(ctx, placeholder); err != nil {
		return nil, &dispatch.PersistenceError{Op: "create placeholder billing for " + c.CPF, Err: err}
	}

	s.logger.WithField("client_cpf", c.CPF).Info("Placeholder billing created for notification ledger")
	return placeholder, nil
}
