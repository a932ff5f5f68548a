package app

import (
	"context"
	"time"

	"billing_notifier/internal/domain/billing"
	"billing_notifier/internal/domain/client"
	"billing_notifier/internal/domain/dispatch"
	"billing_notifier/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

// RoutineDoneStatus is the status string the daily routine always returns.
const RoutineDoneStatus = "Disparos e Atualizações Concluídas."

// WhatsAppDisabledDetail is the fixed detail recorded when the kill switch
// keeps the WhatsApp channel from being attempted.
const WhatsAppDisabledDetail = "disabled by configuration"

// RoutineService is the top-level driver of the daily billing-notification
// pass: mark overdue, scan eligible, then for each billing compose once and
// dispatch to each channel independently. Every per-record and per-channel
// failure is absorbed here; Execute never errors upward.
//
// The service takes no lock of its own: the caller must guarantee at most one
// concurrent execution.
type RoutineService struct {
	billingSvc      *BillingService
	clients         client.Repository
	composer        *MessageComposer
	whatsapp        dispatch.Channel
	email           dispatch.Channel
	ledger          dispatch.Ledger
	whatsappEnabled bool
	logger          *logrus.Logger
}

func NewRoutineService(
	billingSvc *BillingService,
	clients client.Repository,
	composer *MessageComposer,
	whatsapp dispatch.Channel,
	email dispatch.Channel,
	ledger dispatch.Ledger,
	whatsappEnabled bool,
	logger *logrus.Logger,
) *RoutineService {
	return &RoutineService{
		billingSvc:      billingSvc,
		clients:         clients,
		composer:        composer,
		whatsapp:        whatsapp,
		email:           email,
		ledger:          ledger,
		whatsappEnabled: whatsappEnabled,
		logger:          logger,
	}
}

// Execute runs one daily pass for the given reference date and returns a
// status string.
func (s *RoutineService) Execute(ctx context.Context, today time.Time) string {
	today = billing.DateOnly(today)
	s.logger.WithField("date", today.Format("2006-01-02")).Info("Starting daily billing routine")

	marked, err := s.billingSvc.MarkOverdue(ctx, today)
	if err != nil {
		s.logger.WithError(err).Error("Overdue marking failed")
	} else {
		s.logger.WithField("count", marked).Info("Marked billings as overdue")
	}

	eligible, err := s.billingSvc.EligibleForToday(ctx, today)
	if err != nil {
		s.logger.WithError(err).Error("Eligibility scan failed")
		return RoutineDoneStatus
	}
	s.logger.WithField("count", len(eligible)).Info("Found billings eligible for notification")

	for _, rec := range eligible {
		s.dispatchBilling(ctx, rec, today)
	}

	s.logger.Info("Daily billing routine finished")
	return RoutineDoneStatus
}

// dispatchBilling composes the message once and dispatches it to both
// channels. A failure on one channel never prevents the other channel's
// attempt, and a failure here never prevents the next billing's processing.
func (s *RoutineService) dispatchBilling(ctx context.Context, rec *billing.Record, today time.Time) {
	cl, err := s.clients.GetByCPF(ctx, rec.ClientCPF)
	if err != nil {
		s.logger.WithError(err).WithField("billing_id", rec.ID).Error("Could not load client for billing; skipping record")
		return
	}

	rule, body := s.composer.Compose(rec, cl, today)
	s.logger.WithFields(logrus.Fields{
		"billing_id": rec.ID,
		"client":     cl.Name,
		"rule":       rule.Tag(),
	}).Info("Dispatching billing notification")

	notice := dispatch.Notice{Billing: rec, Client: cl, Rule: rule, Body: body}

	if s.whatsappEnabled {
		if out := s.whatsapp.Send(ctx, notice); !out.Success {
			s.logger.WithFields(logrus.Fields{
				"billing_id": rec.ID,
				"detail":     out.Detail,
			}).Warn("WhatsApp dispatch failed")
		}
	} else {
		s.logger.WithFields(logrus.Fields{
			"client_cpf": cl.CPF,
			"rule":       rule.Tag(),
			"detail":     WhatsAppDisabledDetail,
		}).Info("WhatsApp channel disabled by kill switch")
		if _, err := s.ledger.Record(ctx, rec, cl, rule, notification.ChannelWhatsApp, body, notification.StatusFailed); err != nil {
			s.logger.WithError(err).WithField("billing_id", rec.ID).Error("Could not record disabled-channel attempt")
		}
	}

	if out := s.email.Send(ctx, notice); !out.Success {
		s.logger.WithFields(logrus.Fields{
			"billing_id": rec.ID,
			"detail":     out.Detail,
		}).Warn("Email dispatch failed")
	}
}
