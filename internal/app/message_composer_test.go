package app

import (
	"testing"
	"time"

	"billing_notifier/internal/domain/billing"
	"billing_notifier/internal/domain/client"
	"billing_notifier/internal/domain/notification"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testComposer() *MessageComposer {
	return NewMessageComposer(3, 1, 10)
}

func testClient() *client.Client {
	return &client.Client{
		CPF:           "12345678901",
		Name:          "Maria Silva",
		WhatsAppPhone: "+55 (21) 98765-4321",
		Email:         "maria@example.com",
		Status:        client.StatusActive,
	}
}

func TestCompose_ReminderBody(t *testing.T) {
	today := time.Date(2025, time.August, 25, 0, 0, 0, 0, time.UTC)
	rec := billing.NewRecord("12345678901", decimal.NewFromFloat(150.00), today.AddDate(0, 0, 3))

	rule, body := testComposer().Compose(rec, testClient(), today)

	assert.Equal(t, notification.RuleReminderBeforeDue, rule.Kind)
	assert.Equal(t, "Olá Maria Silva, sua cobrança de R$ 150.00 vencerá em 3 dias (28/08/2025).", body)
}

func TestCompose_OverdueRuleTieBreak(t *testing.T) {
	today := time.Date(2025, time.August, 25, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		daysOverdue int
		wantKind    notification.RuleKind
	}{
		{1, notification.RuleOverdueDay1},
		{10, notification.RuleOverdueBlockWarning},
		{2, notification.RuleOverdueGeneric},
		{7, notification.RuleOverdueGeneric},
		{500, notification.RuleOverdueGeneric},
	}

	for _, tc := range cases {
		rec := billing.NewRecord("12345678901", decimal.NewFromFloat(99.90), today.AddDate(0, 0, -tc.daysOverdue))
		rec.MarkOverdue()

		rule, body := testComposer().Compose(rec, testClient(), today)

		assert.Equal(t, tc.wantKind, rule.Kind, "days overdue %d", tc.daysOverdue)
		assert.Equal(t, tc.daysOverdue, rule.DaysOverdue)
		assert.Contains(t, body, "ATRASO: Maria Silva")
		assert.Contains(t, body, "R$ 99.90")
	}
}

func TestCompose_OverdueDayCountClampedToOne(t *testing.T) {
	today := time.Date(2025, time.August, 25, 0, 0, 0, 0, time.UTC)

	// An OVERDUE record whose due date is today computes zero elapsed days;
	// the composer still reports at least one day.
	rec := billing.NewRecord("12345678901", decimal.NewFromFloat(80.00), today)
	rec.Status = billing.StatusOverdue

	rule, body := testComposer().Compose(rec, testClient(), today)

	assert.Equal(t, notification.RuleOverdueDay1, rule.Kind)
	assert.Contains(t, body, "atrasada em 1 dias")
}

func TestCompose_Deterministic(t *testing.T) {
	today := time.Date(2025, time.August, 25, 0, 0, 0, 0, time.UTC)
	rec := billing.NewRecord("12345678901", decimal.NewFromFloat(150.00), today.AddDate(0, 0, -5))
	rec.MarkOverdue()

	rule1, body1 := testComposer().Compose(rec, testClient(), today)
	rule2, body2 := testComposer().Compose(rec, testClient(), today)

	assert.Equal(t, rule1, rule2)
	assert.Equal(t, body1, body2)
}
