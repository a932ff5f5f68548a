package app

import (
	"fmt"
	"time"

	"billing_notifier/internal/domain/billing"
	"billing_notifier/internal/domain/client"
	"billing_notifier/internal/domain/notification"
)

// MessageComposer maps a billing record and the current date to a reminder
// rule and a message body. It is a pure function over its inputs: no I/O, no
// clock access beyond the date it is handed.
type MessageComposer struct {
	ReminderWindowDays    int
	OverdueDay1Threshold  int
	OverdueBlockThreshold int
}

func NewMessageComposer(reminderWindowDays, overdueDay1Threshold, overdueBlockThreshold int) *MessageComposer {
	return &MessageComposer{
		ReminderWindowDays:    reminderWindowDays,
		OverdueDay1Threshold:  overdueDay1Threshold,
		OverdueBlockThreshold: overdueBlockThreshold,
	}
}

// Compose picks the rule and renders the body for one billing. Overdue
// records get the overdue template with the day count; everything else is a
// pending record inside the reminder window.
func (mc *MessageComposer) Compose(b *billing.Record, c *client.Client, today time.Time) (notification.Rule, string) {
	if b.IsOverdue() {
		days := b.DaysOverdue(today)
		if days < 1 {
			days = 1
		}
		body := fmt.Sprintf(
			"ATRASO: %s, sua cobrança de R$ %s está atrasada em %d dias.",
			c.Name, b.TotalDue.StringFixed(2), days,
		)
		return mc.overdueRule(days), body
	}

	body := fmt.Sprintf(
		"Olá %s, sua cobrança de R$ %s vencerá em %d dias (%s).",
		c.Name, b.TotalDue.StringFixed(2), mc.ReminderWindowDays, b.DueDate.Format(billing.DisplayDateFormat),
	)
	return notification.Rule{Kind: notification.RuleReminderBeforeDue}, body
}

// overdueRule applies the tie-break order: exact match on the day-1 threshold
// first, then on the block-warning threshold, else the generic overdue rule.
func (mc *MessageComposer) overdueRule(daysOverdue int) notification.Rule {
	switch {
	case daysOverdue == mc.OverdueDay1Threshold:
		return notification.Rule{Kind: notification.RuleOverdueDay1, DaysOverdue: daysOverdue}
	case daysOverdue == mc.OverdueBlockThreshold:
		return notification.Rule{Kind: notification.RuleOverdueBlockWarning, DaysOverdue: daysOverdue}
	default:
		return notification.Rule{Kind: notification.RuleOverdueGeneric, DaysOverdue: daysOverdue}
	}
}
