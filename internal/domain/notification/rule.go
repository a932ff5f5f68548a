package notification

import "fmt"

// RuleKind is the closed set of reminder rules driving a notification.
type RuleKind string

const (
	// RuleReminderBeforeDue fires a fixed number of days before the due date.
	RuleReminderBeforeDue RuleKind = "REMINDER_BEFORE_DUE"
	// RuleOverdueDay1 fires on the first day past due.
	RuleOverdueDay1 RuleKind = "OVERDUE_DAY_1"
	// RuleOverdueBlockWarning fires on the configured block-warning day.
	RuleOverdueBlockWarning RuleKind = "OVERDUE_BLOCK_WARNING"
	// RuleOverdueGeneric covers every other overdue day count.
	RuleOverdueGeneric RuleKind = "OVERDUE_GENERIC"
)

// Rule is the tagged reminder-rule variant. DaysOverdue is meaningful only
// for the overdue kinds.
type Rule struct {
	Kind        RuleKind
	DaysOverdue int
}

// Tag returns the label persisted on ledger entries. The labels are fixed
// strings: they are the rule's identity in the ledger, independent of the
// configurable thresholds that decide when each rule fires.
func (r Rule) Tag() string {
	switch r.Kind {
	case RuleReminderBeforeDue:
		return "Lembrete (D-3)"
	case RuleOverdueDay1:
		return "Atraso (D+1)"
	case RuleOverdueBlockWarning:
		return "Aviso de Bloqueio (D+10)"
	default:
		return fmt.Sprintf("Atraso (D+%d dias)", r.DaysOverdue)
	}
}
