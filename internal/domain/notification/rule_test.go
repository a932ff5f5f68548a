package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleTag(t *testing.T) {
	assert.Equal(t, "Lembrete (D-3)", Rule{Kind: RuleReminderBeforeDue}.Tag())
	assert.Equal(t, "Atraso (D+1)", Rule{Kind: RuleOverdueDay1, DaysOverdue: 1}.Tag())
	assert.Equal(t, "Aviso de Bloqueio (D+10)", Rule{Kind: RuleOverdueBlockWarning, DaysOverdue: 10}.Tag())
	assert.Equal(t, "Atraso (D+7 dias)", Rule{Kind: RuleOverdueGeneric, DaysOverdue: 7}.Tag())
	assert.Equal(t, "Atraso (D+500 dias)", Rule{Kind: RuleOverdueGeneric, DaysOverdue: 500}.Tag())
}
