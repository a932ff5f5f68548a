package notification

import (
	"database/sql"
	"time"
)

// Channel identifies the delivery channel of a notification attempt.
type Channel string

const (
	ChannelWhatsApp Channel = "WhatsApp"
	ChannelEmail    Channel = "Email"
)

// SendStatus is the terminal state of a notification attempt.
type SendStatus string

const (
	StatusScheduled SendStatus = "SCHEDULED"
	StatusSent      SendStatus = "SENT"
	StatusFailed    SendStatus = "FAILED"
)

// Attempt is one ledger row: the recorded outcome of dispatching a composed
// message to a single billing over a single channel. A SENT status always
// carries a SentAt timestamp.
type Attempt struct {
	ID          int64
	BillingID   int64
	RuleTag     string
	Channel     Channel
	Body        string
	ScheduledAt time.Time
	SentAt      sql.NullTime
	Status      SendStatus
}
