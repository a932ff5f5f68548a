package dispatch

import (
	"context"

	"billing_notifier/internal/domain/billing"
	"billing_notifier/internal/domain/client"
	"billing_notifier/internal/domain/notification"
)

// Outcome is the terminal result of one channel dispatch. Detail carries the
// last error description on failure, or "SENT" on success.
type Outcome struct {
	Success bool
	Detail  string
}

// Notice is one composed notification bound for a delivery channel.
type Notice struct {
	Billing *billing.Record
	Client  *client.Client
	Rule    notification.Rule
	Body    string
}

// Channel sends a notice over one delivery channel. Implementations never
// return an error: every failure mode is absorbed into the Outcome, and each
// Send call records exactly one ledger entry with its final outcome.
type Channel interface {
	Send(ctx context.Context, n Notice) Outcome
}

// Ledger records notification attempts. A nil billing is resolved through
// PlaceholderFor so an attempt row is never orphaned.
type Ledger interface {
	Record(ctx context.Context, b *billing.Record, c *client.Client, rule notification.Rule, ch notification.Channel, body string, status notification.SendStatus) (*notification.Attempt, error)
	PlaceholderFor(ctx context.Context, c *client.Client) (*billing.Record, error)
}
