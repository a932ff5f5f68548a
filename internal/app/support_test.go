package app

import (
	"context"
	"io"
	"time"

	"billing_notifier/internal/domain/billing"
	"billing_notifier/internal/domain/client"
	"billing_notifier/internal/domain/dispatch"
	"billing_notifier/internal/domain/notification"
	"billing_notifier/internal/domain/plan"
	idb "billing_notifier/internal/infra/database"

	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeBillingRepo is an in-memory billing.Repository.
type fakeBillingRepo struct {
	records []*billing.Record
	nextID  int64

	createErr error
	saveErr   error
	findErr   error
}

func (f *fakeBillingRepo) Create(_ context.Context, r *billing.Record) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	r.ID = f.nextID
	f.records = append(f.records, r)
	return nil
}

func (f *fakeBillingRepo) Save(_ context.Context, r *billing.Record) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for i, rec := range f.records {
		if rec.ID == r.ID {
			f.records[i] = r
			return nil
		}
	}
	return idb.ErrBillingNotFound
}

func (f *fakeBillingRepo) GetByID(_ context.Context, id int64) (*billing.Record, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, idb.ErrBillingNotFound
}

func (f *fakeBillingRepo) FindPendingDueBefore(_ context.Context, date time.Time) ([]*billing.Record, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*billing.Record
	for _, rec := range f.records {
		if rec.IsPending() && billing.DateOnly(rec.DueDate).Before(billing.DateOnly(date)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeBillingRepo) FindPendingDueOn(_ context.Context, date time.Time) ([]*billing.Record, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*billing.Record
	for _, rec := range f.records {
		if rec.IsPending() && billing.DateOnly(rec.DueDate).Equal(billing.DateOnly(date)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeBillingRepo) FindAllOverdue(_ context.Context) ([]*billing.Record, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []*billing.Record
	for _, rec := range f.records {
		if rec.IsOverdue() {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeBillingRepo) FindMostRecentFor(_ context.Context, clientCPF string) (*billing.Record, error) {
	var latest *billing.Record
	for _, rec := range f.records {
		if rec.ClientCPF != clientCPF {
			continue
		}
		if latest == nil || rec.DueDate.After(latest.DueDate) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, idb.ErrBillingNotFound
	}
	return latest, nil
}

// fakeClientRepo is an in-memory client.Repository.
type fakeClientRepo struct {
	clients map[string]*client.Client
}

func (f *fakeClientRepo) Create(_ context.Context, c *client.Client) error {
	if f.clients == nil {
		f.clients = make(map[string]*client.Client)
	}
	f.clients[c.CPF] = c
	return nil
}

func (f *fakeClientRepo) GetByCPF(_ context.Context, cpf string) (*client.Client, error) {
	c, ok := f.clients[cpf]
	if !ok {
		return nil, idb.ErrClientNotFound
	}
	return c, nil
}

// fakePlanRepo is an in-memory plan.Repository.
type fakePlanRepo struct {
	plans map[int64]*plan.Plan
}

func (f *fakePlanRepo) GetByID(_ context.Context, id int64) (*plan.Plan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, idb.ErrPlanNotFound
	}
	return p, nil
}

// fakeAttemptRepo is an in-memory notification.Repository.
type fakeAttemptRepo struct {
	attempts []*notification.Attempt
	nextID   int64

	createErr error
}

func (f *fakeAttemptRepo) Create(_ context.Context, a *notification.Attempt) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	a.ID = f.nextID
	f.attempts = append(f.attempts, a)
	return nil
}

func (f *fakeAttemptRepo) GetByID(_ context.Context, id int64) (*notification.Attempt, error) {
	for _, a := range f.attempts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, idb.ErrAttemptNotFound
}

func (f *fakeAttemptRepo) ListByBilling(_ context.Context, billingID int64) ([]*notification.Attempt, error) {
	var out []*notification.Attempt
	for _, a := range f.attempts {
		if a.BillingID == billingID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) MarkSent(_ context.Context, id int64, sentAt time.Time) error {
	a, err := f.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	a.Status = notification.StatusSent
	return nil
}

func (f *fakeAttemptRepo) MarkFailed(_ context.Context, id int64, failedAt time.Time) error {
	a, err := f.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	a.Status = notification.StatusFailed
	return nil
}

// fakeChannel mimics a real transport channel: it records one ledger entry
// per Send with its configured outcome, like the production channels do.
type fakeChannel struct {
	channel notification.Channel
	ledger  dispatch.Ledger
	outcome dispatch.Outcome
	status  notification.SendStatus

	notices []dispatch.Notice
}

func (f *fakeChannel) Send(ctx context.Context, n dispatch.Notice) dispatch.Outcome {
	f.notices = append(f.notices, n)
	if f.ledger != nil {
		_, _ = f.ledger.Record(ctx, n.Billing, n.Client, n.Rule, f.channel, n.Body, f.status)
	}
	return f.outcome
}

func sentChannel(ch notification.Channel, ledger dispatch.Ledger) *fakeChannel {
	return &fakeChannel{
		channel: ch,
		ledger:  ledger,
		outcome: dispatch.Outcome{Success: true, Detail: "SENT"},
		status:  notification.StatusSent,
	}
}

func failedChannel(ch notification.Channel, ledger dispatch.Ledger, detail string) *fakeChannel {
	return &fakeChannel{
		channel: ch,
		ledger:  ledger,
		outcome: dispatch.Outcome{Success: false, Detail: detail},
		status:  notification.StatusFailed,
	}
}
