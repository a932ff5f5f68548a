package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"billing_notifier/internal/domain/billing"
	"billing_notifier/internal/domain/dispatch"
	"billing_notifier/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

const (
	subjectPrefix = "Pilates - Aviso de Cobrança: "

	overdueLabel  = "Em Atraso"
	reminderLabel = "Lembrete"

	sentDetail = "SENT"
)

// noticeTemplate renders the billing-notice e-mail body.
const noticeTemplate = `<!DOCTYPE html>
<html>
<body>
  <h2>Aviso de Cobrança ({{.StatusLabel}})</h2>
  <p>Olá {{.ClientName}},</p>
  <p>{{.BodyMessage}}</p>
  <table>
    <tr><td>Referência:</td><td>{{.CycleReference}}</td></tr>
    <tr><td>Valor total devido:</td><td>R$ {{.TotalAmount}}</td></tr>
    <tr><td>Data de vencimento:</td><td>{{.DueDate}}</td></tr>
    <tr><td>Situação:</td><td>{{.StatusLabel}}</td></tr>
  </table>
</body>
</html>`

// Config carries the SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c Config) validate() error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.Port == 0 {
		missing = append(missing, "SMTP_PORT")
	}
	if c.Username == "" {
		missing = append(missing, "SMTP_USER")
	}
	if c.Password == "" {
		missing = append(missing, "SMTP_PASSWORD")
	}
	if c.From == "" {
		missing = append(missing, "EMAIL_FROM")
	}
	if len(missing) > 0 {
		return &dispatch.ConfigurationError{Reason: "smtp settings incomplete: missing " + strings.Join(missing, ", ")}
	}
	return nil
}

type templateContext struct {
	ClientName     string
	BodyMessage    string
	TotalAmount    string
	DueDate        string
	StatusLabel    string
	CycleReference string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Channel is the synchronous e-mail channel: one attempt per notice, no
// retry. Transport failures surface as a PermanentSendError detail; both the
// success and the failure path record a ledger entry.
type Channel struct {
	cfg    Config
	ledger dispatch.Ledger
	logger *logrus.Logger
	tmpl   *template.Template
	send   sendFunc
}

func NewChannel(cfg Config, ledger dispatch.Ledger, logger *logrus.Logger) *Channel {
	return &Channel{
		cfg:    cfg,
		ledger: ledger,
		logger: logger,
		tmpl:   template.Must(template.New("billing_notice").Parse(noticeTemplate)),
		send:   smtp.SendMail,
	}
}

// Send delivers one notice to the client's e-mail address. Configuration is
// validated before the message is built.
func (c *Channel) Send(ctx context.Context, n dispatch.Notice) dispatch.Outcome {
	if err := c.cfg.validate(); err != nil {
		c.logger.WithError(err).Error("Email channel misconfigured; not attempting send")
		c.record(ctx, n, notification.StatusFailed)
		return dispatch.Outcome{Success: false, Detail: err.Error()}
	}

	htmlBody, err := c.renderBody(n)
	if err != nil {
		c.logger.WithError(err).WithField("billing_id", n.Billing.ID).Error("Could not render e-mail body")
		c.record(ctx, n, notification.StatusFailed)
		return dispatch.Outcome{Success: false, Detail: err.Error()}
	}

	subject := subjectPrefix + n.Rule.Tag()
	msg := buildMessage(n.Client.Email, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)

	if err := c.send(addr, auth, c.cfg.From, []string{n.Client.Email}, msg); err != nil {
		sendErr := &dispatch.PermanentSendError{Err: err}
		c.logger.WithError(sendErr).WithField("to", n.Client.Email).Error("Email send failed")
		c.record(ctx, n, notification.StatusFailed)
		return dispatch.Outcome{Success: false, Detail: sendErr.Error()}
	}

	c.logger.WithFields(logrus.Fields{"to": n.Client.Email, "rule": n.Rule.Tag()}).Info("Email sent")
	c.record(ctx, n, notification.StatusSent)
	return dispatch.Outcome{Success: true, Detail: sentDetail}
}

func (c *Channel) renderBody(n dispatch.Notice) (string, error) {
	label := reminderLabel
	if n.Billing.IsOverdue() {
		label = overdueLabel
	}

	var buf bytes.Buffer
	err := c.tmpl.Execute(&buf, templateContext{
		ClientName:     n.Client.Name,
		BodyMessage:    n.Body,
		TotalAmount:    n.Billing.TotalDue.StringFixed(2),
		DueDate:        n.Billing.DueDate.Format(billing.DisplayDateFormat),
		StatusLabel:    label,
		CycleReference: n.Billing.CycleRef,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute notice template: %w", err)
	}
	return buf.String(), nil
}

func buildMessage(to, subject, htmlBody string) []byte {
	mime := "MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n"
	return []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n%s%s", to, subject, mime, htmlBody))
}

func (c *Channel) record(ctx context.Context, n dispatch.Notice, status notification.SendStatus) {
	if _, err := c.ledger.Record(ctx, n.Billing, n.Client, n.Rule, notification.ChannelEmail, n.Body, status); err != nil {
		c.logger.WithError(err).Error("Could not record e-mail notification attempt")
	}
}
