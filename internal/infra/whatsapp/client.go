package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"billing_notifier/internal/domain/dispatch"
	"billing_notifier/internal/domain/notification"

	"github.com/sirupsen/logrus"
)

const (
	// minTokenLength guards against truncated credentials reaching the API.
	minTokenLength = 30

	messagingProduct = "whatsapp"

	// sentDetail is the outcome detail of a successful send.
	sentDetail = "SENT"

	// maxResponseSnippet bounds how much of an error response body is kept.
	maxResponseSnippet = 200
)

// Config carries the WhatsApp Cloud API settings.
type Config struct {
	Token          string
	PhoneID        string
	BaseURL        string
	MaxRetries     int
	BackoffFactor  float64
	RequestTimeout time.Duration
}

func (c Config) validate() error {
	if c.Token == "" || c.PhoneID == "" || c.BaseURL == "" {
		return &dispatch.ConfigurationError{Reason: "whatsapp settings incomplete: token, phone id and base url are required"}
	}
	if len(c.Token) < minTokenLength {
		return &dispatch.ConfigurationError{Reason: fmt.Sprintf("whatsapp token must be at least %d characters", minTokenLength)}
	}
	if c.MaxRetries < 1 {
		return &dispatch.ConfigurationError{Reason: "whatsapp max retries must be at least 1"}
	}
	return nil
}

// Doer is the subset of http.Client the channel needs; injected in tests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the retrying WhatsApp channel. Failed attempts back off
// exponentially (backoffFactor * 2^(attempt-1) seconds, no jitter) until
// MaxRetries attempts have been made.
type Client struct {
	cfg    Config
	http   Doer
	ledger dispatch.Ledger
	logger *logrus.Logger
	sleep  func(time.Duration)
}

func NewClient(cfg Config, ledger dispatch.Ledger, logger *logrus.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.RequestTimeout},
		ledger: ledger,
		logger: logger,
		sleep:  time.Sleep,
	}
}

type textPayload struct {
	Body string `json:"body"`
}

type messagePayload struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             textPayload `json:"text"`
}

// NormalizePhone strips a raw phone number down to its digits.
// "+55 (21) 9 8765-4321" becomes "5521987654321".
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Send dispatches one notice to the client's WhatsApp number. Configuration
// is validated before any network call; a bad recipient skips sending. Every
// call records exactly one ledger entry with the final outcome, regardless
// of how many attempts were made.
func (c *Client) Send(ctx context.Context, n dispatch.Notice) dispatch.Outcome {
	if err := c.cfg.validate(); err != nil {
		c.logger.WithError(err).Error("WhatsApp channel misconfigured; not attempting send")
		c.record(ctx, n, notification.StatusFailed)
		return dispatch.Outcome{Success: false, Detail: err.Error()}
	}

	recipient := NormalizePhone(n.Client.WhatsAppPhone)
	if recipient == "" {
		err := &dispatch.ValidationError{Reason: "client has no usable whatsapp phone number"}
		c.logger.WithError(err).WithField("client_cpf", n.Client.CPF).Error("Skipping WhatsApp send")
		c.record(ctx, n, notification.StatusFailed)
		return dispatch.Outcome{Success: false, Detail: err.Error()}
	}

	payload, err := json.Marshal(messagePayload{
		MessagingProduct: messagingProduct,
		To:               recipient,
		Type:             "text",
		Text:             textPayload{Body: n.Body},
	})
	if err != nil {
		c.logger.WithError(err).Error("Could not encode WhatsApp payload")
		c.record(ctx, n, notification.StatusFailed)
		return dispatch.Outcome{Success: false, Detail: err.Error()}
	}

	url := c.endpointURL()
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		status, snippet, err := c.post(ctx, url, payload)
		switch {
		case err != nil:
			lastErr = &dispatch.TransientSendError{Attempt: attempt, Detail: fmt.Sprintf("connection error: %v", err)}
			c.logger.WithFields(logrus.Fields{"attempt": attempt, "to": recipient}).Warn(lastErr.Error())
		case status == http.StatusOK || status == http.StatusCreated:
			c.record(ctx, n, notification.StatusSent)
			c.logger.WithFields(logrus.Fields{"to": recipient, "attempt": attempt}).Info("WhatsApp message sent")
			return dispatch.Outcome{Success: true, Detail: sentDetail}
		default:
			lastErr = &dispatch.TransientSendError{Attempt: attempt, Detail: fmt.Sprintf("whatsapp api error (status %d): %s", status, snippet)}
			c.logger.WithFields(logrus.Fields{"attempt": attempt, "to": recipient}).Warn(lastErr.Error())
		}

		if attempt < c.cfg.MaxRetries {
			c.sleep(backoffDelay(c.cfg.BackoffFactor, attempt))
		}
	}

	c.record(ctx, n, notification.StatusFailed)
	return dispatch.Outcome{Success: false, Detail: lastErr.Error()}
}

// backoffDelay is backoffFactor * 2^(attempt-1) seconds.
func backoffDelay(factor float64, attempt int) time.Duration {
	return time.Duration(factor * math.Pow(2, float64(attempt-1)) * float64(time.Second))
}

func (c *Client) endpointURL() string {
	base := c.cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + c.cfg.PhoneID + "/messages"
}

func (c *Client) post(ctx context.Context, url string, payload []byte) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseSnippet))
	return resp.StatusCode, string(snippet), nil
}

func (c *Client) record(ctx context.Context, n dispatch.Notice, status notification.SendStatus) {
	if _, err := c.ledger.Record(ctx, n.Billing, n.Client, n.Rule, notification.ChannelWhatsApp, n.Body, status); err != nil {
		c.logger.WithError(err).Error("Could not record WhatsApp notification attempt")
	}
}
