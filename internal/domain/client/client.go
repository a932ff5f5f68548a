package client

import (
	"database/sql"
	"time"
)

// Status is the client account state.
type Status string

const (
	StatusActive          Status = "ACTIVE"
	StatusInactiveOverdue Status = "INACTIVE_OVERDUE"
	StatusInactiveManual  Status = "INACTIVE_MANUAL"
)

// Client is a customer identified by CPF, the Brazilian tax id.
// CPF is the primary key and is stored digits-only.
type Client struct {
	CPF           string
	Name          string
	WhatsAppPhone string
	Email         string
	ContractStart time.Time
	PlanID        sql.NullInt64
	Status        Status
}

func (c *Client) IsActive() bool {
	return c.Status == StatusActive
}
