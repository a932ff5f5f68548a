package database

import (
	"context"
	"database/sql"
	"fmt"

	"billing_notifier/internal/domain/client"
)

var ErrClientNotFound = fmt.Errorf("client not found")

type PostgresClientRepository struct {
	db *sql.DB
}

func NewPostgresClientRepository(db *sql.DB) *PostgresClientRepository {
	return &PostgresClientRepository{db: db}
}

func (r *PostgresClientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `INSERT INTO clients (cpf, name, whatsapp_phone, email, contract_start, plan_id, status)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		c.CPF, c.Name, c.WhatsAppPhone, c.Email, c.ContractStart, c.PlanID, c.Status,
	)
	if err != nil {
		return fmt.Errorf("error creating client: %w", err)
	}
	return nil
}

func (r *PostgresClientRepository) GetByCPF(ctx context.Context, cpf string) (*client.Client, error) {
	query := `SELECT cpf, name, whatsapp_phone, email, contract_start, plan_id, status
              FROM clients WHERE cpf = $1`
	c := client.Client{}
	err := r.db.QueryRowContext(ctx, query, cpf).Scan(
		&c.CPF, &c.Name, &c.WhatsAppPhone, &c.Email, &c.ContractStart, &c.PlanID, &c.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("error getting client by CPF: %w", err)
	}
	return &c, nil
}
