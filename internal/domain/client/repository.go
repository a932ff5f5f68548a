package client

import "context"

// Repository defines the operations for persisting and retrieving clients.
// Only what the pipeline and account provisioning need; general client CRUD
// lives outside this service.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	GetByCPF(ctx context.Context, cpf string) (*Client, error)
}
