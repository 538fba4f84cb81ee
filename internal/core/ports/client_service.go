package ports

import (
	"context"

	"github.com/techvisits/visits-manager/internal/core/domain"
)

// CreateClientInput carries the caller-supplied client fields. Blank optional
// fields are stored as empty strings.
type CreateClientInput struct {
	Name    string
	Phone   string
	Address string
	Notes   string
}

// ClientService defines the client use cases.
type ClientService interface {
	ListClients(ctx context.Context) ([]domain.Client, error)
	CreateClient(ctx context.Context, input CreateClientInput) (*domain.Client, error)
	DeleteClient(ctx context.Context, id string) error
}
