package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/techvisits/visits-manager/internal/core/domain"
	"github.com/techvisits/visits-manager/internal/core/ports"
)

// ClientService implements the client use cases on top of a collection store.
type ClientService struct {
	clients ports.Store[domain.Client]
	logger  zerolog.Logger
	now     clock
	newID   idGenerator
}

func NewClientService(clients ports.Store[domain.Client], logger zerolog.Logger) *ClientService {
	return &ClientService{
		clients: clients,
		logger:  logger,
		now:     utcNow,
		newID:   newRecordID,
	}
}

// ListClients returns every stored client in insertion order.
func (s *ClientService) ListClients(ctx context.Context) ([]domain.Client, error) {
	clients, err := s.clients.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	if clients == nil {
		clients = []domain.Client{}
	}
	return clients, nil
}

// CreateClient validates the input, stamps id and creation time, and appends the
// client to the collection.
func (s *ClientService) CreateClient(ctx context.Context, input ports.CreateClientInput) (*domain.Client, error) {
	if isBlank(input.Name) {
		return nil, domain.ErrNameRequired
	}

	clients, err := s.clients.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	client := domain.Client{
		ID:        s.newID(),
		Name:      strings.TrimSpace(input.Name),
		Phone:     strings.TrimSpace(input.Phone),
		Address:   strings.TrimSpace(input.Address),
		Notes:     strings.TrimSpace(input.Notes),
		CreatedAt: timestamp(s.now),
	}

	if err := s.clients.Save(ctx, append(clients, client)); err != nil {
		s.logger.Error().Err(err).Msg("failed to save clients")
		return nil, fmt.Errorf("create client: %w", err)
	}

	s.logger.Info().Str("client_id", client.ID).Msg("client created")
	return &client, nil
}

// DeleteClient removes the client with the given id. Visits that reference the
// client are left in place.
func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	clients, err := s.clients.Load(ctx)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}

	next := make([]domain.Client, 0, len(clients))
	for _, c := range clients {
		if c.ID != id {
			next = append(next, c)
		}
	}
	if len(next) == len(clients) {
		return domain.ErrClientNotFound
	}

	if err := s.clients.Save(ctx, next); err != nil {
		s.logger.Error().Err(err).Msg("failed to save clients")
		return fmt.Errorf("delete client: %w", err)
	}

	s.logger.Info().Str("client_id", id).Msg("client deleted")
	return nil
}
