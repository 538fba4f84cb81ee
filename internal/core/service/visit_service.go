package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/techvisits/visits-manager/internal/core/domain"
	"github.com/techvisits/visits-manager/internal/core/ports"
)

// VisitService implements the visit use cases. It reads the client collection
// to check the reference of a new visit.
type VisitService struct {
	visits  ports.Store[domain.Visit]
	clients ports.Store[domain.Client]
	logger  zerolog.Logger
	now     clock
	newID   idGenerator
}

func NewVisitService(visits ports.Store[domain.Visit], clients ports.Store[domain.Client], logger zerolog.Logger) *VisitService {
	return &VisitService{
		visits:  visits,
		clients: clients,
		logger:  logger,
		now:     utcNow,
		newID:   newRecordID,
	}
}

// ListVisits returns every stored visit in insertion order.
func (s *VisitService) ListVisits(ctx context.Context) ([]domain.Visit, error) {
	visits, err := s.visits.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	if visits == nil {
		visits = []domain.Visit{}
	}
	return visits, nil
}

// ListVisitsByClient returns the visits whose ClientID equals clientID.
func (s *VisitService) ListVisitsByClient(ctx context.Context, clientID string) ([]domain.Visit, error) {
	visits, err := s.visits.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list visits by client: %w", err)
	}

	filtered := make([]domain.Visit, 0)
	for _, v := range visits {
		if v.BelongsTo(clientID) {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

// CreateVisit records a visit for an existing client.
func (s *VisitService) CreateVisit(ctx context.Context, input ports.CreateVisitInput) (*domain.Visit, error) {
	if isBlank(input.ClientID) {
		return nil, domain.ErrClientIDRequired
	}

	clients, err := s.clients.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("create visit: %w", err)
	}
	if !clientExists(clients, input.ClientID) {
		return nil, domain.ErrClientNotFound
	}

	visits, err := s.visits.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("create visit: %w", err)
	}

	now := timestamp(s.now)
	visit := domain.Visit{
		ID:        s.newID(),
		ClientID:  input.ClientID,
		Date:      orDefault(input.Date, now.Format(domain.VisitDateLayout)),
		Status:    orDefault(input.Status, domain.DefaultVisitStatus),
		Notes:     strings.TrimSpace(input.Notes),
		CreatedAt: now,
	}

	if err := s.visits.Save(ctx, append(visits, visit)); err != nil {
		s.logger.Error().Err(err).Msg("failed to save visits")
		return nil, fmt.Errorf("create visit: %w", err)
	}

	s.logger.Info().
		Str("visit_id", visit.ID).
		Str("client_id", visit.ClientID).
		Str("status", visit.Status).
		Msg("visit created")

	return &visit, nil
}

// DeleteVisit removes the visit with the given id.
func (s *VisitService) DeleteVisit(ctx context.Context, id string) error {
	visits, err := s.visits.Load(ctx)
	if err != nil {
		return fmt.Errorf("delete visit: %w", err)
	}

	next := make([]domain.Visit, 0, len(visits))
	for _, v := range visits {
		if v.ID != id {
			next = append(next, v)
		}
	}
	if len(next) == len(visits) {
		return domain.ErrVisitNotFound
	}

	if err := s.visits.Save(ctx, next); err != nil {
		s.logger.Error().Err(err).Msg("failed to save visits")
		return fmt.Errorf("delete visit: %w", err)
	}

	s.logger.Info().Str("visit_id", id).Msg("visit deleted")
	return nil
}

func clientExists(clients []domain.Client, id string) bool {
	for _, c := range clients {
		if c.ID == id {
			return true
		}
	}
	return false
}
