package ports

import (
	"context"

	"github.com/techvisits/visits-manager/internal/core/domain"
)

// CreateVisitInput carries the caller-supplied visit fields.
type CreateVisitInput struct {
	ClientID string
	Date     string // optional: defaults to the creation instant
	Status   string // optional: defaults to domain.DefaultVisitStatus
	Notes    string
}

// VisitService defines the visit use cases.
type VisitService interface {
	ListVisits(ctx context.Context) ([]domain.Visit, error)
	// ListVisitsByClient returns the visits recorded for clientID. It does not
	// check that the client still exists.
	ListVisitsByClient(ctx context.Context, clientID string) ([]domain.Visit, error)
	CreateVisit(ctx context.Context, input CreateVisitInput) (*domain.Visit, error)
	DeleteVisit(ctx context.Context, id string) error
}
