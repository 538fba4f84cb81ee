package handler

import (
	"github.com/techvisits/visits-manager/internal/core/domain"
	"github.com/techvisits/visits-manager/internal/core/ports"
)

// --- Request → Service input ---

func toCreateClientInput(r createClientRequest) ports.CreateClientInput {
	return ports.CreateClientInput{
		Name:    r.Name,
		Phone:   r.Phone,
		Address: r.Address,
		Notes:   r.Notes,
	}
}

func toCreateVisitInput(r createVisitRequest) ports.CreateVisitInput {
	return ports.CreateVisitInput{
		ClientID: r.ClientID,
		Date:     r.Date,
		Status:   r.Status,
		Notes:    r.Notes,
	}
}

// --- Domain → HTTP response ---

func toClientResponse(c domain.Client) clientResponse {
	return clientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt.UTC(),
	}
}

func toClientResponses(clients []domain.Client) []clientResponse {
	out := make([]clientResponse, len(clients))
	for i, c := range clients {
		out[i] = toClientResponse(c)
	}
	return out
}

func toVisitResponse(v domain.Visit) visitResponse {
	return visitResponse{
		ID:        v.ID,
		ClientID:  v.ClientID,
		Date:      v.Date,
		Status:    v.Status,
		Notes:     v.Notes,
		CreatedAt: v.CreatedAt.UTC(),
	}
}

func toVisitResponses(visits []domain.Visit) []visitResponse {
	out := make([]visitResponse, len(visits))
	for i, v := range visits {
		out[i] = toVisitResponse(v)
	}
	return out
}
