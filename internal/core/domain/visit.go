package domain

import (
	"errors"
	"time"
)

// DefaultVisitStatus is applied when a visit is created without a status.
const DefaultVisitStatus = "pending"

// VisitDateLayout is the format of a defaulted visit date (ISO-8601 UTC, millisecond precision).
const VisitDateLayout = "2006-01-02T15:04:05.000Z"

var ErrClientIDRequired = errors.New("clientId is required")
var ErrVisitNotFound = errors.New("visit not found")

// Visit is a dated service record tied to a client.
//
// ClientID referenced an existing client when the visit was created. Deleting
// that client later does not remove the visit.
type Visit struct {
	ID        string    `json:"id" bson:"id"`
	ClientID  string    `json:"clientId" bson:"client_id"`
	Date      string    `json:"date" bson:"date"`
	Status    string    `json:"status" bson:"status"`
	Notes     string    `json:"notes" bson:"notes"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// BelongsTo reports whether the visit was recorded for the given client.
func (v Visit) BelongsTo(clientID string) bool {
	return v.ClientID == clientID
}
