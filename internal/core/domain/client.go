package domain

import (
	"errors"
	"time"
)

var ErrNameRequired = errors.New("name is required")
var ErrClientNotFound = errors.New("client not found")

// Client is a customer record. Clients are created and deleted, never updated in place.
type Client struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Phone     string    `json:"phone" bson:"phone"`
	Address   string    `json:"address" bson:"address"`
	Notes     string    `json:"notes" bson:"notes"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
