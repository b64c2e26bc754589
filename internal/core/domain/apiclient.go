package domain

import (
	"time"

	"github.com/google/uuid"
)

// APIClientStatus represents the lifecycle state of an API client account.
type APIClientStatus string

const (
	APIClientStatusActive    APIClientStatus = "ACTIVE"
	APIClientStatusSuspended APIClientStatus = "SUSPENDED"
)

// APIClient is a caller application allowed to drive settlements.
type APIClient struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"`
	Status       APIClientStatus `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// IsActive returns true if the client may authenticate.
func (c *APIClient) IsActive() bool {
	return c.Status == APIClientStatusActive
}
