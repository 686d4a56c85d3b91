package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog entry. The catalog is read-only from this service;
// only the stock level participates in dashboard reporting.
type Product struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	Category  string    `json:"category,omitempty"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}
