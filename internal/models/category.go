package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Category struct {
	ID          gocql.UUID `json:"id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	IsActive    bool       `json:"is_active"`
	// Dérivé à la lecture, jamais stocké
	ProductCount int        `json:"product_count"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}
