package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID            gocql.UUID `json:"id" db:"product_id"`
	Name          string     `json:"name" db:"name"`
	Description   string     `json:"description" db:"description"`
	Price         float64    `json:"price" db:"price"`
	OriginalPrice *float64   `json:"original_price,omitempty" db:"original_price"`
	Stock         int        `json:"stock" db:"stock"`
	CategoryID    gocql.UUID `json:"category_id" db:"category_id"`
	Weight        int        `json:"weight" db:"weight"` // en grammes, pour la livraison
	Pieces        string     `json:"pieces,omitempty" db:"pieces"`
	ImageURLs     []string   `json:"image_urls" db:"image_urls"`
	Features      []string   `json:"features" db:"features"`
	Rating        float64    `json:"rating" db:"rating"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	IsBestseller  bool       `json:"is_bestseller" db:"is_bestseller"`
	IsNewArrival  bool       `json:"is_new_arrival" db:"is_new_arrival"`
	CreatedAt     *time.Time `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Purchasable indique si le produit peut être commandé
func (p Product) Purchasable() bool {
	return p.IsActive && p.Stock > 0
}
