package models

import "github.com/gocql/gocql"

// MaxAddressesPerUser limite le carnet d'adresses d'un utilisateur
const MaxAddressesPerUser = 3

type Address struct {
	ID        gocql.UUID `json:"id"`
	UserID    string     `json:"user_id"`
	Plot      string     `json:"plot"` // numéro de parcelle / bâtiment
	Street    string     `json:"street"`
	Landmark  string     `json:"landmark,omitempty"`
	City      string     `json:"city"`
	State     string     `json:"state"`
	Pincode   string     `json:"pincode"`
	Type      string     `json:"type"` // "home", "work", "other"
	IsDefault bool       `json:"is_default"`
}
