package models

import "time"

type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone,omitempty"`
	Role      string     `json:"role"` // "customer" ou "admin"
	Provider  string     `json:"provider"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
