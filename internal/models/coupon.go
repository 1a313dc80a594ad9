package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Coupon struct {
	ID                gocql.UUID `json:"id"`
	Code              string     `json:"code"`
	DiscountType      string     `json:"discount_type"` // "percentage" ou "fixed"
	DiscountValue     float64    `json:"discount_value"`
	MinOrderAmount    float64    `json:"min_order_amount"`
	MaxDiscountAmount *float64   `json:"max_discount_amount,omitempty"` // plafond pour le type percentage
	UsageLimit        int        `json:"usage_limit"`                   // 0 = illimité
	UsedCount         int        `json:"used_count"`
	ValidFrom         time.Time  `json:"valid_from"`
	ValidUntil        time.Time  `json:"valid_until"`
	IsActive          bool       `json:"is_active"`
	CreatedBy         string     `json:"created_by,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

type CouponValidation struct {
	IsValid      bool    `json:"is_valid"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Discount     float64 `json:"discount"`
	Type         string  `json:"type,omitempty"`
	Code         string  `json:"code,omitempty"`
}
