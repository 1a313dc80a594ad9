package models

import (
	"time"

	"github.com/gocql/gocql"
)

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
	Weight    int     `json:"weight,omitempty"`
}

// OrderAddress est l'instantané de l'adresse au moment de la commande
type OrderAddress struct {
	Plot     string `json:"plot"`
	Street   string `json:"street"`
	Landmark string `json:"landmark,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
}

type Order struct {
	ID              gocql.UUID   `json:"id"`
	OrderNumber     string       `json:"order_number"`
	UserID          string       `json:"user_id,omitempty"` // vide pour une commande invité
	CustomerName    string       `json:"customer_name"`
	CustomerEmail   string       `json:"customer_email"`
	CustomerPhone   string       `json:"customer_phone"`
	Address         OrderAddress `json:"address"`
	Items           []OrderItem  `json:"items"`
	Subtotal        float64      `json:"subtotal"`
	Tax             float64      `json:"tax"`
	DeliveryFee     float64      `json:"delivery_fee"`
	CODFee          float64      `json:"cod_fee"`
	Discount        float64      `json:"discount"`
	Total           float64      `json:"total"`
	CouponCode      string       `json:"coupon_code,omitempty"`
	PaymentMethod   string       `json:"payment_method"` // "cod" ou "online"
	PaymentStatus   string       `json:"payment_status"` // "pending", "paid", "failed"
	OrderStatus     string       `json:"order_status"`   // "placed", "confirmed", "preparing", "shipped", "delivered", "cancelled"
	PaymentIntentID string       `json:"payment_intent_id,omitempty"`
	GatewayOrderID  string       `json:"gateway_order_id,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
