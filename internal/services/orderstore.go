package services

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gocql/gocql"

	"swadisht_back_end/internal/checkout"
	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
)

// ErrOrderNotFound est renvoyée quand aucune commande ne correspond
var ErrOrderNotFound = errors.New("commande introuvable")

const orderColumns = `order_id, order_number, user_id, customer_name, customer_email, customer_phone,
	address, items, subtotal, tax, delivery_fee, cod_fee, discount, total, coupon_code,
	payment_method, payment_status, order_status, payment_intent_id, gateway_order_id,
	created_at, updated_at`

// InsertOrder persiste une commande. Le numéro est réservé par une insertion
// LWT dans orders_by_number : en cas de collision un nouveau numéro est
// généré (3 tentatives max).
func InsertOrder(order *models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	addressJSON, err := json.Marshal(order.Address)
	if err != nil {
		return err
	}
	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return err
	}

	// 🔢 Réservation du numéro de commande (unique par LWT)
	reserved := false
	for attempt := 0; attempt < 3; attempt++ {
		applied, err := session.Query(`INSERT INTO orders_by_number (order_number, order_id) VALUES (?, ?) IF NOT EXISTS`,
			order.OrderNumber, order.ID).MapScanCAS(map[string]interface{}{})
		if err != nil {
			return err
		}
		if applied {
			reserved = true
			break
		}
		log.Printf("⚠️ Collision numéro de commande %s, régénération", order.OrderNumber)
		order.OrderNumber = checkout.GenerateOrderNumber()
	}
	if !reserved {
		return errors.New("impossible de réserver un numéro de commande")
	}

	if err := session.Query(`INSERT INTO orders (`+orderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.OrderNumber, order.UserID, order.CustomerName, order.CustomerEmail,
		order.CustomerPhone, string(addressJSON), string(itemsJSON), order.Subtotal, order.Tax,
		order.DeliveryFee, order.CODFee, order.Discount, order.Total, order.CouponCode,
		order.PaymentMethod, order.PaymentStatus, order.OrderStatus, order.PaymentIntentID,
		order.GatewayOrderID, order.CreatedAt, order.UpdatedAt).Exec(); err != nil {
		return err
	}

	if order.UserID != "" {
		if err := session.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id) VALUES (?, ?, ?)`,
			order.UserID, order.CreatedAt, order.ID).Exec(); err != nil {
			log.Printf("⚠️ Erreur indexation orders_by_user pour %s: %v", order.OrderNumber, err)
		}
	}

	return nil
}

func scanOrder(scan func(...interface{}) error) (*models.Order, error) {
	var o models.Order
	var addressJSON, itemsJSON string

	err := scan(&o.ID, &o.OrderNumber, &o.UserID, &o.CustomerName, &o.CustomerEmail,
		&o.CustomerPhone, &addressJSON, &itemsJSON, &o.Subtotal, &o.Tax, &o.DeliveryFee,
		&o.CODFee, &o.Discount, &o.Total, &o.CouponCode, &o.PaymentMethod, &o.PaymentStatus,
		&o.OrderStatus, &o.PaymentIntentID, &o.GatewayOrderID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if addressJSON != "" {
		json.Unmarshal([]byte(addressJSON), &o.Address)
	}
	if itemsJSON != "" {
		json.Unmarshal([]byte(itemsJSON), &o.Items)
	}
	return &o, nil
}

// GetOrderByID lit une commande complète
func GetOrderByID(orderID gocql.UUID) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	q := session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, orderID)
	order, err := scanOrder(q.Scan)
	if err == gocql.ErrNotFound {
		return nil, ErrOrderNotFound
	}
	return order, err
}

// GetOrderByNumber résout un numéro de commande puis charge la commande
func GetOrderByNumber(orderNumber string) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var orderID gocql.UUID
	err = session.Query(`SELECT order_id FROM orders_by_number WHERE order_number = ?`,
		orderNumber).Scan(&orderID)
	if err == gocql.ErrNotFound {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return GetOrderByID(orderID)
}

// GetOrdersByUser retourne les commandes d'un utilisateur, plus récentes en
// premier (ordre de clustering)
func GetOrdersByUser(userID string) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id FROM orders_by_user WHERE user_id = ?`, userID).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(ids))
	for _, oid := range ids {
		order, err := GetOrderByID(oid)
		if err != nil {
			log.Printf("⚠️ Commande %s introuvable dans orders: %v", oid, err)
			continue
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

// UpdateOrderStatus met à jour le statut métier d'une commande
func UpdateOrderStatus(orderID gocql.UUID, status string, updatedAt time.Time) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}
	return session.Query(`UPDATE orders SET order_status = ?, updated_at = ? WHERE order_id = ?`,
		status, updatedAt, orderID).Exec()
}
