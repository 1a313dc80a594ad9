package settings

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"swadisht_back_end/internal/database"
)

const (
	cacheKey = "settings:store"
	cacheTTL = 5 * time.Minute
)

// StoreSettings regroupe tous les paramètres de la boutique, typés et avec
// des valeurs par défaut explicites. Les vérifications de présence de clé au
// cas par cas sont interdites : tout passe par cette structure.
type StoreSettings struct {
	TaxRate               float64 `json:"tax_rate"`                // en pourcentage
	DeliveryCharge        float64 `json:"delivery_charge"`         // frais de livraison standard
	FreeDeliveryThreshold float64 `json:"free_delivery_threshold"` // livraison offerte à partir de
	CODCharge             float64 `json:"cod_charge"`              // frais paiement à la livraison
	CODThreshold          float64 `json:"cod_threshold"`           // montant max autorisé en COD
	MinOrderAmount        float64 `json:"min_order_amount"`
	CurrencySymbol        string  `json:"currency_symbol"`
	CODEnabled            bool    `json:"cod_enabled"`
	OnlinePaymentEnabled  bool    `json:"online_payment_enabled"`
	DeliveryTime          string  `json:"delivery_time"` // délai affiché par défaut
	StoreOpenTime         string  `json:"store_open_time"`
	StoreCloseTime        string  `json:"store_close_time"`
	OriginPincode         string  `json:"origin_pincode"` // départ des expéditions
}

// Defaults retourne les paramètres par défaut de Swadisht Sweets
func Defaults() StoreSettings {
	return StoreSettings{
		TaxRate:               18, // GST
		DeliveryCharge:        50,
		FreeDeliveryThreshold: 1000,
		CODCharge:             20,
		CODThreshold:          1000,
		MinOrderAmount:        100,
		CurrencySymbol:        "₹",
		CODEnabled:            true,
		OnlinePaymentEnabled:  true,
		DeliveryTime:          "3-5 jours",
		StoreOpenTime:         "09:00",
		StoreCloseTime:        "21:00",
		OriginPincode:         "110001",
	}
}

// FromRows applique les lignes clé → valeur JSON de la table settings sur les
// valeurs par défaut. Les clés inconnues sont ignorées, les valeurs
// invalides laissent le défaut en place.
func FromRows(rows map[string]string) StoreSettings {
	s := Defaults()

	for key, raw := range rows {
		switch key {
		case "tax_rate":
			decodeFloat(raw, &s.TaxRate)
		case "delivery_charge":
			decodeFloat(raw, &s.DeliveryCharge)
		case "free_delivery_threshold":
			decodeFloat(raw, &s.FreeDeliveryThreshold)
		case "cod_charge":
			decodeFloat(raw, &s.CODCharge)
		case "cod_threshold":
			decodeFloat(raw, &s.CODThreshold)
		case "min_order_amount":
			decodeFloat(raw, &s.MinOrderAmount)
		case "currency_symbol":
			decodeString(raw, &s.CurrencySymbol)
		case "cod_enabled":
			decodeBool(raw, &s.CODEnabled)
		case "online_payment_enabled":
			decodeBool(raw, &s.OnlinePaymentEnabled)
		case "delivery_time":
			decodeString(raw, &s.DeliveryTime)
		case "store_open_time":
			decodeString(raw, &s.StoreOpenTime)
		case "store_close_time":
			decodeString(raw, &s.StoreCloseTime)
		case "origin_pincode":
			decodeString(raw, &s.OriginPincode)
		}
	}

	return s
}

func decodeFloat(raw string, dst *float64) {
	var v float64
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		*dst = v
	}
}

func decodeBool(raw string, dst *bool) {
	var v bool
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		*dst = v
	}
}

func decodeString(raw string, dst *string) {
	var v string
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		*dst = v
	}
}

// Load récupère les paramètres depuis Redis ou ScyllaDB.
// En cas d'erreur base de données on retourne les défauts : la boutique
// doit rester utilisable même sans table settings.
func Load(ctx context.Context) StoreSettings {
	// 1. Essayer le cache Redis
	if data, err := database.Redis.Get(ctx, cacheKey).Result(); err == nil && data != "" {
		var s StoreSettings
		if json.Unmarshal([]byte(data), &s) == nil {
			return s
		}
	}

	// 2. Lire la table settings
	session, err := database.GetOrdersSession()
	if err != nil {
		log.Printf("⚠️ Paramètres indisponibles, défauts utilisés: %v", err)
		return Defaults()
	}

	rows := make(map[string]string)
	iter := session.Query("SELECT key, value FROM settings").Iter()
	var key, value string
	for iter.Scan(&key, &value) {
		rows[key] = value
	}
	if err := iter.Close(); err != nil {
		log.Printf("⚠️ Erreur lecture settings, défauts utilisés: %v", err)
		return Defaults()
	}

	s := FromRows(rows)

	// 3. Mettre en cache
	if data, err := json.Marshal(s); err == nil {
		database.Redis.Set(ctx, cacheKey, data, cacheTTL)
	}

	return s
}

// Save écrit une clé dans la table settings et invalide le cache
func Save(ctx context.Context, key, value string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	if err := session.Query("INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)",
		key, value, time.Now()).Exec(); err != nil {
		return err
	}

	Invalidate(ctx)
	return nil
}

// Invalidate supprime le cache Redis des paramètres
func Invalidate(ctx context.Context) {
	database.Redis.Del(ctx, cacheKey)
}
