package checkout

import (
	"fmt"
	"strings"
	"time"

	"swadisht_back_end/internal/models"
	"swadisht_back_end/internal/settings"
)

// Méthodes de paiement acceptées
const (
	PaymentCOD    = "cod"
	PaymentOnline = "online"
)

// Totals est le détail des montants d'une commande.
// Les valeurs sont exactes (pas d'arrondi d'affichage ici).
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	DeliveryFee float64 `json:"delivery_fee"`
	CODFee      float64 `json:"cod_fee"`
	Discount    float64 `json:"discount"`
	Total       float64 `json:"total"`
}

// Subtotal calcule la somme des lignes du panier
func Subtotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ComputeTotals applique les règles de tarification de la boutique :
//
//	tax         = subtotal × tax_rate / 100
//	deliveryFee = 0 si subtotal ≥ free_delivery_threshold, sinon delivery_charge
//	codFee      = cod_charge si paiement COD, sinon 0
//	total       = subtotal + tax + deliveryFee + codFee − discount
//
// Attention : total peut être négatif avec un gros coupon fixe, c'est voulu,
// la validation amont (min_order_amount) est censée l'empêcher en pratique.
func ComputeTotals(items []models.CartItem, s settings.StoreSettings, paymentMethod string, discount float64) Totals {
	subtotal := Subtotal(items)

	tax := subtotal * s.TaxRate / 100

	deliveryFee := s.DeliveryCharge
	if subtotal >= s.FreeDeliveryThreshold {
		deliveryFee = 0
	}

	var codFee float64
	if paymentMethod == PaymentCOD {
		codFee = s.CODCharge
	}

	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: deliveryFee,
		CODFee:      codFee,
		Discount:    discount,
		Total:       subtotal + tax + deliveryFee + codFee - discount,
	}
}

// NormalizeCouponCode met le code en majuscules sans espaces parasites
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCoupon vérifie l'applicabilité d'un coupon sur un sous-total donné
// et calcule la réduction. Aucune mutation : l'incrément de used_count se
// fait au moment de la commande, pas ici.
func ValidateCoupon(coupon models.Coupon, subtotal float64, now time.Time) models.CouponValidation {
	if !coupon.IsActive {
		return models.CouponValidation{
			IsValid:      false,
			ErrorMessage: "Ce coupon n'est plus actif",
		}
	}

	if !coupon.ValidFrom.IsZero() && now.Before(coupon.ValidFrom) {
		return models.CouponValidation{
			IsValid:      false,
			ErrorMessage: "Ce coupon n'est pas encore valide",
		}
	}

	if !coupon.ValidUntil.IsZero() && now.After(coupon.ValidUntil) {
		return models.CouponValidation{
			IsValid:      false,
			ErrorMessage: "Ce coupon a expiré",
		}
	}

	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return models.CouponValidation{
			IsValid:      false,
			ErrorMessage: "Ce coupon a atteint sa limite d'utilisation",
		}
	}

	if subtotal < coupon.MinOrderAmount {
		return models.CouponValidation{
			IsValid:      false,
			ErrorMessage: fmt.Sprintf("Montant minimum requis: %.2f", coupon.MinOrderAmount),
		}
	}

	var discount float64
	switch coupon.DiscountType {
	case "percentage":
		discount = subtotal * coupon.DiscountValue / 100
		if coupon.MaxDiscountAmount != nil && discount > *coupon.MaxDiscountAmount {
			discount = *coupon.MaxDiscountAmount
		}
	case "fixed":
		discount = coupon.DiscountValue
	default:
		return models.CouponValidation{
			IsValid:      false,
			ErrorMessage: "Type de coupon inconnu",
		}
	}

	return models.CouponValidation{
		IsValid:  true,
		Discount: discount,
		Type:     coupon.DiscountType,
		Code:     coupon.Code,
	}
}
