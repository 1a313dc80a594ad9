package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"swadisht_back_end/internal/checkout"
	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
	"swadisht_back_end/internal/services"
	"swadisht_back_end/internal/settings"
)

// cartOwnerKey retrouve la clé Redis du panier (utilisateur ou invité)
func cartOwnerKey(c *gin.Context) (string, bool) {
	if userID := c.GetString("user_id"); userID != "" {
		return "cart:" + userID, true
	}
	if token := c.GetHeader("X-Cart-Token"); token != "" {
		return "cart:guest:" + token, true
	}
	return "", false
}

func loadCartItems(ctx context.Context, key string) []models.CartItem {
	data, err := database.RedisClient.Get(ctx, key).Result()
	if err != nil || data == "" {
		return nil
	}
	var items []models.CartItem
	if json.Unmarshal([]byte(data), &items) != nil {
		return nil
	}
	return items
}

// resolveCoupon valide un code et retourne la réduction applicable
func resolveCoupon(code string, subtotal float64) models.CouponValidation {
	normalized := checkout.NormalizeCouponCode(code)
	if normalized == "" {
		return models.CouponValidation{IsValid: false, ErrorMessage: "Code coupon requis"}
	}

	coupon, err := services.GetCouponByCode(normalized)
	if err != nil {
		return models.CouponValidation{IsValid: false, ErrorMessage: "Code coupon invalide"}
	}

	return checkout.ValidateCoupon(*coupon, subtotal, time.Now())
}

//
// 🧮 POST /api/checkout/quote — détail des montants pour l'étape récapitulatif
//
func Quote(c *gin.Context) {
	var input struct {
		PaymentMethod string `json:"payment_method"`
		CouponCode    string `json:"coupon_code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	key, ok := cartOwnerKey(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier introuvable"})
		return
	}

	ctx := context.Background()
	items := loadCartItems(ctx, key)
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Votre panier est vide"})
		return
	}

	s := settings.Load(ctx)
	subtotal := checkout.Subtotal(items)

	if err := checkout.CheckMinOrder(subtotal, s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var discount float64
	var couponResult *models.CouponValidation
	if input.CouponCode != "" {
		result := resolveCoupon(input.CouponCode, subtotal)
		couponResult = &result
		if result.IsValid {
			discount = result.Discount
		}
	}

	method := input.PaymentMethod
	if method == "" {
		method = checkout.PaymentOnline
	}

	totals := checkout.ComputeTotals(items, s, method, discount)

	c.JSON(http.StatusOK, gin.H{
		"totals":   totals,
		"coupon":   couponResult,
		"currency": s.CurrencySymbol,
	})
}

//
// 🎟️ POST /api/checkout/coupon — validation d'un code sur le panier courant
//
func ValidateCouponCode(c *gin.Context) {
	var input struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	key, ok := cartOwnerKey(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier introuvable"})
		return
	}

	items := loadCartItems(context.Background(), key)
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Votre panier est vide"})
		return
	}

	result := resolveCoupon(input.Code, checkout.Subtotal(items))
	if !result.IsValid {
		c.JSON(http.StatusBadRequest, gin.H{"coupon": result})
		return
	}

	c.JSON(http.StatusOK, gin.H{"coupon": result})
}

//
// ✅ POST /api/checkout/validate-step — re-valide une transition du tunnel
//
func ValidateStep(c *gin.Context) {
	var input struct {
		Step          int                  `json:"step"`
		Contact       checkout.ContactInfo `json:"contact"`
		Address       models.OrderAddress  `json:"address"`
		AddressID     string               `json:"address_id"`
		PaymentMethod string               `json:"payment_method"`
		CouponCode    string               `json:"coupon_code"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	key, ok := cartOwnerKey(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier introuvable"})
		return
	}

	ctx := context.Background()
	items := loadCartItems(ctx, key)
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Votre panier est vide"})
		return
	}

	s := settings.Load(ctx)
	subtotal := checkout.Subtotal(items)

	// Le minimum de commande est re-vérifié à chaque transition
	if err := checkout.CheckMinOrder(subtotal, s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch input.Step {
	case checkout.StepContact:
		if err := checkout.ValidateContact(input.Contact); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	case checkout.StepAddress:
		reusingSaved := false
		if input.AddressID != "" {
			if _, err := uuid.Parse(input.AddressID); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "ID adresse invalide"})
				return
			}
			reusingSaved = true
		}
		if err := checkout.ValidateAddress(input.Address, reusingSaved); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	case checkout.StepPayment:
		var discount float64
		if input.CouponCode != "" {
			if result := resolveCoupon(input.CouponCode, subtotal); result.IsValid {
				discount = result.Discount
			}
		}
		totals := checkout.ComputeTotals(items, s, input.PaymentMethod, discount)
		if err := checkout.ValidatePaymentMethod(input.PaymentMethod, totals.Total, s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Étape inconnue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}
