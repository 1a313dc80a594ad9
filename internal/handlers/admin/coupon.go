package admin

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"swadisht_back_end/internal/checkout"
	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
	"swadisht_back_end/internal/services"
)

type couponInput struct {
	Code              string   `json:"code" binding:"required"`
	DiscountType      string   `json:"discount_type" binding:"required"` // "percentage" ou "fixed"
	DiscountValue     float64  `json:"discount_value" binding:"required"`
	MinOrderAmount    float64  `json:"min_order_amount"`
	MaxDiscountAmount *float64 `json:"max_discount_amount"`
	UsageLimit        int      `json:"usage_limit"` // 0 = illimité
	ValidFrom         string   `json:"valid_from"`  // RFC 3339
	ValidUntil        string   `json:"valid_until"`
	IsActive          *bool    `json:"is_active"`
}

func (in *couponInput) validate() (validFrom, validUntil time.Time, msg string) {
	in.Code = checkout.NormalizeCouponCode(in.Code)

	switch {
	case in.Code == "":
		return time.Time{}, time.Time{}, "Le code est requis"
	case in.DiscountType != "percentage" && in.DiscountType != "fixed":
		return time.Time{}, time.Time{}, "Type de réduction inconnu (percentage ou fixed)"
	case in.DiscountValue <= 0:
		return time.Time{}, time.Time{}, "La valeur de réduction doit être positive"
	case in.DiscountType == "percentage" && in.DiscountValue > 100:
		return time.Time{}, time.Time{}, "Un pourcentage ne peut pas dépasser 100"
	case in.MinOrderAmount < 0 || in.UsageLimit < 0:
		return time.Time{}, time.Time{}, "Valeurs négatives interdites"
	}

	if in.ValidFrom != "" {
		t, err := time.Parse(time.RFC3339, in.ValidFrom)
		if err != nil {
			return time.Time{}, time.Time{}, "Date valid_from invalide (RFC 3339)"
		}
		validFrom = t
	}
	if in.ValidUntil != "" {
		t, err := time.Parse(time.RFC3339, in.ValidUntil)
		if err != nil {
			return time.Time{}, time.Time{}, "Date valid_until invalide (RFC 3339)"
		}
		validUntil = t
	}
	if !validFrom.IsZero() && !validUntil.IsZero() && validUntil.Before(validFrom) {
		return time.Time{}, time.Time{}, "valid_until doit être après valid_from"
	}
	return validFrom, validUntil, ""
}

//
// 🎟️ GET /api/admin/coupons
//
func GetAllCoupons(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT code, coupon_id, discount_type, discount_value, min_order_amount,
		max_discount_amount, usage_limit, used_count, valid_from, valid_until, is_active,
		created_by, created_at, updated_at FROM coupons`).Iter()

	var coupons []models.Coupon
	var cp models.Coupon
	for iter.Scan(&cp.Code, &cp.ID, &cp.DiscountType, &cp.DiscountValue, &cp.MinOrderAmount,
		&cp.MaxDiscountAmount, &cp.UsageLimit, &cp.UsedCount, &cp.ValidFrom, &cp.ValidUntil,
		&cp.IsActive, &cp.CreatedBy, &cp.CreatedAt, &cp.UpdatedAt) {
		coupons = append(coupons, cp)
		cp = models.Coupon{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture coupons"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"coupons": coupons, "total": len(coupons)})
}

//
// ➕ POST /api/admin/coupons
//
func CreateCoupon(c *gin.Context) {
	var input couponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	validFrom, validUntil, msg := input.validate()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if _, err := services.GetCouponByCode(input.Code); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un coupon existe déjà avec ce code"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	cp := models.Coupon{
		ID:                gocql.UUID(uuid.New()),
		Code:              input.Code,
		DiscountType:      input.DiscountType,
		DiscountValue:     input.DiscountValue,
		MinOrderAmount:    input.MinOrderAmount,
		MaxDiscountAmount: input.MaxDiscountAmount,
		UsageLimit:        input.UsageLimit,
		ValidFrom:         validFrom,
		ValidUntil:        validUntil,
		IsActive:          isActive,
		CreatedBy:         c.GetString("email"),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := session.Query(`INSERT INTO coupons (code, coupon_id, discount_type, discount_value,
		min_order_amount, max_discount_amount, usage_limit, used_count, valid_from, valid_until,
		is_active, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?)`,
		cp.Code, cp.ID, cp.DiscountType, cp.DiscountValue, cp.MinOrderAmount,
		cp.MaxDiscountAmount, cp.UsageLimit, cp.ValidFrom, cp.ValidUntil, cp.IsActive,
		cp.CreatedBy, cp.CreatedAt, cp.UpdatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur création coupon: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création coupon"})
		return
	}

	log.Printf("✅ Coupon créé: %s", cp.Code)
	c.JSON(http.StatusCreated, gin.H{"message": "Coupon créé", "coupon": cp})
}

//
// ✏️ PUT /api/admin/coupons/:code — used_count n'est jamais modifiable ici
// (seule la consommation atomique à la commande l'incrémente)
//
func UpdateCoupon(c *gin.Context) {
	code := checkout.NormalizeCouponCode(c.Param("code"))

	existing, err := services.GetCouponByCode(code)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon introuvable"})
		return
	}

	var input couponInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}
	input.Code = code // le code (clé primaire) ne change pas

	validFrom, validUntil, msg := input.validate()
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	isActive := existing.IsActive
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	if err := session.Query(`UPDATE coupons SET discount_type = ?, discount_value = ?,
		min_order_amount = ?, max_discount_amount = ?, usage_limit = ?, valid_from = ?,
		valid_until = ?, is_active = ?, updated_at = ? WHERE code = ?`,
		input.DiscountType, input.DiscountValue, input.MinOrderAmount, input.MaxDiscountAmount,
		input.UsageLimit, validFrom, validUntil, isActive, time.Now(), code).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon mis à jour"})
}

//
// ❌ DELETE /api/admin/coupons/:code — désactivation (l'historique des
// commandes référence le code)
//
func DeleteCoupon(c *gin.Context) {
	code := checkout.NormalizeCouponCode(c.Param("code"))

	if _, err := services.GetCouponByCode(code); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Coupon introuvable"})
		return
	}

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`UPDATE coupons SET is_active = ?, updated_at = ? WHERE code = ?`,
		false, time.Now(), code).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur désactivation coupon"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon désactivé"})
}
