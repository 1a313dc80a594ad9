package services

import (
	"errors"

	"github.com/gocql/gocql"

	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
)

var (
	ErrCouponNotFound  = errors.New("coupon introuvable")
	ErrCouponExhausted = errors.New("coupon épuisé")
)

const couponColumns = `code, coupon_id, discount_type, discount_value, min_order_amount,
	max_discount_amount, usage_limit, used_count, valid_from, valid_until, is_active,
	created_by, created_at, updated_at`

func scanCoupon(scan func(...interface{}) error) (*models.Coupon, error) {
	var cp models.Coupon
	err := scan(&cp.Code, &cp.ID, &cp.DiscountType, &cp.DiscountValue, &cp.MinOrderAmount,
		&cp.MaxDiscountAmount, &cp.UsageLimit, &cp.UsedCount, &cp.ValidFrom, &cp.ValidUntil,
		&cp.IsActive, &cp.CreatedBy, &cp.CreatedAt, &cp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cp, nil
}

// GetCouponByCode lit un coupon (code déjà normalisé en majuscules)
func GetCouponByCode(code string) (*models.Coupon, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	q := session.Query(`SELECT `+couponColumns+` FROM coupons WHERE code = ?`, code)
	coupon, err := scanCoupon(q.Scan)
	if err == gocql.ErrNotFound {
		return nil, ErrCouponNotFound
	}
	return coupon, err
}

// RedeemCoupon incrémente used_count de façon atomique (compare-and-set sur
// la valeur lue). Deux commandes simultanées ne consomment jamais la même
// utilisation : celle qui perd le CAS relit et réessaie, et échoue si la
// limite est atteinte entre-temps.
func RedeemCoupon(code string) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	for attempt := 0; attempt < 5; attempt++ {
		coupon, err := GetCouponByCode(code)
		if err != nil {
			return err
		}
		if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
			return ErrCouponExhausted
		}

		applied, err := session.Query(`UPDATE coupons SET used_count = ? WHERE code = ? IF used_count = ?`,
			coupon.UsedCount+1, code, coupon.UsedCount).MapScanCAS(map[string]interface{}{})
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
	}
	return ErrCouponExhausted
}
