package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadisht_back_end/internal/models"
	"swadisht_back_end/internal/settings"
)

func testSettings() settings.StoreSettings {
	s := settings.Defaults()
	s.TaxRate = 18
	s.DeliveryCharge = 50
	s.FreeDeliveryThreshold = 1000
	s.CODCharge = 20
	s.CODThreshold = 1000
	s.MinOrderAmount = 100
	return s
}

func cartWithSubtotal(subtotal float64) []models.CartItem {
	return []models.CartItem{
		{ProductID: "p1", Name: "Kaju Katli", Price: subtotal, Quantity: 1},
	}
}

func floatPtr(v float64) *float64 { return &v }

// ============================================
// Subtotal
// ============================================

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name     string
		items    []models.CartItem
		expected float64
	}{
		{"empty cart", nil, 0},
		{"single item", []models.CartItem{{Price: 250, Quantity: 2}}, 500},
		{"multiple items", []models.CartItem{
			{Price: 250, Quantity: 2},
			{Price: 100, Quantity: 4},
		}, 900},
		{"quantity one", []models.CartItem{{Price: 99.5, Quantity: 1}}, 99.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Subtotal(tt.items))
		})
	}
}

// ============================================
// ComputeTotals
// ============================================

func TestComputeTotals_TaxIsExactRational(t *testing.T) {
	s := testSettings()
	totals := ComputeTotals(cartWithSubtotal(900), s, PaymentOnline, 0)

	assert.Equal(t, 900*18.0/100, totals.Tax)
	assert.Equal(t, 162.0, totals.Tax)
}

func TestComputeTotals_DeliveryFeeThreshold(t *testing.T) {
	s := testSettings()

	below := ComputeTotals(cartWithSubtotal(999.99), s, PaymentOnline, 0)
	assert.Equal(t, 50.0, below.DeliveryFee)

	atThreshold := ComputeTotals(cartWithSubtotal(1000), s, PaymentOnline, 0)
	assert.Equal(t, 0.0, atThreshold.DeliveryFee)

	above := ComputeTotals(cartWithSubtotal(1500), s, PaymentOnline, 0)
	assert.Equal(t, 0.0, above.DeliveryFee)
}

func TestComputeTotals_CODFee(t *testing.T) {
	s := testSettings()

	cod := ComputeTotals(cartWithSubtotal(500), s, PaymentCOD, 0)
	assert.Equal(t, 20.0, cod.CODFee)

	online := ComputeTotals(cartWithSubtotal(500), s, PaymentOnline, 0)
	assert.Equal(t, 0.0, online.CODFee)
}

// Scénario A du storefront : sous-total 900, seuil 1000, livraison 50,
// TVA 18%, paiement en ligne → 900 + 162 + 50 = 1112
func TestComputeTotals_ScenarioA(t *testing.T) {
	s := testSettings()
	totals := ComputeTotals(cartWithSubtotal(900), s, PaymentOnline, 0)

	assert.Equal(t, 900.0, totals.Subtotal)
	assert.Equal(t, 162.0, totals.Tax)
	assert.Equal(t, 50.0, totals.DeliveryFee)
	assert.Equal(t, 0.0, totals.CODFee)
	assert.Equal(t, 1112.0, totals.Total)
}

// Scénario B : même panier + coupon SAVE10 (10%, plafonné à 80)
// → remise min(90, 80) = 80 → total 1032
func TestComputeTotals_ScenarioB_CappedPercentageCoupon(t *testing.T) {
	s := testSettings()

	coupon := models.Coupon{
		Code:              "SAVE10",
		DiscountType:      "percentage",
		DiscountValue:     10,
		MaxDiscountAmount: floatPtr(80),
		IsActive:          true,
	}

	validation := ValidateCoupon(coupon, 900, time.Now())
	require.True(t, validation.IsValid)
	assert.Equal(t, 80.0, validation.Discount)

	totals := ComputeTotals(cartWithSubtotal(900), s, PaymentOnline, validation.Discount)
	assert.Equal(t, 1032.0, totals.Total)
}

func TestComputeTotals_NegativeTotalPossible(t *testing.T) {
	// Un gros coupon fixe peut rendre le total négatif : le calcul ne
	// plafonne pas, c'est la validation amont qui doit l'empêcher.
	s := testSettings()
	totals := ComputeTotals(cartWithSubtotal(100), s, PaymentOnline, 500)

	assert.Less(t, totals.Total, 0.0)
}

func TestComputeTotals_CouponRemovalRestoresTotal(t *testing.T) {
	s := testSettings()

	before := ComputeTotals(cartWithSubtotal(900), s, PaymentOnline, 0)
	with := ComputeTotals(cartWithSubtotal(900), s, PaymentOnline, 80)
	after := ComputeTotals(cartWithSubtotal(900), s, PaymentOnline, 0)

	assert.Equal(t, before.Total, after.Total)
	assert.Equal(t, 0.0, after.Discount)
	assert.Equal(t, before.Total-80, with.Total)
}

// ============================================
// ValidateCoupon
// ============================================

func activeCoupon() models.Coupon {
	return models.Coupon{
		Code:          "WELCOME",
		DiscountType:  "fixed",
		DiscountValue: 50,
		IsActive:      true,
		ValidFrom:     time.Now().Add(-24 * time.Hour),
		ValidUntil:    time.Now().Add(24 * time.Hour),
	}
}

func TestValidateCoupon_Fixed(t *testing.T) {
	v := ValidateCoupon(activeCoupon(), 900, time.Now())

	require.True(t, v.IsValid)
	assert.Equal(t, 50.0, v.Discount)
	assert.Equal(t, "fixed", v.Type)
}

func TestValidateCoupon_PercentageUncapped(t *testing.T) {
	coupon := activeCoupon()
	coupon.DiscountType = "percentage"
	coupon.DiscountValue = 10
	coupon.MaxDiscountAmount = nil

	v := ValidateCoupon(coupon, 900, time.Now())

	require.True(t, v.IsValid)
	assert.Equal(t, 90.0, v.Discount)
}

func TestValidateCoupon_Rejections(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		mutate   func(*models.Coupon)
		subtotal float64
	}{
		{"inactive", func(c *models.Coupon) { c.IsActive = false }, 900},
		{"not started", func(c *models.Coupon) { c.ValidFrom = now.Add(time.Hour) }, 900},
		{"expired", func(c *models.Coupon) { c.ValidUntil = now.Add(-time.Hour) }, 900},
		{"usage limit reached", func(c *models.Coupon) {
			c.UsageLimit = 5
			c.UsedCount = 5
		}, 900},
		{"below min order", func(c *models.Coupon) { c.MinOrderAmount = 1000 }, 900},
		{"unknown type", func(c *models.Coupon) { c.DiscountType = "bogo" }, 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coupon := activeCoupon()
			tt.mutate(&coupon)

			v := ValidateCoupon(coupon, tt.subtotal, now)

			assert.False(t, v.IsValid)
			assert.NotEmpty(t, v.ErrorMessage)
			assert.Equal(t, 0.0, v.Discount)
		})
	}
}

func TestValidateCoupon_UsageLimitZeroMeansUnlimited(t *testing.T) {
	coupon := activeCoupon()
	coupon.UsageLimit = 0
	coupon.UsedCount = 100000

	v := ValidateCoupon(coupon, 900, time.Now())
	assert.True(t, v.IsValid)
}

func TestNormalizeCouponCode(t *testing.T) {
	assert.Equal(t, "SAVE10", NormalizeCouponCode("  save10 "))
	assert.Equal(t, "SAVE10", NormalizeCouponCode("Save10"))
}
