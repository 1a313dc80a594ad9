package admin

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Validation des entrées coupon
// ============================================

func validCouponInput() couponInput {
	return couponInput{
		Code:          "  diwali20 ",
		DiscountType:  "percentage",
		DiscountValue: 20,
	}
}

func TestCouponInput_ValidNormalizesCode(t *testing.T) {
	in := validCouponInput()
	_, _, msg := in.validate()

	require.Empty(t, msg)
	assert.Equal(t, "DIWALI20", in.Code)
}

func TestCouponInput_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*couponInput)
	}{
		{"empty code", func(in *couponInput) { in.Code = "   " }},
		{"unknown type", func(in *couponInput) { in.DiscountType = "bogo" }},
		{"zero value", func(in *couponInput) { in.DiscountValue = 0 }},
		{"percentage over 100", func(in *couponInput) { in.DiscountValue = 150 }},
		{"negative min order", func(in *couponInput) { in.MinOrderAmount = -1 }},
		{"negative usage limit", func(in *couponInput) { in.UsageLimit = -1 }},
		{"bad valid_from", func(in *couponInput) { in.ValidFrom = "31/12/2025" }},
		{"bad valid_until", func(in *couponInput) { in.ValidUntil = "demain" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCouponInput()
			tt.mutate(&in)
			_, _, msg := in.validate()
			assert.NotEmpty(t, msg)
		})
	}
}

func TestCouponInput_WindowMustBeOrdered(t *testing.T) {
	in := validCouponInput()
	in.ValidFrom = "2025-12-01T00:00:00Z"
	in.ValidUntil = "2025-11-01T00:00:00Z"

	_, _, msg := in.validate()
	assert.NotEmpty(t, msg)
}

func TestCouponInput_ParsesWindow(t *testing.T) {
	in := validCouponInput()
	in.ValidFrom = "2025-10-01T00:00:00Z"
	in.ValidUntil = "2025-10-31T23:59:59Z"

	from, until, msg := in.validate()
	require.Empty(t, msg)
	assert.Equal(t, time.October, from.Month())
	assert.Equal(t, 31, until.Day())
}

func TestCouponInput_FixedOver100Allowed(t *testing.T) {
	in := validCouponInput()
	in.DiscountType = "fixed"
	in.DiscountValue = 500

	_, _, msg := in.validate()
	assert.Empty(t, msg)
}

// ============================================
// Typage des valeurs de paramètres
// ============================================

func TestValueMatchesKind(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind string
		want bool
	}{
		{"number ok", "18.5", "number", true},
		{"number negative refused", "-1", "number", false},
		{"number from string refused", `"18"`, "number", false},
		{"bool ok", "true", "bool", true},
		{"bool from number refused", "1", "bool", false},
		{"string ok", `"₹"`, "string", true},
		{"string bare refused", "abc", "string", false},
		{"unknown kind", "1", "duration", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valueMatchesKind(json.RawMessage(tt.raw), tt.kind))
		})
	}
}
