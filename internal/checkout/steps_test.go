package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadisht_back_end/internal/models"
)

// ============================================
// ValidateContact (étape 1 → 2)
// ============================================

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name    string
		info    ContactInfo
		wantErr bool
	}{
		{"valid", ContactInfo{Name: "Priya Sharma", Email: "priya@example.com", Phone: "9876543210"}, false},
		{"valid with country code", ContactInfo{Name: "Priya", Email: "priya@example.com", Phone: "+919876543210"}, false},
		{"empty name", ContactInfo{Name: "  ", Email: "priya@example.com", Phone: "9876543210"}, true},
		{"bad email", ContactInfo{Name: "Priya", Email: "priya@", Phone: "9876543210"}, true},
		{"email without tld", ContactInfo{Name: "Priya", Email: "priya@example", Phone: "9876543210"}, true},
		{"phone too short", ContactInfo{Name: "Priya", Email: "priya@example.com", Phone: "12345"}, true},
		{"phone with letters", ContactInfo{Name: "Priya", Email: "priya@example.com", Phone: "98765abcde"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContact(tt.info)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// ============================================
// ValidateAddress (étape 2 → 3)
// ============================================

func fullAddress() models.OrderAddress {
	return models.OrderAddress{
		Plot:    "12B",
		Street:  "MG Road",
		City:    "Jaipur",
		State:   "Rajasthan",
		Pincode: "302001",
	}
}

func TestValidateAddress_Complete(t *testing.T) {
	assert.NoError(t, ValidateAddress(fullAddress(), false))
}

func TestValidateAddress_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.OrderAddress)
	}{
		{"missing city", func(a *models.OrderAddress) { a.City = "" }},
		{"missing state", func(a *models.OrderAddress) { a.State = "" }},
		{"missing pincode", func(a *models.OrderAddress) { a.Pincode = "" }},
		{"missing plot", func(a *models.OrderAddress) { a.Plot = "" }},
		{"missing street", func(a *models.OrderAddress) { a.Street = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := fullAddress()
			tt.mutate(&addr)
			assert.Error(t, ValidateAddress(addr, false))
		})
	}
}

func TestValidateAddress_SavedAddressSkipsStreetChecks(t *testing.T) {
	// Une adresse du carnet a déjà été validée : plot/street absents passent
	addr := fullAddress()
	addr.Plot = ""
	addr.Street = ""

	assert.NoError(t, ValidateAddress(addr, true))
	assert.Error(t, ValidateAddress(addr, false))
}

// ============================================
// ValidatePaymentMethod (étape 3 → 4)
// ============================================

func TestValidatePaymentMethod_Online(t *testing.T) {
	s := testSettings()

	assert.NoError(t, ValidatePaymentMethod(PaymentOnline, 5000, s))

	s.OnlinePaymentEnabled = false
	assert.Error(t, ValidatePaymentMethod(PaymentOnline, 5000, s))
}

func TestValidatePaymentMethod_CODDisabled(t *testing.T) {
	s := testSettings()
	s.CODEnabled = false

	assert.Error(t, ValidatePaymentMethod(PaymentCOD, 500, s))
}

func TestValidatePaymentMethod_Unknown(t *testing.T) {
	assert.Error(t, ValidatePaymentMethod("upi", 500, testSettings()))
}

// Scénario C : sous-total 1200 (livraison offerte) mais COD plafonné à 1000 →
// le COD doit être refusé sur le TOTAL même si le sous-total seul passerait.
func TestValidatePaymentMethod_ScenarioC_CODThresholdOnTotal(t *testing.T) {
	s := testSettings()
	totals := ComputeTotals(cartWithSubtotal(1200), s, PaymentCOD, 0)

	// 1200 + 216 de taxe + 0 livraison + 20 COD = 1436 > 1000
	require.Equal(t, 0.0, totals.DeliveryFee)
	require.Greater(t, totals.Total, s.CODThreshold)

	assert.Error(t, ValidatePaymentMethod(PaymentCOD, totals.Total, s))
}

// ============================================
// CheckMinOrder
// ============================================

func TestCheckMinOrder(t *testing.T) {
	s := testSettings()

	assert.Error(t, CheckMinOrder(99.99, s))
	assert.NoError(t, CheckMinOrder(100, s))
	assert.NoError(t, CheckMinOrder(500, s))
}
