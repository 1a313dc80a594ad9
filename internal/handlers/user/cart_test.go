package user

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadisht_back_end/internal/models"
)

func testContext(t *testing.T) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/cart", nil)
	return c
}

// ============================================
// Identification du panier
// ============================================

func TestCartKey_AuthenticatedUser(t *testing.T) {
	c := testContext(t)
	c.Set("user_id", "abc-123")

	key, token, ok := cartKey(c, false)
	require.True(t, ok)
	assert.Equal(t, "cart:abc-123", key)
	assert.Empty(t, token)
}

func TestCartKey_GuestWithToken(t *testing.T) {
	c := testContext(t)
	c.Request.Header.Set("X-Cart-Token", "tok-42")

	key, token, ok := cartKey(c, false)
	require.True(t, ok)
	assert.Equal(t, "cart:guest:tok-42", key)
	assert.Equal(t, "tok-42", token)
}

func TestCartKey_UserWinsOverGuestToken(t *testing.T) {
	c := testContext(t)
	c.Set("user_id", "abc-123")
	c.Request.Header.Set("X-Cart-Token", "tok-42")

	key, _, ok := cartKey(c, false)
	require.True(t, ok)
	assert.Equal(t, "cart:abc-123", key)
}

func TestCartKey_NoOwner(t *testing.T) {
	c := testContext(t)

	_, _, ok := cartKey(c, false)
	assert.False(t, ok)
}

func TestCartKey_GeneratesGuestToken(t *testing.T) {
	c := testContext(t)

	key, token, ok := cartKey(c, true)
	require.True(t, ok)
	require.NotEmpty(t, token)
	assert.Equal(t, "cart:guest:"+token, key)
}

// ============================================
// Sérialisation du panier
// ============================================

func TestCartBlob_RoundTrip(t *testing.T) {
	cart := []models.CartItem{
		{ProductID: "p1", Name: "Kaju Katli", Price: 650, Quantity: 2, ImageURL: "products/kk.jpg", Weight: 500},
		{ProductID: "p2", Name: "Rasgulla", Price: 280, Quantity: 1},
	}

	// Même sérialisation que saveCart/loadCart : le blob rechargé doit
	// restituer exactement les couples {id, quantité}
	data, err := json.Marshal(cart)
	require.NoError(t, err)

	var reloaded []models.CartItem
	require.NoError(t, json.Unmarshal(data, &reloaded))
	require.Len(t, reloaded, 2)
	assert.Equal(t, cart, reloaded)
}

func TestCartBlob_EmptyCart(t *testing.T) {
	data, err := json.Marshal([]models.CartItem{})
	require.NoError(t, err)

	var reloaded []models.CartItem
	require.NoError(t, json.Unmarshal(data, &reloaded))
	assert.Empty(t, reloaded)
}

// ============================================
// Validation d'adresse du carnet
// ============================================

func TestValidateAddressInput(t *testing.T) {
	valid := models.Address{
		Plot:    "12B",
		Street:  "MG Road",
		City:    "Jaipur",
		State:   "Rajasthan",
		Pincode: "302001",
		Type:    "work",
	}

	t.Run("valid", func(t *testing.T) {
		a := valid
		assert.Empty(t, validateAddressInput(&a))
		assert.Equal(t, "work", a.Type)
	})

	t.Run("unknown type falls back to home", func(t *testing.T) {
		a := valid
		a.Type = "bureau"
		require.Empty(t, validateAddressInput(&a))
		assert.Equal(t, "home", a.Type)
	})

	tests := []struct {
		name   string
		mutate func(*models.Address)
	}{
		{"missing plot", func(a *models.Address) { a.Plot = " " }},
		{"missing street", func(a *models.Address) { a.Street = "" }},
		{"missing city", func(a *models.Address) { a.City = "" }},
		{"missing state", func(a *models.Address) { a.State = "" }},
		{"pincode too short", func(a *models.Address) { a.Pincode = "3020" }},
		{"pincode leading zero", func(a *models.Address) { a.Pincode = "030201" }},
		{"pincode with letters", func(a *models.Address) { a.Pincode = "3020A1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			assert.NotEmpty(t, validateAddressInput(&a))
		})
	}
}
