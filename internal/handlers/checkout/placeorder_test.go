package checkout

import (
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
	c.Request = httptest.NewRequest("POST", "/api/checkout/place-order", nil)
	return c
}

func TestCartOwnerKey(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		c := testContext(t)
		c.Set("user_id", "u-1")

		key, ok := cartOwnerKey(c)
		require.True(t, ok)
		assert.Equal(t, "cart:u-1", key)
	})

	t.Run("guest token", func(t *testing.T) {
		c := testContext(t)
		c.Request.Header.Set("X-Cart-Token", "tok-9")

		key, ok := cartOwnerKey(c)
		require.True(t, ok)
		assert.Equal(t, "cart:guest:tok-9", key)
	})

	t.Run("no owner", func(t *testing.T) {
		c := testContext(t)
		_, ok := cartOwnerKey(c)
		assert.False(t, ok)
	})
}

func TestOrderItemsFromCart(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "p1", Name: "Kaju Katli", Price: 650, Quantity: 2, ImageURL: "products/kk.jpg", Weight: 500},
		{ProductID: "p2", Name: "Rasgulla", Price: 280, Quantity: 1},
	}

	out := orderItemsFromCart(items)
	require.Len(t, out, 2)
	assert.Equal(t, "Kaju Katli", out[0].Name)
	assert.Equal(t, 650.0, out[0].Price)
	assert.Equal(t, 2, out[0].Quantity)
	assert.Equal(t, 500, out[0].Weight)
	assert.Equal(t, "p2", out[1].ProductID)
}

func TestShouldAutosaveAddress(t *testing.T) {
	assert.True(t, shouldAutosaveAddress(true, false))
	// Adresse reprise du carnet : rien à ré-enregistrer
	assert.False(t, shouldAutosaveAddress(true, true))
	assert.False(t, shouldAutosaveAddress(false, false))
	assert.False(t, shouldAutosaveAddress(false, true))
}

func TestPincodeRegexp(t *testing.T) {
	assert.True(t, pincodeRe.MatchString("302001"))
	assert.False(t, pincodeRe.MatchString("030201"))
	assert.False(t, pincodeRe.MatchString("30200"))
	assert.False(t, pincodeRe.MatchString("3020011"))
	assert.False(t, pincodeRe.MatchString("3020a1"))
}
