package checkout

import (
	"context"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"swadisht_back_end/internal/checkout"
	"swadisht_back_end/internal/shipping"
	"swadisht_back_end/internal/settings"
)

var pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)

//
// 🚚 GET /api/shipping/estimate?pincode=&cod= — estimation transporteur
//
// Le poids estimé vient du panier courant. Si le proxy est indisponible le
// tarif statique des paramètres boutique est renvoyé (fallback=true).
//
func EstimateShipping(c *gin.Context) {
	pincode := c.Query("pincode")
	if !pincodeRe.MatchString(pincode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code pin invalide (6 chiffres)"})
		return
	}
	cod := c.Query("cod") == "true" || c.Query("cod") == "1"

	ctx := context.Background()

	weightGrams := 0
	if key, ok := cartOwnerKey(c); ok {
		for _, item := range loadCartItems(ctx, key) {
			weightGrams += item.Weight * item.Quantity
		}
	}
	if weightGrams <= 0 {
		weightGrams = 500 // colis minimum facturé par le transporteur
	}

	s := settings.Load(ctx)
	estimate := shipping.NewClient().EstimateOrFallback(ctx, pincode, cod, weightGrams, s)

	freeEligible := false
	if key, ok := cartOwnerKey(c); ok {
		items := loadCartItems(ctx, key)
		freeEligible = checkout.Subtotal(items) >= s.FreeDeliveryThreshold
	}

	c.JSON(http.StatusOK, gin.H{
		"estimate":               estimate,
		"free_delivery_eligible": freeEligible,
	})
}
