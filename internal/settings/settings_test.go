package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromRows_EmptyGivesDefaults(t *testing.T) {
	s := FromRows(nil)
	assert.Equal(t, Defaults(), s)
}

func TestFromRows_Overrides(t *testing.T) {
	s := FromRows(map[string]string{
		"tax_rate":                "5",
		"delivery_charge":         "40",
		"free_delivery_threshold": "500",
		"cod_enabled":             "false",
		"currency_symbol":         `"Rs."`,
		"delivery_time":           `"2-3 jours"`,
	})

	assert.Equal(t, 5.0, s.TaxRate)
	assert.Equal(t, 40.0, s.DeliveryCharge)
	assert.Equal(t, 500.0, s.FreeDeliveryThreshold)
	assert.False(t, s.CODEnabled)
	assert.Equal(t, "Rs.", s.CurrencySymbol)
	assert.Equal(t, "2-3 jours", s.DeliveryTime)

	// Les clés non fournies gardent leur défaut
	assert.Equal(t, Defaults().CODCharge, s.CODCharge)
	assert.Equal(t, Defaults().MinOrderAmount, s.MinOrderAmount)
}

func TestFromRows_InvalidValueKeepsDefault(t *testing.T) {
	s := FromRows(map[string]string{
		"tax_rate":    `"pas un nombre"`,
		"cod_enabled": "42",
	})

	assert.Equal(t, Defaults().TaxRate, s.TaxRate)
	assert.Equal(t, Defaults().CODEnabled, s.CODEnabled)
}

func TestFromRows_UnknownKeysIgnored(t *testing.T) {
	s := FromRows(map[string]string{
		"theme_color": `"#ff9933"`,
		"tax_rate":    "12",
	})

	assert.Equal(t, 12.0, s.TaxRate)
	assert.Equal(t, Defaults().DeliveryCharge, s.DeliveryCharge)
}
