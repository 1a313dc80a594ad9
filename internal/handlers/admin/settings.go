package admin

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"swadisht_back_end/internal/settings"
)

// Clés de paramètres modifiables et leur type attendu
var settingKeys = map[string]string{
	"tax_rate":                "number",
	"delivery_charge":         "number",
	"free_delivery_threshold": "number",
	"cod_charge":              "number",
	"cod_threshold":           "number",
	"min_order_amount":        "number",
	"currency_symbol":         "string",
	"cod_enabled":             "bool",
	"online_payment_enabled":  "bool",
	"delivery_time":           "string",
	"store_open_time":         "string",
	"store_close_time":        "string",
	"origin_pincode":          "string",
}

//
// ⚙️ GET /api/admin/settings — paramètres effectifs (défauts inclus)
//
func GetSettings(c *gin.Context) {
	s := settings.Load(context.Background())
	c.JSON(http.StatusOK, gin.H{"settings": s})
}

//
// ⚙️ PUT /api/admin/settings — mise à jour partielle clé → valeur
//
func UpdateSettings(c *gin.Context) {
	var input map[string]json.RawMessage
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if len(input) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun paramètre fourni"})
		return
	}

	// Validation de toutes les clés AVANT la première écriture
	for key, raw := range input {
		kind, known := settingKeys[key]
		if !known {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre inconnu: " + key})
			return
		}
		if !valueMatchesKind(raw, kind) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Valeur invalide pour " + key})
			return
		}
	}

	ctx := context.Background()
	for key, raw := range input {
		if err := settings.Save(ctx, key, string(raw)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement de " + key})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Paramètres mis à jour",
		"settings": settings.Load(ctx),
	})
}

func valueMatchesKind(raw json.RawMessage, kind string) bool {
	switch kind {
	case "number":
		var v float64
		return json.Unmarshal(raw, &v) == nil && v >= 0
	case "bool":
		var v bool
		return json.Unmarshal(raw, &v) == nil
	case "string":
		var v string
		return json.Unmarshal(raw, &v) == nil
	}
	return false
}
