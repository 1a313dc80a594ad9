package catalog

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/services"
)

// SearchProducts recherche plein texte. GET /api/products/search?q=
// Elasticsearch en priorité, repli ScyllaDB si l'index est indisponible.
func SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	// 🔎 1️⃣ Recherche dans Elasticsearch (prioritaire)
	results, err := services.SearchProducts(query)
	if err == nil && len(results) > 0 {
		// URLs signées MinIO pour chaque produit
		ctx := context.Background()
		for i := range results {
			if urls, ok := results[i]["image_urls"].([]interface{}); ok {
				signed := []string{}
				for _, u := range urls {
					if str, ok := u.(string); ok && str != "" {
						signedURL, err := services.GenerateSignedURL(ctx, str, 24*time.Hour)
						if err == nil {
							signed = append(signed, signedURL)
						}
					}
				}
				results[i]["image_urls"] = signed
			}
		}

		c.JSON(http.StatusOK, gin.H{"products": results, "source": "elastic"})
		return
	}

	// 🔎 2️⃣ Repli : parcours ScyllaDB
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	products, err := fetchActiveProducts(session, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	queryLower := strings.ToLower(query)
	matched := products[:0]
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), queryLower) ||
			strings.Contains(strings.ToLower(p.Description), queryLower) {
			matched = append(matched, p)
		}
	}

	ctx := context.Background()
	for i := range matched {
		matched[i].ImageURLs = services.SignImageURLs(ctx, matched[i].ImageURLs)
	}

	c.JSON(http.StatusOK, gin.H{"products": matched, "source": "scylla"})
}
