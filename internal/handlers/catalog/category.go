package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
)

// GetAllCategories liste les catégories actives avec leur nombre de produits.
// GET /api/categories
func GetAllCategories(c *gin.Context) {
	ctx := context.Background()
	cacheKey := "categories:all"

	// Cache Redis
	if val, err := database.RedisClient.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached []models.Category
		if json.Unmarshal([]byte(val), &cached) == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT category_id, name, description, image_url, is_active, created_at FROM categories`).Iter()

	var categories []models.Category
	var cat models.Category
	for iter.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.ImageURL, &cat.IsActive, &cat.CreatedAt) {
		if cat.IsActive {
			categories = append(categories, cat)
		}
		cat = models.Category{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
		return
	}

	// Compte de produits dérivé (pas de jointure en CQL)
	counts := make(map[string]int)
	prodIter := session.Query(`SELECT category_id, is_active FROM products`).Iter()
	var catID gocql.UUID
	var active bool
	for prodIter.Scan(&catID, &active) {
		if active {
			counts[catID.String()]++
		}
	}
	prodIter.Close()

	for i := range categories {
		categories[i].ProductCount = counts[categories[i].ID.String()]
	}

	if data, err := json.Marshal(categories); err == nil {
		database.RedisClient.Set(ctx, cacheKey, data, time.Hour)
	}

	c.JSON(http.StatusOK, categories)
}

// GetCategoryByID retourne une catégorie. GET /api/categories/:id
func GetCategoryByID(c *gin.Context) {
	catID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var cat models.Category
	err = session.Query(`SELECT category_id, name, description, image_url, is_active, created_at
		FROM categories WHERE category_id = ?`, gocql.UUID(catID)).Scan(
		&cat.ID, &cat.Name, &cat.Description, &cat.ImageURL, &cat.IsActive, &cat.CreatedAt)
	if err != nil || !cat.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}

	c.JSON(http.StatusOK, cat)
}
