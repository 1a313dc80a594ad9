package admin

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"swadisht_back_end/internal/cache"
	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
)

type categoryInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsActive    *bool  `json:"is_active"`
}

//
// ➕ POST /api/admin/categories
//
func CreateCategory(c *gin.Context) {
	var input categoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le nom est requis"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	cat := models.Category{
		ID:          gocql.UUID(uuid.New()),
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		IsActive:    isActive,
		CreatedAt:   &now,
	}

	if err := session.Query(`INSERT INTO categories (category_id, name, description, image_url, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Description, cat.ImageURL, cat.IsActive, now).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création catégorie"})
		return
	}

	cache.InvalidateProductCaches(context.Background())
	c.JSON(http.StatusCreated, gin.H{"message": "Catégorie créée", "category": cat})
}

//
// ✏️ PUT /api/admin/categories/:id
//
func UpdateCategory(c *gin.Context) {
	catID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID catégorie invalide"})
		return
	}

	var input categoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le nom est requis"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var existing string
	if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`,
		gocql.UUID(catID)).Scan(&existing); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	if err := session.Query(`UPDATE categories SET name = ?, description = ?, image_url = ?, is_active = ?
		WHERE category_id = ?`,
		input.Name, input.Description, input.ImageURL, isActive, gocql.UUID(catID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour catégorie"})
		return
	}

	cache.InvalidateProductCaches(context.Background())
	c.JSON(http.StatusOK, gin.H{"message": "Catégorie mise à jour"})
}

//
// ❌ DELETE /api/admin/categories/:id — refusé si des produits y sont rattachés
//
func DeleteCategory(c *gin.Context) {
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

	// Compte des produits encore rattachés
	var count int
	if err := session.Query(`SELECT COUNT(*) FROM products WHERE category_id = ? ALLOW FILTERING`,
		gocql.UUID(catID)).Scan(&count); err == nil && count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Des produits sont rattachés à cette catégorie"})
		return
	}

	if err := session.Query(`DELETE FROM categories WHERE category_id = ?`,
		gocql.UUID(catID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression catégorie"})
		return
	}

	cache.InvalidateProductCaches(context.Background())
	c.JSON(http.StatusOK, gin.H{"message": "Catégorie supprimée"})
}
