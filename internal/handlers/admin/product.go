package admin

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"swadisht_back_end/internal/cache"
	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
	"swadisht_back_end/internal/services"
)

type productInput struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" binding:"required"`
	OriginalPrice *float64 `json:"original_price"`
	Stock         int      `json:"stock"`
	CategoryID    string   `json:"category_id" binding:"required"`
	Weight        int      `json:"weight"` // grammes
	Pieces        string   `json:"pieces"` // descriptif, ex. "12 pièces"
	ImageURLs     []string `json:"image_urls"`
	Features      []string `json:"features"`
	IsActive      *bool    `json:"is_active"`
	IsBestseller  bool     `json:"is_bestseller"`
	IsNewArrival  bool     `json:"is_new_arrival"`
}

func (in *productInput) validate() string {
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		return "Le nom est requis"
	case in.Price <= 0:
		return "Le prix doit être positif"
	case in.Stock < 0:
		return "Le stock ne peut pas être négatif"
	case in.Weight < 0:
		return "Le poids ne peut pas être négatif"
	}
	if _, err := uuid.Parse(in.CategoryID); err != nil {
		return "ID catégorie invalide"
	}
	return ""
}

//
// 📋 GET /api/admin/products — tout le catalogue, produits inactifs inclus
//
func GetAllProducts(c *gin.Context) {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT product_id, name, description, price, original_price, stock, category_id,
		weight, pieces, image_urls, features, rating, is_active, is_bestseller, is_new_arrival,
		created_at, updated_at FROM products`).Iter()

	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.Stock,
		&p.CategoryID, &p.Weight, &p.Pieces, &p.ImageURLs, &p.Features, &p.Rating,
		&p.IsActive, &p.IsBestseller, &p.IsNewArrival, &p.CreatedAt, &p.UpdatedAt) {
		products = append(products, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

//
// ➕ POST /api/admin/products
//
func CreateProduct(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}
	if msg := input.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	catID, _ := uuid.Parse(input.CategoryID)
	now := time.Now()
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	p := models.Product{
		ID:            gocql.UUID(uuid.New()),
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Stock:         input.Stock,
		CategoryID:    gocql.UUID(catID),
		Weight:        input.Weight,
		Pieces:        input.Pieces,
		ImageURLs:     input.ImageURLs,
		Features:      input.Features,
		IsActive:      isActive,
		IsBestseller:  input.IsBestseller,
		IsNewArrival:  input.IsNewArrival,
		CreatedAt:     &now,
		UpdatedAt:     &now,
	}

	if err := session.Query(`INSERT INTO products (product_id, name, description, price, original_price,
		stock, category_id, weight, pieces, image_urls, features, rating, is_active, is_bestseller,
		is_new_arrival, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.Stock, p.CategoryID,
		p.Weight, p.Pieces, p.ImageURLs, p.Features, 0.0, p.IsActive, p.IsBestseller,
		p.IsNewArrival, now, now).Exec(); err != nil {
		log.Printf("❌ Erreur création produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	// 🔎 Indexation recherche + invalidation caches
	go services.IndexProduct(p)
	cache.InvalidateProductCaches(context.Background())

	log.Printf("✅ Produit créé: %s", p.Name)
	c.JSON(http.StatusCreated, gin.H{"message": "Produit créé", "product": p})
}

//
// ✏️ PUT /api/admin/products/:id
//
func UpdateProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}
	if msg := input.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Produit existant requis (et rating préservé)
	var rating float64
	if err := session.Query(`SELECT rating FROM products WHERE product_id = ?`,
		gocql.UUID(productID)).Scan(&rating); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	catID, _ := uuid.Parse(input.CategoryID)
	now := time.Now()
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	if err := session.Query(`UPDATE products SET name = ?, description = ?, price = ?, original_price = ?,
		stock = ?, category_id = ?, weight = ?, pieces = ?, image_urls = ?, features = ?,
		is_active = ?, is_bestseller = ?, is_new_arrival = ?, updated_at = ?
		WHERE product_id = ?`,
		input.Name, input.Description, input.Price, input.OriginalPrice, input.Stock,
		gocql.UUID(catID), input.Weight, input.Pieces, input.ImageURLs, input.Features,
		isActive, input.IsBestseller, input.IsNewArrival, now, gocql.UUID(productID)).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour produit: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	updated := models.Product{
		ID:            gocql.UUID(productID),
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Stock:         input.Stock,
		CategoryID:    gocql.UUID(catID),
		Weight:        input.Weight,
		Pieces:        input.Pieces,
		ImageURLs:     input.ImageURLs,
		Features:      input.Features,
		Rating:        rating,
		IsActive:      isActive,
		IsBestseller:  input.IsBestseller,
		IsNewArrival:  input.IsNewArrival,
		UpdatedAt:     &now,
	}

	if isActive {
		go services.IndexProduct(updated)
	} else {
		go services.RemoveProductFromIndex(productID.String())
	}
	cache.InvalidateProductCaches(context.Background())

	c.JSON(http.StatusOK, gin.H{"message": "Produit mis à jour", "product": updated})
}

//
// ❌ DELETE /api/admin/products/:id — désactivation, jamais de suppression
// physique (les commandes passées référencent le produit)
//
func DeleteProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`UPDATE products SET is_active = ?, updated_at = ? WHERE product_id = ?`,
		false, time.Now(), gocql.UUID(productID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur désactivation produit"})
		return
	}

	go services.RemoveProductFromIndex(productID.String())
	cache.InvalidateProductCaches(context.Background())

	c.JSON(http.StatusOK, gin.H{"message": "Produit désactivé"})
}

//
// 🪣 POST /api/admin/products/upload — upload d'image vers MinIO
//
func UploadProductImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' requis"})
		return
	}

	if file.Size > 5*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image trop lourde (5 Mo max.)"})
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le fichier doit être une image"})
		return
	}

	ctx := context.Background()
	objectPath, err := services.UploadProductImage(ctx, file)
	if err != nil {
		log.Printf("❌ Erreur upload MinIO: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload de l'image"})
		return
	}

	signedURL, _ := services.GenerateSignedURL(ctx, objectPath, 24*time.Hour)

	log.Printf("🪣 Image uploadée: %s", objectPath)
	c.JSON(http.StatusCreated, gin.H{
		"path":       objectPath,
		"signed_url": signedURL,
	})
}
