package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strconv"
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

const (
	PageSize      = 10
	MaxPriceBound = 10000
)

// Clés de tri acceptées par le storefront
var validSortKeys = map[string]bool{
	"name":       true,
	"name-desc":  true,
	"price-low":  true,
	"price-high": true,
	"rating":     true,
	"newest":     true,
	"bestseller": true,
}

// ListProducts traduit l'état des filtres du storefront en une page de
// produits + total. GET /api/products
func ListProducts(c *gin.Context) {
	categories := splitParam(c.Query("categories"))
	features := splitParam(c.Query("features"))
	search := strings.TrimSpace(c.Query("q"))
	inStock := c.Query("in_stock") == "true"
	bestseller := c.Query("bestseller") == "true"

	// Bornes de prix plafonnées à [0, 10000]
	minPrice := clampPrice(c.Query("min_price"), 0)
	maxPrice := clampPrice(c.Query("max_price"), MaxPriceBound)

	sortKey := c.DefaultQuery("sort", "name")
	if !validSortKeys[sortKey] {
		sortKey = "name"
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	products, err := fetchActiveProducts(session, categories)
	if err != nil {
		log.Printf("❌ Erreur lecture produits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	// Filtres en mémoire (le catalogue d'une confiserie reste petit)
	filtered := products[:0]
	searchLower := strings.ToLower(search)
	for _, p := range products {
		if p.Price < minPrice || p.Price > maxPrice {
			continue
		}
		if inStock && p.Stock <= 0 {
			continue
		}
		if bestseller && !p.IsBestseller {
			continue
		}
		if len(features) > 0 && !hasAllFeatures(p.Features, features) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), searchLower) &&
			!strings.Contains(strings.ToLower(p.Description), searchLower) {
			continue
		}
		filtered = append(filtered, p)
	}

	sortProducts(filtered, sortKey)

	total := len(filtered)
	start := (page - 1) * PageSize
	end := start + PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	pageItems := filtered[start:end]

	// URLs signées MinIO pour les images de la page
	ctx := context.Background()
	for i := range pageItems {
		pageItems[i].ImageURLs = services.SignImageURLs(ctx, pageItems[i].ImageURLs)
	}

	c.JSON(http.StatusOK, gin.H{
		"products": pageItems,
		"total":    total,
		"page":     page,
		"has_more": end < total,
	})
}

// GetProductByID retourne un produit actif. GET /api/products/:id
func GetProductByID(c *gin.Context) {
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

	p, err := scanProduct(session, gocql.UUID(productID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if !p.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	p.ImageURLs = services.SignImageURLs(context.Background(), p.ImageURLs)
	c.JSON(http.StatusOK, p)
}

//
// --- Helpers partagés du catalogue ---
//

const productColumns = `product_id, name, description, price, original_price, stock, category_id,
	weight, pieces, image_urls, features, rating, is_active, is_bestseller, is_new_arrival,
	created_at, updated_at`

func scanProduct(session *gocql.Session, id gocql.UUID) (models.Product, error) {
	var p models.Product
	err := session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.Stock, &p.CategoryID,
		&p.Weight, &p.Pieces, &p.ImageURLs, &p.Features, &p.Rating, &p.IsActive,
		&p.IsBestseller, &p.IsNewArrival, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

const productsCacheKey = "products:all"

func fetchActiveProducts(session *gocql.Session, categories []string) ([]models.Product, error) {
	// Catégorie unique : filtrée par la requête, pas de cache
	if len(categories) == 1 {
		catUUID, err := uuid.Parse(categories[0])
		if err != nil {
			return nil, err
		}
		iter := session.Query(`SELECT `+productColumns+` FROM products WHERE category_id = ? ALLOW FILTERING`,
			gocql.UUID(catUUID)).Iter()
		return collectActiveProducts(iter)
	}

	// Scan complet : la liste des produits actifs est mise en cache Redis,
	// invalidée par les écritures admin
	ctx := context.Background()
	if val, err := database.RedisClient.Get(ctx, productsCacheKey).Result(); err == nil && val != "" {
		if cached, ok := decodeProductsCache(val); ok {
			return filterByCategories(cached, categories), nil
		}
	}

	iter := session.Query(`SELECT ` + productColumns + ` FROM products`).Iter()
	products, err := collectActiveProducts(iter)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		database.RedisClient.Set(ctx, productsCacheKey, data, cache.ProductCacheTTL)
	}

	return filterByCategories(products, categories), nil
}

func decodeProductsCache(raw string) ([]models.Product, bool) {
	var products []models.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, false
	}
	return products, true
}

func filterByCategories(products []models.Product, categories []string) []models.Product {
	if len(categories) == 0 {
		return products
	}
	catSet := make(map[string]bool, len(categories))
	for _, id := range categories {
		catSet[id] = true
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if catSet[p.CategoryID.String()] {
			out = append(out, p)
		}
	}
	return out
}

func collectActiveProducts(iter *gocql.Iter) ([]models.Product, error) {
	var products []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.Stock,
		&p.CategoryID, &p.Weight, &p.Pieces, &p.ImageURLs, &p.Features, &p.Rating,
		&p.IsActive, &p.IsBestseller, &p.IsNewArrival, &p.CreatedAt, &p.UpdatedAt) {
		if p.IsActive {
			products = append(products, p)
		}
		p = models.Product{} // Reset pour la prochaine itération
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return products, nil
}

func sortProducts(products []models.Product, key string) {
	switch key {
	case "name":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	case "name-desc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Name > products[j].Name })
	case "price-low":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case "price-high":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case "rating":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	case "newest":
		sort.SliceStable(products, func(i, j int) bool {
			return productTime(products[i]).After(productTime(products[j]))
		})
	case "bestseller":
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].IsBestseller != products[j].IsBestseller {
				return products[i].IsBestseller
			}
			return products[i].Name < products[j].Name
		})
	}
}

func productTime(p models.Product) time.Time {
	if p.CreatedAt != nil {
		return *p.CreatedAt
	}
	return time.Time{}
}

func hasAllFeatures(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, f := range have {
		set[strings.ToLower(f)] = true
	}
	for _, f := range want {
		if !set[strings.ToLower(f)] {
			return false
		}
	}
	return true
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clampPrice(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	if v < 0 {
		return 0
	}
	if v > MaxPriceBound {
		return MaxPriceBound
	}
	return v
}
