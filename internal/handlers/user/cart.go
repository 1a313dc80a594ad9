package user

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
)

const cartTTL = 30 * 24 * time.Hour

// cartKey identifie le panier : utilisateur connecté ou invité via token.
// createIfMissing génère un token invité quand aucun propriétaire n'existe.
func cartKey(c *gin.Context, createIfMissing bool) (key, guestToken string, ok bool) {
	if userID := c.GetString("user_id"); userID != "" {
		return "cart:" + userID, "", true
	}
	if token := c.GetHeader("X-Cart-Token"); token != "" {
		return "cart:guest:" + token, token, true
	}
	if createIfMissing {
		token := uuid.NewString()
		return "cart:guest:" + token, token, true
	}
	return "", "", false
}

func loadCart(ctx context.Context, key string) []models.CartItem {
	data, err := database.RedisClient.Get(ctx, key).Result()
	if err != nil || data == "" {
		return []models.CartItem{}
	}
	var cart []models.CartItem
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		log.Printf("⚠️ Panier corrompu pour %s, réinitialisé: %v", key, err)
		return []models.CartItem{}
	}
	return cart
}

// saveCart persiste tout le panier à chaque mutation et notifie le websocket
func saveCart(ctx context.Context, key string, cart []models.CartItem) error {
	jsonData, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	if err := database.RedisClient.Set(ctx, key, jsonData, cartTTL).Err(); err != nil {
		return err
	}
	database.RedisClient.Publish(ctx, key, "updated")
	return nil
}

//
// 🟢 GET /api/cart
//
func GetCart(c *gin.Context) {
	key, token, ok := cartKey(c, false)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}})
		return
	}

	cart := loadCart(context.Background(), key)
	c.JSON(http.StatusOK, gin.H{"items": cart, "cart_token": token})
}

//
// 🟢 POST /api/cart/add
//
func AddToCart(c *gin.Context) {
	var input struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	// 🧩 Instantané du produit depuis ScyllaDB
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	productID, err := uuid.Parse(input.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	var p models.Product
	err = session.Query(`SELECT name, price, stock, weight, is_active, image_urls
		FROM products WHERE product_id = ?`, gocql.UUID(productID)).Scan(
		&p.Name, &p.Price, &p.Stock, &p.Weight, &p.IsActive, &p.ImageURLs)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if !p.Purchasable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Produit indisponible"})
		return
	}

	imageURL := ""
	if len(p.ImageURLs) > 0 {
		imageURL = p.ImageURLs[0]
	}

	key, token, _ := cartKey(c, true)
	ctx := context.Background()
	cart := loadCart(ctx, key)

	// 🔁 Incrémente la quantité si la ligne existe déjà
	found := false
	for i := range cart {
		if cart[i].ProductID == input.ProductID {
			cart[i].Quantity += input.Quantity
			found = true
			break
		}
	}
	if !found {
		cart = append(cart, models.CartItem{
			ProductID: input.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  input.Quantity,
			ImageURL:  imageURL,
			Weight:    p.Weight,
		})
	}

	if err := saveCart(ctx, key, cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Produit ajouté au panier",
		"items":      cart,
		"cart_token": token,
	})
}

//
// 🔁 PUT /api/cart/:productId — quantité ≤ 0 équivaut à une suppression
//
func UpdateQuantity(c *gin.Context) {
	key, token, ok := cartKey(c, false)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier introuvable"})
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	productID := c.Param("productId")
	ctx := context.Background()
	cart := loadCart(ctx, key)

	newCart := cart[:0]
	for _, item := range cart {
		if item.ProductID == productID {
			if input.Quantity <= 0 {
				continue // suppression
			}
			item.Quantity = input.Quantity
		}
		newCart = append(newCart, item)
	}

	if err := saveCart(ctx, key, newCart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": newCart, "cart_token": token})
}

//
// ❌ DELETE /api/cart/:productId
//
func RemoveFromCart(c *gin.Context) {
	key, token, ok := cartKey(c, false)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "Panier vide"})
		return
	}

	productID := c.Param("productId")
	ctx := context.Background()
	cart := loadCart(ctx, key)

	newCart := []models.CartItem{}
	for _, item := range cart {
		if item.ProductID != productID {
			newCart = append(newCart, item)
		}
	}

	if err := saveCart(ctx, key, newCart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sauvegarde panier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Produit supprimé du panier",
		"items":      newCart,
		"cart_token": token,
	})
}

//
// 🧹 DELETE /api/cart/clear
//
func ClearCart(c *gin.Context) {
	key, _, ok := cartKey(c, false)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"message": "Panier vide"})
		return
	}

	ctx := context.Background()
	if err := database.RedisClient.Del(ctx, key).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}
	database.RedisClient.Publish(ctx, key, "cleared")

	c.JSON(http.StatusOK, gin.H{"message": "Panier vidé avec succès"})
}
