package checkout

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"swadisht_back_end/internal/checkout"
	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
	"swadisht_back_end/internal/services"
	"swadisht_back_end/internal/settings"
	"swadisht_back_end/internal/utils"
)

const (
	idempotencyTTL = 10 * time.Minute
	guestOrderTTL  = 24 * time.Hour
)

type placeOrderRequest struct {
	Contact        checkout.ContactInfo `json:"contact"`
	Address        models.OrderAddress  `json:"address"`
	AddressID      string               `json:"address_id"` // réutilise le carnet d'adresses
	SaveAddress    bool                 `json:"save_address"`
	PaymentMethod  string               `json:"payment_method"`
	CouponCode     string               `json:"coupon_code"`
	IdempotencyKey string               `json:"idempotency_key"`
}

// cartLineConflict décrit une ligne du panier devenue invalide entre
// l'affichage et la soumission
type cartLineConflict struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	Reason       string  `json:"reason"` // "price_changed", "out_of_stock", "unavailable"
	CurrentPrice float64 `json:"current_price,omitempty"`
	CurrentStock int     `json:"current_stock,omitempty"`
}

// revalidateCart relit chaque ligne dans le catalogue : prix et stock ont pu
// changer pendant le tunnel. Les conflits sont renvoyés au storefront pour
// qu'il mette le panier à jour.
func revalidateCart(items []models.CartItem) ([]cartLineConflict, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, err
	}

	var conflicts []cartLineConflict
	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			conflicts = append(conflicts, cartLineConflict{
				ProductID: item.ProductID, Name: item.Name, Reason: "unavailable"})
			continue
		}

		var (
			price    float64
			stock    int
			isActive bool
		)
		err = session.Query(`SELECT price, stock, is_active FROM products WHERE product_id = ?`,
			gocql.UUID(pid)).Scan(&price, &stock, &isActive)
		if err != nil || !isActive {
			conflicts = append(conflicts, cartLineConflict{
				ProductID: item.ProductID, Name: item.Name, Reason: "unavailable"})
			continue
		}

		if price != item.Price {
			conflicts = append(conflicts, cartLineConflict{
				ProductID: item.ProductID, Name: item.Name,
				Reason: "price_changed", CurrentPrice: price})
			continue
		}
		if stock < item.Quantity {
			conflicts = append(conflicts, cartLineConflict{
				ProductID: item.ProductID, Name: item.Name,
				Reason: "out_of_stock", CurrentStock: stock})
		}
	}
	return conflicts, nil
}

// resolveSavedAddress charge une adresse du carnet et vérifie la propriété
func resolveSavedAddress(userID, addressID string) (*models.OrderAddress, error) {
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	aid, err := uuid.Parse(addressID)
	if err != nil {
		return nil, err
	}

	var a models.OrderAddress
	err = session.Query(`SELECT plot, street, landmark, city, state, pincode
		FROM addresses WHERE user_id = ? AND address_id = ?`, userID, gocql.UUID(aid)).Scan(
		&a.Plot, &a.Street, &a.Landmark, &a.City, &a.State, &a.Pincode)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

//
// 🛒 POST /api/checkout/place-order
//
// Paiement COD : la commande est créée immédiatement (payment_status=pending).
// Paiement en ligne : un PaymentIntent Stripe est créé et la commande ne sera
// insérée qu'à la confirmation du webhook.
//
func PlaceOrder(c *gin.Context) {
	var input placeOrderRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	userID := c.GetString("user_id")
	cartKey, ok := cartOwnerKey(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier introuvable"})
		return
	}

	ctx := context.Background()
	items := loadCartItems(ctx, cartKey)
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Votre panier est vide"})
		return
	}

	// 🔐 Idempotence : un double-clic ne crée pas deux commandes
	if input.IdempotencyKey != "" {
		acquired, err := database.RedisClient.SetNX(ctx,
			"checkout:idem:"+input.IdempotencyKey, "processing", idempotencyTTL).Result()
		if err == nil && !acquired {
			existing, _ := database.RedisClient.Get(ctx, "checkout:idem:"+input.IdempotencyKey).Result()
			if existing != "" && existing != "processing" {
				c.JSON(http.StatusConflict, gin.H{
					"error":        "Commande déjà enregistrée",
					"order_number": existing,
				})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"error": "Commande déjà en cours de traitement"})
			return
		}
	}

	// ✅ Re-validation complète des étapes côté serveur
	if err := checkout.ValidateContact(input.Contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reusingSaved := false
	if input.AddressID != "" && userID != "" {
		saved, err := resolveSavedAddress(userID, input.AddressID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Adresse enregistrée introuvable"})
			return
		}
		input.Address = *saved
		reusingSaved = true
	}
	if err := checkout.ValidateAddress(input.Address, reusingSaved); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	input.SaveAddress = shouldAutosaveAddress(input.SaveAddress, reusingSaved)

	// 🔎 Stock et prix relus dans le catalogue au moment T
	conflicts, err := revalidateCart(items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification du panier"})
		return
	}
	if len(conflicts) > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Votre panier a changé, veuillez le vérifier",
			"changes": conflicts,
		})
		return
	}

	s := settings.Load(ctx)
	subtotal := checkout.Subtotal(items)

	if err := checkout.CheckMinOrder(subtotal, s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 🎟️ Coupon (optionnel)
	var discount float64
	couponCode := ""
	if input.CouponCode != "" {
		result := resolveCoupon(input.CouponCode, subtotal)
		if !result.IsValid {
			c.JSON(http.StatusBadRequest, gin.H{"error": result.ErrorMessage})
			return
		}
		discount = result.Discount
		couponCode = result.Code
	}

	totals := checkout.ComputeTotals(items, s, input.PaymentMethod, discount)

	if err := checkout.ValidatePaymentMethod(input.PaymentMethod, totals.Total, s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order := &models.Order{
		ID:            gocql.UUID(uuid.New()),
		OrderNumber:   checkout.GenerateOrderNumber(),
		UserID:        userID,
		CustomerName:  input.Contact.Name,
		CustomerEmail: input.Contact.Email,
		CustomerPhone: input.Contact.Phone,
		Address:       input.Address,
		Items:         orderItemsFromCart(items),
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		DeliveryFee:   totals.DeliveryFee,
		CODFee:        totals.CODFee,
		Discount:      totals.Discount,
		Total:         totals.Total,
		CouponCode:    couponCode,
		PaymentMethod: input.PaymentMethod,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if input.PaymentMethod == checkout.PaymentOnline {
		placeOnlineOrder(c, ctx, order, input, cartKey)
		return
	}

	// 💵 COD : commande créée tout de suite
	// Le coupon est consommé AVANT l'insertion : s'il est épuisé entre la
	// validation et maintenant, la commande est refusée plutôt que facturée
	// avec une remise fantôme.
	if couponCode != "" {
		if err := services.RedeemCoupon(couponCode); err != nil {
			log.Printf("⚠️ Coupon %s refusé à la consommation: %v", couponCode, err)
			c.JSON(http.StatusConflict, gin.H{"error": "Ce coupon vient d'atteindre sa limite, retirez-le pour continuer"})
			return
		}
	}

	order.PaymentStatus = "pending"
	order.OrderStatus = "placed"

	if err := services.InsertOrder(order); err != nil {
		log.Printf("❌ Erreur insertion commande: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement de la commande"})
		return
	}

	finalizeOrder(ctx, order, items, cartKey, input.SaveAddress, s)

	if input.IdempotencyKey != "" {
		database.RedisClient.Set(ctx, "checkout:idem:"+input.IdempotencyKey,
			order.OrderNumber, idempotencyTTL)
	}

	log.Printf("✅ Commande COD %s (%.2f)", order.OrderNumber, order.Total)
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Commande confirmée",
		"order_number": order.OrderNumber,
		"order":        order,
	})
}

// shouldAutosaveAddress : une adresse déjà dans le carnet ne se ré-enregistre
// pas, même si le client coche la case.
func shouldAutosaveAddress(requested, reusingSaved bool) bool {
	return requested && !reusingSaved
}

func orderItemsFromCart(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
			Weight:    item.Weight,
		})
	}
	return out
}

// finalizeOrder exécute les effets de bord post-commande : décrément du
// stock, sauvegarde d'adresse, vidage du panier, récapitulatif invité et
// e-mail de confirmation (asynchrone).
func finalizeOrder(ctx context.Context, order *models.Order, items []models.CartItem,
	cartKey string, saveAddress bool, s settings.StoreSettings) {

	decrementStock(items)

	if saveAddress && order.UserID != "" {
		autosaveAddress(order.UserID, order.Address)
	}

	// 🧹 Panier vidé, le websocket est notifié
	database.RedisClient.Del(ctx, cartKey)
	database.RedisClient.Publish(ctx, cartKey, "cleared")

	// 👻 Récapitulatif invité, consultable une seule fois
	if order.UserID == "" {
		if data, err := json.Marshal(gin.H{"order": order}); err == nil {
			database.RedisClient.Set(ctx, "guest_order:"+order.OrderNumber, data, guestOrderTTL)
		}
	}

	go sendOrderEmail(*order, s)
}

func decrementStock(items []models.CartItem) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return
	}
	for _, item := range items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			continue
		}
		var stock int
		if err := session.Query(`SELECT stock FROM products WHERE product_id = ?`,
			gocql.UUID(pid)).Scan(&stock); err != nil {
			continue
		}
		newStock := stock - item.Quantity
		if newStock < 0 {
			newStock = 0
		}
		if err := session.Query(`UPDATE products SET stock = ? WHERE product_id = ?`,
			newStock, gocql.UUID(pid)).Exec(); err != nil {
			log.Printf("⚠️ Erreur décrément stock %s: %v", item.ProductID, err)
		}
	}
}

// autosaveAddress enregistre l'adresse de livraison dans le carnet si la
// limite n'est pas atteinte. Échec silencieux : la commande est déjà passée.
func autosaveAddress(userID string, addr models.OrderAddress) {
	session, err := database.GetUsersSession()
	if err != nil {
		return
	}

	var count int
	if err := session.Query(`SELECT COUNT(*) FROM addresses WHERE user_id = ?`, userID).Scan(&count); err != nil {
		return
	}
	if count >= models.MaxAddressesPerUser {
		return
	}

	session.Query(`INSERT INTO addresses (user_id, address_id, plot, street, landmark, city, state, pincode, type, is_default)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, gocql.UUID(uuid.New()), addr.Plot, addr.Street, addr.Landmark,
		addr.City, addr.State, addr.Pincode, "home", count == 0).Exec()
}

func sendOrderEmail(order models.Order, s settings.StoreSettings) {
	html := utils.GenerateOrderConfirmationHTML(order, s.CurrencySymbol)

	// 📄 Facture PDF jointe si le rendu est disponible (best effort)
	var pdf []byte
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		qr := ""
		if order.PaymentMethod == checkout.PaymentCOD {
			if vpa := os.Getenv("UPI_VPA"); vpa != "" {
				qr, _ = utils.GenerateUPIQR(vpa, "Swadisht Sweets", order.OrderNumber, order.Total)
			}
		}
		if rendered, err := utils.RenderInvoicePDF(frontend+"/invoice", order.OrderNumber, qr); err == nil {
			pdf = rendered
		} else {
			log.Printf("⚠️ Rendu facture PDF échoué pour %s: %v", order.OrderNumber, err)
		}
	}

	subject := "Votre commande " + order.OrderNumber + " — Swadisht Sweets"
	if err := utils.SendConfirmationEmail(order.CustomerEmail, subject, html, pdf); err != nil {
		log.Printf("⚠️ Erreur envoi e-mail de confirmation %s: %v", order.OrderNumber, err)
	}
}
