package checkout

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"

	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
	"swadisht_back_end/internal/services"
	"swadisht_back_end/internal/settings"
)

const pendingIntentTTL = time.Hour

// amountInPaise convertit un total en roupies vers des paise entiers.
// Arrondi, jamais tronqué : 8.20 en float64 vaut 8.19999…, une troncature
// facturerait 819 paise au lieu de 820.
func amountInPaise(total float64) int64 {
	return int64(math.Round(total * 100))
}

// pendingCheckout est le brouillon stocké entre la création du PaymentIntent
// et la confirmation du webhook
type pendingCheckout struct {
	Order          models.Order      `json:"order"`
	Items          []models.CartItem `json:"items"`
	CartKey        string            `json:"cart_key"`
	SaveAddress    bool              `json:"save_address"`
	IdempotencyKey string            `json:"idempotency_key"`
}

// placeOnlineOrder crée le PaymentIntent Stripe. La commande n'existe pas
// encore : le brouillon attend la confirmation du webhook.
func placeOnlineOrder(c *gin.Context, ctx context.Context, order *models.Order,
	input placeOrderRequest, cartKey string) {

	amount := amountInPaise(order.Total)
	if amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Montant invalide pour un paiement en ligne"})
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String("inr"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_number", order.OrderNumber)
	params.AddMetadata("customer_name", order.CustomerName)
	params.AddMetadata("customer_email", order.CustomerEmail)
	params.AddMetadata("items_count", strconv.Itoa(len(order.Items)))
	params.AddMetadata("subtotal", strconv.FormatFloat(order.Subtotal, 'f', 2, 64))
	if order.CouponCode != "" {
		params.AddMetadata("coupon_code", order.CouponCode)
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Printf("❌ Erreur création PaymentIntent: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur initialisation du paiement"})
		return
	}

	order.PaymentIntentID = intent.ID
	order.GatewayOrderID = intent.ID

	items := loadCartItems(ctx, cartKey)
	draft := pendingCheckout{
		Order:          *order,
		Items:          items,
		CartKey:        cartKey,
		SaveAddress:    input.SaveAddress,
		IdempotencyKey: input.IdempotencyKey,
	}
	data, err := json.Marshal(draft)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur préparation de la commande"})
		return
	}
	if err := database.RedisClient.Set(ctx, "checkout:intent:"+intent.ID, data, pendingIntentTTL).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur préparation de la commande"})
		return
	}

	log.Printf("💳 PaymentIntent %s créé pour %s (%.2f)", intent.ID, order.OrderNumber, order.Total)
	c.JSON(http.StatusOK, gin.H{
		"client_secret": intent.ClientSecret,
		"order_number":  order.OrderNumber,
		"amount":        order.Total,
	})
}

//
// 🔔 POST /api/checkout/webhook — confirmation de paiement Stripe
//
func StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lecture corps échouée"})
		return
	}

	event, err := webhook.ConstructEvent(payload,
		c.GetHeader("Stripe-Signature"),
		os.Getenv("STRIPE_WEBHOOK_SECRET"),
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Événement illisible"})
			return
		}
		confirmOnlineOrder(pi.ID)

	case "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err == nil {
			log.Printf("⚠️ Paiement échoué : %s", pi.ID)
			// Le brouillon expire tout seul, rien à créer
		}
	}

	c.Status(http.StatusOK)
}

// confirmOnlineOrder matérialise la commande après confirmation du paiement.
// GetDel rend la consommation du brouillon atomique : un webhook rejoué ne
// crée pas de doublon.
func confirmOnlineOrder(intentID string) {
	ctx := context.Background()

	data, err := database.RedisClient.GetDel(ctx, "checkout:intent:"+intentID).Result()
	if err != nil || data == "" {
		log.Printf("⚠️ Webhook pour intent %s sans brouillon (déjà traité ou expiré)", intentID)
		return
	}

	var draft pendingCheckout
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		log.Printf("❌ Brouillon illisible pour intent %s: %v", intentID, err)
		return
	}

	order := draft.Order
	order.PaymentStatus = "paid"
	order.OrderStatus = "confirmed"
	order.UpdatedAt = time.Now()

	if order.CouponCode != "" {
		if err := services.RedeemCoupon(order.CouponCode); err != nil {
			// Paiement déjà encaissé : la commande passe quand même, la
			// remise a été validée à la soumission
			log.Printf("⚠️ Coupon %s non consommé sur %s: %v", order.CouponCode, order.OrderNumber, err)
		}
	}

	if err := services.InsertOrder(&order); err != nil {
		// Paiement encaissé mais commande non enregistrée : état à
		// réconcilier manuellement, le brouillon est conservé pour le support
		log.Printf("❌ Paiement %s encaissé mais insertion échouée: %v", intentID, err)
		database.RedisClient.Set(ctx, "checkout:orphan:"+intentID, data, 7*24*time.Hour)
		return
	}

	s := settings.Load(ctx)
	finalizeOrder(ctx, &order, draft.Items, draft.CartKey, draft.SaveAddress, s)

	if draft.IdempotencyKey != "" {
		database.RedisClient.Set(ctx, "checkout:idem:"+draft.IdempotencyKey,
			order.OrderNumber, idempotencyTTL)
	}

	log.Printf("✅ Paiement confirmé : commande %s (%.2f)", order.OrderNumber, order.Total)
}
