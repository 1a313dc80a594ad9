package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"swadisht_back_end/internal/checkout"
	"swadisht_back_end/internal/database"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Autoriser toutes les origines (à ajuster en production)
		return true
	},
}

// CartWebSocket pousse le panier au storefront à chaque mutation, pour
// synchroniser plusieurs onglets. Fonctionne aussi pour les invités via
// X-Cart-Token (ou ?cart_token=, les websockets ne portent pas de headers
// custom depuis le navigateur).
func CartWebSocket(c *gin.Context) {
	key, _, ok := cartKey(c, false)
	if !ok {
		if token := c.Query("cart_token"); token != "" {
			key = "cart:guest:" + token
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Aucun panier identifié"})
			return
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	// S'abonner au canal Redis de ce panier
	pubsub := database.RedisClient.Subscribe(ctx, key)
	defer pubsub.Close()

	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Synchronisation panier activée",
	})

	for {
		select {
		case msg, open := <-ch:
			if !open {
				return
			}
			if msg.Payload != "updated" && msg.Payload != "cleared" {
				continue
			}

			cart := loadCart(ctx, key)
			count := 0
			for _, item := range cart {
				count += item.Quantity
			}

			response := map[string]interface{}{
				"type":     "cart_updated",
				"items":    cart,
				"subtotal": checkout.Subtotal(cart),
				"count":    count,
			}

			if err := conn.WriteJSON(response); err != nil {
				log.Printf("❌ Erreur envoi WebSocket: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Ping pour garder la connexion active
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
