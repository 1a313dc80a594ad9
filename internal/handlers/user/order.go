package user

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/services"
)

//
// 📦 GET /api/orders — historique de l'utilisateur connecté
//
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	orders, err := services.GetOrdersByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

//
// 📦 GET /api/orders/:id — détail, réservé au propriétaire
//
func GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	order, err := services.GetOrderByID(gocql.UUID(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if order.UserID != userID {
		// Pas de 403 : ne révèle pas l'existence de la commande
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

//
// 👻 GET /api/orders/guest/:orderNumber — récapitulatif invité, lisible UNE fois
//
func GetGuestOrderSummary(c *gin.Context) {
	orderNumber := c.Param("orderNumber")

	data, err := database.RedisClient.GetDel(context.Background(), "guest_order:"+orderNumber).Result()
	if err != nil || data == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Récapitulatif expiré ou déjà consulté"})
		return
	}

	c.Data(http.StatusOK, "application/json", []byte(data))
}
