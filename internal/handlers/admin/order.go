package admin

import (
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
	"swadisht_back_end/internal/services"
	"swadisht_back_end/internal/utils"
)

var validOrderStatuses = map[string]bool{
	"placed":    true,
	"confirmed": true,
	"preparing": true,
	"shipped":   true,
	"delivered": true,
	"cancelled": true,
}

// fetchAllOrders parcourt la table orders (volume gérable pour une boutique)
func fetchAllOrders() ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT order_id FROM orders`).Iter()

	var ids []gocql.UUID
	var id gocql.UUID
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0, len(ids))
	for _, oid := range ids {
		order, err := services.GetOrderByID(oid)
		if err != nil {
			continue
		}
		orders = append(orders, *order)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

//
// 📦 GET /api/admin/orders?status=&limit=
//
func GetAllOrders(c *gin.Context) {
	orders, err := fetchAllOrders()
	if err != nil {
		log.Printf("❌ Erreur lecture commandes: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	if status := c.Query("status"); status != "" {
		filtered := orders[:0]
		for _, o := range orders {
			if o.OrderStatus == status {
				filtered = append(filtered, o)
			}
		}
		orders = filtered
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

//
// 📦 GET /api/admin/orders/recent — les 10 dernières commandes du tableau de bord
//
func GetRecentOrders(c *gin.Context) {
	orders, err := fetchAllOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	if len(orders) > 10 {
		orders = orders[:10]
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

//
// 📦 GET /api/admin/orders/:id
//
func GetOrderByID(c *gin.Context) {
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

	c.JSON(http.StatusOK, gin.H{"order": order})
}

//
// ✏️ PUT /api/admin/orders/:id/status
//
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID commande invalide"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}
	if !validOrderStatuses[input.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Statut inconnu"})
		return
	}

	order, err := services.GetOrderByID(gocql.UUID(orderID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if order.OrderStatus == "delivered" || order.OrderStatus == "cancelled" {
		c.JSON(http.StatusConflict, gin.H{"error": "Commande dans un état final"})
		return
	}

	now := time.Now()
	if err := services.UpdateOrderStatus(gocql.UUID(orderID), input.Status, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}

	// Une commande COD livrée est réputée payée
	if input.Status == "delivered" && order.PaymentMethod == "cod" {
		session, err := database.GetOrdersSession()
		if err == nil {
			session.Query(`UPDATE orders SET payment_status = ?, updated_at = ? WHERE order_id = ?`,
				"paid", now, gocql.UUID(orderID)).Exec()
		}
	}

	log.Printf("✅ Commande %s → %s", order.OrderNumber, input.Status)
	c.JSON(http.StatusOK, gin.H{"message": "Statut mis à jour", "status": input.Status})
}

//
// 📄 GET /api/admin/orders/:id/invoice — facture PDF (rendu headless)
//
func DownloadInvoice(c *gin.Context) {
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

	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "FRONTEND_URL non configuré"})
		return
	}

	qr := ""
	if order.PaymentMethod == "cod" && order.PaymentStatus != "paid" {
		if vpa := os.Getenv("UPI_VPA"); vpa != "" {
			qr, _ = utils.GenerateUPIQR(vpa, "Swadisht Sweets", order.OrderNumber, order.Total)
		}
	}

	pdf, err := utils.RenderInvoicePDF(frontend+"/invoice", order.OrderNumber, qr)
	if err != nil {
		log.Printf("❌ Rendu facture échoué pour %s: %v", order.OrderNumber, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération de la facture"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="facture_`+order.OrderNumber+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
