package admin

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"swadisht_back_end/internal/database"
)

const lowStockThreshold = 5

//
// 📊 GET /api/admin/dashboard — agrégats du tableau de bord
//
func GetDashboard(c *gin.Context) {
	orders, err := fetchAllOrders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	var (
		totalRevenue   float64
		revenueToday   float64
		statusCounts   = map[string]int{}
		salesByProduct = map[string]*productSales{}
	)
	todayStart := time.Now().Truncate(24 * time.Hour)

	for _, o := range orders {
		statusCounts[o.OrderStatus]++
		if o.OrderStatus == "cancelled" {
			continue
		}
		totalRevenue += o.Total
		if o.CreatedAt.After(todayStart) {
			revenueToday += o.Total
		}
		for _, item := range o.Items {
			ps, ok := salesByProduct[item.ProductID]
			if !ok {
				ps = &productSales{ProductID: item.ProductID, Name: item.Name}
				salesByProduct[item.ProductID] = ps
			}
			ps.Quantity += item.Quantity
			ps.Revenue += item.Price * float64(item.Quantity)
		}
	}

	topProducts := make([]productSales, 0, len(salesByProduct))
	for _, ps := range salesByProduct {
		topProducts = append(topProducts, *ps)
	}
	sort.Slice(topProducts, func(i, j int) bool {
		return topProducts[i].Quantity > topProducts[j].Quantity
	})
	if len(topProducts) > 5 {
		topProducts = topProducts[:5]
	}

	lowStock, outOfStock := stockAlerts()
	customerCount := countCustomers()

	c.JSON(http.StatusOK, gin.H{
		"total_revenue":  totalRevenue,
		"revenue_today":  revenueToday,
		"total_orders":   len(orders),
		"status_counts":  statusCounts,
		"top_products":   topProducts,
		"low_stock":      lowStock,
		"out_of_stock":   outOfStock,
		"customer_count": customerCount,
	})
}

type productSales struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type stockAlert struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
}

func stockAlerts() (low, out []stockAlert) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, nil
	}

	iter := session.Query(`SELECT product_id, name, stock, is_active FROM products`).Iter()
	var (
		id       gocql.UUID
		name     string
		stock    int
		isActive bool
	)
	for iter.Scan(&id, &name, &stock, &isActive) {
		if !isActive {
			continue
		}
		alert := stockAlert{ProductID: id.String(), Name: name, Stock: stock}
		switch {
		case stock == 0:
			out = append(out, alert)
		case stock <= lowStockThreshold:
			low = append(low, alert)
		}
	}
	iter.Close()
	return low, out
}

func countCustomers() int {
	session, err := database.GetUsersSession()
	if err != nil {
		return 0
	}

	iter := session.Query(`SELECT role FROM users`).Iter()
	var role string
	count := 0
	for iter.Scan(&role) {
		if role == "customer" {
			count++
		}
	}
	iter.Close()
	return count
}
