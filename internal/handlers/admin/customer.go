package admin

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
)

//
// 👥 GET /api/admin/customers
//
func GetAllCustomers(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT user_id, email, name, phone, role, provider, created_at FROM users`).Iter()

	var customers []models.User
	var (
		id                                 gocql.UUID
		email, name, phone, role, provider string
		createdAt                          time.Time
	)
	for iter.Scan(&id, &email, &name, &phone, &role, &provider, &createdAt) {
		if role != "customer" {
			continue
		}
		created := createdAt
		customers = append(customers, models.User{
			ID:        id.String(),
			Email:     email,
			Name:      name,
			Phone:     phone,
			Role:      role,
			Provider:  provider,
			CreatedAt: &created,
		})
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture clients"})
		return
	}

	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CreatedAt.After(*customers[j].CreatedAt)
	})

	c.JSON(http.StatusOK, gin.H{"customers": customers, "total": len(customers)})
}

//
// 📧 GET /api/admin/contact-messages
//
func GetContactMessages(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT message_id, name, email, phone, subject, message, created_at
		FROM contact_messages`).Iter()

	var messages []models.ContactMessage
	var m models.ContactMessage
	for iter.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.CreatedAt) {
		messages = append(messages, m)
		m = models.ContactMessage{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture messages"})
		return
	}

	sort.Slice(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})

	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": len(messages)})
}
