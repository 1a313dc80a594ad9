package user

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"swadisht_back_end/internal/database"
)

//
// 📧 POST /api/contact
//
func SubmitContactMessage(c *gin.Context) {
	var input struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Message = strings.TrimSpace(input.Message)

	if input.Name == "" || input.Email == "" || input.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom, email et message requis"})
		return
	}
	if len(input.Message) > 2000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message trop long (2000 caractères max.)"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`INSERT INTO contact_messages (message_id, name, email, phone, subject, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		gocql.UUID(uuid.New()), input.Name, input.Email, input.Phone,
		input.Subject, input.Message, time.Now()).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement du message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Message envoyé, nous vous répondrons rapidement"})
}
