package user

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/markbates/goth/gothic"

	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
	"swadisht_back_end/internal/utils"
)

type ctxKey string

const ProviderKey ctxKey = "provider"

//
// 🔐 GET /api/auth/:provider — démarre le flow OAuth
//
func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

//
// 🔐 GET /api/auth/:provider/callback — upsert + JWT + redirection storefront
//
func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(gothUser.Email))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le provider n'a pas fourni d'email"})
		return
	}

	user, err := upsertOAuthUser(email, gothUser.Name, provider)
	if err != nil {
		log.Printf("❌ Erreur upsert OAuth %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création du compte"})
		return
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération du token"})
		return
	}

	log.Printf("✅ Connexion OAuth (%s): %s", provider, email)

	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, frontend+"/auth/callback?token="+token)
}

// upsertOAuthUser retrouve un compte par email ou en crée un (provider OAuth,
// sans mot de passe)
func upsertOAuthUser(email, name, provider string) (*models.User, error) {
	var userID gocql.UUID
	err := database.GetPreparedGetUserByEmail().Bind(email).Scan(&userID)

	if err == nil {
		var (
			dbEmail, password, dbName, phone, role, dbProvider string
			createdAt                                          time.Time
		)
		if err := database.GetPreparedGetUserByID().Bind(userID).Scan(
			&dbEmail, &password, &dbName, &phone, &role, &dbProvider, &createdAt); err != nil {
			return nil, err
		}
		return &models.User{
			ID:        userID.String(),
			Email:     dbEmail,
			Name:      dbName,
			Phone:     phone,
			Role:      role,
			Provider:  dbProvider,
			CreatedAt: &createdAt,
		}, nil
	}
	if err != gocql.ErrNotFound {
		return nil, err
	}

	newID := gocql.UUID(uuid.New())
	now := time.Now()
	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	if err := database.GetPreparedInsertUser().Bind(
		newID, email, "", name, "", "customer", provider, now, now).Exec(); err != nil {
		return nil, err
	}
	if err := database.GetPreparedInsertUserByEmail().Bind(email, newID).Exec(); err != nil {
		return nil, err
	}

	return &models.User{
		ID:       newID.String(),
		Email:    email,
		Name:     name,
		Role:     "customer",
		Provider: provider,
	}, nil
}
