package user

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"swadisht_back_end/internal/cache"
	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
	"swadisht_back_end/internal/utils"
)

//
// 📝 POST /api/auth/register
//
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Name = strings.TrimSpace(input.Name)

	if input.Name == "" || input.Email == "" || len(input.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nom, email et mot de passe (8 caractères min.) requis"})
		return
	}

	// ✉️ Email déjà utilisé ?
	var existingID gocql.UUID
	err := database.GetPreparedGetUserByEmail().Bind(input.Email).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte existe déjà avec cet email"})
		return
	}
	if err != gocql.ErrNotFound {
		log.Printf("❌ Erreur lookup email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du hashage"})
		return
	}

	userID := gocql.UUID(uuid.New())
	now := time.Now()

	if err := database.GetPreparedInsertUser().Bind(
		userID, input.Email, hashed, input.Name, input.Phone,
		"customer", "local", now, now).Exec(); err != nil {
		log.Printf("❌ Erreur insertion utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création du compte"})
		return
	}
	if err := database.GetPreparedInsertUserByEmail().Bind(input.Email, userID).Exec(); err != nil {
		log.Printf("❌ Erreur insertion users_by_email: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création du compte"})
		return
	}

	user := models.User{
		ID:       userID.String(),
		Email:    input.Email,
		Name:     input.Name,
		Phone:    input.Phone,
		Role:     "customer",
		Provider: "local",
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération du token"})
		return
	}

	log.Printf("✅ Nouveau compte: %s", input.Email)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

//
// 🔑 POST /api/auth/login
//
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	var userID gocql.UUID
	err := database.GetPreparedGetUserByEmail().Bind(input.Email).Scan(&userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	var (
		email, password, name, phone, role, provider string
		createdAt                                    time.Time
	)
	err = database.GetPreparedGetUserByID().Bind(userID).Scan(
		&email, &password, &name, &phone, &role, &provider, &createdAt)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	if provider != "local" || password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Ce compte utilise la connexion Google"})
		return
	}

	// Un hash illisible vaut un échec de vérification
	match, err := utils.VerifyPassword(input.Password, password)
	if err != nil || !match {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou mot de passe incorrect"})
		return
	}

	user := models.User{
		ID:        userID.String(),
		Email:     email,
		Name:      name,
		Phone:     phone,
		Role:      role,
		Provider:  provider,
		CreatedAt: &createdAt,
	}

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération du token"})
		return
	}

	log.Printf("✅ Connexion: %s", email)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

//
// 👤 GET /api/auth/me
//
func GetCurrentUser(c *gin.Context) {
	userID := c.GetString("user_id")

	user, err := cache.GetUserFromCache(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

//
// ✏️ PUT /api/auth/me — met à jour nom et téléphone
//
func UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le nom est requis"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID utilisateur invalide"})
		return
	}

	if err := session.Query(`UPDATE users SET name = ?, phone = ?, updated_at = ? WHERE user_id = ?`,
		input.Name, input.Phone, time.Now(), gocql.UUID(uid)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}

	cache.InvalidateUserCache(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Profil mis à jour"})
}
