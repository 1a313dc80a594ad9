package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	"github.com/stripe/stripe-go/v83"

	"swadisht_back_end/internal/config"
	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/routes"
)

func main() {
	config.Load()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Println("⚠️ STRIPE_SECRET_KEY manquant : paiement en ligne indisponible")
	} else {
		log.Println("✅ Stripe initialisé")
	}

	database.ConnectDatabases()

	// ✅ Prepared statements du chemin d'authentification
	database.InitPreparedStatements()

	warmupRedisCache()

	initOAuthProviders()

	r := gin.Default()
	r.Use(corsConfig())
	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Serveur Swadisht Sweets lancé sur le port", port)
	r.Run(":" + port)
}

func corsConfig() gin.HandlerFunc {
	origins := []string{"http://localhost:3000"}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ",")
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Cart-Token", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func initOAuthProviders() {
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Println("⚠️ SESSION_SECRET manquant : OAuth désactivé")
		return
	}

	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.MaxAge(86400 * 30)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   false, // false en dev, true en prod
		SameSite: http.SameSiteLaxMode,
	}

	gothic.Store = store

	// Extraction du provider depuis l'URL (gin ne remplit pas mux.Vars)
	gothic.GetProviderName = func(req *http.Request) (string, error) {
		if provider := req.URL.Query().Get("provider"); provider != "" {
			return provider, nil
		}

		// /api/auth/google/callback → "google"
		parts := strings.Split(strings.Trim(req.URL.Path, "/"), "/")
		for i, p := range parts {
			if p == "auth" && i+1 < len(parts) {
				return parts[i+1], nil
			}
		}

		return "", errors.New("provider not found")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	googleClientID := os.Getenv("GOOGLE_CLIENT_ID")
	googleClientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")

	if googleClientID == "" || googleClientSecret == "" {
		log.Println("⚠️ Aucun provider OAuth configuré")
		return
	}

	goth.UseProviders(google.New(
		googleClientID,
		googleClientSecret,
		baseURL+"/api/auth/google/callback",
		"email", "profile",
	))
	log.Println("✅ Google OAuth activé")
}

// warmupRedisCache établit la connexion Redis avant la première requête
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Cache Redis pré-chauffé")
	}
}
