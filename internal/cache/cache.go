package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// GetUserFromCache récupère un utilisateur depuis Redis ou ScyllaDB
func GetUserFromCache(userID string) (*models.User, error) {
	ctx := context.Background()
	key := "user:" + userID

	// 1. Essayer le cache Redis
	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	// 2. Récupérer de ScyllaDB
	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var (
		email, name, phone, role, provider string
		createdAt                          time.Time
	)

	err = session.Query(`SELECT email, name, phone, role, provider, created_at
		FROM users WHERE user_id = ?`, gocql.UUID(uid)).Scan(
		&email, &name, &phone, &role, &provider, &createdAt)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:        userID,
		Email:     email,
		Name:      name,
		Phone:     phone,
		Role:      role,
		Provider:  provider,
		CreatedAt: &createdAt,
	}

	// 3. Mettre en cache
	jsonData, _ := json.Marshal(user)
	database.Redis.Set(ctx, key, jsonData, UserCacheTTL)

	return user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(userID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "user:"+userID)
}

// InvalidateProductCaches invalide les caches listes produits après une
// écriture admin
func InvalidateProductCaches(ctx context.Context) {
	database.Redis.Del(ctx, "products:all", "categories:all")
}
