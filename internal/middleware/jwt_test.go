package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadisht_back_end/internal/models"
	"swadisht_back_end/internal/utils"
)

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
		})
	})
	r.GET("/admin", AuthRequired(), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired_ValidToken(t *testing.T) {
	r := authTestRouter()

	token, err := utils.GenerateJWT(models.User{ID: "user-123", Email: "priya@example.com", Role: "customer"})
	require.NoError(t, err)

	w := doRequest(r, token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-123")
	assert.Contains(t, w.Body.String(), "customer")
}

func TestAuthRequired_MissingToken(t *testing.T) {
	w := doRequest(authTestRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_GarbageToken(t *testing.T) {
	w := doRequest(authTestRouter(), "nimporte.quoi.dutout")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r := authTestRouter()

	adminToken, err := utils.GenerateJWT(models.User{ID: "admin-1", Email: "admin@swadishtsweets.in", Role: "admin"})
	require.NoError(t, err)
	customerToken, err := utils.GenerateJWT(models.User{ID: "user-1", Email: "priya@example.com", Role: "customer"})
	require.NoError(t, err)

	reqAdmin := httptest.NewRequest(http.MethodGet, "/admin", nil)
	reqAdmin.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, reqAdmin)
	assert.Equal(t, http.StatusOK, w.Code)

	reqCustomer := httptest.NewRequest(http.MethodGet, "/admin", nil)
	reqCustomer.Header.Set("Authorization", "Bearer "+customerToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, reqCustomer)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthOptional_GuestPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/cart", AuthOptional(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)
}
