package shipping

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadisht_back_end/internal/settings"
)

func testClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
	}
}

func TestEstimateRate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rates", r.URL.Path)
		assert.Equal(t, "110001", r.URL.Query().Get("pickup_postcode"))
		assert.Equal(t, "302001", r.URL.Query().Get("delivery_postcode"))
		assert.Equal(t, "500", r.URL.Query().Get("weight"))
		assert.Equal(t, "1", r.URL.Query().Get("cod"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"charge": 75.5, "serviceable": true, "etd": "2-3 jours"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	estimate, err := client.EstimateRate(context.Background(), "110001", "302001", true, 500)

	require.NoError(t, err)
	assert.Equal(t, 75.5, estimate.Charge)
	assert.True(t, estimate.Serviceable)
	assert.Equal(t, "2-3 jours", estimate.ETD)
	assert.False(t, estimate.Fallback)
}

func TestEstimateRate_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.EstimateRate(context.Background(), "110001", "302001", false, 500)

	assert.Error(t, err)
}

func TestEstimateRate_NoBaseURL(t *testing.T) {
	client := testClient("")
	_, err := client.EstimateRate(context.Background(), "110001", "302001", false, 500)
	assert.Error(t, err)
}

func TestEstimateOrFallback_UsesStaticSettingsOnFailure(t *testing.T) {
	s := settings.Defaults()
	s.DeliveryCharge = 50
	s.DeliveryTime = "3-5 jours"

	client := testClient("http://127.0.0.1:1") // rien n'écoute ici

	estimate := client.EstimateOrFallback(context.Background(), "302001", false, 500, s)

	assert.True(t, estimate.Fallback)
	assert.True(t, estimate.Serviceable)
	assert.Equal(t, 50.0, estimate.Charge)
	assert.Equal(t, "3-5 jours", estimate.ETD)
}

func TestEstimateOrFallback_PassesThroughProxyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"charge": 120, "serviceable": false, "etd": "indisponible"}`))
	}))
	defer server.Close()

	s := settings.Defaults()
	client := testClient(server.URL)

	estimate := client.EstimateOrFallback(context.Background(), "999999", false, 500, s)

	assert.False(t, estimate.Fallback)
	assert.False(t, estimate.Serviceable)
	assert.Equal(t, 120.0, estimate.Charge)
}
