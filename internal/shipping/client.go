package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"swadisht_back_end/internal/models"
	"swadisht_back_end/internal/settings"
)

// Client interroge le proxy de tarifs transporteur. Best effort uniquement :
// toute erreur retombe sur le tarif statique des paramètres boutique.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient() *Client {
	return &Client{
		BaseURL: os.Getenv("SHIPPING_PROXY_URL"),
		HTTPClient: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

type rateResponse struct {
	Charge      float64 `json:"charge"`
	Serviceable bool    `json:"serviceable"`
	ETD         string  `json:"etd"`
}

// EstimateRate demande un tarif au proxy pour un trajet et un poids donnés
func (c *Client) EstimateRate(ctx context.Context, originPincode, destPincode string, cod bool, weightGrams int) (models.ShippingEstimate, error) {
	if c.BaseURL == "" {
		return models.ShippingEstimate{}, fmt.Errorf("SHIPPING_PROXY_URL non configuré")
	}

	q := url.Values{}
	q.Set("pickup_postcode", originPincode)
	q.Set("delivery_postcode", destPincode)
	q.Set("weight", fmt.Sprintf("%d", weightGrams))
	if cod {
		q.Set("cod", "1")
	} else {
		q.Set("cod", "0")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/rates?"+q.Encode(), nil)
	if err != nil {
		return models.ShippingEstimate{}, err
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return models.ShippingEstimate{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return models.ShippingEstimate{}, fmt.Errorf("proxy tarifs: statut %d", res.StatusCode)
	}

	var rate rateResponse
	if err := json.NewDecoder(res.Body).Decode(&rate); err != nil {
		return models.ShippingEstimate{}, err
	}

	return models.ShippingEstimate{
		Charge:      rate.Charge,
		Serviceable: rate.Serviceable,
		ETD:         rate.ETD,
	}, nil
}

// EstimateOrFallback retourne l'estimation du proxy, ou le tarif statique
// des paramètres si le proxy est indisponible. Jamais d'erreur remontée à
// l'appelant : la dégradation est silencieuse pour l'utilisateur.
func (c *Client) EstimateOrFallback(ctx context.Context, destPincode string, cod bool, weightGrams int, s settings.StoreSettings) models.ShippingEstimate {
	estimate, err := c.EstimateRate(ctx, s.OriginPincode, destPincode, cod, weightGrams)
	if err != nil {
		log.Printf("⚠️ Proxy tarifs indisponible, tarif statique utilisé: %v", err)
		return models.ShippingEstimate{
			Charge:      s.DeliveryCharge,
			Serviceable: true,
			ETD:         s.DeliveryTime,
			Fallback:    true,
		}
	}
	return estimate
}
