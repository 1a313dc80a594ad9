package models

// ShippingEstimate est la réponse du proxy de tarifs transporteur
type ShippingEstimate struct {
	Charge      float64 `json:"charge"`
	Serviceable bool    `json:"serviceable"`
	ETD         string  `json:"etd"` // délai estimé, texte libre
	Fallback    bool    `json:"fallback"`
}
