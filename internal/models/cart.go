package models

// CartItem est un instantané du produit au moment de l'ajout au panier
type CartItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image,omitempty"`
	Weight    int     `json:"weight,omitempty"`
}

type Cart struct {
	Token string     `json:"token,omitempty"` // token invité, vide pour un utilisateur connecté
	Items []CartItem `json:"items"`
}
