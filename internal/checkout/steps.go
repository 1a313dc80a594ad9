package checkout

import (
	"errors"
	"regexp"
	"strings"

	"swadisht_back_end/internal/models"
	"swadisht_back_end/internal/settings"
)

// Étapes du tunnel de commande
const (
	StepContact = 1
	StepAddress = 2
	StepPayment = 3
	StepSummary = 4
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]{10,13}$`)
)

// ContactInfo est la saisie de l'étape 1
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ValidateContact valide l'étape 1 → 2. La première règle en échec donne
// le message affiché, comme sur le storefront.
func ValidateContact(info ContactInfo) error {
	if strings.TrimSpace(info.Name) == "" {
		return errors.New("Le nom est requis")
	}
	if !emailRe.MatchString(strings.TrimSpace(info.Email)) {
		return errors.New("Adresse e-mail invalide")
	}
	phone := strings.ReplaceAll(strings.TrimSpace(info.Phone), " ", "")
	if !phoneRe.MatchString(phone) {
		return errors.New("Numéro de téléphone invalide")
	}
	return nil
}

// ValidateAddress valide l'étape 2 → 3. Si l'adresse vient du carnet
// d'adresses (reusingSaved), plot et street ont déjà été validés à la
// création et ne sont pas re-vérifiés.
func ValidateAddress(addr models.OrderAddress, reusingSaved bool) error {
	if strings.TrimSpace(addr.City) == "" {
		return errors.New("La ville est requise")
	}
	if strings.TrimSpace(addr.State) == "" {
		return errors.New("L'état est requis")
	}
	if strings.TrimSpace(addr.Pincode) == "" {
		return errors.New("Le code pin est requis")
	}
	if !reusingSaved {
		if strings.TrimSpace(addr.Plot) == "" {
			return errors.New("Le numéro de parcelle est requis")
		}
		if strings.TrimSpace(addr.Street) == "" {
			return errors.New("La rue est requise")
		}
	}
	return nil
}

// ValidatePaymentMethod valide l'étape 3 → 4 : la méthode doit être activée
// dans les paramètres, et le COD respecte son plafond sur le TOTAL (pas le
// sous-total — une commande éligible à la livraison gratuite peut quand même
// dépasser le plafond COD avec la taxe).
func ValidatePaymentMethod(method string, total float64, s settings.StoreSettings) error {
	switch method {
	case PaymentCOD:
		if !s.CODEnabled {
			return errors.New("Le paiement à la livraison n'est pas disponible")
		}
		if total > s.CODThreshold {
			return errors.New("Montant trop élevé pour le paiement à la livraison")
		}
	case PaymentOnline:
		if !s.OnlinePaymentEnabled {
			return errors.New("Le paiement en ligne n'est pas disponible")
		}
	default:
		return errors.New("Méthode de paiement inconnue")
	}
	return nil
}

// CheckMinOrder est re-vérifié à CHAQUE transition d'étape : le panier peut
// changer pendant le tunnel.
func CheckMinOrder(subtotal float64, s settings.StoreSettings) error {
	if subtotal < s.MinOrderAmount {
		return errors.New("Montant minimum de commande non atteint")
	}
	return nil
}
