package checkout

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNumber produit un numéro "SS" + epoch millis + suffixe
// aléatoire à 3 chiffres. Le format est probabilistiquement unique ; la
// garantie réelle vient de l'insertion LWT (IF NOT EXISTS) côté base, qui
// régénère en cas de collision.
func GenerateOrderNumber() string {
	return fmt.Sprintf("SS%d%03d", time.Now().UnixMilli(), rand.Intn(1000))
}
