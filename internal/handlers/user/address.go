package user

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"swadisht_back_end/internal/database"
	"swadisht_back_end/internal/models"
)

var pincodeRe = regexp.MustCompile(`^[1-9][0-9]{5}$`)

func fetchAddresses(session *gocql.Session, userID string) ([]models.Address, error) {
	iter := session.Query(`SELECT address_id, plot, street, landmark, city, state, pincode, type, is_default
		FROM addresses WHERE user_id = ?`, userID).Iter()

	var addresses []models.Address
	var a models.Address
	for iter.Scan(&a.ID, &a.Plot, &a.Street, &a.Landmark, &a.City, &a.State, &a.Pincode, &a.Type, &a.IsDefault) {
		a.UserID = userID
		addresses = append(addresses, a)
		a = models.Address{}
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return addresses, nil
}

func validateAddressInput(a *models.Address) string {
	a.Plot = strings.TrimSpace(a.Plot)
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.Pincode = strings.TrimSpace(a.Pincode)

	switch {
	case a.Plot == "":
		return "Le numéro de parcelle est requis"
	case a.Street == "":
		return "La rue est requise"
	case a.City == "":
		return "La ville est requise"
	case a.State == "":
		return "L'état est requis"
	case !pincodeRe.MatchString(a.Pincode):
		return "Code pin invalide (6 chiffres)"
	}

	if a.Type != "home" && a.Type != "work" && a.Type != "other" {
		a.Type = "home"
	}
	return ""
}

//
// 🏠 GET /api/addresses
//
func GetAddresses(c *gin.Context) {
	userID := c.GetString("user_id")

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	addresses, err := fetchAddresses(session, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture adresses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses})
}

//
// 🏠 POST /api/addresses — 3 adresses max par utilisateur
//
func AddAddress(c *gin.Context) {
	userID := c.GetString("user_id")

	var input models.Address
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if msg := validateAddressInput(&input); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	existing, err := fetchAddresses(session, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture adresses"})
		return
	}
	if len(existing) >= models.MaxAddressesPerUser {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Maximum 3 adresses enregistrées. Supprimez-en une d'abord."})
		return
	}

	// La première adresse devient l'adresse par défaut
	if len(existing) == 0 {
		input.IsDefault = true
	}
	if input.IsDefault {
		for _, a := range existing {
			if a.IsDefault {
				session.Query(`UPDATE addresses SET is_default = false WHERE user_id = ? AND address_id = ?`,
					userID, a.ID).Exec()
			}
		}
	}

	input.ID = gocql.UUID(uuid.New())
	input.UserID = userID

	if err := session.Query(`INSERT INTO addresses (user_id, address_id, plot, street, landmark, city, state, pincode, type, is_default)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, input.ID, input.Plot, input.Street, input.Landmark,
		input.City, input.State, input.Pincode, input.Type, input.IsDefault).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement adresse"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Adresse ajoutée", "address": input})
}

//
// ✏️ PUT /api/addresses/:id
//
func UpdateAddress(c *gin.Context) {
	userID := c.GetString("user_id")

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID adresse invalide"})
		return
	}

	var input models.Address
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if msg := validateAddressInput(&input); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Vérifie la propriété avant d'écrire
	existing, err := fetchAddresses(session, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture adresses"})
		return
	}
	owned := false
	for _, a := range existing {
		if a.ID == gocql.UUID(addressID) {
			owned = true
			break
		}
	}
	if !owned {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adresse introuvable"})
		return
	}

	if input.IsDefault {
		for _, a := range existing {
			if a.IsDefault && a.ID != gocql.UUID(addressID) {
				session.Query(`UPDATE addresses SET is_default = false WHERE user_id = ? AND address_id = ?`,
					userID, a.ID).Exec()
			}
		}
	}

	if err := session.Query(`UPDATE addresses SET plot = ?, street = ?, landmark = ?, city = ?, state = ?, pincode = ?, type = ?, is_default = ?
		WHERE user_id = ? AND address_id = ?`,
		input.Plot, input.Street, input.Landmark, input.City, input.State,
		input.Pincode, input.Type, input.IsDefault, userID, gocql.UUID(addressID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour adresse"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse mise à jour"})
}

//
// ❌ DELETE /api/addresses/:id
//
func DeleteAddress(c *gin.Context) {
	userID := c.GetString("user_id")

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID adresse invalide"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`DELETE FROM addresses WHERE user_id = ? AND address_id = ?`,
		userID, gocql.UUID(addressID)).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression adresse"})
		return
	}

	// Si l'adresse par défaut a été supprimée, promeut la première restante
	remaining, err := fetchAddresses(session, userID)
	if err == nil && len(remaining) > 0 {
		hasDefault := false
		for _, a := range remaining {
			if a.IsDefault {
				hasDefault = true
				break
			}
		}
		if !hasDefault {
			session.Query(`UPDATE addresses SET is_default = true WHERE user_id = ? AND address_id = ?`,
				userID, remaining[0].ID).Exec()
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse supprimée"})
}
