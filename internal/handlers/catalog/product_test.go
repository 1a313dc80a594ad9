package catalog

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swadisht_back_end/internal/models"
)

func sampleProducts() []models.Product {
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return []models.Product{
		{Name: "Kaju Katli", Price: 650, Rating: 4.8, IsBestseller: true, CreatedAt: &old},
		{Name: "Besan Ladoo", Price: 320, Rating: 4.2, CreatedAt: &recent},
		{Name: "Rasgulla", Price: 280, Rating: 4.5, CreatedAt: nil},
	}
}

// ============================================
// Tri des produits
// ============================================

func TestSortProducts(t *testing.T) {
	tests := []struct {
		key       string
		wantFirst string
	}{
		{"name", "Besan Ladoo"},
		{"name-desc", "Rasgulla"},
		{"price-low", "Rasgulla"},
		{"price-high", "Kaju Katli"},
		{"rating", "Kaju Katli"},
		{"newest", "Besan Ladoo"},
		{"bestseller", "Kaju Katli"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			products := sampleProducts()
			sortProducts(products, tt.key)
			require.NotEmpty(t, products)
			assert.Equal(t, tt.wantFirst, products[0].Name)
		})
	}
}

func TestSortProducts_NewestTreatsMissingDateAsOldest(t *testing.T) {
	products := sampleProducts()
	sortProducts(products, "newest")
	assert.Equal(t, "Rasgulla", products[len(products)-1].Name)
}

// ============================================
// Cache liste produits
// ============================================

func TestDecodeProductsCache_RoundTrip(t *testing.T) {
	catA, err := gocql.ParseUUID("11111111-1111-1111-1111-111111111111")
	require.NoError(t, err)

	products := []models.Product{
		{ID: catA, Name: "Kaju Katli", Price: 650, Stock: 12, CategoryID: catA, IsActive: true},
		{Name: "Rasgulla", Price: 280, Stock: 0, IsActive: true},
	}

	data, err := json.Marshal(products)
	require.NoError(t, err)

	decoded, ok := decodeProductsCache(string(data))
	require.True(t, ok)
	assert.Equal(t, products, decoded)
}

func TestDecodeProductsCache_RejectsGarbage(t *testing.T) {
	_, ok := decodeProductsCache("{pas du json")
	assert.False(t, ok)
}

func TestFilterByCategories(t *testing.T) {
	catA, _ := gocql.ParseUUID("11111111-1111-1111-1111-111111111111")
	catB, _ := gocql.ParseUUID("22222222-2222-2222-2222-222222222222")

	products := []models.Product{
		{Name: "Kaju Katli", CategoryID: catA},
		{Name: "Besan Ladoo", CategoryID: catB},
		{Name: "Rasgulla", CategoryID: catA},
	}

	t.Run("no filter returns all", func(t *testing.T) {
		assert.Len(t, filterByCategories(products, nil), 3)
	})

	t.Run("multi-category filter", func(t *testing.T) {
		out := filterByCategories(products, []string{catA.String()})
		require.Len(t, out, 2)
		assert.Equal(t, "Kaju Katli", out[0].Name)
		assert.Equal(t, "Rasgulla", out[1].Name)
	})

	t.Run("unknown category matches nothing", func(t *testing.T) {
		out := filterByCategories(products, []string{"33333333-3333-3333-3333-333333333333"})
		assert.Empty(t, out)
	})
}

// ============================================
// Filtres
// ============================================

func TestHasAllFeatures(t *testing.T) {
	have := []string{"Sans gluten", "Vegan"}

	assert.True(t, hasAllFeatures(have, []string{"vegan"}))
	assert.True(t, hasAllFeatures(have, []string{"sans gluten", "vegan"}))
	assert.False(t, hasAllFeatures(have, []string{"vegan", "bio"}))
	assert.True(t, hasAllFeatures(have, nil))
}

func TestSplitParam(t *testing.T) {
	assert.Nil(t, splitParam(""))
	assert.Equal(t, []string{"a", "b"}, splitParam("a,b"))
	assert.Equal(t, []string{"a", "b"}, splitParam(" a , b ,"))
}

func TestClampPrice(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		fallback float64
		want     float64
	}{
		{"empty uses fallback", "", 42, 42},
		{"invalid uses fallback", "abc", 42, 42},
		{"negative clamped to zero", "-5", 0, 0},
		{"above bound clamped", "99999", 0, MaxPriceBound},
		{"normal value kept", "150.5", 0, 150.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampPrice(tt.raw, tt.fallback))
		})
	}
}
