package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Validation des produits
// ============================================

func validProductInput() productInput {
	return productInput{
		Name:       "Motichoor Ladoo",
		Price:      340,
		Stock:      20,
		CategoryID: "11111111-1111-1111-1111-111111111111",
		Weight:     500,
		Pieces:     "12 pièces",
	}
}

func TestProductInputValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in := validProductInput()
		require.Empty(t, in.validate())
		assert.Equal(t, "12 pièces", in.Pieces)
	})

	t.Run("name trimmed", func(t *testing.T) {
		in := validProductInput()
		in.Name = "  Motichoor Ladoo  "
		require.Empty(t, in.validate())
		assert.Equal(t, "Motichoor Ladoo", in.Name)
	})

	tests := []struct {
		name   string
		mutate func(*productInput)
	}{
		{"empty name", func(in *productInput) { in.Name = "  " }},
		{"zero price", func(in *productInput) { in.Price = 0 }},
		{"negative price", func(in *productInput) { in.Price = -10 }},
		{"negative stock", func(in *productInput) { in.Stock = -1 }},
		{"negative weight", func(in *productInput) { in.Weight = -250 }},
		{"bad category id", func(in *productInput) { in.CategoryID = "pas-un-uuid" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validProductInput()
			tt.mutate(&in)
			assert.NotEmpty(t, in.validate())
		})
	}
}
