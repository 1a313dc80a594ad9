package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================
// Conversion roupies → paise
// ============================================

func TestAmountInPaise(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		want  int64
	}{
		{"entier", 650, 65000},
		{"deux décimales", 8.20, 820}, // 8.20 vaut 8.19999… en float64
		{"deux décimales arrondi haut", 0.07, 7},
		{"gros montant", 1099.99, 109999},
		{"petit montant", 0.01, 1},
		{"zéro", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, amountInPaise(tt.total))
		})
	}
}
