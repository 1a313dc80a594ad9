package checkout

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumber_Format(t *testing.T) {
	re := regexp.MustCompile(`^SS[0-9]{13}[0-9]{3}$`)

	for i := 0; i < 100; i++ {
		n := GenerateOrderNumber()
		assert.Regexp(t, re, n)
	}
}
