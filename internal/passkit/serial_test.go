package passkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialNumbersUniqueUnderRapidGeneration(t *testing.T) {
	const n = 1000
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		s := NewSerialNumber()
		assert.False(t, seen[s], "duplicate serial %s", s)
		seen[s] = true
	}
}

func TestAuthenticationTokenLengthAndUniqueness(t *testing.T) {
	a, err := NewAuthenticationToken()
	require.NoError(t, err)
	b, err := NewAuthenticationToken()
	require.NoError(t, err)
	// 20 random bytes, hex encoded.
	assert.Len(t, a, 40)
	assert.NotEqual(t, a, b)
}
