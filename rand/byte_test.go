package rand

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomBytes_Length(t *testing.T) {
	result, err := GenerateRandomBytes(16)
	require.NoError(t, err)
	assert.Len(t, result, 16)
}

func TestGenerateRandomBytes_RejectsNonPositiveLength(t *testing.T) {
	_, err := GenerateRandomBytes(0)
	require.Error(t, err)

	_, err = GenerateRandomBytes(-1)
	require.Error(t, err)
}

// TestGenerateRandomBytes_LowDuplicateRate is a sanity check, not a proof:
// across a large sample the collision rate at length 16 over a 62-symbol
// alphabet should stay effectively zero.
func TestGenerateRandomBytes_LowDuplicateRate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping large-sample duplicate check in -short mode")
	}

	const iterations = 100000
	const length = 16
	seen := make(map[string]bool, iterations)
	duplicates := 0

	for i := 0; i < iterations; i++ {
		s, err := GenerateRandomBytes(length)
		require.NoError(t, err)
		if seen[s] {
			duplicates++
		}
		seen[s] = true
	}

	t.Logf("iterations=%d length=%d duplicates=%d alphabet=%d space=%.0f",
		iterations, length, duplicates, len(Letters), math.Pow(float64(len(Letters)), float64(length)))
	assert.Zero(t, duplicates)
}
