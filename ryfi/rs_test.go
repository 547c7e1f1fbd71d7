package ryfi

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func randomDataBlock(seed int64) []byte {
	r := rand.New(rand.NewSource(seed)) //nolint:gosec
	data := make([]byte, RSDataLen)
	r.Read(data)

	return data
}

func TestReedSolomonRoundTripNoErrors(t *testing.T) {
	rs := NewReedSolomon()
	data := randomDataBlock(1)

	codeword := rs.EncodeBlock(data)
	require.Len(t, codeword, RSBlockLen)

	result := rs.DecodeBlock(codeword)
	require.False(t, result.Uncorrectable)
	require.Equal(t, 0, result.Corrected)
	require.Equal(t, data, result.Data)
}

func TestReedSolomonCorrectsUpToCapacity(t *testing.T) {
	rs := NewReedSolomon()

	for trial := 0; trial < 10; trial++ {
		data := randomDataBlock(int64(100 + trial))
		codeword := rs.EncodeBlock(data)

		r := rand.New(rand.NewSource(int64(trial))) //nolint:gosec
		corrupted := append([]byte(nil), codeword...)

		positions := r.Perm(RSBlockLen)[:RSCorrectable]
		for _, p := range positions {
			corrupted[p] ^= byte(1 + r.Intn(255))
		}

		result := rs.DecodeBlock(corrupted)
		require.False(t, result.Uncorrectable, "trial %d should be correctable", trial)
		require.Equal(t, data, result.Data, "trial %d data mismatch", trial)
	}
}

func TestReedSolomonDetectsUncorrectable(t *testing.T) {
	rs := NewReedSolomon()
	data := randomDataBlock(7)
	codeword := rs.EncodeBlock(data)

	r := rand.New(rand.NewSource(42)) //nolint:gosec

	uncorrectableSeen := false

	for trial := 0; trial < 100; trial++ {
		corrupted := append([]byte(nil), codeword...)
		positions := r.Perm(RSBlockLen)[:RSCorrectable+3]

		for _, p := range positions {
			corrupted[p] ^= byte(1 + r.Intn(255))
		}

		result := rs.DecodeBlock(corrupted)
		if result.Uncorrectable {
			uncorrectableSeen = true

			break
		}
	}

	require.True(t, uncorrectableSeen, "expected at least one UNCORRECTABLE in 100 trials with %d errors", RSCorrectable+3)
}
