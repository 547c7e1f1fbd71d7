package ryfi

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func softFromBits(coded []byte, numBits int) []float64 {
	out := make([]float64, numBits)

	for i := 0; i < numBits; i++ {
		bit := (coded[i/8] >> uint(7-i%8)) & 1
		out[i] = codeBit(bit)
	}

	return out
}

func TestConvRoundTripNoNoise(t *testing.T) {
	r := rand.New(rand.NewSource(1)) //nolint:gosec
	data := make([]byte, 64)
	r.Read(data)

	coded := ConvEncode(data)
	require.Len(t, coded, 2*len(data))

	soft := softFromBits(coded, len(coded)*8)
	decoded := ViterbiDecode(soft)

	require.Equal(t, data, decoded[:len(data)])
}

func TestConvViterbiCorrectsNoise(t *testing.T) {
	r := rand.New(rand.NewSource(2)) //nolint:gosec

	const trials = 20
	failures := 0

	for trial := 0; trial < trials; trial++ {
		data := make([]byte, 128)
		r.Read(data)

		coded := ConvEncode(data)
		soft := softFromBits(coded, len(coded)*8)

		// Flip roughly 1% of soft symbols hard the other way: a crude
		// stand-in for channel noise exercising the Viterbi decoder's
		// error-correcting margin.
		for i := range soft {
			if r.Float64() < 0.01 {
				soft[i] = -soft[i]
			}
		}

		decoded := ViterbiDecode(soft)
		if string(decoded[:len(data)]) != string(data) {
			failures++
		}
	}

	require.Less(t, failures, trials/4, "too many frame errors under 1%% symbol noise")
}

func TestConvEncodeLength(t *testing.T) {
	data := make([]byte, 10)
	coded := ConvEncode(data)
	require.Len(t, coded, 20)
}
