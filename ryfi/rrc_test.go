package ryfi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRRCFilterSymmetric(t *testing.T) {
	f := NewRRCFilter(4, 0.35, 31)
	n := len(f.taps)

	for i := 0; i < n/2; i++ {
		require.InDelta(t, f.taps[i], f.taps[n-1-i], 1e-9, "tap %d vs %d", i, n-1-i)
	}
}

func TestRRCInterpolatorOutputLength(t *testing.T) {
	r := NewRRCInterpolator(4, 0.35, 31)
	out := r.Push([]byte{1, 0, 1, 1, 0, 0, 1, 0})
	require.Len(t, out, 8*4)
}

func TestRRCInterpolatorImpulseResponsePeakNearGroupDelay(t *testing.T) {
	r := NewRRCInterpolator(4, 0.35, 31)
	base := NewRRCInterpolator(4, 0.35, 31)

	bits := make([]byte, 63)
	bits[31] = 1

	// Bit 0 maps to -1, so subtract an all-zero-bits run to isolate the
	// response to the one flipped symbol.
	var out []float64

	for _, b := range bits {
		got := r.Push([]byte{b})
		ref := base.Push([]byte{0})

		for j := range got {
			out = append(out, got[j]-ref[j])
		}
	}

	peakIdx := 0
	for i, v := range out {
		if math.Abs(v) > math.Abs(out[peakIdx]) {
			peakIdx = i
		}
	}

	expected := 31*4 + r.GroupDelaySamples()
	require.InDelta(t, expected, peakIdx, 4)
}
