package ryfi

/*------------------------------------------------------------------
 *
 * Purpose:	Root-raised-cosine pulse-shaping interpolator, per §4.6.
 *
 * Description:	Upsamples a hard-bit symbol stream (mapped to +-1) by
 *		inserting sps-1 zero samples per symbol and convolving with
 *		a length (spanSymbols*sps + 1) RRC impulse response. Carries
 *		a delay-line tail across calls so repeated Push calls behave
 *		as one continuous filter, the same convolution/state-carry
 *		shape as the teacher's demod_9600.go FIR "push_sample" /
 *		"convolve" pair, generalized from its integer-taps
 *		demodulation filter to a floating-point shaping filter with
 *		a closed-form tap formula instead of a fixed coefficient
 *		table.
 *
 *------------------------------------------------------------------*/

import "math"

// RRCFilter holds the fixed impulse response for one (sps, alpha, span)
// configuration. Safe to share (read-only after construction).
type RRCFilter struct {
	taps              []float64
	sps               int
	groupDelaySamples int
}

// NewRRCFilter builds the RRC impulse response for sps samples per
// symbol, roll-off alpha, spanning spanSymbols symbols.
func NewRRCFilter(sps int, alpha float64, spanSymbols int) *RRCFilter {
	n := spanSymbols*sps + 1
	mid := n / 2

	taps := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i-mid) / float64(sps)
		taps[i] = rrcTap(t, alpha)
	}

	sum := 0.0
	for _, v := range taps {
		sum += v
	}

	if sum != 0 {
		for i := range taps {
			taps[i] /= sum
		}
	}

	return &RRCFilter{taps: taps, sps: sps, groupDelaySamples: mid}
}

func rrcTap(t, alpha float64) float64 {
	switch {
	case t == 0:
		return 1 - alpha + 4*alpha/math.Pi
	case alpha != 0 && math.Abs(math.Abs(4*alpha*t)-1) < 1e-9:
		return (alpha / math.Sqrt2) * ((1+2/math.Pi)*math.Sin(math.Pi/(4*alpha)) + (1-2/math.Pi)*math.Cos(math.Pi/(4*alpha)))
	default:
		num := math.Sin(math.Pi*t*(1-alpha)) + 4*alpha*t*math.Cos(math.Pi*t*(1+alpha))
		den := math.Pi * t * (1 - (4*alpha*t)*(4*alpha*t))

		return num / den
	}
}

// RRCInterpolator is the stateful TX-side pulse shaper: one instance per
// transmit pipeline, fed successive blocks of hard bits, producing a
// continuous sample stream with constant integer group delay.
type RRCInterpolator struct {
	filter  *RRCFilter
	history []float64 // the last len(taps)-1 samples of the previous call's extended input.
}

// NewRRCInterpolator creates an interpolator starting from a cleared
// delay line (equivalent to a run-in of zero symbols).
func NewRRCInterpolator(sps int, alpha float64, spanSymbols int) *RRCInterpolator {
	f := NewRRCFilter(sps, alpha, spanSymbols)

	return &RRCInterpolator{filter: f, history: make([]float64, len(f.taps)-1)}
}

// GroupDelaySamples is the fixed number of output samples by which the
// shaped waveform lags the corresponding input symbol.
func (r *RRCInterpolator) GroupDelaySamples() int {
	return r.filter.groupDelaySamples
}

// Push upsamples and shapes one block of hard bits (0/1), returning
// len(bits)*sps output samples continuing the filter's running state.
func (r *RRCInterpolator) Push(bits []byte) []float64 {
	taps := r.filter.taps
	sps := r.filter.sps

	up := make([]float64, len(bits)*sps)
	for i, b := range bits {
		up[i*sps] = codeBit(b)
	}

	extended := make([]float64, len(r.history)+len(up))
	copy(extended, r.history)
	copy(extended[len(r.history):], up)

	out := make([]float64, len(up))
	for n := range out {
		sum := 0.0

		base := n + len(taps) - 1
		for k, tap := range taps {
			sum += extended[base-k] * tap
		}

		out[n] = sum
	}

	copy(r.history, extended[len(extended)-len(r.history):])

	return out
}
