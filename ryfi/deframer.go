package ryfi

/*------------------------------------------------------------------
 *
 * Purpose:	RX-side Deframer: HUNT for the sync word in a soft-symbol
 *		stream, then LOCK onto and decode one frame's worth of
 *		payload, per §4.8.
 *
 * Description:	HUNT slides a 32-bit hard-decision correlator one
 *		symbol at a time against SyncWord, tolerating a few bit
 *		errors the way a real sync detector must over a noisy
 *		channel -- modeled on il2p_rec.go's running sync-word
 *		accumulator, generalized from its fixed 24-bit IL2P tag
 *		to RyFi's 32-bit word and an explicit error tolerance
 *		instead of an exact match. It also matches against the
 *		bit-complement of SyncWord, since an inverted baseband
 *		front-end flips the sign of every soft symbol including the
 *		sync word; whichever word matched sets the sign the LOCK
 *		state then undoes on every subsequent sample.
 *
 *		LOCK buffers the next FrameCodedBits soft symbols,
 *		descrambles, Viterbi-decodes, and RS-decodes each of the
 *		frame's 9 blocks independently; any block the RS decoder
 *		reports Uncorrectable marks the whole frame FrameStatusCorrupt
 *		(the caller is expected to call (*PacketAssembler).Abandon
 *		in that case, per §4.11).
 *
 *------------------------------------------------------------------*/

import "math/bits"

const syncBitTolerance = 4 // max Hamming distance accepted as a sync match.

// invertedSyncWord is what SyncWord looks like over a spectrally inverted
// baseband front-end, where every soft symbol's sign is flipped.
const invertedSyncWord = ^SyncWord

// FrameStatus reports the outcome of decoding one locked frame.
type FrameStatus int

const (
	FrameOK FrameStatus = iota
	FrameStatusCorrupt
)

type deframerState int

const (
	stateHunt deframerState = iota
	stateLock
)

// Deframer recovers Frame values from a continuous soft-symbol stream.
// Not safe for concurrent use.
type Deframer struct {
	rs *ReedSolomon

	state deframerState

	corr     uint32 // rolling hard-decision window, most recent bit in LSB.
	corrBits int

	inverted bool // true when this LOCK matched ^SyncWord: incoming samples are negated.

	lockBuf []float64
}

// NewDeframer creates a Deframer sharing one ReedSolomon codec instance.
func NewDeframer(rs *ReedSolomon) *Deframer {
	return &Deframer{rs: rs}
}

// Push feeds one soft symbol (nominally +-1) into the deframer. When a
// full frame has just been decoded, ok is true and frame/status report
// the result; otherwise ok is false and the caller should keep pushing.
func (d *Deframer) Push(sample float64) (frame Frame, status FrameStatus, ok bool) {
	switch d.state {
	case stateHunt:
		bit := uint32(0)
		if sample > 0 {
			bit = 1
		}

		d.corr = (d.corr << 1) | bit
		d.corrBits++

		if d.corrBits < 32 {
			return Frame{}, FrameOK, false
		}

		switch {
		case bits.OnesCount32(d.corr^SyncWord) <= syncBitTolerance:
			d.state = stateLock
			d.inverted = false
			d.lockBuf = d.lockBuf[:0]
		case bits.OnesCount32(d.corr^invertedSyncWord) <= syncBitTolerance:
			d.state = stateLock
			d.inverted = true
			d.lockBuf = d.lockBuf[:0]
		}

		return Frame{}, FrameOK, false

	case stateLock:
		if d.inverted {
			sample = -sample
		}

		d.lockBuf = append(d.lockBuf, sample)

		if len(d.lockBuf) < FrameCodedBits {
			return Frame{}, FrameOK, false
		}

		frame, status = d.decodeLocked(d.lockBuf)

		d.state = stateHunt
		d.corr = 0
		d.corrBits = 0

		return frame, status, true
	}

	return Frame{}, FrameOK, false
}

func (d *Deframer) decodeLocked(soft []float64) (Frame, FrameStatus) {
	descrambled := descrambleSoft(soft)

	coded := ViterbiDecode(descrambled)

	var out Frame
	status := FrameOK

	for i := 0; i < frameRSBlocks; i++ {
		block := coded[i*RSBlockLen : (i+1)*RSBlockLen]

		result := d.rs.DecodeBlock(block)
		if result.Uncorrectable {
			status = FrameStatusCorrupt

			continue
		}

		copy(out[i*RSDataLen:(i+1)*RSDataLen], result.Data)
	}

	return out, status
}
