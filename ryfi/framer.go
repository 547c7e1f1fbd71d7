package ryfi

/*------------------------------------------------------------------
 *
 * Purpose:	TX-side Framer: RS-encode, convolutionally encode and
 *		scramble a Frame, then prepend the sync word, per §4.5.
 *
 * Description:	Wire format, bit-exact (§6):
 *
 *		  [ SYNC32 | SCRAMBLED( CONV_1/2( RS_255_223( frame ) ) ) ]
 *
 *		The sync word is a constant chosen for low autocorrelation
 *		sidelobes, the same role the teacher's fx25Tab correlation
 *		tags and il2p_rec.go's sync-word accumulator play -- this
 *		implementation commits to the Barker-derived CCSDS/ESA PN
 *		marker 0x1ACFFC1D (§9 marks the exact value as a link
 *		invariant, so any fixed 32-bit value with good correlation
 *		properties satisfies the spec).
 *
 *------------------------------------------------------------------*/

import "encoding/binary"

const SyncWord uint32 = 0x1ACFFC1D

const (
	rsCodewordBytes = RSBlockLen * frameRSBlocks // 2295
	convCodedBytes  = rsCodewordBytes * 2         // 4590
	// FrameCodedBits is the number of soft symbols the Deframer must
	// consume per frame, after the sync word, while LOCKed.
	FrameCodedBits = convCodedBytes * 8 // 36720
)

// Framer turns Frame values into the continuous on-air bitstream.
type Framer struct {
	rs *ReedSolomon
}

// NewFramer creates a Framer sharing one ReedSolomon codec instance.
func NewFramer(rs *ReedSolomon) *Framer {
	return &Framer{rs: rs}
}

// Encode RS-encodes, convolutionally encodes and scrambles frame,
// returning the sync word followed by FrameCodedBits/8 bytes of
// scrambled coded payload, packed MSB-first.
func (fr *Framer) Encode(frame *Frame) []byte {
	rsOut := make([]byte, 0, rsCodewordBytes)

	for i := 0; i < frameRSBlocks; i++ {
		block := frame[i*RSDataLen : (i+1)*RSDataLen]
		rsOut = append(rsOut, fr.rs.EncodeBlock(block)...)
	}

	coded := ConvEncode(rsOut)

	bits := make([]byte, len(coded)*8)
	for i, b := range coded {
		for bitpos := 0; bitpos < 8; bitpos++ {
			bits[i*8+bitpos] = (b >> uint(7-bitpos)) & 1
		}
	}

	scrambled := scrambleBits(bits)

	out := make([]byte, 4+len(scrambled)/8)
	binary.BigEndian.PutUint32(out[0:4], SyncWord)

	for i := 0; i < len(scrambled)/8; i++ {
		var b byte
		for bitpos := 0; bitpos < 8; bitpos++ {
			b = (b << 1) | scrambled[i*8+bitpos]
		}

		out[4+i] = b
	}

	return out
}
