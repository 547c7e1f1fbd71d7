package ryfi

/*------------------------------------------------------------------
 *
 * Purpose:	Property-based tests for spec.md §8's testable properties,
 *		per the AMBIENT STACK's pgregory.net/rapid entry.
 *
 *------------------------------------------------------------------*/

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestRSCorrectingPowerProperty is the correctable half of §8 property 3:
// flipping <= 16 bytes in a codeword always recovers the original data.
// The uncorrectable half (>= 17 flips) is TestReedSolomonDetectsUncorrectable
// in rs_test.go.
func TestRSCorrectingPowerProperty(t *testing.T) {
	rs := NewReedSolomon()

	rapid.Check(t, func(rt *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), RSDataLen, RSDataLen).Draw(rt, "data")
		errCount := rapid.IntRange(0, RSCorrectable).Draw(rt, "errCount")

		codeword := rs.EncodeBlock(data)
		corrupted := append([]byte(nil), codeword...)

		locs := rapid.Permutation(indices(RSBlockLen)).Draw(rt, "locs")[:errCount]
		for _, i := range locs {
			delta := rapid.IntRange(1, 255).Draw(rt, "delta")
			corrupted[i] ^= byte(delta)
		}

		result := rs.DecodeBlock(corrupted)
		assert.False(rt, result.Uncorrectable, "<=%d errors must always be correctable", RSCorrectable)

		if !result.Uncorrectable {
			assert.Equal(rt, data, result.Data)
		}
	})
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}

// TestConvViterbiRoundTripProperty is part of §8 property 2 (FEC
// recovers from channel noise below the code's correction threshold):
// encoding then decoding with no noise always recovers the original
// bits exactly, for arbitrary bit lengths.
func TestConvViterbiRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(rt, "nBytes")
		data := rapid.SliceOfN(rapid.Byte(), n, n).Draw(rt, "data")

		coded := ConvEncode(data)

		soft := make([]float64, len(coded)*8)
		for i, b := range coded {
			for bitpos := 0; bitpos < 8; bitpos++ {
				bit := (b >> uint(7-bitpos)) & 1
				soft[i*8+bitpos] = codeBit(bit)
			}
		}

		decoded := ViterbiDecode(soft)
		assert.Equal(rt, data, decoded)
	})
}

// TestPacketAssemblerRoundTripProperty is §8 property 1 (round-trip
// identity) restricted to the frame/reassembly layer, without channel
// coding: packets pushed through FrameBuilder and pulled back out
// through PacketAssembler come back byte-for-byte and in order.
func TestPacketAssemblerRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 6).Draw(rt, "nPackets")

		var want [][]byte

		queue := NewPacketQueue()

		for i := 0; i < n; i++ {
			size := rapid.IntRange(1, 512).Draw(rt, "size")
			data := rapid.SliceOfN(rapid.Byte(), size, size).Draw(rt, "packetData")

			pkt, err := NewPacket(data)
			assert.NoError(rt, err)
			assert.True(rt, queue.Push(pkt))

			want = append(want, data)
		}

		queue.Close()

		builder := NewFrameBuilder(queue)

		var got [][]byte

		assembler := NewPacketAssembler(func(data []byte) {
			cp := append([]byte(nil), data...)
			got = append(got, cp)
		})

		for {
			frame, ok := builder.Build()
			if !ok {
				break
			}

			assembler.Feed(&frame)
		}

		assert.Equal(rt, want, got)
	})
}
