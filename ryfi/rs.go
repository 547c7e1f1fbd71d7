package ryfi

/*------------------------------------------------------------------
 *
 * Purpose:	Systematic Reed-Solomon RS(255,223) over GF(2^8), per §4.3
 *		and §4.10.
 *
 * Description:	Encoding appends 32 parity bytes to each 223-byte data
 *		block; decoding runs syndrome computation, Berlekamp-Massey
 *		to find the error locator polynomial, Chien search for the
 *		roots, and Forney's algorithm for the error magnitudes --
 *		the same structure as the teacher's fx25_encode.go /
 *		fx25_extract.go (itself adapted from Phil Karn's public
 *		domain codec), generalized from FX.25's RS(255,239) to
 *		RyFi's RS(255,223) and rewritten without the C interop
 *		fx25_extract.go carries.
 *
 *------------------------------------------------------------------*/

import "fmt"

// ReedSolomon is a systematic RS(255,223) codec instance. It carries no
// state across blocks; one instance is safe to reuse (and share, since
// it is never mutated after construction) across every block in every
// frame.
type ReedSolomon struct {
	gf      *galoisField
	genpoly [RSParityLen + 1]byte // generator polynomial coefficients in polynomial form; genpoly[k] is the coefficient of x^k.
}

// NewReedSolomon builds the RS(255,223) generator polynomial with
// consecutive roots alpha^0..alpha^31 (first-consecutive-root 0) and
// primitive element 1, matching the
// generic construction in fx25_init.go's init_rs_char.
func NewReedSolomon() *ReedSolomon {
	gf := newGaloisField()

	rs := &ReedSolomon{gf: gf}
	rs.genpoly[0] = 1

	root := 0
	for i := 0; i < RSParityLen; i++ {
		rs.genpoly[i+1] = 1

		for j := i; j > 0; j-- {
			if rs.genpoly[j] != 0 {
				rs.genpoly[j] = rs.genpoly[j-1] ^ gf.mul(rs.genpoly[j], gf.pow(root))
			} else {
				rs.genpoly[j] = rs.genpoly[j-1]
			}
		}

		rs.genpoly[0] = gf.mul(rs.genpoly[0], gf.pow(root))
		root++
	}

	return rs
}

// EncodeBlock appends RSParityLen parity bytes to a RSDataLen-byte data
// block, returning the RSBlockLen-byte systematic codeword.
func (rs *ReedSolomon) EncodeBlock(data []byte) []byte {
	if len(data) != RSDataLen {
		panic(fmt.Sprintf("ryfi: RS data block must be %d bytes, got %d", RSDataLen, len(data)))
	}

	parity := make([]byte, RSParityLen)

	for _, d := range data {
		feedback := d ^ parity[0]
		copy(parity, parity[1:])
		parity[RSParityLen-1] = 0

		if feedback != 0 {
			for j := 0; j < RSParityLen; j++ {
				parity[j] ^= rs.gf.mul(feedback, rs.genCoeff(j))
			}
		}
	}

	out := make([]byte, RSBlockLen)
	copy(out, data)
	copy(out[RSDataLen:], parity)

	return out
}

// genCoeff returns the j-th generator coefficient counted the way the
// shift-register form of EncodeBlock consumes it: genpoly[RSParityLen-1-j],
// the non-leading coefficients of the monic generator in descending
// order (the leading coefficient, always 1, is folded into feedback).
func (rs *ReedSolomon) genCoeff(j int) byte {
	return rs.genpoly[RSParityLen-1-j]
}

// BlockResult is the outcome of decoding one 255-byte codeword.
type BlockResult struct {
	Data          []byte // the corrected RSDataLen-byte data portion.
	Uncorrectable bool
	Corrected     int // number of symbol errors fixed, when not Uncorrectable.
}

// DecodeBlock corrects up to RSCorrectable symbol errors in a
// RSBlockLen-byte received codeword and returns its data portion.
func (rs *ReedSolomon) DecodeBlock(received []byte) BlockResult {
	if len(received) != RSBlockLen {
		panic(fmt.Sprintf("ryfi: RS codeword must be %d bytes, got %d", RSBlockLen, len(received)))
	}

	gf := rs.gf

	// Syndromes: evaluate received(x) at the nroots consecutive roots
	// of the generator polynomial.
	var syn [RSParityLen]byte

	synError := false

	for i := 0; i < RSParityLen; i++ {
		s := received[0]
		for j := 1; j < RSBlockLen; j++ {
			if s == 0 {
				s = received[j]
			} else {
				s = received[j] ^ gf.mul(s, gf.pow(i))
			}
		}

		syn[i] = s
		if s != 0 {
			synError = true
		}
	}

	if !synError {
		data := make([]byte, RSDataLen)
		copy(data, received[:RSDataLen])

		return BlockResult{Data: data, Corrected: 0}
	}

	// Berlekamp-Massey: find the error locator polynomial lambda.
	var lambda, b [RSParityLen + 1]byte
	lambda[0] = 1
	b[0] = 1

	l := 0
	m := 1
	delta := byte(1)

	for n := 0; n < RSParityLen; n++ {
		discrepancy := syn[n]
		for i := 1; i <= l; i++ {
			discrepancy ^= gf.mul(lambda[i], syn[n-i])
		}

		switch {
		case discrepancy == 0:
			m++
		case 2*l <= n:
			t := lambda
			coef := gf.div(discrepancy, delta)

			for i := 0; i <= RSParityLen-m; i++ {
				lambda[i+m] ^= gf.mul(coef, b[i])
			}

			l = n + 1 - l
			b = t
			delta = discrepancy
			m = 1
		default:
			coef := gf.div(discrepancy, delta)
			for i := 0; i <= RSParityLen-m; i++ {
				lambda[i+m] ^= gf.mul(coef, b[i])
			}

			m++
		}
	}

	if l > RSCorrectable {
		return BlockResult{Uncorrectable: true}
	}

	// Chien search: find the roots of lambda, i.e. the error locations.
	// Candidate k ranges over the codeword positions; lambda(alpha^-k)==0
	// means the symbol at array index (RSBlockLen-1-k) is in error.
	errLocs := make([]int, 0, l)

	for k := 0; k < RSBlockLen; k++ {
		acc := lambda[0]
		for j := 1; j <= l; j++ {
			acc ^= gf.mul(lambda[j], gf.pow(gf.modnn(j*(gfSize-k))))
		}

		if acc == 0 {
			errLocs = append(errLocs, RSBlockLen-1-k)
		}
	}

	if len(errLocs) != l {
		return BlockResult{Uncorrectable: true}
	}

	// Forney: compute the error-evaluator polynomial omega = syn*lambda
	// mod x^nroots, then the magnitude at each located error.
	var omega [RSParityLen]byte
	for i := 0; i < RSParityLen; i++ {
		acc := byte(0)
		for j := 0; j <= i && j <= l; j++ {
			acc ^= gf.mul(lambda[j], syn[i-j])
		}

		omega[i] = acc
	}

	corrected := make([]byte, RSBlockLen)
	copy(corrected, received)

	for _, loc := range errLocs {
		k := RSBlockLen - 1 - loc // Chien candidate index: locator X_k = alpha^k.
		kInvExp := gfSize - k     // exponent of X_k^-1 = alpha^-k.

		omegaVal := byte(0)
		for i := 0; i < RSParityLen; i++ {
			omegaVal ^= gf.mul(omega[i], gf.pow(gf.modnn(i*kInvExp)))
		}

		lambdaDerivVal := byte(0)
		for i := 1; i <= l; i += 2 {
			lambdaDerivVal ^= gf.mul(lambda[i], gf.pow(gf.modnn((i-1)*kInvExp)))
		}

		if lambdaDerivVal == 0 {
			return BlockResult{Uncorrectable: true}
		}

		magnitude := gf.mul(gf.pow(k), gf.div(omegaVal, lambdaDerivVal))
		corrected[loc] ^= magnitude
	}

	// Verify: re-syndrome the corrected word; any nonzero syndrome
	// means the correction was wrong (more errors than we can fix).
	for i := 0; i < RSParityLen; i++ {
		s := corrected[0]
		for j := 1; j < RSBlockLen; j++ {
			if s == 0 {
				s = corrected[j]
			} else {
				s = corrected[j] ^ gf.mul(s, gf.pow(i))
			}
		}

		if s != 0 {
			return BlockResult{Uncorrectable: true}
		}
	}

	data := make([]byte, RSDataLen)
	copy(data, corrected[:RSDataLen])

	return BlockResult{Data: data, Corrected: len(errLocs)}
}
