package bitio

import "math/bits"

// Probability model constants shared by SymbolWriter and SymbolReader.
// CDFs are stored inverted (32768 minus the cumulative probability) in Q15,
// with one trailing adaptation counter, as in the AV1 entropy coder.
const (
	CDFProbBits = 15
	CDFProbTop  = 1 << CDFProbBits

	ecProbShift = 6
	ecMinProb   = 4

	// halfProb is the Q15 split used for raw, equiprobable bits.
	halfProb = 16384
)

// SymbolWriter implements the AV1 multi-symbol range encoder.
//
// It is the encoding counterpart of SymbolReader. Output bytes are kept in a
// pre-carry buffer of 16-bit cells; carries are resolved once in Finish.
type SymbolWriter struct {
	precarry []uint16
	low      uint64 // low end of the current range
	rng      uint32 // range size, kept in [32768, 65535] after renormalisation
	cnt      int    // number of buffered bits in low, biased by -16
	adapt    bool   // update CDFs after coding a symbol
}

// NewSymbolWriter creates a SymbolWriter with room for expectedSize bytes.
// Pass 0 for a minimal default allocation.
func NewSymbolWriter(expectedSize int) *SymbolWriter {
	sw := &SymbolWriter{}
	sw.Reset(expectedSize)
	return sw
}

// Reset resets the SymbolWriter state for reuse, keeping the existing buffer
// if it has sufficient capacity. CDF adaptation is re-enabled.
func (sw *SymbolWriter) Reset(expectedSize int) {
	if expectedSize < 1024 {
		expectedSize = 1024
	}
	if cap(sw.precarry) >= expectedSize {
		sw.precarry = sw.precarry[:0]
	} else {
		sw.precarry = make([]uint16, 0, expectedSize)
	}
	sw.low = 0
	sw.rng = 0x8000
	sw.cnt = -9
	sw.adapt = true
}

// SetCDFUpdate enables or disables CDF adaptation after each adaptive symbol.
func (sw *SymbolWriter) SetCDFUpdate(enabled bool) {
	sw.adapt = enabled
}

// CDFUpdate reports whether CDF adaptation is enabled.
func (sw *SymbolWriter) CDFUpdate() bool {
	return sw.adapt
}

// WriteSymbol encodes s with the nsyms-symbol inverse CDF cdf and, when
// adaptation is enabled, updates cdf. cdf must hold nsyms+1 entries.
func (sw *SymbolWriter) WriteSymbol(s int, cdf []uint16, nsyms int) {
	_ = cdf[nsyms] // BCE hint
	fl := uint32(CDFProbTop)
	if s > 0 {
		fl = uint32(cdf[s-1])
	}
	sw.encodeQ15(fl, uint32(cdf[s]), s, nsyms)
	if sw.adapt {
		UpdateCDF(cdf, s, nsyms)
	}
}

// WriteBool encodes a binary symbol with the adaptive two-symbol CDF cdf.
func (sw *SymbolWriter) WriteBool(bit int, cdf []uint16) {
	sw.WriteSymbol(bit, cdf, 2)
}

// WriteBit encodes a raw, equiprobable bit. No CDF is touched.
func (sw *SymbolWriter) WriteBit(bit int) {
	sw.encodeBoolQ15(bit, halfProb)
}

// WriteLiteral encodes the nbBits low bits of value MSB first as raw bits.
func (sw *SymbolWriter) WriteLiteral(value uint32, nbBits int) {
	for i := nbBits - 1; i >= 0; i-- {
		sw.WriteBit(int(value>>uint(i)) & 1)
	}
}

// encodeQ15 narrows the range to the interval [fl, fh) of symbol s.
func (sw *SymbolWriter) encodeQ15(fl, fh uint32, s, nsyms int) {
	l := sw.low
	r := sw.rng
	n := uint32(nsyms - 1)
	if fl < CDFProbTop {
		u := ((r>>8)*(fl>>ecProbShift))>>(7-ecProbShift) + ecMinProb*(n-uint32(s-1))
		v := ((r>>8)*(fh>>ecProbShift))>>(7-ecProbShift) + ecMinProb*(n-uint32(s))
		l += uint64(r - u)
		r = u - v
	} else {
		r -= ((r>>8)*(fh>>ecProbShift))>>(7-ecProbShift) + ecMinProb*(n-uint32(s))
	}
	sw.normalize(l, r)
}

// encodeBoolQ15 encodes bit where f is the Q15 inverse probability of a 0.
func (sw *SymbolWriter) encodeBoolQ15(bit int, f uint32) {
	l := sw.low
	r := sw.rng
	v := ((r>>8)*(f>>ecProbShift))>>(7-ecProbShift) + ecMinProb
	if bit != 0 {
		l += uint64(r - v)
		r = v
	} else {
		r -= v
	}
	sw.normalize(l, r)
}

// normalize shifts the range back into [32768, 65535] and moves completed
// bytes from low into the pre-carry buffer.
func (sw *SymbolWriter) normalize(low uint64, rng uint32) {
	c := sw.cnt
	d := 16 - bits.Len32(rng)
	s := c + d
	if s >= 0 {
		c += 16
		m := uint64(1)<<uint(c) - 1
		if s >= 8 {
			sw.precarry = append(sw.precarry, uint16(low>>uint(c)))
			low &= m
			c -= 8
			m >>= 8
		}
		sw.precarry = append(sw.precarry, uint16(low>>uint(c)))
		s = c + d - 24
		low &= m
	}
	sw.low = low << uint(d)
	sw.rng = rng << uint(d)
	sw.cnt = s
}

// Finish flushes the minimum number of bits that guarantees every symbol
// written so far decodes correctly, resolves carries and returns the
// encoded bytes. The writer must be Reset before further use.
func (sw *SymbolWriter) Finish() []byte {
	l := sw.low
	c := sw.cnt
	s := 10
	m := uint64(0x3FFF)
	e := ((l + m) &^ m) | (m + 1)
	s += c
	if s > 0 {
		n := uint64(1)<<uint(c+16) - 1
		for {
			sw.precarry = append(sw.precarry, uint16(e>>uint(c+16)))
			e &= n
			s -= 8
			c -= 8
			n >>= 8
			if s <= 0 {
				break
			}
		}
	}

	out := make([]byte, len(sw.precarry))
	carry := uint32(0)
	for i := len(sw.precarry) - 1; i >= 0; i-- {
		carry += uint32(sw.precarry[i])
		out[i] = byte(carry)
		carry >>= 8
	}
	return out
}

// Tell returns the number of bits written so far, rounded up.
func (sw *SymbolWriter) Tell() int {
	return sw.cnt + 10 + len(sw.precarry)*8
}
