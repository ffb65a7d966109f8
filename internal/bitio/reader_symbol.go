// Package bitio provides bit-level I/O primitives for the AV1 coefficient
// coder.
//
// It implements the AV1 multi-symbol range coder: a SymbolWriter that codes
// symbols against adaptive inverse CDFs, the matching SymbolReader, and the
// CDF adaptation rule shared by both sides.
package bitio

import (
	"errors"
	"math/bits"
)

// ErrPrematureEOF is reported by Err once the reader has consumed more bits
// than the input holds.
var ErrPrematureEOF = errors.New("bitio: premature end of data")

const (
	// decWindow is the width in bits of the decoder's dif register.
	decWindow = 64
	// lotsOfBits is the fake bit count loaded once the input is exhausted.
	lotsOfBits = 0x4000
)

// SymbolReader implements the AV1 multi-symbol range decoder.
//
// dif holds the difference between the top of the current range and the
// coded value, minus one, with look-ahead bits cached in its low end. Bits
// past the end of the input read as if the encoder had padded with zeros.
type SymbolReader struct {
	buf      []byte
	pos      int    // next byte to load from buf
	dif      uint64 // complemented code window
	rng      uint32 // range size in [32768, 65535]
	cnt      int    // number of valid look-ahead bits, biased by -16
	tellOffs int    // correction term for Tell
	adapt    bool   // update CDFs after decoding a symbol
}

// NewSymbolReader creates a SymbolReader over data and loads the first bytes.
func NewSymbolReader(data []byte) *SymbolReader {
	sr := &SymbolReader{}
	sr.Reset(data)
	return sr
}

// Reset re-targets the reader at data. CDF adaptation is re-enabled.
func (sr *SymbolReader) Reset(data []byte) {
	sr.buf = data
	sr.pos = 0
	sr.dif = uint64(1)<<(decWindow-1) - 1
	sr.rng = 0x8000
	sr.cnt = -15
	// pos*8-cnt starts at 15; Tell starts at 1 like SymbolWriter.Tell.
	sr.tellOffs = 1 - 15
	sr.adapt = true
	sr.refill()
}

// SetCDFUpdate enables or disables CDF adaptation after each adaptive symbol.
func (sr *SymbolReader) SetCDFUpdate(enabled bool) {
	sr.adapt = enabled
}

// refill loads as many whole bytes into dif as fit below the active bits.
func (sr *SymbolReader) refill() {
	s := decWindow - 9 - (sr.cnt + 15)
	for ; s >= 0 && sr.pos < len(sr.buf); s -= 8 {
		sr.dif ^= uint64(sr.buf[sr.pos]) << uint(s)
		sr.pos++
		sr.cnt += 8
	}
	if sr.pos >= len(sr.buf) {
		sr.tellOffs += lotsOfBits - sr.cnt
		sr.cnt = lotsOfBits
	}
}

// normalize rescales rng into [32768, 65535], shifting ones into dif.
func (sr *SymbolReader) normalize(dif uint64, rng uint32, ret int) int {
	d := 16 - bits.Len32(rng)
	sr.cnt -= d
	sr.dif = ((dif + 1) << uint(d)) - 1
	sr.rng = rng << uint(d)
	if sr.cnt < 0 {
		sr.refill()
	}
	return ret
}

// ReadSymbol decodes one symbol with the nsyms-symbol inverse CDF cdf and,
// when adaptation is enabled, updates cdf. cdf must hold nsyms+1 entries.
// The result is always in [0, nsyms).
func (sr *SymbolReader) ReadSymbol(cdf []uint16, nsyms int) int {
	_ = cdf[nsyms] // BCE hint
	dif := sr.dif
	r := sr.rng
	n := nsyms - 1
	c := uint32(dif >> (decWindow - 16))
	v := r
	var u uint32
	ret := -1
	for {
		u = v
		ret++
		if ret == n {
			// The last symbol owns the rest of the interval.
			v = 0
			break
		}
		v = ((r>>8)*(uint32(cdf[ret])>>ecProbShift))>>(7-ecProbShift) + ecMinProb*uint32(n-ret)
		if c >= v {
			break
		}
	}
	r = u - v
	dif -= uint64(v) << (decWindow - 16)
	s := sr.normalize(dif, r, ret)
	if sr.adapt {
		UpdateCDF(cdf, s, nsyms)
	}
	return s
}

// ReadBool decodes a binary symbol with the adaptive two-symbol CDF cdf.
func (sr *SymbolReader) ReadBool(cdf []uint16) int {
	return sr.ReadSymbol(cdf, 2)
}

// ReadBit decodes a raw, equiprobable bit. No CDF is touched.
func (sr *SymbolReader) ReadBit() int {
	return sr.decodeBoolQ15(halfProb)
}

// ReadLiteral decodes nbBits raw bits, MSB first.
func (sr *SymbolReader) ReadLiteral(nbBits int) uint32 {
	var v uint32
	for i := nbBits - 1; i >= 0; i-- {
		v |= uint32(sr.ReadBit()) << uint(i)
	}
	return v
}

// decodeBoolQ15 decodes a bit where f is the Q15 inverse probability of a 0.
func (sr *SymbolReader) decodeBoolQ15(f uint32) int {
	dif := sr.dif
	r := sr.rng
	v := ((r>>8)*(f>>ecProbShift))>>(7-ecProbShift) + ecMinProb
	vw := uint64(v) << (decWindow - 16)
	ret := 1
	rNew := v
	if dif >= vw {
		rNew = r - v
		dif -= vw
		ret = 0
	}
	return sr.normalize(dif, rNew, ret)
}

// Tell returns the number of bits consumed so far, rounded up.
func (sr *SymbolReader) Tell() int {
	return sr.pos*8 - sr.cnt + sr.tellOffs
}

// Overflowed reports whether more bits have been consumed than the input
// holds, which only happens on truncated or corrupt data.
func (sr *SymbolReader) Overflowed() bool {
	tellBytes := (sr.Tell() + 7) >> 3
	return tellBytes > len(sr.buf)
}

// Err returns ErrPrematureEOF once the reader has overflowed, nil otherwise.
func (sr *SymbolReader) Err() error {
	if sr.Overflowed() {
		return ErrPrematureEOF
	}
	return nil
}
