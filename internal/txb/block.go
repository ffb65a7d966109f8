// Package txb codes the quantized coefficients of one transform block.
//
// A block is coded as an all-zero flag, the end-of-block position, a base
// level per scan position (last to first), the signs (first to last) and a
// range extension with Golomb escape for saturated levels. All symbols go
// through the adaptive CDFs of an entropy.FrameContext. Coefficient arrays
// cover the coded region of the transform in raster order with a stride of
// scan.TxSize.CodedWidth.
package txb

import (
	"fmt"
	"math"

	"github.com/deepteams/av1coeff/internal/scan"
)

// coeffContextBits is the number of low bits of a packed entropy context
// holding the cumulative level; the DC sign sits above them.
const coeffContextBits = 6

// maxCulLevel caps the cumulative level of a block.
const maxCulLevel = 1<<coeffContextBits - 1

// TxbCtx carries the contexts a block derives from its coded neighbours.
type TxbCtx struct {
	SkipCtx   int // all-zero flag context, 0..12
	DCSignCtx int // DC sign context, 0..2
}

// Block describes how a transform block is coded.
type Block struct {
	Size      scan.TxSize
	Type      scan.TxType
	PlaneType int // 0 luma, 1 chroma
	Ctx       TxbCtx
	// Dequant holds the DC and AC dequantization steps.
	Dequant [2]int32
}

// Result summarises a coded block for the caller.
type Result struct {
	EOB         int
	CulLevel    int // min(63, sum of magnitudes)
	DCSign      int // sign of the DC level: -1, 0 or 1
	MaxScanLine int // largest raster index holding a non-zero level
}

// EntropyContext packs the cumulative level and the DC sign into the byte
// stored in the above and left context arrays.
func (r Result) EntropyContext() uint8 {
	ctx := uint8(min(r.CulLevel, maxCulLevel))
	switch {
	case r.DCSign < 0:
		ctx |= 1 << coeffContextBits
	case r.DCSign > 0:
		ctx += 2 << coeffContextBits
	}
	return ctx
}

// Coder holds scratch state reused across blocks. The zero value is ready
// to use. A Coder must not be used concurrently.
type Coder struct {
	levels LevelBuffer
}

// summarize builds the Result of a block from its levels.
func summarize(o *scan.Order, qcoeff []int32, eob int) Result {
	res := Result{EOB: eob}
	cul := 0
	for c := 0; c < eob; c++ {
		pos := int(o.Scan[c])
		v := qcoeff[pos]
		if v == 0 {
			continue
		}
		if cul < maxCulLevel {
			cul += absLevel(v)
		}
		res.MaxScanLine = max(res.MaxScanLine, pos)
	}
	res.CulLevel = min(cul, maxCulLevel)
	switch {
	case eob > 0 && qcoeff[0] < 0:
		res.DCSign = -1
	case eob > 0 && qcoeff[0] > 0:
		res.DCSign = 1
	}
	return res
}

// checkLevels validates an encoder input: eob within the block, the last
// coded level non-zero, nothing coded past eob and every magnitude at most
// MaxLevel.
func checkLevels(o *scan.Order, qcoeff []int32, eob int) error {
	n := len(o.Scan)
	if eob < 0 || eob > n {
		return fmt.Errorf("%w: eob %d not in [0, %d]", ErrEOBRange, eob, n)
	}
	if eob > 0 && qcoeff[o.Scan[eob-1]] == 0 {
		return fmt.Errorf("%w: level at eob-1 (%d) is zero", ErrEOBRange, eob-1)
	}
	for c := 0; c < n; c++ {
		v := qcoeff[o.Scan[c]]
		if c >= eob && v != 0 {
			return fmt.Errorf("%w: non-zero level at scan position %d past eob %d", ErrEOBRange, c, eob)
		}
		if absLevel(v) > MaxLevel {
			return fmt.Errorf("%w: |%d| at scan position %d", ErrLevelRange, v, c)
		}
	}
	return nil
}

// Check reports whether qcoeff with end of block eob is valid input for
// Write, without writing anything.
func Check(b *Block, qcoeff []int32, eob int) error {
	return checkLevels(scan.Get(b.Size, b.Type), qcoeff, eob)
}

// LastNonZero returns the eob implied by qcoeff: one past the last scan
// position holding a non-zero level, or 0.
func LastNonZero(o *scan.Order, qcoeff []int32) int {
	for c := len(o.Scan) - 1; c >= 0; c-- {
		if qcoeff[o.Scan[c]] != 0 {
			return c + 1
		}
	}
	return 0
}

// dequant scales a magnitude by step and the transform shift, saturating
// at the int32 range.
func dequant(level int, step int32, shift int) int32 {
	v := (int64(level) * int64(step)) >> uint(shift)
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(v)
}

// Dequantize writes the dequantized values of qcoeff into dqcoeff for the
// whole coded region of b.
func Dequantize(b *Block, qcoeff, dqcoeff []int32, eob int) {
	o := scan.Get(b.Size, b.Type)
	shift := b.Size.Scale()
	clear(dqcoeff[:len(o.Scan)])
	for c := 0; c < eob; c++ {
		pos := o.Scan[c]
		v := qcoeff[pos]
		if v == 0 {
			continue
		}
		d := dequant(absLevel(v), b.Dequant[min(c, 1)], shift)
		if v < 0 {
			d = -d
		}
		dqcoeff[pos] = d
	}
}

func absLevel(v int32) int {
	if v < 0 {
		return -int(v)
	}
	return int(v)
}
