package txb

import (
	"fmt"

	"github.com/deepteams/av1coeff/internal/bitio"
	"github.com/deepteams/av1coeff/internal/entropy"
	"github.com/deepteams/av1coeff/internal/scan"
)

// Read decodes one block into qcoeff (levels) and dqcoeff (dequantized
// values) and adapts fc. Both slices must cover the coded region of b; it is
// cleared first. Corrupt input yields an error wrapping ErrCorrupt, after
// which the reader and fc are out of sync and must be discarded.
func (cd *Coder) Read(r *bitio.SymbolReader, fc *entropy.FrameContext, b *Block, qcoeff, dqcoeff []int32) (Result, error) {
	o := scan.Get(b.Size, b.Type)
	txs := b.Size.SizeContext()
	pt := b.PlaneType
	segEOB := len(o.Scan)
	clear(qcoeff[:segEOB])
	clear(dqcoeff[:segEOB])

	if r.ReadBool(fc.TxbSkip[txs][b.Ctx.SkipCtx][:]) == 1 {
		return Result{}, readErr(r)
	}

	eob := readEOB(r, fc, txs, pt, o.Class, segEOB)
	if eob > segEOB {
		return Result{}, fmt.Errorf("%w: eob %d exceeds %d", ErrCorrupt, eob, segEOB)
	}

	shift := b.Size.Scale()
	res := Result{EOB: eob}
	cul := 0

	// Base levels, last to first. Saturated levels stay at levelCap until
	// the range pass below.
	lb := &cd.levels
	lb.Reset(o.Width, o.Height)
	updateEOB := -1
	for c := eob - 1; c >= 0; c-- {
		pos := int(o.Scan[c])
		var level int
		if c == eob-1 {
			ctx := eobContext(c, segEOB)
			level = r.ReadSymbol(fc.BaseEOB[txs][pt][ctx][:], entropy.BaseEOBSymbols) + 1
		} else {
			ctx := lb.baseContext(o.Neighbors[c], c, pos)
			level = r.ReadSymbol(fc.Base[txs][pt][ctx][:], entropy.BaseSymbols)
		}
		if level == 0 {
			continue
		}
		lb.Set(pos, level)
		res.MaxScanLine = max(res.MaxScanLine, pos)
		qcoeff[pos] = int32(level)
		if level < levelCap {
			cul += level
			dqcoeff[pos] = dequant(level, b.Dequant[min(c, 1)], shift)
		} else if updateEOB < 0 {
			updateEOB = c
		}
	}

	// Signs, first to last.
	for c := 0; c < eob; c++ {
		pos := o.Scan[c]
		if qcoeff[pos] == 0 {
			continue
		}
		var sign int
		if c == 0 {
			sign = r.ReadBool(fc.DCSign[pt][b.Ctx.DCSignCtx][:])
		} else {
			sign = r.ReadBit()
		}
		if sign == 1 {
			qcoeff[pos] = -qcoeff[pos]
			dqcoeff[pos] = -dqcoeff[pos]
		}
	}

	// Range extension of saturated levels, from updateEOB down to 0.
	for c := updateEOB; c >= 0; c-- {
		pos := int(o.Scan[c])
		if lb.At(pos) < levelCap {
			continue
		}
		level, err := readRange(r, fc, txs, pt, lb.rangeContext(pos))
		if err != nil {
			return Result{}, fmt.Errorf("%w: scan position %d: %w", ErrCorrupt, c, err)
		}
		cul += level
		d := dequant(level, b.Dequant[min(c, 1)], shift)
		if qcoeff[pos] < 0 {
			qcoeff[pos] = int32(-level)
			dqcoeff[pos] = -d
		} else {
			qcoeff[pos] = int32(level)
			dqcoeff[pos] = d
		}
	}

	if err := readErr(r); err != nil {
		return Result{}, err
	}

	res.CulLevel = min(cul, maxCulLevel)
	switch {
	case qcoeff[0] < 0:
		res.DCSign = -1
	case qcoeff[0] > 0:
		res.DCSign = 1
	}
	return res, nil
}

// readRange decodes the magnitude of a saturated level with range context
// ctx. Levels beyond MaxLevel are clamped.
func readRange(r *bitio.SymbolReader, fc *entropy.FrameContext, txs, pt, ctx int) (int, error) {
	grp := r.ReadSymbol(fc.BRGroup[txs][pt][ctx][:], entropy.BRGroups)
	if grp < brGroups-1 {
		extra := r.ReadSymbol(fc.BRExtra[txs][pt][ctx][:], entropy.BRGroupSize)
		return levelCap + grp*brGroupSize + extra, nil
	}
	g, err := readGolomb(r)
	if err != nil {
		return 0, err
	}
	return min(golombBase+g, MaxLevel), nil
}

// readErr reports a read past the end of the input as corruption.
func readErr(r *bitio.SymbolReader) error {
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return nil
}
