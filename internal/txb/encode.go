package txb

import (
	"github.com/deepteams/av1coeff/internal/bitio"
	"github.com/deepteams/av1coeff/internal/entropy"
	"github.com/deepteams/av1coeff/internal/scan"
)

// Write codes the levels qcoeff of block b with end of block eob and adapts
// fc. qcoeff must cover the coded region of b. Invalid input is rejected with
// an error wrapping ErrEOBRange or ErrLevelRange before anything is written.
func (cd *Coder) Write(w *bitio.SymbolWriter, fc *entropy.FrameContext, b *Block, qcoeff []int32, eob int) (Result, error) {
	o := scan.Get(b.Size, b.Type)
	if err := checkLevels(o, qcoeff, eob); err != nil {
		return Result{}, err
	}
	txs := b.Size.SizeContext()
	pt := b.PlaneType
	segEOB := len(o.Scan)

	skipCDF := fc.TxbSkip[txs][b.Ctx.SkipCtx][:]
	if eob == 0 {
		w.WriteBool(1, skipCDF)
		return Result{}, nil
	}
	w.WriteBool(0, skipCDF)

	writeEOB(w, fc, txs, pt, o.Class, eob, segEOB)

	updateEOB := cd.writeBaseLevels(w, fc, o, txs, pt, qcoeff, eob)
	writeSigns(w, fc, o, pt, b.Ctx.DCSignCtx, qcoeff, eob)
	if updateEOB >= 0 {
		cd.writeRanges(w, fc, o, txs, pt, qcoeff, updateEOB)
	}
	return summarize(o, qcoeff, eob), nil
}

// writeBaseLevels codes the base symbol of every position from eob-1 down to
// 0 and returns the highest scan position whose level saturated, or -1.
func (cd *Coder) writeBaseLevels(w *bitio.SymbolWriter, fc *entropy.FrameContext, o *scan.Order, txs, pt int, qcoeff []int32, eob int) int {
	lb := &cd.levels
	lb.Reset(o.Width, o.Height)
	segEOB := len(o.Scan)
	updateEOB := -1
	for c := eob - 1; c >= 0; c-- {
		pos := int(o.Scan[c])
		level := absLevel(qcoeff[pos])
		sym := min(level, levelCap)
		if c == eob-1 {
			ctx := eobContext(c, segEOB)
			w.WriteSymbol(sym-1, fc.BaseEOB[txs][pt][ctx][:], entropy.BaseEOBSymbols)
		} else {
			ctx := lb.baseContext(o.Neighbors[c], c, pos)
			w.WriteSymbol(sym, fc.Base[txs][pt][ctx][:], entropy.BaseSymbols)
		}
		lb.Set(pos, level)
		if sym == levelCap && updateEOB < 0 {
			updateEOB = c
		}
	}
	return updateEOB
}

// writeSigns codes the sign of every non-zero level in ascending scan order.
// Only the DC sign is context coded.
func writeSigns(w *bitio.SymbolWriter, fc *entropy.FrameContext, o *scan.Order, pt, dcSignCtx int, qcoeff []int32, eob int) {
	for c := 0; c < eob; c++ {
		v := qcoeff[o.Scan[c]]
		if v == 0 {
			continue
		}
		sign := 0
		if v < 0 {
			sign = 1
		}
		if c == 0 {
			w.WriteBool(sign, fc.DCSign[pt][dcSignCtx][:])
		} else {
			w.WriteBit(sign)
		}
	}
}

// writeRanges codes the remainder of every saturated level, from updateEOB
// down to 0.
func (cd *Coder) writeRanges(w *bitio.SymbolWriter, fc *entropy.FrameContext, o *scan.Order, txs, pt int, qcoeff []int32, updateEOB int) {
	lb := &cd.levels
	for c := updateEOB; c >= 0; c-- {
		pos := int(o.Scan[c])
		if lb.At(pos) < levelCap {
			continue
		}
		ctx := lb.rangeContext(pos)
		level := absLevel(qcoeff[pos])
		rem := level - levelCap
		if grp := rem / brGroupSize; grp < brGroups-1 {
			w.WriteSymbol(grp, fc.BRGroup[txs][pt][ctx][:], entropy.BRGroups)
			w.WriteSymbol(rem%brGroupSize, fc.BRExtra[txs][pt][ctx][:], entropy.BRGroupSize)
			continue
		}
		w.WriteSymbol(brGroups-1, fc.BRGroup[txs][pt][ctx][:], entropy.BRGroups)
		writeGolomb(w, level-golombBase)
	}
}
