package txb

import (
	"github.com/deepteams/av1coeff/internal/entropy"
	"github.com/deepteams/av1coeff/internal/scan"
)

// rdDivBits scales distortion against rate in RDCost.
const rdDivBits = 7

// RDCost returns the Lagrangian cost of rate (in 1/512 bit) and squared-error
// distortion dist under multiplier rdmult.
func RDCost(rdmult int64, rate int, dist int64) int64 {
	return ((int64(rate)*rdmult + 1<<(entropy.CostPrecBits-1)) >> entropy.CostPrecBits) + (dist << rdDivBits)
}

// rateModel prices single coefficients of one block against a static cost
// table, reading contexts from a filled LevelBuffer.
type rateModel struct {
	cc        *entropy.CoeffCosts
	o         *scan.Order
	lb        *LevelBuffer
	dcSignCtx int
	segEOB    int
}

// coeff returns the cost of level v at scan position c: base symbol, sign
// and range extension. last selects the end-of-block base alphabet.
func (m *rateModel) coeff(c int, v int32, last bool) int {
	pos := int(m.o.Scan[c])
	level := absLevel(v)
	sym := min(level, levelCap)

	var rate int
	if last {
		rate = m.cc.BaseEOB[eobContext(c, m.segEOB)][sym-1]
	} else {
		rate = m.cc.Base[m.lb.baseContext(m.o.Neighbors[c], c, pos)][sym]
	}
	if level == 0 {
		return rate
	}

	if c == 0 {
		sign := 0
		if v < 0 {
			sign = 1
		}
		rate += m.cc.DCSign[m.dcSignCtx][sign]
	} else {
		rate += entropy.BitCost
	}

	if sym == levelCap {
		rate += rangeCost(m.cc, m.lb.rangeContext(pos), level)
	}
	return rate
}

// rangeCost returns the cost of the range extension of a saturated level.
func rangeCost(cc *entropy.CoeffCosts, ctx, level int) int {
	rem := level - levelCap
	if grp := rem / brGroupSize; grp < brGroups-1 {
		return cc.BRGroup[ctx][grp] + cc.BRExtra[ctx][rem%brGroupSize]
	}
	return cc.BRGroup[ctx][brGroups-1] + golombCost(level-golombBase)
}

// Rate returns the cost of coding qcoeff with end of block eob under the
// static costs cc. The symbols priced are exactly those Write emits.
func (cd *Coder) Rate(cc *entropy.CoeffCosts, b *Block, qcoeff []int32, eob int) int {
	if eob == 0 {
		return cc.TxbSkip[b.Ctx.SkipCtx][1]
	}
	o := scan.Get(b.Size, b.Type)
	cd.levels.fill(o, qcoeff, eob)
	m := rateModel{cc: cc, o: o, lb: &cd.levels, dcSignCtx: b.Ctx.DCSignCtx, segEOB: len(o.Scan)}

	rate := cc.TxbSkip[b.Ctx.SkipCtx][0] + eobCost(cc, o.Class, eob, m.segEOB)
	for c := 0; c < eob; c++ {
		rate += m.coeff(c, qcoeff[o.Scan[c]], c == eob-1)
	}
	return rate
}

// coeffDist returns the squared reconstruction error of level v for the
// transform coefficient coeff, in the unscaled transform domain.
func coeffDist(coeff, v, step int32, shift int) int64 {
	d := int64(dequant(absLevel(v), step, shift))
	if v < 0 {
		d = -d
	}
	e := (int64(coeff) - d) << uint(shift)
	return e * e
}

// Distortion returns the squared error between coeff and the dequantized
// levels qcoeff over the coded region of b.
func Distortion(b *Block, coeff, qcoeff []int32) int64 {
	o := scan.Get(b.Size, b.Type)
	shift := b.Size.Scale()
	var dist int64
	for c, pos := range o.Scan {
		dist += coeffDist(coeff[pos], qcoeff[pos], b.Dequant[min(c, 1)], shift)
	}
	return dist
}

// BlockRD returns RDCost of coding qcoeff with end of block eob against the
// original coefficients coeff.
func (cd *Coder) BlockRD(cc *entropy.CoeffCosts, b *Block, rdmult int64, coeff, qcoeff []int32, eob int) int64 {
	return RDCost(rdmult, cd.Rate(cc, b, qcoeff, eob), Distortion(b, coeff, qcoeff))
}
