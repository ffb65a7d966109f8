package txb

import (
	"github.com/deepteams/av1coeff/internal/entropy"
	"github.com/deepteams/av1coeff/internal/pool"
	"github.com/deepteams/av1coeff/internal/scan"
)

// Optimize searches for levels with a lower RD cost than the quantizer
// output qcoeff (end of block eob) against the transform coefficients coeff.
//
// A single sweep runs from scan position 0 to eob-1. Each non-zero level x
// is compared with x moved one step towards zero; the rate of a choice
// includes the change it causes in the already visited positions whose
// contexts read it. Alongside, the sweep keeps the cheapest point at which
// the block could end. Levels past that point are dropped.
//
// The result is only kept when its exact cost under cc is strictly lower
// than that of the input; otherwise qcoeff is left untouched. dqcoeff
// receives the dequantized result over the coded region. Optimize returns
// the new end of block.
func (cd *Coder) Optimize(cc *entropy.CoeffCosts, b *Block, rdmult int64, coeff, qcoeff, dqcoeff []int32, eob int) int {
	if eob == 0 {
		Dequantize(b, qcoeff, dqcoeff, 0)
		return 0
	}
	o := scan.Get(b.Size, b.Type)
	n := len(o.Scan)

	before := cd.BlockRD(cc, b, rdmult, coeff, qcoeff, eob)
	backup := pool.GetInt32(n)
	defer pool.PutInt32(backup)
	copy(backup, qcoeff[:n])

	newEOB := cd.sweep(cc, b, o, rdmult, coeff, qcoeff, eob)
	for c := newEOB; c < eob; c++ {
		qcoeff[o.Scan[c]] = 0
	}

	if after := cd.BlockRD(cc, b, rdmult, coeff, qcoeff, newEOB); after >= before {
		copy(qcoeff[:n], backup)
		newEOB = eob
	}
	Dequantize(b, qcoeff, dqcoeff, newEOB)
	return newEOB
}

// sweep runs the greedy forward pass, updating qcoeff in place, and returns
// the best end of block it saw.
func (cd *Coder) sweep(cc *entropy.CoeffCosts, b *Block, o *scan.Order, rdmult int64, coeff, qcoeff []int32, eob int) int {
	shift := b.Size.Scale()
	lb := &cd.levels
	lb.fill(o, qcoeff, eob)
	m := rateModel{cc: cc, o: o, lb: lb, dcSignCtx: b.Ctx.DCSignCtx, segEOB: len(o.Scan)}

	// rates[c] is the current cost of scan position c.
	rates := pool.GetInt32(eob)
	defer pool.PutInt32(rates)

	// Distortion of the positions not yet visited if they were dropped.
	var tailDist int64
	for c := 0; c < eob; c++ {
		pos := o.Scan[c]
		tailDist += coeffDist(coeff[pos], 0, b.Dequant[min(c, 1)], shift)
	}

	skip0 := cc.TxbSkip[b.Ctx.SkipCtx][0]
	bestRD := RDCost(rdmult, cc.TxbSkip[b.Ctx.SkipCtx][1], tailDist)
	bestEOB := 0
	accuRate := 0
	var accuDist int64

	for c := 0; c < eob; c++ {
		pos := int(o.Scan[c])
		step := b.Dequant[min(c, 1)]
		tailDist -= coeffDist(coeff[pos], 0, step, shift)

		x := qcoeff[pos]
		v := x
		if x != 0 {
			xa := x - 1
			if x < 0 {
				xa = x + 1
			}
			rdX := RDCost(rdmult, cd.localRate(&m, c, pos, x, qcoeff), coeffDist(coeff[pos], x, step, shift))
			rdA := RDCost(rdmult, cd.localRate(&m, c, pos, xa, qcoeff), coeffDist(coeff[pos], xa, step, shift))
			if rdA < rdX {
				v = xa
			}
		}
		qcoeff[pos] = v
		lb.Set(pos, int(v))

		// Re-price the visited positions whose contexts read pos.
		for _, dc := range dependents(o, pos, c) {
			r := m.coeff(dc, qcoeff[o.Scan[dc]], false)
			accuRate += r - int(rates[dc])
			rates[dc] = int32(r)
		}
		own := m.coeff(c, v, false)
		rates[c] = int32(own)
		accuRate += own
		accuDist += coeffDist(coeff[pos], v, step, shift)

		if v == 0 {
			continue
		}
		lastRate := accuRate - own + m.coeff(c, v, true) + eobCost(cc, o.Class, c+1, m.segEOB) + skip0
		if rd := RDCost(rdmult, lastRate, accuDist+tailDist); rd < bestRD {
			bestRD = rd
			bestEOB = c + 1
		}
	}
	return bestEOB
}

// localRate returns the cost of level v at scan position c plus the cost of
// the visited positions depending on it, with v temporarily in place.
func (cd *Coder) localRate(m *rateModel, c, pos int, v int32, qcoeff []int32) int {
	old := qcoeff[pos]
	qcoeff[pos] = v
	m.lb.Set(pos, int(v))
	rate := m.coeff(c, v, false)
	for _, dc := range dependents(m.o, pos, c) {
		rate += m.coeff(dc, qcoeff[m.o.Scan[dc]], false)
	}
	qcoeff[pos] = old
	m.lb.Set(pos, int(old))
	return rate
}

// dependents returns the scan positions before c whose base or range
// context reads raster position pos: its left, upper and upper-left
// neighbours.
func dependents(o *scan.Order, pos, c int) []int {
	var out [3]int
	k := 0
	row, col := pos/o.Width, pos%o.Width
	add := func(p int) {
		if dc := int(o.IScan[p]); dc < c {
			out[k] = dc
			k++
		}
	}
	if col > 0 {
		add(pos - 1)
	}
	if row > 0 {
		add(pos - o.Width)
	}
	if col > 0 && row > 0 {
		add(pos - o.Width - 1)
	}
	return out[:k]
}
