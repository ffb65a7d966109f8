package entropy

import (
	"math"
	"math/bits"

	"github.com/deepteams/av1coeff/internal/bitio"
)

// Costs are fixed-point bit counts with CostPrecBits fractional bits.
const (
	CostPrecBits = 9
	// BitCost is the cost of one raw, equiprobable bit.
	BitCost = 1 << CostPrecBits
)

// probCost[i] is the cost of an event with 8-bit probability (i+128)/256.
var probCost [128]uint16

func init() {
	for i := range probCost {
		p := float64(i+128) / 256
		probCost[i] = uint16(math.Round(-math.Log2(p) * BitCost))
	}
}

// SymbolCost returns the cost of an event with Q15 probability p15. The
// probability is normalised into [0.5, 1) and the shift is charged as whole
// bits, so SymbolCost is accurate to about 1/256 bit.
func SymbolCost(p15 int) int {
	if p15 < 1 {
		p15 = 1
	}
	if p15 > bitio.CDFProbTop-1 {
		p15 = bitio.CDFProbTop - 1
	}
	shift := bitio.CDFProbBits - bits.Len(uint(p15))
	prob := ((p15<<uint(shift))*256 + bitio.CDFProbTop/2) / bitio.CDFProbTop
	if prob > 255 {
		prob = 255
	}
	return int(probCost[prob-128]) + shift*BitCost
}

// symbolCosts fills out[s] with the cost of every symbol of the nsyms-symbol
// inverse CDF cdf.
func symbolCosts(out []int, cdf []uint16, nsyms int) {
	prev := bitio.CDFProbTop
	for s := 0; s < nsyms; s++ {
		out[s] = SymbolCost(prev - int(cdf[s]))
		prev = int(cdf[s])
	}
}

// CoeffCosts holds symbol costs for one (size class, plane type) pair,
// derived from a FrameContext snapshot. The rate model of the optimizer is
// built on it.
type CoeffCosts struct {
	TxbSkip  [TxbSkipContexts][2]int
	EOBFlag  [EOBFlagContexts][2]int
	EOBExtra [EOBTokens][2]int
	BaseEOB  [BaseEOBContexts][BaseEOBSymbols]int
	Base     [BaseContexts][BaseSymbols]int
	BRGroup  [BRContexts][BRGroups]int
	BRExtra  [BRContexts][BRGroupSize]int
	DCSign   [DCSignContexts][2]int
}

// Costs returns the current symbol costs of size class txs and plane type pt.
func (fc *FrameContext) Costs(txs, pt int) *CoeffCosts {
	cc := &CoeffCosts{}
	fc.FillCosts(txs, pt, cc)
	return cc
}

// FillCosts is like Costs but writes into a caller-owned table.
func (fc *FrameContext) FillCosts(txs, pt int, cc *CoeffCosts) {
	for c := range cc.TxbSkip {
		symbolCosts(cc.TxbSkip[c][:], fc.TxbSkip[txs][c][:], 2)
	}
	for c := range cc.EOBFlag {
		symbolCosts(cc.EOBFlag[c][:], fc.EOBFlag[txs][pt][c][:], 2)
	}
	for c := range cc.EOBExtra {
		symbolCosts(cc.EOBExtra[c][:], fc.EOBExtra[txs][pt][c][:], 2)
	}
	for c := range cc.BaseEOB {
		symbolCosts(cc.BaseEOB[c][:], fc.BaseEOB[txs][pt][c][:], BaseEOBSymbols)
	}
	for c := range cc.Base {
		symbolCosts(cc.Base[c][:], fc.Base[txs][pt][c][:], BaseSymbols)
	}
	for c := range cc.BRGroup {
		symbolCosts(cc.BRGroup[c][:], fc.BRGroup[txs][pt][c][:], BRGroups)
		symbolCosts(cc.BRExtra[c][:], fc.BRExtra[txs][pt][c][:], BRGroupSize)
	}
	for c := range cc.DCSign {
		symbolCosts(cc.DCSign[c][:], fc.DCSign[pt][c][:], 2)
	}
}
