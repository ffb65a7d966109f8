package entropy

import (
	"math"
	"testing"

	"github.com/deepteams/av1coeff/internal/bitio"
)

func TestQContext(t *testing.T) {
	tests := []struct {
		qindex int
		want   int
	}{
		{0, 0}, {20, 0}, {21, 1}, {60, 1}, {61, 2}, {120, 2}, {121, 3}, {255, 3},
	}
	for _, tt := range tests {
		if got := QContext(tt.qindex); got != tt.want {
			t.Errorf("QContext(%d) = %d, want %d", tt.qindex, got, tt.want)
		}
	}
}

func TestNewDefaultFrameContext_ValidCDFs(t *testing.T) {
	for _, q := range []int{0, 40, 100, 255} {
		fc := NewDefaultFrameContext(q)
		count := 0
		fc.forEachCDF(func(cdf []uint16, nsyms int) {
			count++
			if len(cdf) != nsyms+1 {
				t.Fatalf("q=%d: cdf length %d for %d symbols", q, len(cdf), nsyms)
			}
			prev := bitio.CDFProbTop
			for s := 0; s < nsyms; s++ {
				if int(cdf[s]) >= prev {
					t.Fatalf("q=%d: symbol %d has zero probability: %v", q, s, cdf)
				}
				prev = int(cdf[s])
			}
			if cdf[nsyms-1] != 0 {
				t.Fatalf("q=%d: last entry = %d, want 0", q, cdf[nsyms-1])
			}
			if cdf[nsyms] != 0 {
				t.Fatalf("q=%d: counter = %d, want 0", q, cdf[nsyms])
			}
		})
		if count == 0 {
			t.Fatal("forEachCDF visited nothing")
		}
	}
}

func TestNewDefaultFrameContext_QDependent(t *testing.T) {
	lo := NewDefaultFrameContext(0)
	hi := NewDefaultFrameContext(200)
	if lo.Equal(hi) {
		t.Fatal("contexts for q=0 and q=200 are identical")
	}
	// P(skip) grows with the quantizer.
	pLo := int(lo.TxbSkip[0][0][0])
	pHi := int(hi.TxbSkip[0][0][0])
	if pHi <= pLo {
		t.Errorf("skip probability did not grow: q0 %d, q200 %d", pLo, pHi)
	}
}

func TestClone_Independent(t *testing.T) {
	fc := NewDefaultFrameContext(100)
	c := fc.Clone()
	if !fc.Equal(c) {
		t.Fatal("clone differs from original")
	}
	bitio.UpdateCDF(c.Base[1][0][3][:], 2, BaseSymbols)
	if fc.Equal(c) {
		t.Fatal("mutating the clone changed the original")
	}
	if fc.Base[1][0][3][BaseSymbols] != 0 {
		t.Errorf("original counter = %d, want 0", fc.Base[1][0][3][BaseSymbols])
	}
}

func TestResetCounters(t *testing.T) {
	fc := NewDefaultFrameContext(100)
	bitio.UpdateCDF(fc.DCSign[0][1][:], 1, 2)
	bitio.UpdateCDF(fc.BRExtra[2][1][4][:], 5, BRGroupSize)
	fc.ResetCounters()
	if fc.DCSign[0][1][2] != 0 || fc.BRExtra[2][1][4][BRGroupSize] != 0 {
		t.Error("counters not cleared")
	}
	if fc.Equal(NewDefaultFrameContext(100)) {
		t.Error("ResetCounters reverted the adapted probabilities")
	}
}

func TestAverage(t *testing.T) {
	a := NewDefaultFrameContext(100)
	b := a.Clone()
	for i := 0; i < 20; i++ {
		bitio.UpdateCDF(b.Base[0][0][0][:], 3, BaseSymbols)
	}

	avg := Average(a, b)
	for k := 0; k < BaseSymbols; k++ {
		want := (int(a.Base[0][0][0][k]) + int(b.Base[0][0][0][k]) + 1) / 2
		if got := int(avg.Base[0][0][0][k]); got != want {
			t.Errorf("Base[0][0][0][%d] = %d, want %d", k, got, want)
		}
	}
	if avg.Base[0][0][0][BaseSymbols] != 0 {
		t.Errorf("averaged counter = %d, want 0", avg.Base[0][0][0][BaseSymbols])
	}
	if avg.TxbSkip != a.TxbSkip {
		t.Error("untouched CDFs changed by averaging identical inputs")
	}
}

func TestAverage_Edge(t *testing.T) {
	if Average() != nil {
		t.Error("Average() of nothing should be nil")
	}
	a := NewDefaultFrameContext(10)
	bitio.UpdateCDF(a.DCSign[1][0][:], 0, 2)
	one := Average(a)
	if one == a {
		t.Error("Average of one context returned the input itself")
	}
	if one.DCSign[1][0][2] != 0 {
		t.Error("counter not cleared")
	}
}

func TestSymbolCost(t *testing.T) {
	tests := []struct {
		p15  int
		bits float64
	}{
		{16384, 1},
		{8192, 2},
		{1, 15},
		{32767, 0},
		{24576, 0.415},
		{4096, 3},
	}
	for _, tt := range tests {
		got := float64(SymbolCost(tt.p15)) / BitCost
		if math.Abs(got-tt.bits) > 0.01 {
			t.Errorf("SymbolCost(%d) = %.3f bits, want %.3f", tt.p15, got, tt.bits)
		}
	}
	if SymbolCost(0) != SymbolCost(1) {
		t.Error("SymbolCost does not clamp at the bottom")
	}
}

func TestCosts_MatchCDF(t *testing.T) {
	fc := NewDefaultFrameContext(60)
	cc := fc.Costs(2, 1)
	cdf := fc.Base[2][1][5]
	prev := bitio.CDFProbTop
	for s := 0; s < BaseSymbols; s++ {
		want := SymbolCost(prev - int(cdf[s]))
		if cc.Base[5][s] != want {
			t.Errorf("Base cost[%d] = %d, want %d", s, cc.Base[5][s], want)
		}
		prev = int(cdf[s])
	}
	if cc.DCSign[0][0] != BitCost || cc.DCSign[0][1] != BitCost {
		t.Errorf("uniform DC sign costs = %v, want %d each", cc.DCSign[0], BitCost)
	}
	// Zero is the most likely base level in the quiet context.
	if cc.Base[0][0] >= cc.Base[0][3] {
		t.Errorf("cost(0) = %d not below cost(3) = %d", cc.Base[0][0], cc.Base[0][3])
	}
}
