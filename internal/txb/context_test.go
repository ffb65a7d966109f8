package txb

import (
	"testing"

	"github.com/deepteams/av1coeff/internal/scan"
)

func TestTxbCtx_EmptyPlane(t *testing.T) {
	pc := NewPlaneContext(64, 64)
	tests := []struct {
		name   string
		plane  int
		bw, bh int
		tx     scan.TxSize
		want   TxbCtx
	}{
		{"luma whole block", 0, 8, 8, scan.Tx8x8, TxbCtx{}},
		{"luma split block", 0, 16, 16, scan.Tx8x8, TxbCtx{SkipCtx: 1}},
		{"chroma whole block", 1, 8, 8, scan.Tx8x8, TxbCtx{SkipCtx: 7}},
		{"chroma split block", 1, 16, 8, scan.Tx8x8, TxbCtx{SkipCtx: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pc.TxbCtx(tt.plane, tt.bw, tt.bh, tt.tx, 0, 0); got != tt.want {
				t.Errorf("TxbCtx = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTxbCtx_PositiveDCNeighbour(t *testing.T) {
	pc := NewPlaneContext(32, 32)
	ec := Result{EOB: 4, CulLevel: 8, DCSign: 1}.EntropyContext()
	if ec != 136 {
		t.Fatalf("EntropyContext = %d, want 136", ec)
	}
	pc.Set(scan.Tx4x4, 0, 0, ec)

	// The block to the right sees the context on its left edge.
	got := pc.TxbCtx(0, 8, 8, scan.Tx4x4, 1, 0)
	if want := (TxbCtx{SkipCtx: 3, DCSignCtx: 2}); got != want {
		t.Errorf("luma TxbCtx = %+v, want %+v", got, want)
	}
	got = pc.TxbCtx(1, 4, 4, scan.Tx4x4, 1, 0)
	if want := (TxbCtx{SkipCtx: 8, DCSignCtx: 2}); got != want {
		t.Errorf("chroma TxbCtx = %+v, want %+v", got, want)
	}
}

func TestTxbCtx_DCSignVotes(t *testing.T) {
	neg := Result{CulLevel: 2, DCSign: -1}.EntropyContext()
	pos := Result{CulLevel: 2, DCSign: 1}.EntropyContext()
	zero := Result{CulLevel: 2}.EntropyContext()
	tests := []struct {
		name        string
		above, left []uint8
		want        int
	}{
		{"none", []uint8{0, 0}, []uint8{0, 0}, 0},
		{"negative", []uint8{neg, 0}, []uint8{zero, 0}, 1},
		{"positive", []uint8{pos, pos}, []uint8{neg, 0}, 2},
		{"tie", []uint8{neg, pos}, []uint8{neg, pos}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := &PlaneContext{Above: tt.above, Left: tt.left}
			if got := pc.TxbCtx(0, 8, 8, scan.Tx8x8, 0, 0).DCSignCtx; got != tt.want {
				t.Errorf("DCSignCtx = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTxbCtx_LumaSkipTable(t *testing.T) {
	tests := []struct {
		top, left uint8
		want      int
	}{
		{0, 0, 1},
		{1, 0, 2},
		{0, 9, 3},
		{1, 1, 4},
		{2, 40, 5},
		{63, 63, 6},
	}
	for _, tt := range tests {
		pc := &PlaneContext{Above: []uint8{tt.top}, Left: []uint8{tt.left}}
		if got := pc.TxbCtx(0, 8, 8, scan.Tx4x4, 0, 0).SkipCtx; got != tt.want {
			t.Errorf("top %d left %d: SkipCtx = %d, want %d", tt.top, tt.left, got, tt.want)
		}
	}
}

func TestPlaneContext_SetClipsToPlane(t *testing.T) {
	pc := NewPlaneContext(12, 20)
	if len(pc.Above) != 3 || len(pc.Left) != 5 {
		t.Fatalf("sizes %d/%d, want 3/5", len(pc.Above), len(pc.Left))
	}
	pc.Set(scan.Tx16x16, 2, 3, 7)
	if want := []uint8{0, 0, 7}; string(pc.Above) != string(want) {
		t.Errorf("Above = %v, want %v", pc.Above, want)
	}
	if want := []uint8{0, 0, 0, 7, 7}; string(pc.Left) != string(want) {
		t.Errorf("Left = %v, want %v", pc.Left, want)
	}

	// Blocks hanging off the plane read only the part inside it.
	if got := pc.TxbCtx(1, 16, 16, scan.Tx16x16, 2, 3); got.SkipCtx != 9 {
		t.Errorf("edge block SkipCtx = %d, want 9", got.SkipCtx)
	}
	if got := pc.TxbCtx(1, 16, 16, scan.Tx16x16, 5, 9); got.SkipCtx != 7 {
		t.Errorf("outside block SkipCtx = %d, want 7", got.SkipCtx)
	}

	pc.Reset()
	for _, v := range append(pc.Above, pc.Left...) {
		if v != 0 {
			t.Fatalf("context %d left after Reset", v)
		}
	}
}
