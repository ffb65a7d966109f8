package txb

import "github.com/deepteams/av1coeff/internal/scan"

// coeffContextMask selects the cumulative level of a packed entropy context.
const coeffContextMask = 1<<coeffContextBits - 1

// dcSignDelta maps the sign field of a packed context to its vote.
var dcSignDelta = [3]int{0, -1, 1}

// skipContexts indexes luma all-zero contexts by the smaller and the larger
// of the clipped above and left cumulative levels.
var skipContexts = [5][5]uint8{
	{1, 2, 2, 2, 3},
	{1, 4, 4, 4, 5},
	{1, 4, 4, 4, 5},
	{1, 4, 4, 4, 5},
	{1, 4, 4, 4, 6},
}

// PlaneContext holds the packed entropy contexts (see Result.EntropyContext)
// along the top and left edges of the blocks coded so far in one plane, in
// 4-pixel units.
type PlaneContext struct {
	Above []uint8
	Left  []uint8
}

// NewPlaneContext returns a cleared PlaneContext for a plane of w×h pixels.
func NewPlaneContext(w, h int) *PlaneContext {
	return &PlaneContext{
		Above: make([]uint8, (w+3)>>2),
		Left:  make([]uint8, (h+3)>>2),
	}
}

// Reset clears all contexts, as at the start of a tile.
func (pc *PlaneContext) Reset() {
	clear(pc.Above)
	clear(pc.Left)
}

// edge returns the n context entries starting at i, clipped to the plane.
func edge(ctx []uint8, i, n int) []uint8 {
	if i >= len(ctx) || i < 0 {
		return nil
	}
	return ctx[i:min(i+n, len(ctx))]
}

// TxbCtx derives the contexts of a transform block of size tx at column col
// and row row (4-pixel units) inside a prediction block of bw×bh pixels.
// plane is 0 for luma.
func (pc *PlaneContext) TxbCtx(plane int, bw, bh int, tx scan.TxSize, col, row int) TxbCtx {
	above := edge(pc.Above, col, tx.Width()>>2)
	left := edge(pc.Left, row, tx.Height()>>2)

	dcSign := 0
	for _, a := range above {
		dcSign += dcSignDelta[min(a>>coeffContextBits, 2)]
	}
	for _, l := range left {
		dcSign += dcSignDelta[min(l>>coeffContextBits, 2)]
	}
	var ctx TxbCtx
	switch {
	case dcSign < 0:
		ctx.DCSignCtx = 1
	case dcSign > 0:
		ctx.DCSignCtx = 2
	}

	if plane == 0 {
		if bw == tx.Width() && bh == tx.Height() {
			return ctx
		}
		var top, lft uint8
		for _, a := range above {
			top |= a
		}
		for _, l := range left {
			lft |= l
		}
		top &= coeffContextMask
		lft &= coeffContextMask
		hi := min(top|lft, 4)
		lo := min(top, lft, 4)
		ctx.SkipCtx = int(skipContexts[lo][hi])
		return ctx
	}

	offset := 7
	if bw*bh > tx.Pixels() {
		offset = 10
	}
	ctx.SkipCtx = offset + nonZero(above) + nonZero(left)
	return ctx
}

// nonZero reports 1 if any context in ctx is non-zero.
func nonZero(ctx []uint8) int {
	for _, v := range ctx {
		if v != 0 {
			return 1
		}
	}
	return 0
}

// Set records the packed entropy context ec of a coded transform block of
// size tx at column col and row row, clipped to the plane edges.
func (pc *PlaneContext) Set(tx scan.TxSize, col, row int, ec uint8) {
	for i := range edge(pc.Above, col, tx.Width()>>2) {
		pc.Above[col+i] = ec
	}
	for i := range edge(pc.Left, row, tx.Height()>>2) {
		pc.Left[row+i] = ec
	}
}
