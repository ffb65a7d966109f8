package txb

import "github.com/deepteams/av1coeff/internal/scan"

// Level coding constants.
const (
	// NumBaseLevels is the number of magnitudes resolved by the base symbol
	// alone; base symbol NumBaseLevels+1 means "range extension follows".
	NumBaseLevels = 2
	// levelCap is the saturation value stored in the level buffer.
	levelCap = NumBaseLevels + 1

	brGroupSize = 8
	brGroups    = 4
	// coeffBaseRange is the span of levels covered by the bounded groups.
	coeffBaseRange = (brGroups - 1) * brGroupSize
	// golombBase is the smallest level coded with the Golomb escape.
	golombBase = levelCap + coeffBaseRange

	// MaxLevel is the largest coefficient magnitude the coder accepts.
	MaxLevel = 1<<22 - 1

	padHor = 4
	padVer = 4
)

// LevelBuffer is the clipped-magnitude grid of one transform block.
//
// Entries hold min(|level|, 3) in raster order with padHor zero columns to
// the right of each row and padVer zero rows below the block, so right and
// lower neighbour lookups never leave the buffer.
type LevelBuffer struct {
	buf    []uint8
	width  int
	height int
	bwl    uint // log2(width)
	stride int
}

// Reset sizes the buffer for a w×h coded region and clears it. w must be a
// power of two.
func (lb *LevelBuffer) Reset(w, h int) {
	lb.width, lb.height = w, h
	lb.stride = w + padHor
	lb.bwl = 0
	for 1<<lb.bwl < w {
		lb.bwl++
	}
	n := (h + padVer) * lb.stride
	if cap(lb.buf) < n {
		lb.buf = make([]uint8, n)
		return
	}
	lb.buf = lb.buf[:n]
	clear(lb.buf)
}

// index maps a raster position to its padded offset.
func (lb *LevelBuffer) index(pos int) int {
	return (pos>>lb.bwl)*lb.stride + pos&(lb.width-1)
}

// Set stores the clipped magnitude of level at raster position pos.
func (lb *LevelBuffer) Set(pos, level int) {
	if level < 0 {
		level = -level
	}
	lb.buf[lb.index(pos)] = uint8(min(level, levelCap))
}

// At returns the clipped magnitude at raster position pos.
func (lb *LevelBuffer) At(pos int) int {
	return int(lb.buf[lb.index(pos)])
}

// Neighbor returns the clipped magnitude of a scan-table neighbour, or 0
// for scan.NoNeighbor.
func (lb *LevelBuffer) Neighbor(pos int16) int {
	if pos < 0 {
		return 0
	}
	return lb.At(int(pos))
}

// baseContext returns the base-level context of scan position c at raster
// position pos: three spatial regions times four magnitude buckets built
// from the two scan neighbours.
func (lb *LevelBuffer) baseContext(nb [2]int16, c, pos int) int {
	mag := min((1+lb.Neighbor(nb[0])+lb.Neighbor(nb[1]))>>1, 3)
	if c == 0 {
		return mag
	}
	row, col := pos>>lb.bwl, pos&(lb.width-1)
	if row+col < 4 {
		return 4 + mag
	}
	return 8 + mag
}

// eobContext returns the context of the last coded position c of a block
// with segEOB coefficients.
func eobContext(c, segEOB int) int {
	switch {
	case c == 0:
		return 0
	case c <= segEOB/8:
		return 1
	case c <= segEOB/4:
		return 2
	default:
		return 3
	}
}

// rangeContext returns the range-extension context of raster position pos,
// counting saturated levels to the right, below and below-right.
func (lb *LevelBuffer) rangeContext(pos int) int {
	i := lb.index(pos)
	n := 0
	for _, j := range [3]int{i + 1, i + lb.stride, i + lb.stride + 1} {
		if lb.buf[j] == levelCap {
			n++
		}
	}
	if pos == 0 {
		return min(n, 2)
	}
	return 3 + n
}

// fill loads the clipped magnitudes of qcoeff for scan positions below eob.
func (lb *LevelBuffer) fill(o *scan.Order, qcoeff []int32, eob int) {
	lb.Reset(o.Width, o.Height)
	for c := 0; c < eob; c++ {
		pos := int(o.Scan[c])
		lb.Set(pos, int(qcoeff[pos]))
	}
}
