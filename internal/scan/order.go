package scan

// NoNeighbor marks a neighbour that lies outside the coded region.
const NoNeighbor = -1

// Order is the scan of one coded region.
type Order struct {
	// Scan maps a scan position to a raster index (row*Width + col).
	Scan []int16
	// IScan is the inverse of Scan.
	IScan []int16
	// Neighbors lists, per scan position, the raster indices of the right
	// and lower neighbours, or NoNeighbor. Both are coded later in scan
	// order, so a coder running from the last position back to the first
	// has already visited them.
	Neighbors [][2]int16
	// Width and Height are the dimensions of the coded region.
	Width, Height int
	Class         TxClass
}

var orders [NumTxSizes][numClasses]*Order

func init() {
	for t := TxSize(0); t < NumTxSizes; t++ {
		w, h := t.CodedWidth(), t.CodedHeight()
		if a := t.Adjusted(); a != t {
			// Reuse the orders of the equally sized coded region.
			orders[t] = orders[a]
			continue
		}
		orders[t][Class2D] = newOrder(w, h, Class2D, zigzag(w, h))
		orders[t][ClassHoriz] = newOrder(w, h, ClassHoriz, colScan(w, h))
		orders[t][ClassVert] = newOrder(w, h, ClassVert, rowScan(w, h))
	}
}

// Get returns the scan order for a transform of the given size and type.
// Sizes wider or higher than 32 share the order of their coded region.
func Get(size TxSize, typ TxType) *Order {
	return orders[size][typ.Class()]
}

func newOrder(w, h int, class TxClass, scan []int16) *Order {
	n := w * h
	o := &Order{
		Scan:      scan,
		IScan:     make([]int16, n),
		Neighbors: make([][2]int16, n),
		Width:     w,
		Height:    h,
		Class:     class,
	}
	for c, pos := range scan {
		o.IScan[pos] = int16(c)
		row, col := int(pos)/w, int(pos)%w
		right, below := int16(NoNeighbor), int16(NoNeighbor)
		if col+1 < w {
			right = pos + 1
		}
		if row+1 < h {
			below = pos + int16(w)
		}
		o.Neighbors[c] = [2]int16{right, below}
	}
	return o
}

// zigzag walks the anti-diagonals of a w×h region starting at DC. Odd
// diagonals run down-left (row increasing), even diagonals up-right.
func zigzag(w, h int) []int16 {
	scan := make([]int16, 0, w*h)
	for d := 0; d <= w+h-2; d++ {
		lo := max(0, d-(w-1))
		hi := min(d, h-1)
		if d&1 == 1 {
			for row := lo; row <= hi; row++ {
				scan = append(scan, int16(row*w+d-row))
			}
		} else {
			for row := hi; row >= lo; row-- {
				scan = append(scan, int16(row*w+d-row))
			}
		}
	}
	return scan
}

// rowScan visits the region in raster order.
func rowScan(w, h int) []int16 {
	scan := make([]int16, w*h)
	for i := range scan {
		scan[i] = int16(i)
	}
	return scan
}

// colScan visits the region column by column.
func colScan(w, h int) []int16 {
	scan := make([]int16, 0, w*h)
	for col := 0; col < w; col++ {
		for row := 0; row < h; row++ {
			scan = append(scan, int16(row*w+col))
		}
	}
	return scan
}
