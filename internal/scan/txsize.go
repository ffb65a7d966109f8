// Package scan describes transform geometry and coefficient scan orders.
//
// A scan order maps a linear coding position to a raster coefficient index.
// Orders are built once at package init and shared read-only by every coder.
package scan

import "fmt"

// TxSize enumerates the transform block sizes, in the AV1 order.
type TxSize uint8

const (
	Tx4x4 TxSize = iota
	Tx8x8
	Tx16x16
	Tx32x32
	Tx64x64
	Tx4x8
	Tx8x4
	Tx8x16
	Tx16x8
	Tx16x32
	Tx32x16
	Tx32x64
	Tx64x32
	Tx4x16
	Tx16x4
	Tx8x32
	Tx32x8
	Tx16x64
	Tx64x16
	NumTxSizes
)

// maxCodedDim bounds the coded region in each direction; coefficients of
// 64-wide or 64-high transforms beyond it are always zero.
const maxCodedDim = 32

var txWidthLog2 = [NumTxSizes]uint8{2, 3, 4, 5, 6, 2, 3, 3, 4, 4, 5, 5, 6, 2, 4, 3, 5, 4, 6}
var txHeightLog2 = [NumTxSizes]uint8{2, 3, 4, 5, 6, 3, 2, 4, 3, 5, 4, 6, 5, 4, 2, 5, 3, 6, 4}

// Valid reports whether t names a transform size.
func (t TxSize) Valid() bool { return t < NumTxSizes }

// Width returns the transform width in pixels.
func (t TxSize) Width() int { return 1 << txWidthLog2[t] }

// Height returns the transform height in pixels.
func (t TxSize) Height() int { return 1 << txHeightLog2[t] }

// Pixels returns Width*Height.
func (t TxSize) Pixels() int { return 1 << (txWidthLog2[t] + txHeightLog2[t]) }

// CodedWidth returns the width of the coded coefficient region.
func (t TxSize) CodedWidth() int { return min(t.Width(), maxCodedDim) }

// CodedHeight returns the height of the coded coefficient region.
func (t TxSize) CodedHeight() int { return min(t.Height(), maxCodedDim) }

// MaxEOB returns the number of coefficients in the coded region, the upper
// bound of a block's EOB.
func (t TxSize) MaxEOB() int { return t.CodedWidth() * t.CodedHeight() }

// SizeContext returns the probability size class (0..4) of t: the rounded
// mean of the square classes of its shorter and longer side.
func (t TxSize) SizeContext() int {
	w, h := int(txWidthLog2[t]), int(txHeightLog2[t])
	return (min(w, h) - 2 + max(w, h) - 2 + 1) >> 1
}

// Scale returns the extra right shift applied when dequantizing
// coefficients of large transforms.
func (t TxSize) Scale() int {
	pels := t.Pixels()
	s := 0
	if pels > 256 {
		s++
	}
	if pels > 1024 {
		s++
	}
	return s
}

// Adjusted returns the transform size whose dimensions equal the coded
// region of t.
func (t TxSize) Adjusted() TxSize {
	switch t {
	case Tx64x64, Tx32x64, Tx64x32:
		return Tx32x32
	case Tx16x64:
		return Tx16x32
	case Tx64x16:
		return Tx32x16
	}
	return t
}

// String returns a name such as "16x8".
func (t TxSize) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TxSize(%d)", uint8(t))
	}
	return fmt.Sprintf("%dx%d", t.Width(), t.Height())
}

// TxType enumerates the 2-D transform kernels.
type TxType uint8

const (
	DCTDCT TxType = iota
	ADSTDCT
	DCTADST
	ADSTADST
	FlipADSTDCT
	DCTFlipADST
	FlipADSTFlipADST
	ADSTFlipADST
	FlipADSTADST
	IDTX
	VDCT
	HDCT
	VADST
	HADST
	VFlipADST
	HFlipADST
	NumTxTypes
)

// TxClass groups transform types by the shape of their energy compaction.
type TxClass uint8

const (
	Class2D    TxClass = iota // both directions transformed
	ClassHoriz                // identity vertically
	ClassVert                 // identity horizontally
	numClasses
)

// Valid reports whether t names a transform type.
func (t TxType) Valid() bool { return t < NumTxTypes }

// Class returns the transform class of t.
func (t TxType) Class() TxClass {
	switch t {
	case VDCT, VADST, VFlipADST:
		return ClassVert
	case HDCT, HADST, HFlipADST:
		return ClassHoriz
	}
	return Class2D
}

var txTypeNames = [NumTxTypes]string{
	"DCT_DCT", "ADST_DCT", "DCT_ADST", "ADST_ADST",
	"FLIPADST_DCT", "DCT_FLIPADST", "FLIPADST_FLIPADST", "ADST_FLIPADST",
	"FLIPADST_ADST", "IDTX", "V_DCT", "H_DCT", "V_ADST", "H_ADST",
	"V_FLIPADST", "H_FLIPADST",
}

func (t TxType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TxType(%d)", uint8(t))
	}
	return txTypeNames[t]
}
