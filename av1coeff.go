package av1coeff

import (
	"errors"
	"fmt"

	"github.com/deepteams/av1coeff/internal/entropy"
	"github.com/deepteams/av1coeff/internal/scan"
	"github.com/deepteams/av1coeff/internal/txb"
)

// Errors returned by the encoder and decoder.
var (
	// ErrCorruptFrame is returned once the decoder meets data it cannot
	// decode. It wraps the underlying cause and is sticky.
	ErrCorruptFrame = errors.New("av1coeff: corrupt frame")
	// ErrInvalidBlock reports a BlockInfo or buffer the coder cannot use.
	ErrInvalidBlock = errors.New("av1coeff: invalid block")
	// ErrFinished is returned by an Encoder after Finish.
	ErrFinished = errors.New("av1coeff: encoder finished")
)

// MaxLevel is the largest coefficient magnitude that can be coded.
const MaxLevel = txb.MaxLevel

// TxSize is a transform size.
type TxSize = scan.TxSize

// Transform sizes.
const (
	Tx4x4   = scan.Tx4x4
	Tx8x8   = scan.Tx8x8
	Tx16x16 = scan.Tx16x16
	Tx32x32 = scan.Tx32x32
	Tx64x64 = scan.Tx64x64
	Tx4x8   = scan.Tx4x8
	Tx8x4   = scan.Tx8x4
	Tx8x16  = scan.Tx8x16
	Tx16x8  = scan.Tx16x8
	Tx16x32 = scan.Tx16x32
	Tx32x16 = scan.Tx32x16
	Tx32x64 = scan.Tx32x64
	Tx64x32 = scan.Tx64x32
	Tx4x16  = scan.Tx4x16
	Tx16x4  = scan.Tx16x4
	Tx8x32  = scan.Tx8x32
	Tx32x8  = scan.Tx32x8
	Tx16x64 = scan.Tx16x64
	Tx64x16 = scan.Tx64x16
)

// TxType is a 2-D transform type.
type TxType = scan.TxType

// Transform types.
const (
	DCTDCT           = scan.DCTDCT
	ADSTDCT          = scan.ADSTDCT
	DCTADST          = scan.DCTADST
	ADSTADST         = scan.ADSTADST
	FlipADSTDCT      = scan.FlipADSTDCT
	DCTFlipADST      = scan.DCTFlipADST
	FlipADSTFlipADST = scan.FlipADSTFlipADST
	ADSTFlipADST     = scan.ADSTFlipADST
	FlipADSTADST     = scan.FlipADSTADST
	IDTX             = scan.IDTX
	VDCT             = scan.VDCT
	HDCT             = scan.HDCT
	VADST            = scan.VADST
	HADST            = scan.HADST
	VFlipADST        = scan.VFlipADST
	HFlipADST        = scan.HFlipADST
)

// CoeffCount returns the number of coefficients coded for size, the length
// the coefficient slices passed to EncodeBlock and DecodeBlock must have at
// least.
func CoeffCount(size TxSize) int { return size.MaxEOB() }

// FrameContext holds the adaptive CDFs of the coefficient coder.
type FrameContext = entropy.FrameContext

// NewFrameContext returns the default coefficient CDFs for base quantizer
// index qindex (0-255).
func NewFrameContext(qindex int) *FrameContext {
	return entropy.NewDefaultFrameContext(qindex)
}

// AverageFrameContexts merges the adapted contexts of several tiles into a
// context for the next frame. It returns nil when ctxs is empty.
func AverageFrameContexts(ctxs ...*FrameContext) *FrameContext {
	return entropy.Average(ctxs...)
}

// Tile describes the area whose blocks share one coded stream.
type Tile struct {
	// Width and Height are the luma dimensions in samples.
	Width, Height int
	// SubsamplingX and SubsamplingY are the chroma subsampling shifts
	// (1 for 4:2:0, 0 for 4:4:4).
	SubsamplingX, SubsamplingY int
}

func (t *Tile) validate() error {
	if t.Width <= 0 || t.Height <= 0 {
		return fmt.Errorf("av1coeff: invalid tile size %dx%d", t.Width, t.Height)
	}
	if t.SubsamplingX < 0 || t.SubsamplingX > 1 || t.SubsamplingY < 0 || t.SubsamplingY > 1 {
		return fmt.Errorf("av1coeff: invalid subsampling %d/%d", t.SubsamplingX, t.SubsamplingY)
	}
	return nil
}

// planeContexts returns cleared above/left contexts for the three planes.
func (t *Tile) planeContexts() [3]*txb.PlaneContext {
	cw := (t.Width + t.SubsamplingX) >> t.SubsamplingX
	ch := (t.Height + t.SubsamplingY) >> t.SubsamplingY
	return [3]*txb.PlaneContext{
		txb.NewPlaneContext(t.Width, t.Height),
		txb.NewPlaneContext(cw, ch),
		txb.NewPlaneContext(cw, ch),
	}
}

// BlockInfo locates and describes one transform block.
type BlockInfo struct {
	// Plane is 0 for luma, 1 and 2 for chroma.
	Plane int
	Size  TxSize
	Type  TxType
	// Col and Row give the top-left corner of the transform block in the
	// plane, in units of 4 samples.
	Col, Row int
	// BlockWidth and BlockHeight are the dimensions in samples of the
	// prediction block holding the transform block. Zero means the
	// transform dimensions.
	BlockWidth, BlockHeight int
	// Dequant holds the DC and AC quantizer step sizes.
	Dequant [2]int32
}

// BlockResult describes a coded block.
type BlockResult struct {
	// EOB is one past the last coded scan position; 0 for an all-zero block.
	EOB int
	// CulLevel is the sum of level magnitudes, capped at 63.
	CulLevel int
	// DCSign is the sign of the DC level: -1, 0 or 1.
	DCSign int
	// MaxScanLine is the largest raster index holding a non-zero level.
	MaxScanLine int
	// Context is the packed entropy context recorded for later blocks.
	Context uint8
	// Bits is the number of bits the block added to the stream.
	Bits int
}

// block validates info and the coefficient buffers and converts them to the
// coder's description, with contexts taken from pcs.
func (info *BlockInfo) block(pcs *[3]*txb.PlaneContext, bufs ...[]int32) (*txb.Block, error) {
	if info.Plane < 0 || info.Plane > 2 {
		return nil, fmt.Errorf("%w: plane %d", ErrInvalidBlock, info.Plane)
	}
	if !info.Size.Valid() {
		return nil, fmt.Errorf("%w: transform size %d", ErrInvalidBlock, info.Size)
	}
	if !info.Type.Valid() {
		return nil, fmt.Errorf("%w: transform type %d", ErrInvalidBlock, info.Type)
	}
	if info.Col < 0 || info.Row < 0 {
		return nil, fmt.Errorf("%w: position %d,%d", ErrInvalidBlock, info.Col, info.Row)
	}
	if info.Dequant[0] <= 0 || info.Dequant[1] <= 0 {
		return nil, fmt.Errorf("%w: dequant %v", ErrInvalidBlock, info.Dequant)
	}
	bw, bh := info.BlockWidth, info.BlockHeight
	if bw == 0 && bh == 0 {
		bw, bh = info.Size.Width(), info.Size.Height()
	}
	if bw < info.Size.Width() || bh < info.Size.Height() {
		return nil, fmt.Errorf("%w: %dx%d block smaller than %v transform", ErrInvalidBlock, bw, bh, info.Size)
	}
	n := info.Size.MaxEOB()
	for _, b := range bufs {
		if b != nil && len(b) < n {
			return nil, fmt.Errorf("%w: buffer length %d, need %d for %v", ErrInvalidBlock, len(b), n, info.Size)
		}
	}

	pt := 0
	if info.Plane > 0 {
		pt = 1
	}
	return &txb.Block{
		Size:      info.Size,
		Type:      info.Type,
		PlaneType: pt,
		Ctx:       pcs[info.Plane].TxbCtx(info.Plane, bw, bh, info.Size, info.Col, info.Row),
		Dequant:   info.Dequant,
	}, nil
}

// newBlockResult converts a coder result and records its context in pc.
func newBlockResult(res txb.Result, pc *txb.PlaneContext, info *BlockInfo, bits int) BlockResult {
	ec := res.EntropyContext()
	pc.Set(info.Size, info.Col, info.Row, ec)
	return BlockResult{
		EOB:         res.EOB,
		CulLevel:    res.CulLevel,
		DCSign:      res.DCSign,
		MaxScanLine: res.MaxScanLine,
		Context:     ec,
		Bits:        bits,
	}
}

// planeRDMult scales the base multiplier per plane type.
var planeRDMult = [2]int64{10, 7}

// DefaultRDMult returns the optimizer's Lagrange multiplier for a block of
// plane type planeType (0 luma, 1 chroma) quantized with DC step dcStep.
func DefaultRDMult(dcStep int32, planeType int) int64 {
	q := int64(dcStep)
	rd := 88 * q * q / 24
	return (rd * planeRDMult[min(max(planeType, 0), 1)]) >> 1
}

func scanOrder(info *BlockInfo) *scan.Order {
	return scan.Get(info.Size, info.Type)
}
