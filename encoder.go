package av1coeff

import (
	"fmt"

	"github.com/deepteams/av1coeff/internal/bitio"
	"github.com/deepteams/av1coeff/internal/entropy"
	"github.com/deepteams/av1coeff/internal/txb"
)

// EncoderOptions controls coefficient encoding.
type EncoderOptions struct {
	// Optimize runs the rate-distortion level optimizer on every block
	// for which transform coefficients are supplied.
	Optimize bool

	// RDMult is the Lagrange multiplier used by the optimizer. Zero selects
	// DefaultRDMult for the DC step and plane of each block.
	RDMult int64

	// DisableCDFUpdate freezes the CDFs at their initial values. The
	// decoder must be created with the same setting.
	DisableCDFUpdate bool

	// ExpectedSize is a hint for the size of the coded tile in bytes.
	ExpectedSize int
}

func (o *EncoderOptions) validate() error {
	if o.RDMult < 0 {
		return fmt.Errorf("av1coeff: invalid RDMult %d (must be >= 0)", o.RDMult)
	}
	if o.ExpectedSize < 0 {
		return fmt.Errorf("av1coeff: invalid ExpectedSize %d (must be >= 0)", o.ExpectedSize)
	}
	return nil
}

// Encoder codes the transform blocks of one tile into a single stream.
// An Encoder must not be used concurrently; tiles coded in parallel each
// need their own Encoder and FrameContext.
type Encoder struct {
	opts   EncoderOptions
	fc     *FrameContext
	w      *bitio.SymbolWriter
	coder  txb.Coder
	planes [3]*txb.PlaneContext
	costs  entropy.CoeffCosts
}

// NewEncoder returns an Encoder for tile that adapts fc in place. If opts
// is nil, the zero EncoderOptions are used.
func NewEncoder(fc *FrameContext, tile Tile, opts *EncoderOptions) (*Encoder, error) {
	if fc == nil {
		return nil, fmt.Errorf("av1coeff: nil FrameContext")
	}
	if opts == nil {
		opts = &EncoderOptions{}
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := tile.validate(); err != nil {
		return nil, err
	}
	w := bitio.NewSymbolWriter(opts.ExpectedSize)
	w.SetCDFUpdate(!opts.DisableCDFUpdate)
	return &Encoder{
		opts:   *opts,
		fc:     fc,
		w:      w,
		planes: tile.planeContexts(),
	}, nil
}

// EncodeBlock codes the quantized levels qcoeff of the block described by
// info. The end of block is derived from the last non-zero level.
//
// With Optimize set and coeff non-nil, the levels are first optimized
// against the transform coefficients coeff; qcoeff is updated in place.
// If dqcoeff is non-nil it receives the dequantized levels actually coded.
// Invalid input is rejected before qcoeff or dqcoeff is touched.
func (e *Encoder) EncodeBlock(info *BlockInfo, coeff, qcoeff, dqcoeff []int32) (BlockResult, error) {
	if e.w == nil {
		return BlockResult{}, ErrFinished
	}
	if qcoeff == nil {
		return BlockResult{}, fmt.Errorf("%w: nil qcoeff", ErrInvalidBlock)
	}
	b, err := info.block(&e.planes, coeff, qcoeff, dqcoeff)
	if err != nil {
		return BlockResult{}, err
	}

	eob := txb.LastNonZero(scanOrder(info), qcoeff)
	if err := txb.Check(b, qcoeff, eob); err != nil {
		return BlockResult{}, fmt.Errorf("%w: %w", ErrInvalidBlock, err)
	}
	if e.opts.Optimize && coeff != nil && eob > 0 {
		rdmult := e.opts.RDMult
		if rdmult == 0 {
			rdmult = DefaultRDMult(info.Dequant[0], b.PlaneType)
		}
		e.fc.FillCosts(info.Size.SizeContext(), b.PlaneType, &e.costs)
		scratch := dqcoeff
		if scratch == nil {
			scratch = make([]int32, info.Size.MaxEOB())
		}
		eob = e.coder.Optimize(&e.costs, b, rdmult, coeff, qcoeff, scratch, eob)
	} else if dqcoeff != nil {
		txb.Dequantize(b, qcoeff, dqcoeff, eob)
	}

	before := e.w.Tell()
	res, err := e.coder.Write(e.w, e.fc, b, qcoeff, eob)
	if err != nil {
		return BlockResult{}, fmt.Errorf("%w: %w", ErrInvalidBlock, err)
	}
	return newBlockResult(res, e.planes[info.Plane], info, e.w.Tell()-before), nil
}

// Tell returns the number of bits written so far.
func (e *Encoder) Tell() int {
	if e.w == nil {
		return 0
	}
	return e.w.Tell()
}

// FrameContext returns the context adapted by the blocks coded so far.
func (e *Encoder) FrameContext() *FrameContext { return e.fc }

// Finish flushes the stream and returns it. The Encoder cannot code further
// blocks afterwards.
func (e *Encoder) Finish() []byte {
	if e.w == nil {
		return nil
	}
	data := e.w.Finish()
	e.w = nil
	return data
}
