package av1coeff

import (
	"fmt"

	"github.com/deepteams/av1coeff/internal/bitio"
	"github.com/deepteams/av1coeff/internal/txb"
)

// DecoderOptions controls coefficient decoding.
type DecoderOptions struct {
	// DisableCDFUpdate freezes the CDFs at their initial values. It must
	// match the encoder's setting.
	DisableCDFUpdate bool
}

// Decoder reads the transform blocks of one tile from a single stream.
// Blocks must be requested in the order and with the BlockInfo they were
// encoded with.
type Decoder struct {
	fc     *FrameContext
	r      *bitio.SymbolReader
	coder  txb.Coder
	planes [3]*txb.PlaneContext
	err    error
}

// NewDecoder returns a Decoder for the coded tile data that adapts fc in
// place. If opts is nil, the zero DecoderOptions are used.
func NewDecoder(data []byte, fc *FrameContext, tile Tile, opts *DecoderOptions) (*Decoder, error) {
	if fc == nil {
		return nil, fmt.Errorf("av1coeff: nil FrameContext")
	}
	if opts == nil {
		opts = &DecoderOptions{}
	}
	if err := tile.validate(); err != nil {
		return nil, err
	}
	r := bitio.NewSymbolReader(data)
	r.SetCDFUpdate(!opts.DisableCDFUpdate)
	return &Decoder{
		fc:     fc,
		r:      r,
		planes: tile.planeContexts(),
	}, nil
}

// DecodeBlock decodes the block described by info into qcoeff (levels) and
// dqcoeff (dequantized values).
//
// Once corrupt data has been met, DecodeBlock keeps returning the same error
// wrapping ErrCorruptFrame; the FrameContext is then out of sync with the
// encoder's and must be discarded.
func (d *Decoder) DecodeBlock(info *BlockInfo, qcoeff, dqcoeff []int32) (BlockResult, error) {
	if d.err != nil {
		return BlockResult{}, d.err
	}
	if qcoeff == nil || dqcoeff == nil {
		return BlockResult{}, fmt.Errorf("%w: nil coefficient buffer", ErrInvalidBlock)
	}
	b, err := info.block(&d.planes, qcoeff, dqcoeff)
	if err != nil {
		return BlockResult{}, err
	}

	before := d.r.Tell()
	res, err := d.coder.Read(d.r, d.fc, b, qcoeff, dqcoeff)
	if err != nil {
		d.err = fmt.Errorf("%w: %v block at %d,%d in plane %d: %w",
			ErrCorruptFrame, info.Size, info.Col, info.Row, info.Plane, err)
		return BlockResult{}, d.err
	}
	return newBlockResult(res, d.planes[info.Plane], info, d.r.Tell()-before), nil
}

// Err returns the sticky decoding error, if any.
func (d *Decoder) Err() error { return d.err }

// Tell returns the number of bits consumed so far.
func (d *Decoder) Tell() int { return d.r.Tell() }

// FrameContext returns the context adapted by the blocks decoded so far.
func (d *Decoder) FrameContext() *FrameContext { return d.fc }
