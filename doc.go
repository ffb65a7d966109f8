// Package av1coeff provides a pure Go encoder and decoder for the quantized
// transform coefficients of AV1 transform blocks.
//
// Coefficients are coded with the adaptive multi-symbol range coder of AV1:
// an all-zero flag, the end-of-block position, base levels in reverse scan
// order, signs, and a range extension with an Exp-Golomb escape for large
// magnitudes. Every symbol adapts the CDFs of a FrameContext, so the encoder
// and decoder must see the same blocks in the same order.
//
// The package also contains the encoder-side greedy rate-distortion
// optimizer that lowers quantized levels where that reduces the
// Lagrangian cost of a block.
//
// Coefficient slices cover the coded region of a transform in raster order
// with a stride of CodedWidth(size). Sizes with a 64-sample dimension code
// only their top-left 32×32 quarter.
//
// Basic usage for encoding a tile:
//
//	enc, err := av1coeff.NewEncoder(av1coeff.NewFrameContext(qindex), tile, nil)
//	res, err := enc.EncodeBlock(&info, coeff, qcoeff, dqcoeff)
//	data := enc.Finish()
//
// Basic usage for decoding it:
//
//	dec, err := av1coeff.NewDecoder(data, av1coeff.NewFrameContext(qindex), tile, nil)
//	res, err := dec.DecodeBlock(&info, qcoeff, dqcoeff)
package av1coeff
