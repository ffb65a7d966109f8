// Package entropy holds the adaptive probability models of the coefficient
// coder.
//
// A FrameContext owns one inverse CDF (see bitio) per coding context of every
// coefficient syntax element. The coder mutates it in place as symbols are
// coded, so a FrameContext must not be shared between goroutines; tiles that
// run in parallel each work on their own Clone.
package entropy

// Context dimensions.
const (
	TxSizeContexts = 5 // square-up size classes 4x4 .. 64x64
	PlaneTypes     = 2 // luma, chroma

	TxbSkipContexts = 13
	DCSignContexts  = 3

	// EOBTokens is the number of EOB bucket tokens, token 0 included.
	EOBTokens = 12
	// EOBFlagContexts holds one flag context per token 1..11 for 2-D
	// transform classes followed by another set for 1-D classes.
	EOBFlagContexts = 2 * (EOBTokens - 1)

	BaseEOBContexts = 4
	BaseContexts    = 12
	BRContexts      = 7

	// Alphabet sizes.
	BaseEOBSymbols = 3 // levels 1..3 at the last position
	BaseSymbols    = 4 // levels 0..3
	BRGroups       = 4 // three bounded groups plus the Golomb escape
	BRGroupSize    = 8

	// QContexts is the number of quantizer classes with distinct defaults.
	QContexts = 4
)

// FrameContext is the complete set of adaptive coefficient CDFs. Each CDF
// has one more entry than its alphabet; the extra entry is the adaptation
// counter. Every CDF is non-increasing and its last probability entry
// (index alphabet-1) is 0. The zero value is not usable; see
// NewDefaultFrameContext.
type FrameContext struct {
	TxbSkip  [TxSizeContexts][TxbSkipContexts][3]uint16
	EOBFlag  [TxSizeContexts][PlaneTypes][EOBFlagContexts][3]uint16
	EOBExtra [TxSizeContexts][PlaneTypes][EOBTokens][3]uint16
	BaseEOB  [TxSizeContexts][PlaneTypes][BaseEOBContexts][BaseEOBSymbols + 1]uint16
	Base     [TxSizeContexts][PlaneTypes][BaseContexts][BaseSymbols + 1]uint16
	BRGroup  [TxSizeContexts][PlaneTypes][BRContexts][BRGroups + 1]uint16
	BRExtra  [TxSizeContexts][PlaneTypes][BRContexts][BRGroupSize + 1]uint16
	DCSign   [PlaneTypes][DCSignContexts][3]uint16
}

// Clone returns a deep copy of fc.
func (fc *FrameContext) Clone() *FrameContext {
	c := *fc
	return &c
}

// Equal reports whether fc and o hold identical CDFs and counters.
func (fc *FrameContext) Equal(o *FrameContext) bool {
	return *fc == *o
}

// ResetCounters clears the adaptation counter of every CDF, so that the next
// frame coded with fc adapts at the fast initial rate again.
func (fc *FrameContext) ResetCounters() {
	fc.forEachCDF(func(cdf []uint16, nsyms int) {
		cdf[nsyms] = 0
	})
}

// Average returns a FrameContext whose CDFs are the rounded mean of the
// corresponding CDFs in ctxs. Counters of the result are zero. It returns
// nil if ctxs is empty.
func Average(ctxs ...*FrameContext) *FrameContext {
	if len(ctxs) == 0 {
		return nil
	}
	out := ctxs[0].Clone()
	if len(ctxs) == 1 {
		out.ResetCounters()
		return out
	}

	n := len(ctxs)
	sums := make([]int, 0, 4096)
	for _, fc := range ctxs {
		i := 0
		fc.forEachCDF(func(cdf []uint16, nsyms int) {
			for k := 0; k < nsyms; k++ {
				if i == len(sums) {
					sums = append(sums, 0)
				}
				sums[i] += int(cdf[k])
				i++
			}
		})
	}

	i := 0
	out.forEachCDF(func(cdf []uint16, nsyms int) {
		for k := 0; k < nsyms; k++ {
			cdf[k] = uint16((sums[i] + n/2) / n)
			i++
		}
		cdf[nsyms] = 0
	})
	return out
}

// forEachCDF calls fn for every CDF in fc in a fixed order.
func (fc *FrameContext) forEachCDF(fn func(cdf []uint16, nsyms int)) {
	for t := range fc.TxbSkip {
		for c := range fc.TxbSkip[t] {
			fn(fc.TxbSkip[t][c][:], 2)
		}
	}
	for t := 0; t < TxSizeContexts; t++ {
		for p := 0; p < PlaneTypes; p++ {
			for c := range fc.EOBFlag[t][p] {
				fn(fc.EOBFlag[t][p][c][:], 2)
			}
			for c := range fc.EOBExtra[t][p] {
				fn(fc.EOBExtra[t][p][c][:], 2)
			}
			for c := range fc.BaseEOB[t][p] {
				fn(fc.BaseEOB[t][p][c][:], BaseEOBSymbols)
			}
			for c := range fc.Base[t][p] {
				fn(fc.Base[t][p][c][:], BaseSymbols)
			}
			for c := range fc.BRGroup[t][p] {
				fn(fc.BRGroup[t][p][c][:], BRGroups)
			}
			for c := range fc.BRExtra[t][p] {
				fn(fc.BRExtra[t][p][c][:], BRGroupSize)
			}
		}
	}
	for p := range fc.DCSign {
		for c := range fc.DCSign[p] {
			fn(fc.DCSign[p][c][:], 2)
		}
	}
}
