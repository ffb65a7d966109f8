package entropy

import "github.com/deepteams/av1coeff/internal/bitio"

// QContext maps a quantizer index (0..255) to one of QContexts default
// probability classes.
func QContext(qindex int) int {
	switch {
	case qindex <= 20:
		return 0
	case qindex <= 60:
		return 1
	case qindex <= 120:
		return 2
	default:
		return 3
	}
}

// NewDefaultFrameContext returns the initial coefficient CDFs for a frame
// coded at quantizer index qindex. Coarser quantizers start with more mass
// on zero levels, skipped blocks and early EOBs. All counters are zero.
func NewDefaultFrameContext(qindex int) *FrameContext {
	fc := &FrameContext{}
	qc := QContext(qindex)

	for t := 0; t < TxSizeContexts; t++ {
		for c := 0; c < TxbSkipContexts; c++ {
			bitio.InitCDF(fc.TxbSkip[t][c][:], 8+2*c+2*t, 4+6*qc+(TxbSkipContexts-1-c))
		}
		for p := 0; p < PlaneTypes; p++ {
			initSizePlane(fc, t, p, qc)
		}
	}

	for p := 0; p < PlaneTypes; p++ {
		bitio.InitCDF(fc.DCSign[p][0][:], 1, 1)
		bitio.InitCDF(fc.DCSign[p][1][:], 2, 3)
		bitio.InitCDF(fc.DCSign[p][2][:], 3, 2)
	}
	return fc
}

func initSizePlane(fc *FrameContext, t, p, qc int) {
	for c := 0; c < EOBFlagContexts; c++ {
		token := c%(EOBTokens-1) + 1
		yes := 4 + 2*qc
		if token == 1 {
			yes += 4
		}
		bitio.InitCDF(fc.EOBFlag[t][p][c][:], 8+token+t+p, yes)
	}
	for c := 0; c < EOBTokens; c++ {
		bitio.InitCDF(fc.EOBExtra[t][p][c][:], 3, 2)
	}

	for c := 0; c < BaseEOBContexts; c++ {
		bitio.InitCDF(fc.BaseEOB[t][p][c][:], 16+2*qc, 6+c, 3+c)
	}
	for c := 0; c < BaseContexts; c++ {
		region, mag := c/4, c%4
		bitio.InitCDF(fc.Base[t][p][c][:],
			20+4*qc-4*mag+2*region+p,
			8+mag,
			3+mag,
			1+mag)
	}

	for c := 0; c < BRContexts; c++ {
		bitio.InitCDF(fc.BRGroup[t][p][c][:], 12+qc, 4+c/2, 2, 1)
		bitio.InitCDF(fc.BRExtra[t][p][c][:], 8, 7, 6, 5, 4, 3, 2, 1+c%2)
	}
}
