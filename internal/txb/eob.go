package txb

import (
	"github.com/deepteams/av1coeff/internal/bitio"
	"github.com/deepteams/av1coeff/internal/entropy"
	"github.com/deepteams/av1coeff/internal/scan"
)

// EOB positions are grouped into tokens: token t covers
// [eobGroupStart[t], eobGroupStart[t] + 1<<eobOffsetBits[t]).
var eobGroupStart = [entropy.EOBTokens]int{0, 1, 2, 3, 5, 9, 17, 33, 65, 129, 257, 513}
var eobOffsetBits = [entropy.EOBTokens]int{0, 0, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9}

var eobToPosSmall = [33]int8{
	0, 1, 2,
	3, 3,
	4, 4, 4, 4,
	5, 5, 5, 5, 5, 5, 5, 5,
	6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
}

var eobToPosLarge = [17]int8{
	6,
	7,
	8, 8,
	9, 9, 9, 9,
	10, 10, 10, 10, 10, 10, 10, 10,
	11,
}

// eobToken splits eob (>= 1) into its token and the offset inside the
// token's bucket.
func eobToken(eob int) (token, extra int) {
	if eob < 33 {
		token = int(eobToPosSmall[eob])
	} else {
		token = int(eobToPosLarge[min((eob-1)>>5, 16)])
	}
	return token, eob - eobGroupStart[token]
}

// eobFromToken is the inverse of eobToken.
func eobFromToken(token, extra int) int {
	eob := eobGroupStart[token]
	if eob > 2 {
		eob += extra
	}
	return eob
}

// eobFlagContext returns the EOBFlag context of token for transform class
// class. 1-D classes use their own set.
func eobFlagContext(token int, class scan.TxClass) int {
	ctx := token - 1
	if class != scan.Class2D {
		ctx += entropy.EOBTokens - 1
	}
	return ctx
}

// writeEOB codes eob (1..segEOB): one flag per token up to the coded token,
// then the token's offset bits, MSB first. Only the first offset bit is
// context coded.
func writeEOB(w *bitio.SymbolWriter, fc *entropy.FrameContext, txs, pt int, class scan.TxClass, eob, segEOB int) {
	token, extra := eobToken(eob)
	maxToken, _ := eobToken(segEOB)
	for i := 1; i < maxToken; i++ {
		flag := 0
		if i == token {
			flag = 1
		}
		w.WriteBool(flag, fc.EOBFlag[txs][pt][eobFlagContext(i, class)][:])
		if flag == 1 {
			break
		}
	}

	bits := eobOffsetBits[token]
	if bits == 0 {
		return
	}
	w.WriteBool((extra>>(bits-1))&1, fc.EOBExtra[txs][pt][token][:])
	for i := 1; i < bits; i++ {
		w.WriteBit((extra >> (bits - 1 - i)) & 1)
	}
}

// readEOB is the inverse of writeEOB. The result is always in [1, segEOB]
// for the power-of-two segEOB values of the supported sizes.
func readEOB(r *bitio.SymbolReader, fc *entropy.FrameContext, txs, pt int, class scan.TxClass, segEOB int) int {
	maxToken, _ := eobToken(segEOB)
	token := maxToken
	for i := 1; i < maxToken; i++ {
		if r.ReadBool(fc.EOBFlag[txs][pt][eobFlagContext(i, class)][:]) == 1 {
			token = i
			break
		}
	}

	extra := 0
	if bits := eobOffsetBits[token]; bits > 0 {
		if r.ReadBool(fc.EOBExtra[txs][pt][token][:]) == 1 {
			extra = 1 << (bits - 1)
		}
		for i := 1; i < bits; i++ {
			extra |= r.ReadBit() << (bits - 1 - i)
		}
	}
	return eobFromToken(token, extra)
}

// eobCost returns the cost of coding eob under cc.
func eobCost(cc *entropy.CoeffCosts, class scan.TxClass, eob, segEOB int) int {
	token, extra := eobToken(eob)
	maxToken, _ := eobToken(segEOB)
	cost := 0
	for i := 1; i < maxToken; i++ {
		ctx := eobFlagContext(i, class)
		if i == token {
			cost += cc.EOBFlag[ctx][1]
			break
		}
		cost += cc.EOBFlag[ctx][0]
	}
	if bits := eobOffsetBits[token]; bits > 0 {
		cost += cc.EOBExtra[token][(extra>>(bits-1))&1]
		cost += (bits - 1) * entropy.BitCost
	}
	return cost
}
