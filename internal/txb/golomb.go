package txb

import (
	"math/bits"

	"github.com/deepteams/av1coeff/internal/bitio"
	"github.com/deepteams/av1coeff/internal/entropy"
)

// maxGolombLength is the prefix length at which a Golomb code is rejected.
const maxGolombLength = 32

// writeGolomb codes v >= 0 as an order-0 exponential Golomb code with raw
// bits: length-1 zeros followed by the length bits of v+1, MSB first.
func writeGolomb(w *bitio.SymbolWriter, v int) {
	x := uint32(v) + 1
	length := bits.Len32(x)
	for i := 1; i < length; i++ {
		w.WriteBit(0)
	}
	for i := length - 1; i >= 0; i-- {
		w.WriteBit(int(x>>uint(i)) & 1)
	}
}

// readGolomb is the inverse of writeGolomb. It fails with ErrGolombLength
// once the zero prefix reaches maxGolombLength bits.
func readGolomb(r *bitio.SymbolReader) (int, error) {
	length := 0
	for {
		bit := r.ReadBit()
		length++
		if length >= maxGolombLength {
			return 0, ErrGolombLength
		}
		if bit == 1 {
			break
		}
	}
	x := 1
	for i := 1; i < length; i++ {
		x = x<<1 | r.ReadBit()
	}
	return x - 1, nil
}

// golombLength returns the number of significant bits of v+1.
func golombLength(v int) int {
	return bits.Len32(uint32(v) + 1)
}

// golombCost returns the cost of writeGolomb(v).
func golombCost(v int) int {
	return (2*golombLength(v) - 1) * entropy.BitCost
}
