package txb

import (
	"errors"
	"testing"

	"github.com/deepteams/av1coeff/internal/bitio"
	"github.com/deepteams/av1coeff/internal/entropy"
)

func TestGolomb_RoundTrip(t *testing.T) {
	values := []int{0, 1, 2, 3, 6, 7, 100, 255, 256, 1 << 16, MaxLevel - golombBase}
	w := bitio.NewSymbolWriter(0)
	for _, v := range values {
		writeGolomb(w, v)
	}
	r := bitio.NewSymbolReader(w.Finish())
	for _, want := range values {
		got, err := readGolomb(r)
		if err != nil {
			t.Fatalf("readGolomb: %v", err)
		}
		if got != want {
			t.Errorf("readGolomb = %d, want %d", got, want)
		}
	}
}

func TestGolomb_Cost(t *testing.T) {
	tests := []struct{ v, bits int }{
		{0, 1},
		{1, 3},
		{2, 3},
		{3, 5},
		{6, 5},
		{7, 7},
	}
	for _, tt := range tests {
		if got := golombCost(tt.v); got != tt.bits*entropy.BitCost {
			t.Errorf("golombCost(%d) = %d, want %d", tt.v, got, tt.bits*entropy.BitCost)
		}
		if got := 2*golombLength(tt.v) - 1; got != tt.bits {
			t.Errorf("golombLength(%d) gives %d bits, want %d", tt.v, got, tt.bits)
		}
	}
}

func TestGolomb_TooLong(t *testing.T) {
	w := bitio.NewSymbolWriter(0)
	for i := 0; i < 40; i++ {
		w.WriteBit(0)
	}
	w.WriteBit(1)
	r := bitio.NewSymbolReader(w.Finish())
	if _, err := readGolomb(r); !errors.Is(err, ErrGolombLength) {
		t.Errorf("readGolomb error = %v, want ErrGolombLength", err)
	}
}
