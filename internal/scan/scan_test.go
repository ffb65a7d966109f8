package scan

import "testing"

func TestTxSize_Geometry(t *testing.T) {
	tests := []struct {
		size     TxSize
		w, h     int
		maxEOB   int
		sizeCtx  int
		scale    int
		adjusted TxSize
		name     string
	}{
		{Tx4x4, 4, 4, 16, 0, 0, Tx4x4, "4x4"},
		{Tx8x8, 8, 8, 64, 1, 0, Tx8x8, "8x8"},
		{Tx16x16, 16, 16, 256, 2, 0, Tx16x16, "16x16"},
		{Tx32x32, 32, 32, 1024, 3, 1, Tx32x32, "32x32"},
		{Tx64x64, 64, 64, 1024, 4, 2, Tx32x32, "64x64"},
		{Tx4x8, 4, 8, 32, 1, 0, Tx4x8, "4x8"},
		{Tx8x4, 8, 4, 32, 1, 0, Tx8x4, "8x4"},
		{Tx8x16, 8, 16, 128, 2, 0, Tx8x16, "8x16"},
		{Tx16x8, 16, 8, 128, 2, 0, Tx16x8, "16x8"},
		{Tx16x32, 16, 32, 512, 3, 1, Tx16x32, "16x32"},
		{Tx32x16, 32, 16, 512, 3, 1, Tx32x16, "32x16"},
		{Tx32x64, 32, 64, 1024, 4, 2, Tx32x32, "32x64"},
		{Tx64x32, 64, 32, 1024, 4, 2, Tx32x32, "64x32"},
		{Tx4x16, 4, 16, 64, 1, 0, Tx4x16, "4x16"},
		{Tx16x4, 16, 4, 64, 1, 0, Tx16x4, "16x4"},
		{Tx8x32, 8, 32, 256, 2, 0, Tx8x32, "8x32"},
		{Tx32x8, 32, 8, 256, 2, 0, Tx32x8, "32x8"},
		{Tx16x64, 16, 64, 512, 3, 1, Tx16x32, "16x64"},
		{Tx64x16, 64, 16, 512, 3, 1, Tx32x16, "64x16"},
	}
	if len(tests) != int(NumTxSizes) {
		t.Fatalf("table covers %d sizes, want %d", len(tests), NumTxSizes)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.size
			if s.Width() != tt.w || s.Height() != tt.h {
				t.Errorf("dims = %dx%d, want %dx%d", s.Width(), s.Height(), tt.w, tt.h)
			}
			if got := s.MaxEOB(); got != tt.maxEOB {
				t.Errorf("MaxEOB = %d, want %d", got, tt.maxEOB)
			}
			if got := s.SizeContext(); got != tt.sizeCtx {
				t.Errorf("SizeContext = %d, want %d", got, tt.sizeCtx)
			}
			if got := s.Scale(); got != tt.scale {
				t.Errorf("Scale = %d, want %d", got, tt.scale)
			}
			if got := s.Adjusted(); got != tt.adjusted {
				t.Errorf("Adjusted = %v, want %v", got, tt.adjusted)
			}
			if got := s.String(); got != tt.name {
				t.Errorf("String = %q, want %q", got, tt.name)
			}
		})
	}
}

func TestTxType_Class(t *testing.T) {
	for typ := TxType(0); typ < NumTxTypes; typ++ {
		want := Class2D
		switch typ {
		case VDCT, VADST, VFlipADST:
			want = ClassVert
		case HDCT, HADST, HFlipADST:
			want = ClassHoriz
		}
		if got := typ.Class(); got != want {
			t.Errorf("%v.Class() = %d, want %d", typ, got, want)
		}
	}
	if got := NumTxTypes.String(); got != "TxType(16)" {
		t.Errorf("invalid type String = %q", got)
	}
}

func TestZigzag4x4(t *testing.T) {
	want := []int16{0, 1, 4, 8, 5, 2, 3, 6, 9, 12, 13, 10, 7, 11, 14, 15}
	o := Get(Tx4x4, DCTDCT)
	for i := range want {
		if o.Scan[i] != want[i] {
			t.Fatalf("scan = %v, want %v", o.Scan, want)
		}
	}
}

func TestOrders_Permutation(t *testing.T) {
	for s := TxSize(0); s < NumTxSizes; s++ {
		for typ := TxType(0); typ < NumTxTypes; typ++ {
			o := Get(s, typ)
			n := s.MaxEOB()
			if len(o.Scan) != n || len(o.IScan) != n || len(o.Neighbors) != n {
				t.Fatalf("%v/%v: table lengths %d/%d/%d, want %d",
					s, typ, len(o.Scan), len(o.IScan), len(o.Neighbors), n)
			}
			if o.Width != s.CodedWidth() || o.Height != s.CodedHeight() {
				t.Fatalf("%v/%v: region %dx%d", s, typ, o.Width, o.Height)
			}
			if o.Scan[0] != 0 {
				t.Errorf("%v/%v: scan starts at %d, want DC", s, typ, o.Scan[0])
			}
			seen := make([]bool, n)
			for c, pos := range o.Scan {
				if seen[pos] {
					t.Fatalf("%v/%v: raster %d visited twice", s, typ, pos)
				}
				seen[pos] = true
				if int(o.IScan[pos]) != c {
					t.Fatalf("%v/%v: IScan[%d] = %d, want %d", s, typ, pos, o.IScan[pos], c)
				}
			}
		}
	}
}

func TestOrders_NeighborsAreCausal(t *testing.T) {
	for s := TxSize(0); s < NumTxSizes; s++ {
		for _, typ := range []TxType{DCTDCT, HDCT, VDCT} {
			o := Get(s, typ)
			for c, nb := range o.Neighbors {
				pos := int(o.Scan[c])
				row, col := pos/o.Width, pos%o.Width
				for k, p := range nb {
					if p == NoNeighbor {
						if k == 0 && col+1 < o.Width || k == 1 && row+1 < o.Height {
							t.Fatalf("%v/%v: missing neighbour %d of raster %d", s, typ, k, pos)
						}
						continue
					}
					if int(o.IScan[p]) <= c {
						t.Fatalf("%v/%v: neighbour %d of scan %d is scanned at %d",
							s, typ, p, c, o.IScan[p])
					}
				}
			}
		}
	}
}

func TestOrders_ClassShapes(t *testing.T) {
	row := Get(Tx8x4, VADST)
	for c, pos := range row.Scan {
		if int(pos) != c {
			t.Fatalf("vertical class scan not row-major at %d: %d", c, pos)
		}
	}
	col := Get(Tx8x4, HADST)
	if col.Scan[1] != 8 || col.Scan[4] != 1 {
		t.Errorf("horizontal class scan not column-major: %v", col.Scan[:5])
	}
}

func TestOrders_SharedForLargeSizes(t *testing.T) {
	if Get(Tx64x64, DCTDCT) != Get(Tx32x32, DCTDCT) {
		t.Error("64x64 does not share the 32x32 order")
	}
	if Get(Tx64x16, IDTX) != Get(Tx32x16, DCTDCT) {
		t.Error("64x16 does not share the 32x16 order")
	}
}
