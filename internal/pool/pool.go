// Package pool provides bucketed sync.Pool instances for the int32 scratch
// arrays of the coefficient coder. Buffers are organized by size class to
// minimize waste.
package pool

import "sync"

// Size classes, in elements. The largest covers a full 32x32 coded region.
const (
	Size16   = 16
	Size64   = 64
	Size256  = 256
	Size1024 = 1024
)

// bucketIndex returns the pool index for a given length.
func bucketIndex(n int) int {
	switch {
	case n <= Size16:
		return 0
	case n <= Size64:
		return 1
	case n <= Size256:
		return 2
	default:
		return 3
	}
}

var sizes = [4]int{Size16, Size64, Size256, Size1024}

var pools [4]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]int32, sz)
				return &b
			},
		}
	}
}

// GetInt32 returns a zeroed int32 slice of the requested length from the
// pool. The returned slice may have a larger capacity. The caller must call
// PutInt32 when done.
func GetInt32(n int) []int32 {
	idx := bucketIndex(n)
	bp := pools[idx].Get().(*[]int32)
	b := *bp
	if cap(b) < n {
		return make([]int32, n)
	}
	b = b[:n]
	clear(b)
	return b
}

// PutInt32 returns a slice to the pool. Slices smaller than Size16 are not
// pooled.
func PutInt32(b []int32) {
	c := cap(b)
	if c < Size16 {
		return
	}
	idx := bucketIndex(c)
	if c < sizes[idx] {
		// A slice between two classes serves the class below it.
		idx--
	}
	b = b[:c]
	pools[idx].Put(&b)
}
