package txb

import "errors"

// Decoding errors. Every corrupt-stream error wraps ErrCorrupt.
var (
	ErrCorrupt      = errors.New("txb: corrupt coefficient data")
	ErrGolombLength = errors.New("txb: golomb prefix too long")
)

// Encoding contract violations.
var (
	ErrEOBRange   = errors.New("txb: eob out of range")
	ErrLevelRange = errors.New("txb: level out of range")
)
