package binder

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

var (
	BE = binary.BigEndian
	LE = binary.LittleEndian
	// Order is default binary order
	Order = BE
)

// MaxLenBytes bounds every length-prefixed field. A larger prefix is treated as
// corruption rather than an allocation request.
const MaxLenBytes = 64 << 20 // 64MB

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T { return &v }

// toToken converts a decoded integer into a Token, rejecting values no registry
// could have issued.
func toToken[T constraints.Integer](v T) (Token, error) {
	if v < 0 || uint64(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: token %d", ErrTokenOutOfRange, v)
	}
	return Token(v), nil
}

// checkLen converts a decoded length prefix into an int bounded by MaxLenBytes.
func checkLen[T constraints.Integer](n T) (int, error) {
	if n < 0 || uint64(n) > MaxLenBytes {
		return 0, fmt.Errorf("%w: %d bytes", ErrLengthExceeded, n)
	}
	return int(n), nil
}
