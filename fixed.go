package binder

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/puzpuzpuz/xsync/v4"
)

// sizeCache memoizes binary.Size per dynamic type.
var sizeCache = xsync.NewMap[reflect.Type, int]()

// fixedSize returns the encoded size of v, or -1 when v contains variable-size
// fields like slices, maps, or strings.
func fixedSize(v any) int {
	t := reflect.TypeOf(v)
	if size, ok := sizeCache.Load(t); ok {
		return size
	}
	size := binary.Size(v)
	sizeCache.Store(t, size)
	return size
}

// WriteFixed writes v, a fixed-size value or pointer to one, using the writer's
// byte order.
func (w *Writer) WriteFixed(v any) {
	if w.err != nil {
		return
	}
	size := fixedSize(v)
	if size < 0 {
		w.setError(fmt.Errorf("%w: %T", ErrNotFixedSize, v))
		return
	}
	buf := make([]byte, size)
	if _, err := binary.Encode(buf, w.order, v); err != nil {
		w.setError(fmt.Errorf("%w: %T", ErrNotFixedSize, v))
		return
	}
	_, _ = w.Write(buf)
}

// ReadFixed reads a value written by WriteFixed into dest, which must be a pointer.
func (r *Reader) ReadFixed(dest any) {
	if r.err != nil {
		return
	}
	size := fixedSize(dest)
	if size < 0 {
		r.setError(fmt.Errorf("%w: %T", ErrNotFixedSize, dest))
		return
	}
	buf := r.readFull(size)
	if r.err != nil {
		return
	}
	if _, err := binary.Decode(buf, r.order, dest); err != nil {
		r.setError(ErrTruncatedData)
	}
}

// FixedReadFunc builds the reconstruction function for a leaf type whose whole
// payload is one fixed-size value of type T, as written by WriteFixed.
func FixedReadFunc[T any](build func(T) Object) ReadFunc {
	return func(r *Reader) (Object, error) {
		var v T
		r.ReadFixed(&v)
		if err := r.Err(); err != nil {
			return nil, err
		}
		return build(v), nil
	}
}
