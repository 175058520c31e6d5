package binder

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

type flushWriter interface {
	io.Writer
	io.ByteWriter
	io.StringWriter
	Flush() error
}

// Writer serializes objects and primitives for one session. It wraps a buffered
// writer, resolves object tokens through its Registry and tracks the first error.
// After an error, all subsequent write operations become no-ops.
type Writer struct {
	w     flushWriter
	reg   *Registry
	count int64 // total bytes written
	err   error // first error encountered
	depth int
	order binary.ByteOrder
}

// NewWriterSize creates a new Writer with a specified buffer size.
// It returns an error to prevent double-buffering, a common source of bugs.
func NewWriterSize(w io.Writer, reg *Registry, size int) (*Writer, error) {
	if w == nil {
		return nil, ErrNilIO
	}
	if reg == nil {
		return nil, ErrNilRegistry
	}

	switch bw := w.(type) {
	// A nested writer shares the outer buffer; only the outermost one flushes.
	case *Writer:
		return &Writer{w: bw.w, reg: reg, depth: bw.depth + 1, order: Order}, nil

	// prevent unpredictable double-buffering.
	case *bufio.Writer:
		if bw.Size() >= size {
			return &Writer{w: bw, reg: reg, depth: 1, order: Order}, nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is a buf so we don't need buffering
	case *BytesWriter:
		return &Writer{w: bw, reg: reg, order: Order}, nil
	case *bytes.Buffer:
		return &Writer{w: bytesBufferWriterAdapter{bw}, reg: reg, order: Order}, nil
	}

	return &Writer{w: bufio.NewWriterSize(w, size), reg: reg, order: Order}, nil
}

// NewWriter creates a new Writer with a default buffer size.
func NewWriter(w io.Writer, reg *Registry) (*Writer, error) {
	return NewWriterSize(w, reg, 0)
}

// WithByteOrder sets the order used for fixed-width integers.
func (w *Writer) WithByteOrder(order binary.ByteOrder) *Writer {
	w.order = order
	return w
}

// Registry returns the session registry.
func (w *Writer) Registry() *Registry { return w.reg }

// Write implements the io.Writer interface.
func (w *Writer) Write(buf []byte) (int, error) {
	if buf == nil || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.Write(buf)
	if n < 0 {
		w.setError(ErrInvalidWrite)
		return 0, w.err
	}
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

// WriteString implements the io.StringWriter interface. The string is written
// raw; use WriteText for a length-prefixed field.
func (w *Writer) WriteString(str string) (int, error) {
	if str == "" || w.err != nil {
		return 0, w.err
	}
	n, err := w.w.WriteString(str)
	w.count += int64(n)
	w.setError(err)
	return n, w.err
}

func (w *Writer) Count() int64 { return w.count }
func (w *Writer) Err() error   { return w.err }

// setError records the first non-nil error.
// This preserves the root cause of a failure chain instead of a later,
// less relevant error.
func (w *Writer) setError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

// Result flushes the buffer and returns the final count and error state.
func (w *Writer) Result() (int64, error) {
	w.Flush()
	return w.count, w.err
}

// Flush writes any buffered data to the underlying io.Writer.
func (w *Writer) Flush() error {
	// Only the outermost writer is responsible for the final flush.
	if w.depth > 0 || w.err != nil {
		return w.err
	}
	err := w.w.Flush()
	w.setError(err)
	return err
}

// --- Objects ---

// WriteObject emits obj's token followed by its payload. The type is registered
// with the session registry on first use. A nil obj, including a typed nil
// pointer, is written as token zero.
func (w *Writer) WriteObject(obj Object) {
	if w.err != nil {
		return
	}
	if isNilObject(obj) {
		w.WriteUvarint(0)
		return
	}
	tag := obj.TypeTag()
	if !tag.Valid() {
		w.setError(fmt.Errorf("%w: object of Go type %T", ErrInvalidTag, obj))
		return
	}
	w.WriteToken(w.reg.GetOrAddToken(tag))
	obj.EncodeTo(w)
}

// WriteToken emits a token. Tokens are shifted by one so that zero stays free
// for the nil object.
func (w *Writer) WriteToken(tok Token) {
	if tok < 0 {
		w.setError(fmt.Errorf("%w: token %d", ErrTokenOutOfRange, tok))
		return
	}
	w.WriteUvarint(uint64(tok) + 1)
}

// --- Variable-length fields ---

func (w *Writer) WriteUvarint(v uint64) {
	if w.err != nil {
		return
	}
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, _ = w.Write(buf[:n])
}

func (w *Writer) WriteVarint(v int64) {
	if w.err != nil {
		return
	}
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutVarint(buf[:], v)
	_, _ = w.Write(buf[:n])
}

// WriteLenBytes writes a uvarint length followed by buf.
func (w *Writer) WriteLenBytes(buf []byte) {
	if w.err != nil {
		return
	}
	if len(buf) > MaxLenBytes {
		w.setError(fmt.Errorf("%w: %d bytes", ErrLengthExceeded, len(buf)))
		return
	}
	w.WriteUvarint(uint64(len(buf)))
	if len(buf) > 0 {
		_, _ = w.Write(buf)
	}
}

// WriteText writes a uvarint length followed by the bytes of s.
func (w *Writer) WriteText(s string) {
	if w.err != nil {
		return
	}
	if len(s) > MaxLenBytes {
		w.setError(fmt.Errorf("%w: %d bytes", ErrLengthExceeded, len(s)))
		return
	}
	w.WriteUvarint(uint64(len(s)))
	_, _ = w.WriteString(s)
}

// WriteBytes writes a byte slice without a length prefix.
func (w *Writer) WriteBytes(buf []byte) {
	if buf == nil || w.err != nil {
		return
	}
	_, _ = w.Write(buf)
}

// --- Primitive Write Operations ---

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

func (w *Writer) WriteByte(v byte) error {
	if w.err != nil {
		return w.err
	}
	err := w.w.WriteByte(v)
	if err == nil {
		w.count++
	} else {
		w.err = err
	}
	return err
}

func (w *Writer) WriteUint8(v uint8) { _ = w.WriteByte(v) }
func (w *Writer) WriteInt8(v int8)   { _ = w.WriteByte(uint8(v)) }

func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}
	var buf [2]byte
	w.order.PutUint16(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	var buf [4]byte
	w.order.PutUint32(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	var buf [8]byte
	w.order.PutUint64(buf[:], v)
	_, _ = w.Write(buf[:])
}

func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) }
func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) }
func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) }
