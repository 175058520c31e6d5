package binder

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

type byteReader interface {
	io.Reader
	io.ByteReader
}

// Reader materializes objects and primitives for one session. It resolves
// tokens through its Registry and tracks the first error; subsequent reads
// become no-ops.
type Reader struct {
	r     byteReader
	reg   *Registry
	count int64 // total bytes read
	err   error // first error encountered.
	order binary.ByteOrder
}

// NewReaderSize creates a new Reader with a specified buffer size.
func NewReaderSize(r io.Reader, reg *Registry, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	if reg == nil {
		return nil, ErrNilRegistry
	}

	switch reader := r.(type) {
	// Reuse the underlying source if it's already a Reader.
	case *Reader:
		return &Reader{r: reader.r, reg: reg, order: Order}, nil

	// prevent unpredictable double-buffering.
	case *bufio.Reader:
		if reader.Size() >= size {
			return &Reader{r: reader, reg: reg, order: Order}, nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is a buf so we don't need buffering
	case *BytesReader:
		return &Reader{r: reader, reg: reg, order: Order}, nil
	case *bytes.Reader:
		return &Reader{r: reader, reg: reg, order: Order}, nil
	case *bytes.Buffer:
		return &Reader{r: reader, reg: reg, order: Order}, nil
	}

	return &Reader{r: bufio.NewReaderSize(r, size), reg: reg, order: Order}, nil
}

// NewReader creates a new Reader with a default buffer size.
func NewReader(r io.Reader, reg *Registry) (*Reader, error) {
	return NewReaderSize(r, reg, 0)
}

// WithByteOrder sets the order used for fixed-width integers.
func (r *Reader) WithByteOrder(order binary.ByteOrder) *Reader {
	r.order = order
	return r
}

// Registry returns the session registry.
func (r *Reader) Registry() *Registry { return r.reg }

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	r.count += int64(n)
	r.setError(err)
	return n, r.err
}

func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}

// --- Objects ---

// ReadToken reads one token. ok is false when the stream holds the nil object.
func (r *Reader) ReadToken() (tok Token, ok bool) {
	var v uint64
	r.ReadUvarint(&v)
	if r.err != nil || v == 0 {
		return 0, false
	}
	tok, err := toToken(v - 1)
	if err != nil {
		r.setError(err)
		return 0, false
	}
	return tok, true
}

// ReadObject reads a token and dispatches to the reconstruction function bound
// to it. A placeholder row falls back to the registry's binder; a function found
// there is attached to the row for the rest of the session. The nil object reads
// back as nil with no error.
func (r *Reader) ReadObject() Object {
	tok, ok := r.ReadToken()
	if !ok {
		return nil
	}
	entry, err := r.reg.EntryFromToken(tok)
	if err != nil {
		r.setError(err)
		return nil
	}

	fn := entry.Read
	if fn == nil {
		if b := r.reg.Binder(); b != nil {
			if fn, _ = b.Reader(entry.Tag); fn != nil {
				r.reg.RegisterReader(entry.Tag, fn)
			}
		}
	}
	if fn == nil {
		r.setError(fmt.Errorf("%w: %q (token %d)", ErrNoReader, entry.Tag, tok))
		return nil
	}

	obj, err := fn(r)
	// The token promised a payload, so running out of input here is truncation.
	if r.err == io.EOF {
		r.err = io.ErrUnexpectedEOF
	}
	if err != nil {
		r.setError(fmt.Errorf("binder: reading %q: %w", entry.Tag, err))
		return nil
	}
	if r.err != nil {
		return nil
	}
	if obj == nil {
		r.setError(fmt.Errorf("%w: %q", ErrNilObject, entry.Tag))
	}
	return obj
}

// --- Variable-length fields ---

func (r *Reader) ReadUvarint(dest *uint64) {
	if r.err != nil {
		return
	}
	v, err := binary.ReadUvarint(r)
	if err != nil {
		r.setVarintError(err)
		return
	}
	*dest = v
}

func (r *Reader) ReadVarint(dest *int64) {
	if r.err != nil {
		return
	}
	v, err := binary.ReadVarint(r)
	if err != nil {
		r.setVarintError(err)
		return
	}
	*dest = v
}

// setVarintError keeps the latched I/O error when there is one; anything else
// binary.ReadUvarint reports is an overflow.
func (r *Reader) setVarintError(err error) {
	switch {
	case err == io.ErrUnexpectedEOF && r.err == io.EOF:
		// the stream ended inside the varint
		r.err = err
	case r.err != nil:
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		r.err = err
	default:
		r.err = ErrVarintOverflow
	}
}

// ReadLenBytes reads a uvarint length and that many bytes.
func (r *Reader) ReadLenBytes() []byte {
	var n uint64
	r.ReadUvarint(&n)
	if r.err != nil {
		return nil
	}
	size, err := checkLen(n)
	if err != nil {
		r.setError(err)
		return nil
	}
	if size == 0 {
		return []byte{}
	}
	return r.readFull(size)
}

// ReadText reads a field written by Writer.WriteText.
func (r *Reader) ReadText(dest *string) {
	buf := r.ReadLenBytes()
	if r.err == nil {
		*dest = string(buf)
	}
}

// readFull is an internal helper to read an exact number of bytes.
func (r *Reader) readFull(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		// A partial read is different from a clean end-of-stream.
		if r.err == io.EOF {
			r.err = io.ErrUnexpectedEOF
		}
		r.setError(err)
		return nil
	}
	return buf
}

// ReadBytes reads n bytes and returns a new byte slice.
func (r *Reader) ReadBytes(n int) []byte {
	if n <= 0 {
		return nil
	}
	return r.readFull(n)
}

// --- Primitive Read Operations ---

func (r *Reader) ReadByte() (byte, error) {
	if r.err != nil {
		return 0, r.err
	}
	b, err := r.r.ReadByte()
	if err == nil {
		r.count++
	} else {
		r.err = err
	}
	return b, err
}

func (r *Reader) ReadBool(dest *bool) {
	if b, err := r.ReadByte(); err == nil {
		*dest = b != 0
	}
}

func (r *Reader) ReadUint8(dest *uint8) {
	if b, err := r.ReadByte(); err == nil {
		*dest = b
	}
}

func (r *Reader) ReadInt8(dest *int8) {
	if b, err := r.ReadByte(); err == nil {
		*dest = int8(b)
	}
}

func (r *Reader) ReadUint16(dest *uint16) {
	buf := r.readFull(2)
	if r.err == nil {
		*dest = r.order.Uint16(buf)
	}
}

func (r *Reader) ReadUint32(dest *uint32) {
	buf := r.readFull(4)
	if r.err == nil {
		*dest = r.order.Uint32(buf)
	}
}

func (r *Reader) ReadUint64(dest *uint64) {
	buf := r.readFull(8)
	if r.err == nil {
		*dest = r.order.Uint64(buf)
	}
}

func (r *Reader) ReadInt16(dest *int16) {
	buf := r.readFull(2)
	if r.err == nil {
		*dest = int16(r.order.Uint16(buf))
	}
}

func (r *Reader) ReadInt32(dest *int32) {
	buf := r.readFull(4)
	if r.err == nil {
		*dest = int32(r.order.Uint32(buf))
	}
}

func (r *Reader) ReadInt64(dest *int64) {
	buf := r.readFull(8)
	if r.err == nil {
		*dest = int64(r.order.Uint64(buf))
	}
}
