package binder

import "errors"

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("binder: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrNilRegistry indicates that NewReader/NewWriter was called without a type registry.
	ErrNilRegistry = errors.New("binder: NewReader/NewWriter called with a nil registry")

	// ErrAlreadyBuffered indicates that NewReader/NewWriter was called with an already-buffered
	// reader/writer, which would lead to unpredictable behavior and performance issues.
	ErrAlreadyBuffered = errors.New("binder: reader or writer is already buffered")

	// ErrTypeNotRegistered is returned by Registry.Token for a type that was never
	// announced to the registry. It always indicates a programming error on the write path.
	ErrTypeNotRegistered = errors.New("binder: type not yet registered")

	// ErrTokenOutOfRange indicates a token that was never assigned by the registry.
	// On the read path this means stream corruption or a registry that was not built
	// with the same provenance as the writer's.
	ErrTokenOutOfRange = errors.New("binder: token out of range")

	// ErrCopyIntoNonEmpty is returned by Registry.CopyFrom when the destination already
	// holds entries. The destination is left untouched.
	ErrCopyIntoNonEmpty = errors.New("binder: copy into non-empty registry")

	// ErrInvalidTag indicates an empty type tag.
	ErrInvalidTag = errors.New("binder: invalid type tag")

	// ErrNoReader indicates that a token resolved to a type with no reconstruction function,
	// neither in the session registry nor in its binder.
	ErrNoReader = errors.New("binder: no reader registered for type")

	// ErrNilObject indicates a reconstruction function returned a nil object without an error.
	ErrNilObject = errors.New("binder: reader produced a nil object")

	// ErrLengthExceeded indicates a length prefix larger than MaxLenBytes.
	ErrLengthExceeded = errors.New("binder: length prefix exceeds limit")

	// ErrVarintOverflow indicates a varint that does not fit in 64 bits.
	ErrVarintOverflow = errors.New("binder: varint overflows a 64-bit integer")

	// ErrInvalidWrite indicates that an io.Writer returned an invalid (negative) count from Write.
	ErrInvalidWrite = errors.New("binder: writer returned invalid count from Write")

	// ErrTruncatedData indicates that a read operation could not complete because the
	// underlying data source ended before all expected bytes were read.
	ErrTruncatedData = errors.New("binder: truncated data")

	// ErrNotFixedSize indicates a value passed to WriteFixed/ReadFixed that contains
	// variable-size fields like slices, maps, or strings.
	ErrNotFixedSize = errors.New("binder: value is not fixed-size")

	// ErrMalformedBlob indicates a persisted blob whose envelope could not be decoded.
	ErrMalformedBlob = errors.New("binder: malformed blob")
)
