package binder

import (
	"bytes"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Blob is the persisted form of a session: the registry's type sequence and the
// payload it numbered. Tokens in Payload are only meaningful against Types, so
// the two are always stored and loaded as one unit.
type Blob struct {
	Types   []TypeTag `cbor:"1,keyasint"`
	Payload []byte    `cbor:"2,keyasint"`
}

// blobWire carries Blob's fields without its methods, so the CBOR codec encodes
// the struct instead of calling back into MarshalBinary.
type blobWire Blob

var (
	blobEnc cbor.EncMode
	blobDec cbor.DecMode
)

func init() {
	var err error
	// Canonical encoding keeps equal sessions byte-identical in storage.
	if blobEnc, err = cbor.CanonicalEncOptions().EncMode(); err != nil {
		panic(err)
	}
	if blobDec, err = (cbor.DecOptions{MaxArrayElements: 1 << 20}).DecMode(); err != nil {
		panic(err)
	}
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (b *Blob) MarshalBinary() ([]byte, error) {
	return blobEnc.Marshal((*blobWire)(b))
}

// MarshalTo encodes the blob into dst without allocating the output. It returns
// the number of bytes written, or io.ErrShortWrite when dst is too small.
func (b *Blob) MarshalTo(dst []byte) (int, error) {
	w := NewBytesWriter(dst)
	if err := blobEnc.NewEncoder(w).Encode((*blobWire)(b)); err != nil {
		return w.Len(), err
	}
	return w.Len(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (b *Blob) UnmarshalBinary(data []byte) error {
	if err := blobDec.Unmarshal(data, (*blobWire)(b)); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBlob, err)
	}
	return nil
}

// Seed rebuilds the blob's token space in reg by replaying its type order.
// reg must be empty. Reconstruction functions are borrowed from reg's binder.
// On error neither reg nor its binder is modified.
func (b *Blob) Seed(reg *Registry) error {
	if reg.Len() != 0 {
		return fmt.Errorf("%w: destination holds %d entries", ErrCopyIntoNonEmpty, reg.Len())
	}
	if err := b.validate(); err != nil {
		return err
	}
	for _, tag := range b.Types {
		reg.GetOrAddToken(tag)
	}
	return nil
}

// validate checks that Types is a usable token space: every tag set, none repeated.
func (b *Blob) validate() error {
	seen := make(map[TypeTag]int, len(b.Types))
	for i, tag := range b.Types {
		if !tag.Valid() {
			return fmt.Errorf("%w: empty tag at token %d", ErrMalformedBlob, i)
		}
		if j, ok := seen[tag]; ok {
			return fmt.Errorf("%w: tag %q at tokens %d and %d", ErrMalformedBlob, tag, j, i)
		}
		seen[tag] = i
	}
	return nil
}

// DecodeBlob parses the envelope without materializing any object.
func DecodeBlob(data []byte) (*Blob, error) {
	b := new(Blob)
	if err := b.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return b, nil
}

// Encode serializes objs in order into a self-contained blob.
func Encode(b Binder, objs ...Object) ([]byte, error) {
	reg := acquireRegistry(b)
	defer releaseRegistry(reg)

	buf := bytesBufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bytesBufPool.Put(buf)

	w, err := NewWriter(buf, reg)
	if err != nil {
		return nil, err
	}
	for _, obj := range objs {
		w.WriteObject(obj)
	}
	if _, err := w.Result(); err != nil {
		return nil, err
	}

	blob := Blob{Types: reg.Types(), Payload: buf.Bytes()}
	return blob.MarshalBinary()
}

// Decode materializes every object of a blob produced by Encode, in the order
// they were written. Types must have readers bound in b.
func Decode(b Binder, data []byte) ([]Object, error) {
	blob, err := DecodeBlob(data)
	if err != nil {
		return nil, err
	}

	reg := acquireRegistry(b)
	defer releaseRegistry(reg)
	if err := blob.Seed(reg); err != nil {
		return nil, err
	}

	src := NewBytesReader(blob.Payload)
	r, err := NewReader(src, reg)
	if err != nil {
		return nil, err
	}
	var objs []Object
	for src.Available() > 0 {
		obj := r.ReadObject()
		if err := r.Err(); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
