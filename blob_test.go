package binder

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleObjects() []Object {
	return []Object{
		&pair{Left: Ptr(ident{Name: "a"}), Right: Ptr(literal{Value: 7})},
		Ptr(ident{Name: "b"}),
		nil,
		&pair{Left: Ptr(point{X: 3, Y: 4})},
	}
}

func TestBlob_RoundTrip(t *testing.T) {
	b := newTestBinder()

	data, err := Encode(b, sampleObjects()...)
	require.NoError(t, err)

	blob, err := DecodeBlob(data)
	require.NoError(t, err)
	assert.Equal(t, []TypeTag{tagPair, tagIdent, tagLiteral, tagPoint}, blob.Types)

	got, err := Decode(b, data)
	require.NoError(t, err)
	assert.Equal(t, sampleObjects(), got)
}

func TestEncode_SingleObject(t *testing.T) {
	data, err := Encode(newTestBinder(), Ptr(ident{Name: "x"}))
	require.NoError(t, err)

	blob, err := DecodeBlob(data)
	require.NoError(t, err)
	assert.Equal(t, []TypeTag{tagIdent}, blob.Types)
	assert.Equal(t, []byte{0x01, 0x01, 'x'}, blob.Payload)
}

func TestBlob_MarshalTo(t *testing.T) {
	blob := &Blob{Types: []TypeTag{tagIdent, tagPair}, Payload: []byte{0x02, 0x00, 0x00}}
	want, err := blob.MarshalBinary()
	require.NoError(t, err)

	buf := make([]byte, len(want)+8)
	n, err := blob.MarshalTo(buf)
	require.NoError(t, err)
	assert.Equal(t, want, buf[:n])

	_, err = blob.MarshalTo(make([]byte, len(want)-1))
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestBlob_EncodingIsDeterministic(t *testing.T) {
	b := newTestBinder()
	first, err := Encode(b, sampleObjects()...)
	require.NoError(t, err)
	second, err := Encode(b, sampleObjects()...)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBlob_Empty(t *testing.T) {
	b := newTestBinder()
	data, err := Encode(b)
	require.NoError(t, err)

	got, err := Decode(b, data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBlob_ReaderOnlyNeedsTheBinder(t *testing.T) {
	data, err := Encode(newTestBinder(), sampleObjects()...)
	require.NoError(t, err)

	// A second process registers the same readers in a different order.
	other := NewSharedBinder()
	other.RegisterReader(tagPoint, readPoint)
	other.RegisterReader(tagLiteral, readLiteral)
	other.RegisterReader(tagIdent, readIdent)
	other.RegisterReader(tagPair, readPair)

	got, err := Decode(other, data)
	require.NoError(t, err)
	assert.Equal(t, sampleObjects(), got)
}

func TestBlob_Errors(t *testing.T) {
	b := newTestBinder()

	t.Run("Malformed", func(t *testing.T) {
		_, err := Decode(b, []byte{0xff, 0x00})
		assert.ErrorIs(t, err, ErrMalformedBlob)
	})

	t.Run("DuplicateTag", func(t *testing.T) {
		data, err := (&Blob{Types: []TypeTag{tagIdent, tagIdent}}).MarshalBinary()
		require.NoError(t, err)
		_, err = Decode(b, data)
		assert.ErrorIs(t, err, ErrMalformedBlob)
	})

	t.Run("EmptyTag", func(t *testing.T) {
		data, err := (&Blob{Types: []TypeTag{tagIdent, ""}}).MarshalBinary()
		require.NoError(t, err)
		_, err = Decode(b, data)
		assert.ErrorIs(t, err, ErrMalformedBlob)
	})

	t.Run("UnknownType", func(t *testing.T) {
		data, err := Encode(b, Ptr(ident{Name: "x"}))
		require.NoError(t, err)

		_, err = Decode(NewSharedBinder(), data)
		assert.ErrorIs(t, err, ErrNoReader)
		_, err = Decode(nil, data)
		assert.ErrorIs(t, err, ErrNoReader)
	})

	t.Run("TruncatedPayload", func(t *testing.T) {
		data, err := Encode(b, Ptr(ident{Name: "truncated"}))
		require.NoError(t, err)
		blob, err := DecodeBlob(data)
		require.NoError(t, err)

		blob.Payload = blob.Payload[:len(blob.Payload)-3]
		data, err = blob.MarshalBinary()
		require.NoError(t, err)
		_, err = Decode(b, data)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("EncodeInvalidTag", func(t *testing.T) {
		_, err := Encode(b, untagged{})
		assert.ErrorIs(t, err, ErrInvalidTag)
	})
}

func TestBlob_SeedRequiresEmptyRegistry(t *testing.T) {
	reg := NewRegistry(newTestBinder())
	reg.GetOrAddToken(tagIdent)

	blob := &Blob{Types: []TypeTag{tagLiteral}}
	assert.ErrorIs(t, blob.Seed(reg), ErrCopyIntoNonEmpty)

	b := NewSharedBinder()
	bad := NewRegistry(b)
	for _, types := range [][]TypeTag{
		{"t.a", ""},
		{"t.a", "t.b", "t.a"},
	} {
		err := (&Blob{Types: types}).Seed(bad)
		assert.ErrorIs(t, err, ErrMalformedBlob, "types %v", types)
		assert.Zero(t, bad.Len(), "a rejected blob leaves the registry empty")
		assert.Zero(t, b.Len(), "a rejected blob publishes nothing")
	}

	fresh := NewRegistry(newTestBinder())
	require.NoError(t, blob.Seed(fresh))
	tok, err := fresh.Token(tagLiteral)
	require.NoError(t, err)
	assert.Equal(t, Token(0), tok)
}
