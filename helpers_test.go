package binder

// --- Mocks and Helpers ---

const (
	tagIdent   TypeTag = "test.ident"
	tagLiteral TypeTag = "test.literal"
	tagPair    TypeTag = "test.pair"
	tagPoint   TypeTag = "test.point"
)

// ident is a leaf object with a length-prefixed payload.
type ident struct{ Name string }

func (*ident) TypeTag() TypeTag     { return tagIdent }
func (i *ident) EncodeTo(w *Writer) { w.WriteText(i.Name) }

func readIdent(r *Reader) (Object, error) {
	i := &ident{}
	r.ReadText(&i.Name)
	return i, r.Err()
}

// literal is a leaf object with a varint payload.
type literal struct{ Value int64 }

func (*literal) TypeTag() TypeTag     { return tagLiteral }
func (l *literal) EncodeTo(w *Writer) { w.WriteVarint(l.Value) }

func readLiteral(r *Reader) (Object, error) {
	l := &literal{}
	r.ReadVarint(&l.Value)
	return l, r.Err()
}

// pair is an interior node holding two child objects, either of which may be nil.
type pair struct{ Left, Right Object }

func (*pair) TypeTag() TypeTag { return tagPair }
func (p *pair) EncodeTo(w *Writer) {
	w.WriteObject(p.Left)
	w.WriteObject(p.Right)
}

func readPair(r *Reader) (Object, error) {
	p := &pair{}
	p.Left = r.ReadObject()
	p.Right = r.ReadObject()
	return p, r.Err()
}

// point is a fixed-size leaf object.
type point struct{ X, Y int32 }

func (*point) TypeTag() TypeTag     { return tagPoint }
func (p *point) EncodeTo(w *Writer) { w.WriteFixed(p) }

var readPoint = FixedReadFunc(func(v point) Object { return &v })

// newTestBinder returns an isolated binder that can read every test type.
func newTestBinder(opts ...Option) *SharedBinder {
	b := NewSharedBinder(opts...)
	b.RegisterReader(tagIdent, readIdent)
	b.RegisterReader(tagLiteral, readLiteral)
	b.RegisterReader(tagPair, readPair)
	b.RegisterReader(tagPoint, readPoint)
	return b
}
