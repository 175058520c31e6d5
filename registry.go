package binder

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Registry is the token table of one serialization session (a stream, a message
// or a cached blob). It assigns dense tokens in first-use order and holds, per
// token, the type tag and its reconstruction function.
//
// A Registry is owned by a single session and is not safe for concurrent use.
// New registrations are forwarded to the Binder it was created with.
type Registry struct {
	tagToToken map[TypeTag]Token
	tags       []TypeTag
	readers    []ReadFunc

	binder Binder
	opts   options
}

// NewRegistry creates an empty registry backed by b. A nil b gives an isolated
// registry that neither publishes nor borrows reconstruction functions.
func NewRegistry(b Binder, opts ...Option) *Registry {
	return &Registry{
		tagToToken: make(map[TypeTag]Token),
		binder:     b,
		opts:       buildOptions(opts),
	}
}

// registryPool recycles registries through Clear instead of reallocating the
// three tables for every blob.
var registryPool = sync.Pool{
	New: func() any { return NewRegistry(nil) },
}

func acquireRegistry(b Binder) *Registry {
	r := registryPool.Get().(*Registry)
	r.binder = b
	return r
}

func releaseRegistry(r *Registry) {
	r.Clear()
	r.binder = nil
	r.opts = options{logger: zap.NewNop()}
	registryPool.Put(r)
}

// Binder returns the binder the registry publishes to, possibly nil.
func (r *Registry) Binder() Binder { return r.binder }

// Len returns the number of assigned tokens.
func (r *Registry) Len() int { return len(r.tags) }

// Clear resets the registry to empty so it can be reused.
func (r *Registry) Clear() {
	clear(r.tagToToken)
	clear(r.tags)
	clear(r.readers)
	r.tags = r.tags[:0]
	r.readers = r.readers[:0]
}

// CopyFrom replicates src's token space, in order, into r. It is how paired
// sessions share numbering without replaying registration. r must be empty;
// otherwise ErrCopyIntoNonEmpty is returned and r is not modified.
func (r *Registry) CopyFrom(src *Registry) error {
	if len(r.tagToToken) != 0 || len(r.tags) != 0 || len(r.readers) != 0 {
		return fmt.Errorf("%w: destination holds %d entries", ErrCopyIntoNonEmpty, len(r.tags))
	}
	for tag, tok := range src.tagToToken {
		r.tagToToken[tag] = tok
	}
	r.tags = append(r.tags, src.tags...)
	r.readers = append(r.readers, src.readers...)
	return nil
}

// Clone returns a new registry, sharing r's binder and options, with a copy of
// r's token space.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		tagToToken: make(map[TypeTag]Token, len(r.tagToToken)),
		binder:     r.binder,
		opts:       r.opts,
	}
	_ = c.CopyFrom(r)
	return c
}

// Token returns the token already assigned to tag. It fails with
// ErrTypeNotRegistered when tag was never registered here.
func (r *Registry) Token(tag TypeTag) (Token, error) {
	tok, ok := r.tagToToken[tag]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrTypeNotRegistered, tag)
	}
	return tok, nil
}

// GetOrAddToken returns tag's token, assigning the next one on first use.
// A newly added type borrows the binder's function when one is cached there.
func (r *Registry) GetOrAddToken(tag TypeTag) Token {
	if tok, ok := r.tagToToken[tag]; ok {
		return tok
	}
	var fn ReadFunc
	if r.binder != nil {
		fn, _ = r.binder.Reader(tag)
	}
	return r.add(tag, fn)
}

// RegisterReader binds fn to tag and returns tag's token. The first non-nil
// function wins: a placeholder row gets fn attached, while a row that already
// has a function keeps it and the call is a no-op.
func (r *Registry) RegisterReader(tag TypeTag, fn ReadFunc) Token {
	tok, ok := r.tagToToken[tag]
	if !ok {
		if fn == nil {
			return r.GetOrAddToken(tag)
		}
		return r.add(tag, fn)
	}

	switch cur := r.readers[tok]; {
	case cur == nil && fn != nil:
		r.readers[tok] = fn
		r.publish(tag, fn)
	case cur != nil && fn != nil && r.opts.strict && !sameReadFunc(cur, fn):
		r.opts.logger.Warn("binder: conflicting reader ignored, first registration wins",
			zap.String("tag", string(tag)), zap.Int("token", int(tok)))
	}
	return tok
}

func (r *Registry) add(tag TypeTag, fn ReadFunc) Token {
	tok := Token(len(r.tags))
	r.tags = append(r.tags, tag)
	r.readers = append(r.readers, fn)
	r.tagToToken[tag] = tok

	// Local state is complete before publishing, so a binder that calls back
	// into this registry observes the type as registered.
	r.publish(tag, fn)
	return tok
}

func (r *Registry) publish(tag TypeTag, fn ReadFunc) {
	if r.binder != nil {
		r.binder.RegisterReader(tag, fn)
	}
}

// TypeFromToken returns the tag recorded for tok.
func (r *Registry) TypeFromToken(tok Token) (TypeTag, error) {
	if err := r.checkToken(tok); err != nil {
		return "", err
	}
	return r.tags[tok], nil
}

// EntryFromToken returns the tag and reconstruction function recorded for tok.
func (r *Registry) EntryFromToken(tok Token) (Entry, error) {
	if err := r.checkToken(tok); err != nil {
		return Entry{}, err
	}
	return Entry{Tag: r.tags[tok], Read: r.readers[tok]}, nil
}

// ReadFunc returns the reconstruction function recorded for tok, which is nil
// for placeholder rows.
func (r *Registry) ReadFunc(tok Token) (ReadFunc, error) {
	if err := r.checkToken(tok); err != nil {
		return nil, err
	}
	return r.readers[tok], nil
}

// Types returns a copy of the tags ordered by token.
func (r *Registry) Types() []TypeTag {
	return append([]TypeTag(nil), r.tags...)
}

func (r *Registry) checkToken(tok Token) error {
	if tok < 0 || int(tok) >= len(r.tags) {
		return fmt.Errorf("%w: token %d, registry holds %d types", ErrTokenOutOfRange, tok, len(r.tags))
	}
	return nil
}
