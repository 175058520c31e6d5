package binder

import (
	"slices"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"
)

// Binder is the process-wide cache from type tag to reconstruction function.
// It has no notion of tokens. Implementations must be safe for concurrent use.
type Binder interface {
	// RegisterReader records fn for tag unless a function is already bound.
	RegisterReader(tag TypeTag, fn ReadFunc)
	// Reader returns the function bound to tag, if any.
	Reader(tag TypeTag) (ReadFunc, bool)
}

// SharedBinder is the default Binder. Entries are never removed.
type SharedBinder struct {
	readers *xsync.Map[TypeTag, ReadFunc]
	opts    options
}

var _ Binder = (*SharedBinder)(nil)

// NewSharedBinder creates an empty binder.
func NewSharedBinder(opts ...Option) *SharedBinder {
	return &SharedBinder{
		readers: xsync.NewMap[TypeTag, ReadFunc](),
		opts:    buildOptions(opts),
	}
}

var (
	defaultBinder     *SharedBinder
	defaultBinderOnce sync.Once
)

// Default returns a lazily created process-wide binder for callers that do not
// carry their own handle.
func Default() *SharedBinder {
	defaultBinderOnce.Do(func() {
		defaultBinder = NewSharedBinder()
	})
	return defaultBinder
}

// RegisterReader performs an atomic insert-if-absent. A tag first seen without a
// function is recorded as known, and the first non-nil function offered later
// binds it permanently. Concurrent callers racing on the same tag all return
// normally and observe the same winner.
func (b *SharedBinder) RegisterReader(tag TypeTag, fn ReadFunc) {
	if !tag.Valid() {
		return
	}
	var (
		inserted bool
		rejected bool
	)
	b.readers.Compute(tag, func(old ReadFunc, loaded bool) (ReadFunc, xsync.ComputeOp) {
		inserted, rejected = false, false
		switch {
		case !loaded:
			inserted = true
			return fn, xsync.UpdateOp
		case old == nil && fn != nil:
			inserted = true
			return fn, xsync.UpdateOp
		default:
			rejected = old != nil && fn != nil && !sameReadFunc(old, fn)
			return old, xsync.CancelOp
		}
	})

	if inserted {
		b.opts.logger.Debug("binder: type bound",
			zap.String("tag", string(tag)), zap.Bool("readable", fn != nil))
	}
	if rejected && b.opts.strict {
		b.opts.logger.Warn("binder: conflicting reader ignored, first registration wins",
			zap.String("tag", string(tag)))
	}
}

// Reader returns the bound function. Placeholders report false.
func (b *SharedBinder) Reader(tag TypeTag) (ReadFunc, bool) {
	fn, ok := b.readers.Load(tag)
	if !ok || fn == nil {
		return nil, false
	}
	return fn, true
}

// Known reports whether tag was ever registered in this binder, with or without
// a function.
func (b *SharedBinder) Known(tag TypeTag) bool {
	_, ok := b.readers.Load(tag)
	return ok
}

// Len returns the number of known tags.
func (b *SharedBinder) Len() int { return b.readers.Size() }

// Tags returns the known tags in sorted order.
func (b *SharedBinder) Tags() []TypeTag {
	tags := make([]TypeTag, 0, b.readers.Size())
	b.readers.Range(func(tag TypeTag, _ ReadFunc) bool {
		tags = append(tags, tag)
		return true
	})
	slices.Sort(tags)
	return tags
}
