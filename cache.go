package binder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oy3o/binder/storage"
)

// Cache persists object sequences as blobs in a storage service. Every blob
// carries its own type table, so it can be read back by any process whose
// binder knows the types.
type Cache struct {
	binder Binder
	store  storage.Service
	opts   options
}

// NewCache creates a cache over store. A nil store behaves like storage.NoOp.
func NewCache(b Binder, store storage.Service, opts ...Option) *Cache {
	if store == nil {
		store = storage.NoOp{}
	}
	return &Cache{binder: b, store: store, opts: buildOptions(opts)}
}

// Save encodes objs and stores them under key.
func (c *Cache) Save(ctx context.Context, key string, objs ...Object) error {
	data, err := Encode(c.binder, objs...)
	if err != nil {
		return fmt.Errorf("binder: encode %q: %w", key, err)
	}
	if err := c.store.Put(ctx, key, data); err != nil {
		return err
	}
	c.opts.logger.Debug("binder: saved", zap.String("key", key),
		zap.Int("objects", len(objs)), zap.Int("bytes", len(data)))
	return nil
}

// Load fetches and decodes the objects stored under key. A miss returns
// (nil, false, nil).
func (c *Cache) Load(ctx context.Context, key string) ([]Object, bool, error) {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		c.opts.logger.Debug("binder: miss", zap.String("key", key))
		return nil, false, nil
	}
	objs, err := Decode(c.binder, data)
	if err != nil {
		return nil, false, fmt.Errorf("binder: decode %q: %w", key, err)
	}
	return objs, true, nil
}

// Inspect fetches the blob stored under key and parses its envelope without
// materializing any object, so no readers need to be bound.
func (c *Cache) Inspect(ctx context.Context, key string) (*Blob, bool, error) {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	blob, err := DecodeBlob(data)
	if err != nil {
		return nil, false, fmt.Errorf("binder: inspect %q: %w", key, err)
	}
	return blob, true, nil
}
