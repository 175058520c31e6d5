// Package storage persists serialized blobs as opaque byte arrays under string
// keys. Stores know nothing about tokens or types.
package storage

import (
	"context"

	"github.com/puzpuzpuz/xsync/v4"
)

// Service is a byte-array key/value store.
type Service interface {
	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error
	// Get returns the value stored under key. ok is false on a miss.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
}

// NoOp is the Service used when no storage is configured. Every Get misses and
// every Put is accepted without persisting anything. Callers treat its misses
// like any other cache miss.
type NoOp struct{}

var _ Service = NoOp{}

func (NoOp) Put(context.Context, string, []byte) error { return nil }

func (NoOp) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Memory is a process-local Service. Values are copied on the way in and out.
type Memory struct {
	items *xsync.Map[string, []byte]
}

var _ Service = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: xsync.NewMap[string, []byte]()}
}

func (m *Memory) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.items.Store(key, append([]byte(nil), data...))
	return nil
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, ok := m.items.Load(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int { return m.items.Size() }
