package binder

import (
	"encoding/binary"
	"fmt"
	"testing"
)

type BenchmarkPayload struct {
	ID      uint32
	Val1    uint64
	Val2    uint64
	Val3    uint64
	IsAlive bool
	Padding [3]byte
}

func benchmarkTree(depth int) Object {
	if depth == 0 {
		return &literal{Value: int64(depth)}
	}
	return &pair{Left: &ident{Name: "node"}, Right: benchmarkTree(depth - 1)}
}

func BenchmarkGetOrAddToken(b *testing.B) {
	tags := make([]TypeTag, 64)
	for i := range tags {
		tags[i] = TypeTag(fmt.Sprintf("bench.type%02d", i))
	}
	reg := NewRegistry(NewSharedBinder())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = reg.GetOrAddToken(tags[i%len(tags)])
	}
}

func BenchmarkSharedBinderReader(b *testing.B) {
	binder := newTestBinder()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = binder.Reader(tagPair)
		}
	})
}

func BenchmarkEncode(b *testing.B) {
	binder := newTestBinder()
	tree := benchmarkTree(32)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Encode(binder, tree)
	}
}

func BenchmarkDecode(b *testing.B) {
	binder := newTestBinder()
	data, err := Encode(binder, benchmarkTree(32))
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(binder, data)
	}
}

func BenchmarkWriteFixed(b *testing.B) {
	payload := BenchmarkPayload{ID: 1, Val1: 100}
	buf := make([]byte, binary.Size(payload))
	bw := NewBytesWriter(buf)
	w, _ := NewWriter(bw, NewRegistry(nil))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bw.Reset()
		w.WriteFixed(&payload)
	}
}

// Baseline comparison using only binary.Write directly, to see overhead of the wrapper
func BenchmarkStandardBinaryWrite(b *testing.B) {
	payload := BenchmarkPayload{ID: 1, Val1: 100}
	buf := make([]byte, binary.Size(payload))
	w := NewBytesWriter(buf)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Reset()
		_ = binary.Write(w, Order, &payload)
	}
}
