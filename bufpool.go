package binder

import (
	"bytes"
	"sync"
)

// bytesBufPool reuses payload buffers for Encode.
var bytesBufPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}
