package binder

import "bytes"

type bytesBufferWriterAdapter struct{ *bytes.Buffer }

func (w bytesBufferWriterAdapter) Flush() error { return nil }
