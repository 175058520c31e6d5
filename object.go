// Package binder writes graphs of heterogeneous objects to a byte stream and reads
// them back. Each object's type is written as a small token issued by a Registry in
// first-use order; a shared Binder maps type tags to the functions that rebuild
// objects, so sessions opened later can read types they never saw written.
package binder

import "reflect"

// TypeTag is the stable identity of a serializable type. Each type's owner chooses
// its tag (for example "syntax.Identifier") and must keep it unchanged across
// processes, because persisted blobs record tags rather than tokens.
type TypeTag string

// Valid reports whether the tag can be registered.
func (t TypeTag) Valid() bool { return t != "" }

// Token identifies a type within one Registry. Tokens are dense and zero-based,
// assigned in first-registration order, and mean nothing outside the registry
// that issued them.
type Token int

// Object is implemented by every type that can travel through a Writer.
type Object interface {
	// TypeTag returns the tag the object is registered under.
	TypeTag() TypeTag
	// EncodeTo writes the object's payload. Errors latch on the Writer.
	EncodeTo(w *Writer)
}

// ReadFunc reconstructs one object of a specific type from the stream. It must
// consume exactly the bytes the matching EncodeTo produced, no more and no less,
// so the next token stays aligned.
type ReadFunc func(r *Reader) (Object, error)

// Entry is one row of a registry's dispatch table.
// A nil Read marks a placeholder: the type has a token but nothing that can read it
// back in this session.
type Entry struct {
	Tag  TypeTag
	Read ReadFunc
}

// Readable reports whether the entry carries a reconstruction function.
func (e Entry) Readable() bool { return e.Read != nil }

// isNilObject reports whether obj is nil or an interface holding a nil value.
func isNilObject(obj Object) bool {
	if obj == nil {
		return true
	}
	switch v := reflect.ValueOf(obj); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// sameReadFunc reports whether two functions share a code pointer. Closures over
// different state compare equal; this is only a diagnostic aid.
func sameReadFunc(a, b ReadFunc) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
