package resolver

import "reflect"

// Argument is the immutable metadata for one declared named argument of a
// resolver. Names are unique within one resolver.
type Argument struct {
	Name        string
	Description string
	Type        reflect.Type
	// Source marks the argument receiving the parent query's result.
	Source bool
	// RelayID marks the argument carrying an opaque global identifier that
	// must be decoded before deserialization.
	RelayID bool
}
