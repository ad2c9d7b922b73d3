// Package execution bundles the shared services a resolver invocation needs:
// the opaque-id codec, the id deserializer, and the input deserializer.
//
// One Context is built per process (or per schema) and shared across every
// concurrent invocation, so all three services must be stateless or
// internally synchronized. The defaults returned by NewContext are stateless.
package execution

import (
	"reflect"

	relay "github.com/hanpama/querydispatch/relay"
)

// IDCodec encodes and decodes opaque global identifiers.
type IDCodec interface {
	Encode(typeName, id string) string
	// Decode fails with a non-nil error on malformed input; callers decide
	// the fallback policy.
	Decode(globalID string) (relay.ResolvedGlobalID, error)
}

// InputDeserializer converts a raw loosely typed argument value into a value
// of the target type.
type InputDeserializer interface {
	Deserialize(raw any, target reflect.Type) (any, error)
}

// IDDeserializer converts a backend-local id string into a value of the
// target type.
type IDDeserializer interface {
	DeserializeID(id string, target reflect.Type) (any, error)
}

// Context is the service bundle handed to Resolver.Resolve.
type Context struct {
	IDCodec IDCodec
	IDs     IDDeserializer
	Inputs  InputDeserializer
}

// NewContext returns a Context wired with the default implementations:
// the relay global-id codec, the standard id mapper, and the JSON input
// deserializer.
func NewContext() *Context {
	return &Context{
		IDCodec: relay.Codec{},
		IDs:     NewIDMapper(),
		Inputs:  NewJSONDeserializer(),
	}
}
