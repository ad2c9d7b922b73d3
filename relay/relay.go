// Package relay implements the opaque global identifier scheme and the
// connection-style pagination carrier shared by resolvers.
//
// A global id is the base64 encoding of "Type:localID". It is a caller-facing
// handle: clients treat it as opaque, the server decodes it back into the type
// name and the backend-local id.
package relay

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ResolvedGlobalID is the decoded form of a global identifier.
type ResolvedGlobalID struct {
	Type string
	ID   string
}

// ToGlobalID encodes a type name and a backend-local id into an opaque
// global identifier.
func ToGlobalID(typeName, id string) string {
	return base64.StdEncoding.EncodeToString([]byte(typeName + ":" + id))
}

// FromGlobalID decodes a global identifier produced by ToGlobalID.
// It returns an error if the input is not base64 or does not contain
// a type prefix.
func FromGlobalID(globalID string) (ResolvedGlobalID, error) {
	raw, err := base64.StdEncoding.DecodeString(globalID)
	if err != nil {
		return ResolvedGlobalID{}, fmt.Errorf("invalid global id %q: %w", globalID, err)
	}
	typeName, id, ok := strings.Cut(string(raw), ":")
	if !ok || typeName == "" {
		return ResolvedGlobalID{}, fmt.Errorf("invalid global id %q: missing type prefix", globalID)
	}
	return ResolvedGlobalID{Type: typeName, ID: id}, nil
}

// Codec adapts the package-level encode/decode pair to an interface value.
// The zero value is ready to use.
type Codec struct{}

func (Codec) Encode(typeName, id string) string { return ToGlobalID(typeName, id) }

func (Codec) Decode(globalID string) (ResolvedGlobalID, error) { return FromGlobalID(globalID) }
