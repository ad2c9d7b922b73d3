package execution

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// JSONDeserializer converts raw argument values by round-tripping them
// through JSON into the target type. Values already assignable to the target
// are passed through untouched.
type JSONDeserializer struct {
	json jsoniter.API
}

func NewJSONDeserializer() *JSONDeserializer {
	return &JSONDeserializer{json: jsoniter.ConfigCompatibleWithStandardLibrary}
}

func (d *JSONDeserializer) Deserialize(raw any, target reflect.Type) (any, error) {
	if target == nil {
		return raw, nil
	}
	if raw == nil {
		return reflect.Zero(target).Interface(), nil
	}
	if reflect.TypeOf(raw).AssignableTo(target) {
		return raw, nil
	}
	buf, err := d.json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("deserialize into %s: %w", target, err)
	}
	out := reflect.New(target)
	if err := d.json.Unmarshal(buf, out.Interface()); err != nil {
		return nil, fmt.Errorf("deserialize into %s: %w", target, err)
	}
	return out.Elem().Interface(), nil
}

var (
	uuidType            = reflect.TypeOf(uuid.UUID{})
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// IDMapper converts backend-local id strings into typed values. It handles
// strings, integer kinds, uuid.UUID and encoding.TextUnmarshaler directly and
// falls back to a JSON round trip for anything else.
type IDMapper struct {
	json jsoniter.API
}

func NewIDMapper() *IDMapper {
	return &IDMapper{json: jsoniter.ConfigCompatibleWithStandardLibrary}
}

func (m *IDMapper) DeserializeID(id string, target reflect.Type) (any, error) {
	if target == nil {
		return id, nil
	}
	if target == uuidType {
		v, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("deserialize id %q: %w", id, err)
		}
		return v, nil
	}
	if reflect.PointerTo(target).Implements(textUnmarshalerType) {
		out := reflect.New(target)
		if err := out.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(id)); err != nil {
			return nil, fmt.Errorf("deserialize id %q into %s: %w", id, target, err)
		}
		return out.Elem().Interface(), nil
	}
	switch target.Kind() {
	case reflect.String:
		return reflect.ValueOf(id).Convert(target).Interface(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("deserialize id %q into %s: %w", id, target, err)
		}
		return reflect.ValueOf(n).Convert(target).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("deserialize id %q into %s: %w", id, target, err)
		}
		return reflect.ValueOf(n).Convert(target).Interface(), nil
	}
	buf, err := m.json.Marshal(id)
	if err != nil {
		return nil, fmt.Errorf("deserialize id %q into %s: %w", id, target, err)
	}
	out := reflect.New(target)
	if err := m.json.Unmarshal(buf, out.Interface()); err != nil {
		return nil, fmt.Errorf("deserialize id %q into %s: %w", id, target, err)
	}
	return out.Elem().Interface(), nil
}
