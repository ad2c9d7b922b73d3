package resolver

import (
	"context"
	"fmt"
	"reflect"

	relay "github.com/hanpama/querydispatch/relay"
)

// Param describes one declared parameter of a Callable, in declared order.
// This order is independent of the Argument list a Resolver carries: the
// Argument list enumerates only the named arguments, while Params also
// include injected slots such as the connection request.
type Param struct {
	Type reflect.Type
	// Source marks the parameter receiving the parent query's result.
	Source bool
	// ConnectionRequest marks the parameter receiving pagination context.
	// Parameters of type relay.ConnectionRequest are recognized without
	// the marker; the marker always wins.
	ConnectionRequest bool
}

// InvokeFunc is the underlying block of logic a Callable wraps. source is the
// parent query's result (nil at the root); args are the assembled positional
// arguments, parallel to the declared parameters.
type InvokeFunc func(ctx context.Context, source any, args []any) (any, error)

// Callable is a uniform wrapper over a named block of logic that accepts
// ordered inputs and returns a value. Implementations are built once at
// registration time and never mutated; Call may be invoked concurrently.
type Callable interface {
	Name() string
	ParameterCount() int
	Parameters() []Param
	ReturnType() reflect.Type
	// WrappedAttribute names the key the raw result must be nested under
	// before being returned. Empty means no wrapping.
	WrappedAttribute() string
	// ParentTrails lists the ancestor-query name sequences under which this
	// callable may be nested.
	ParentTrails() [][]string
	// ID identifies the underlying logic, independent of argument shape.
	// Two callables wrapping the same logic share an ID.
	ID() string
	Call(ctx context.Context, source any, args []any) (any, error)
}

// CallableDef declares a Callable explicitly. No runtime scanning happens:
// whatever produced the underlying logic (generated code, a hand-written
// adapter) states its shape here.
type CallableDef struct {
	Name             string
	Params           []Param
	ReturnType       reflect.Type
	WrappedAttribute string
	ParentTrails     [][]string
	Invoke           InvokeFunc
}

// NewCallable builds the standard Callable from an explicit definition.
func NewCallable(def CallableDef) (Callable, error) {
	if def.Invoke == nil {
		return nil, fmt.Errorf("callable %q: nil invoke func", def.Name)
	}
	trails := make([][]string, len(def.ParentTrails))
	for i, t := range def.ParentTrails {
		trails[i] = append([]string(nil), t...)
	}
	return &funcCallable{
		name:    def.Name,
		params:  append([]Param(nil), def.Params...),
		ret:     def.ReturnType,
		wrapped: def.WrappedAttribute,
		trails:  trails,
		invoke:  def.Invoke,
		id:      fmt.Sprintf("%s@%x", def.Name, reflect.ValueOf(def.Invoke).Pointer()),
	}, nil
}

type funcCallable struct {
	name    string
	params  []Param
	ret     reflect.Type
	wrapped string
	trails  [][]string
	invoke  InvokeFunc
	id      string
}

func (c *funcCallable) Name() string             { return c.name }
func (c *funcCallable) ParameterCount() int      { return len(c.params) }
func (c *funcCallable) Parameters() []Param      { return c.params }
func (c *funcCallable) ReturnType() reflect.Type { return c.ret }
func (c *funcCallable) WrappedAttribute() string { return c.wrapped }
func (c *funcCallable) ParentTrails() [][]string { return c.trails }
func (c *funcCallable) ID() string               { return c.id }

func (c *funcCallable) Call(ctx context.Context, source any, args []any) (any, error) {
	return c.invoke(ctx, source, args)
}

var connectionRequestType = reflect.TypeOf(relay.ConnectionRequest{})

func isConnectionRequestParam(p Param) bool {
	if p.ConnectionRequest {
		return true
	}
	t := p.Type
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t == connectionRequestType
}
