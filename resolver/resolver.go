// Package resolver implements the per-query invocation engine: it binds one
// callable and its argument descriptors into a ready-to-invoke unit, maps a
// named-argument map plus injected source and pagination context onto the
// callable's positional parameters, and post-processes the raw result.
//
// A single query can have multiple resolvers, corresponding to different
// combinations of accepted arguments; overload selection happens upstream via
// the fingerprints each resolver exposes. Resolvers are built once during
// registration and are safe for concurrent use.
package resolver

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	eventbus "github.com/hanpama/querydispatch/eventbus"
	events "github.com/hanpama/querydispatch/events"
	execution "github.com/hanpama/querydispatch/execution"
)

// Resolver binds one Callable and its ordered Argument list. Immutable after
// construction.
type Resolver struct {
	callable         Callable
	queryName        string
	queryDescription string
	relayID          bool
	arguments        []Argument
	connectionParams []Param
	returnType       reflect.Type
	sourceArgument   *Argument
	wrappedAttribute string
	parentTrails     [][]string
}

// NewResolver builds a Resolver for one (query, callable) pair. It rejects
// duplicate argument names, more than one source argument, and more than one
// relay-id argument.
func NewResolver(queryName, queryDescription string, relayID bool, c Callable, arguments []Argument) (*Resolver, error) {
	seen := make(map[string]struct{}, len(arguments))
	var sourceArg *Argument
	sources, relayIDs := 0, 0
	for i := range arguments {
		arg := &arguments[i]
		if _, dup := seen[arg.Name]; dup {
			return nil, fmt.Errorf("resolver %s: duplicate argument name %q", queryName, arg.Name)
		}
		seen[arg.Name] = struct{}{}
		if arg.Source {
			sources++
			if sourceArg == nil {
				sourceArg = arg
			}
		}
		if arg.RelayID {
			relayIDs++
		}
	}
	if sources > 1 {
		return nil, fmt.Errorf("resolver %s: more than one source argument", queryName)
	}
	if relayIDs > 1 {
		return nil, fmt.Errorf("resolver %s: more than one relay id argument", queryName)
	}

	r := &Resolver{
		callable:         c,
		queryName:        queryName,
		queryDescription: queryDescription,
		relayID:          relayID,
		arguments:        append([]Argument(nil), arguments...),
		returnType:       c.ReturnType(),
		wrappedAttribute: c.WrappedAttribute(),
		parentTrails:     c.ParentTrails(),
	}
	if sourceArg != nil {
		a := *sourceArg
		r.sourceArgument = &a
	}
	for _, p := range c.Parameters() {
		if isConnectionRequestParam(p) {
			r.connectionParams = append(r.connectionParams, p)
		}
	}
	return r, nil
}

// Resolve assembles the positional arguments from the named-argument map, the
// source object and the pagination context, invokes the callable, and
// post-processes the result.
//
// An explicit value in arguments under the source argument's name takes
// precedence over injecting source. A relay-id value that fails to decode is
// used verbatim as the local id; decoding is best effort by design.
func (r *Resolver) Resolve(ctx context.Context, source any, arguments map[string]any, connection any, ec *execution.Context) (any, error) {
	eventbus.Publish(ctx, events.ResolveStart{Query: r.queryName})
	started := time.Now()
	result, err := r.resolve(ctx, source, arguments, connection, ec)
	eventbus.Publish(ctx, events.ResolveFinish{Query: r.queryName, Duration: time.Since(started), Err: err})
	return result, err
}

func (r *Resolver) resolve(ctx context.Context, source any, arguments map[string]any, connection any, ec *execution.Context) (any, error) {
	count := len(r.arguments)
	sourcePos := r.sourcePosition()
	connectionPos := r.connectionPosition()
	idPos := r.relayIDPosition()
	if connectionPos > -1 {
		count++
	}

	params := r.callable.Parameters()
	args := make([]any, count)
	cursor := 0
	for i := 0; i < count; i++ {
		switch {
		case i == connectionPos:
			args[i] = connection
		case i == sourcePos && r.sourceArgument != nil && !hasKey(arguments, r.sourceArgument.Name):
			args[i] = source
		case i == idPos:
			arg := r.arguments[cursor]
			cursor++
			raw, ok := arguments[arg.Name]
			if !ok {
				return nil, &ArgumentError{Resolver: r.queryName, Argument: arg.Name, Err: fmt.Errorf("missing value")}
			}
			localID := stringify(raw)
			if decoded, err := ec.IDCodec.Decode(localID); err == nil {
				localID = decoded.ID
			}
			v, err := ec.IDs.DeserializeID(localID, params[idPos].Type)
			if err != nil {
				return nil, &ArgumentError{Resolver: r.queryName, Argument: arg.Name, Err: err}
			}
			args[i] = v
		default:
			arg := r.arguments[cursor]
			cursor++
			v, err := ec.Inputs.Deserialize(arguments[arg.Name], arg.Type)
			if err != nil {
				return nil, &ArgumentError{Resolver: r.queryName, Argument: arg.Name, Err: err}
			}
			args[i] = v
		}
	}

	result, err := r.callable.Call(ctx, source, args)
	if err != nil {
		return nil, err
	}
	result = materialize(result)
	if r.wrappedAttribute != "" {
		result = r.wrap(result)
	}
	return result, nil
}

// sourcePosition returns the index of the declared parameter receiving the
// parent query's result, or -1.
func (r *Resolver) sourcePosition() int {
	for i, p := range r.callable.Parameters() {
		if p.Source {
			return i
		}
	}
	return -1
}

// connectionPosition returns the index of the declared parameter receiving
// the pagination context, or -1.
func (r *Resolver) connectionPosition() int {
	if !r.SupportsConnectionRequests() {
		return -1
	}
	for i, p := range r.callable.Parameters() {
		if isConnectionRequestParam(p) {
			return i
		}
	}
	return -1
}

// relayIDPosition returns the index, within the Argument list, of the
// argument carrying the opaque id, or -1.
func (r *Resolver) relayIDPosition() int {
	for i := range r.arguments {
		if r.arguments[i].RelayID {
			return i
		}
	}
	return -1
}

// materialize copies slice results into a concrete []any so lazy or shared
// sequences are not re-evaluated or mutated downstream.
func materialize(result any) any {
	if direct, ok := result.([]any); ok {
		return append([]any(nil), direct...)
	}
	if result == nil {
		return nil
	}
	rv := reflect.ValueOf(result)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return result
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items
}

// wrap nests the result under the wrapped attribute unless it is already a
// mapping.
func (r *Resolver) wrap(result any) any {
	if rv := reflect.ValueOf(result); rv.IsValid() && rv.Kind() == reflect.Map {
		return result
	}
	return map[string]any{r.wrappedAttribute: result}
}

// SupportsConnectionRequests reports whether any declared parameter is
// recognized as a pagination-context parameter. It does not depend on whether
// a context was supplied on a given call.
func (r *Resolver) SupportsConnectionRequests() bool {
	return len(r.connectionParams) > 0
}

// IsPrimary reports whether this resolver is the primary one for its query:
// the variant accepting nothing but the relay id.
func (r *Resolver) IsPrimary() bool {
	return len(r.arguments) == 1 && r.arguments[0].RelayID
}

// SourceType returns the declared type of the source argument, or nil if this
// resolver does not accept one. Used to decide whether the query can be
// nested inside another.
func (r *Resolver) SourceType() reflect.Type {
	if r.sourceArgument == nil {
		return nil
	}
	return r.sourceArgument.Type
}

func (r *Resolver) QueryName() string        { return r.queryName }
func (r *Resolver) QueryDescription() string { return r.queryDescription }
func (r *Resolver) RelayID() bool            { return r.relayID }
func (r *Resolver) ReturnType() reflect.Type { return r.returnType }

// ParentTrails returns the ancestor-query name sequences under which this
// resolver may be nested.
func (r *Resolver) ParentTrails() [][]string {
	trails := make([][]string, len(r.parentTrails))
	for i, t := range r.parentTrails {
		trails[i] = append([]string(nil), t...)
	}
	return trails
}

// Arguments returns the ordered named-argument descriptors.
func (r *Resolver) Arguments() []Argument {
	return append([]Argument(nil), r.arguments...)
}

// Fingerprints returns the dispatch keys identifying this variant under the
// given parent trail: the trail concatenated with every argument name sorted
// lexicographically, plus, when a source argument exists, the same recipe
// with the source argument's name left out (so requests that rely on implicit
// source injection still match).
func (r *Resolver) Fingerprints(parentTrail string) []string {
	names := make([]string, 0, len(r.arguments))
	for _, arg := range r.arguments {
		names = append(names, arg.Name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(parentTrail)
	for _, n := range names {
		b.WriteString(n)
	}
	fingerprints := []string{b.String()}

	if r.sourceArgument != nil {
		names = names[:0]
		for _, arg := range r.arguments {
			if !arg.Source {
				names = append(names, arg.Name)
			}
		}
		sort.Strings(names)
		b.Reset()
		b.WriteString(parentTrail)
		for _, n := range names {
			b.WriteString(n)
		}
		if fp := b.String(); fp != fingerprints[0] {
			fingerprints = append(fingerprints, fp)
		}
	}
	return fingerprints
}

// IdentityFingerprint identifies the underlying callable, for deduplicating
// structurally identical resolvers.
func (r *Resolver) IdentityFingerprint() string { return r.callable.ID() }

func (r *Resolver) String() string { return r.callable.Name() }

func hasKey(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
