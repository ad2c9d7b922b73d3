package resolver

import "fmt"

// ArgumentError reports a failure to bind or deserialize one named argument.
// It is distinct from an invocation failure: errors returned by the Callable
// itself are propagated unchanged, so callers can tell malformed input apart
// from domain-logic failures.
type ArgumentError struct {
	Resolver string
	Argument string
	Err      error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("resolver %s: argument %q: %v", e.Resolver, e.Argument, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }
