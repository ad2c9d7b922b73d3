// Package events defines the typed events published by the dispatch and
// resolver layers. Subscribers attach through the eventbus package.
package events

import "time"

// ResolveStart is emitted before a resolver invocation.
type ResolveStart struct {
	Query string
}

// ResolveFinish is emitted after a resolver invocation.
type ResolveFinish struct {
	Query    string
	Duration time.Duration
	Err      error
}
