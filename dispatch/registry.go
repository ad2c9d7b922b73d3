// Package dispatch selects which resolver variant serves a concrete request.
//
// At registration time it collects the fingerprints of every variant of a
// query; at request time it computes the fingerprint of the incoming
// (parent trail, argument names) pair and picks the variant by exact match.
// Colliding fingerprints between two variants of the same query are rejected
// at registration, so request-time behavior is never ambiguous.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	eventbus "github.com/hanpama/querydispatch/eventbus"
	events "github.com/hanpama/querydispatch/events"
	language "github.com/hanpama/querydispatch/language"
	resolver "github.com/hanpama/querydispatch/resolver"
)

// ErrNoMatch is returned by Route when no registered variant matches the
// request's fingerprint.
var ErrNoMatch = errors.New("no resolver variant matches")

// Registry maps request fingerprints to resolver variants. Register all
// variants first, then route; routing is safe for concurrent use once
// registration is done.
type Registry struct {
	queries map[string]*queryEntry
}

type queryEntry struct {
	resolvers     []*resolver.Resolver
	identities    map[string]struct{}
	byFingerprint map[string]*resolver.Resolver
}

func NewRegistry() *Registry {
	return &Registry{queries: make(map[string]*queryEntry)}
}

// TrailKey returns the canonical string form of a parent trail, as used in
// fingerprints.
func TrailKey(trail []string) string { return strings.Join(trail, ".") }

// Fingerprint computes the dispatch key of a concrete request: the trail key
// concatenated with the argument names sorted lexicographically.
func Fingerprint(parentTrail []string, argNames []string) string {
	names := append([]string(nil), argNames...)
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(TrailKey(parentTrail))
	for _, n := range names {
		b.WriteString(n)
	}
	return b.String()
}

// Register adds one resolver variant under every parent trail it declares,
// plus the root trail. Re-registering a resolver with an identity fingerprint
// already present for the query is a no-op. A fingerprint collision with a
// different variant of the same query is an error.
func (reg *Registry) Register(r *resolver.Resolver) error {
	entry := reg.queries[r.QueryName()]
	if entry == nil {
		entry = &queryEntry{
			identities:    make(map[string]struct{}),
			byFingerprint: make(map[string]*resolver.Resolver),
		}
		reg.queries[r.QueryName()] = entry
	}
	if _, dup := entry.identities[r.IdentityFingerprint()]; dup {
		return nil
	}

	trailKeys := []string{""}
	for _, trail := range r.ParentTrails() {
		trailKeys = append(trailKeys, TrailKey(trail))
	}
	var fingerprints []string
	for _, key := range trailKeys {
		fingerprints = append(fingerprints, r.Fingerprints(key)...)
	}
	// Check every fingerprint before inserting any, so a rejected variant
	// leaves the registry unchanged.
	for _, fp := range fingerprints {
		if existing, ok := entry.byFingerprint[fp]; ok && existing != r {
			return fmt.Errorf("query %s: resolvers %s and %s produce the same fingerprint %q",
				r.QueryName(), existing, r, fp)
		}
	}
	for _, fp := range fingerprints {
		entry.byFingerprint[fp] = r
	}
	entry.identities[r.IdentityFingerprint()] = struct{}{}
	entry.resolvers = append(entry.resolvers, r)
	return nil
}

// Route picks the variant of query whose fingerprint exactly matches the
// request's parent trail and argument names. Returns ErrNoMatch when nothing
// matches.
func (reg *Registry) Route(ctx context.Context, query string, parentTrail []string, argNames []string) (*resolver.Resolver, error) {
	fp := Fingerprint(parentTrail, argNames)
	eventbus.Publish(ctx, events.DispatchStart{Query: query, Fingerprint: fp})

	var matched *resolver.Resolver
	if entry := reg.queries[query]; entry != nil {
		matched = entry.byFingerprint[fp]
	}
	eventbus.Publish(ctx, events.DispatchFinish{Query: query, Fingerprint: fp, Matched: matched != nil})

	if matched == nil {
		return nil, fmt.Errorf("query %s: fingerprint %q: %w", query, fp, ErrNoMatch)
	}
	return matched, nil
}

// RouteField routes a parsed field from a query document, using the field
// name and its argument names.
func (reg *Registry) RouteField(ctx context.Context, parentTrail []string, field *language.Field) (*resolver.Resolver, error) {
	names := make([]string, 0, len(field.Arguments))
	for _, arg := range field.Arguments {
		names = append(names, arg.Name)
	}
	return reg.Route(ctx, field.Name, parentTrail, names)
}

// Resolvers returns the registered variants of query in registration order.
func (reg *Registry) Resolvers(query string) []*resolver.Resolver {
	entry := reg.queries[query]
	if entry == nil {
		return nil
	}
	return append([]*resolver.Resolver(nil), entry.resolvers...)
}
