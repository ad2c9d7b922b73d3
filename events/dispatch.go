package events

// DispatchStart is emitted before the registry looks up a resolver variant.
type DispatchStart struct {
	Query       string
	Fingerprint string
}

// DispatchFinish is emitted after the lookup, whether or not it matched.
type DispatchFinish struct {
	Query       string
	Fingerprint string
	Matched     bool
}
