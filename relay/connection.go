package relay

// ConnectionRequest carries the cursor-based pagination arguments of one
// request. Resolvers receive it whole, at the parameter recognized as the
// pagination slot; the engine never interprets the fields itself.
type ConnectionRequest struct {
	First  int
	Last   int
	After  string
	Before string
}
