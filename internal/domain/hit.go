package domain

// KeyPrefix namespaces all ragd keys and index names in the backing store.
const KeyPrefix = "ragd:"

// SourceTag identifies the collection a hit came from.
type SourceTag string

// Query is a single retrieval request. Immutable for the duration of one call.
type Query struct {
	Text string
	TopK int
}

// Hit is one retrieved passage. Distance is the dissimilarity score reported
// by the backing index (smaller = more similar); it is not bounded to [0,1].
type Hit struct {
	ID       string
	Text     string
	Distance float64
	Source   SourceTag
}
