package db

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// ContainsQuery is the input for exact-substring lexical search.
type ContainsQuery struct {
	IndexName    string
	Pattern      string
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search. Distance is populated
// only by KNN queries; substring matches carry no ranking information.
type SearchEntry struct {
	Key      string
	Distance float64
	Fields   map[string]string
}
