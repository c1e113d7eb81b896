package model

// SearchHit is one raw chunk-level hit returned by the search index. A single
// source document usually produces several hits, one per indexed fragment.
type SearchHit struct {
	ID          string
	Title       string
	StorageName string
	Score       float64
	Snippet     string
	Raw         map[string]any
}

// SourceKey derives the document identity used for deduplication, in
// preference order: storage name, then title, then id. Hits with none of
// these fall into the empty-string group.
func (h SearchHit) SourceKey() string {
	if h.StorageName != "" {
		return h.StorageName
	}
	if h.Title != "" {
		return h.Title
	}
	return h.ID
}

// RankedResult is one deduplicated, ranked document: the best-scoring chunk
// of its source document, optionally carrying a time-limited retrieval URL.
type RankedResult struct {
	SourceKey    string
	Title        string
	Score        float64
	Snippet      string
	RetrievalURL string
}
