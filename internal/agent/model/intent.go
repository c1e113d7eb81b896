package model

// Intent is the two-way classification of an utterance. The router branch is
// the only conditional edge in the graph, so the enumeration is closed: every
// query resolves to exactly one of these values.
type Intent int

const (
	// IntentChat routes to conversational reply generation. It is also the
	// fail-soft default when classification is unavailable.
	IntentChat Intent = iota
	// IntentDocSearch routes to topic extraction and document search.
	IntentDocSearch
)

func (i Intent) String() string {
	switch i {
	case IntentDocSearch:
		return "doc_search"
	default:
		return "chat"
	}
}
