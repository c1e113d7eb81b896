package parsers

import (
	"strings"

	"github.com/contentiq/assistant/internal/agent/model"
)

const (
	labelChat      = "chat"
	labelDocSearch = "doc_search"
)

// maxLabelLen bounds the accepted raw response; anything longer is clearly
// not one of the two expected tokens.
const maxLabelLen = 64

// ParseIntentLabel maps the classifier model's raw response to an Intent.
// The match is exact after surrounding-whitespace trim: no case folding, no
// fuzzy matching — "DOC_SEARCH" is unrecognized. The second return value
// reports whether the label was recognized; unrecognized labels fall back to
// IntentChat and the caller records the degraded outcome.
func ParseIntentLabel(content string) (model.Intent, bool) {
	if len(content) > maxLabelLen {
		return model.IntentChat, false
	}
	switch strings.TrimSpace(content) {
	case labelChat:
		return model.IntentChat, true
	case labelDocSearch:
		return model.IntentDocSearch, true
	}
	return model.IntentChat, false
}
