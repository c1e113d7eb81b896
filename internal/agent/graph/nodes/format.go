package nodes

import (
	"fmt"
	"strings"

	"github.com/contentiq/assistant/internal/agent/model"
)

// NoResultsMessage is the fixed user-facing reply when the search branch
// ends with zero ranked documents — an expected terminal state, not an error.
const NoResultsMessage = "No matching documents found."

// FormatResults renders the ranked documents as a plain-text reply, most
// relevant first. Entries without a retrieval URL are listed without a link
// rather than dropped.
func FormatResults(results []model.RankedResult) string {
	if len(results) == 0 {
		return NoResultsMessage
	}

	var b strings.Builder
	b.WriteString("Here are the top documents I found (most relevant first):\n")
	for i, res := range results {
		title := res.Title
		if title == "" {
			title = res.SourceKey
		}
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(&b, "\n%d. %s (score %.2f)\n", i+1, title, res.Score)
		if res.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", res.Snippet)
		}
		if res.RetrievalURL != "" {
			fmt.Fprintf(&b, "   Download: %s\n", res.RetrievalURL)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
