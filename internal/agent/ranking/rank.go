// Package ranking collapses chunk-level search hits down to one best-scoring
// representative per source document. Raw results carry one entry per indexed
// text fragment, so a naive top-N would let a single document's fragments
// crowd out every other document.
package ranking

import (
	"sort"

	"github.com/contentiq/assistant/internal/agent/model"
)

// DefaultTopK caps how many ranked documents are shown to the user.
const DefaultTopK = 5

type Ranker struct {
	topK int
}

func NewRanker(topK int) *Ranker {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Ranker{topK: topK}
}

// Rank deduplicates hits by source key, keeping the highest-scoring chunk of
// each document (first-write-wins on score ties), orders the survivors by
// descending score, and truncates to the configured top-K.
//
// Ordering is stable throughout: a score tie between documents preserves the
// first-seen order of their groups in the input.
func (r *Ranker) Rank(hits []model.SearchHit) []model.RankedResult {
	if len(hits) == 0 {
		return []model.RankedResult{}
	}

	// Single left-to-right scan. A later hit replaces the kept one only when
	// its score is strictly higher.
	keptPos := make(map[string]int, len(hits))
	kept := make([]model.SearchHit, 0, len(hits))
	for _, h := range hits {
		key := h.SourceKey()
		if pos, ok := keptPos[key]; ok {
			if h.Score > kept[pos].Score {
				kept[pos] = h
			}
			continue
		}
		keptPos[key] = len(kept)
		kept = append(kept, h)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	if len(kept) > r.topK {
		kept = kept[:r.topK]
	}

	results := make([]model.RankedResult, 0, len(kept))
	for _, h := range kept {
		results = append(results, model.RankedResult{
			SourceKey: h.SourceKey(),
			Title:     h.Title,
			Score:     h.Score,
			Snippet:   h.Snippet,
		})
	}
	return results
}
