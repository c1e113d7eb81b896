package ranking

import (
	"fmt"
	"testing"

	"github.com/contentiq/assistant/internal/agent/model"
)

func hit(key string, score float64) model.SearchHit {
	return model.SearchHit{StorageName: key, Score: score}
}

func TestRank_EmptyInput(t *testing.T) {
	r := NewRanker(DefaultTopK)

	out := r.Rank(nil)
	if len(out) != 0 {
		t.Fatalf("expected empty output for nil input, got %d results", len(out))
	}
	out = r.Rank([]model.SearchHit{})
	if len(out) != 0 {
		t.Fatalf("expected empty output for empty input, got %d results", len(out))
	}
}

func TestRank_DeduplicatesByBestChunk(t *testing.T) {
	r := NewRanker(DefaultTopK)

	out := r.Rank([]model.SearchHit{
		hit("doc1", 0.9),
		hit("doc1", 0.95),
		hit("doc2", 0.5),
	})

	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	if out[0].SourceKey != "doc1" || out[0].Score != 0.95 {
		t.Errorf("expected doc1@0.95 first, got %s@%v", out[0].SourceKey, out[0].Score)
	}
	if out[1].SourceKey != "doc2" || out[1].Score != 0.5 {
		t.Errorf("expected doc2@0.5 second, got %s@%v", out[1].SourceKey, out[1].Score)
	}
}

func TestRank_KeyUniqueness(t *testing.T) {
	r := NewRanker(DefaultTopK)

	hits := []model.SearchHit{
		hit("a", 0.1), hit("b", 0.2), hit("a", 0.3),
		hit("c", 0.2), hit("b", 0.2), hit("a", 0.05),
	}
	out := r.Rank(hits)

	seen := map[string]bool{}
	for _, res := range out {
		if seen[res.SourceKey] {
			t.Fatalf("duplicate source key in output: %q", res.SourceKey)
		}
		seen[res.SourceKey] = true
	}
}

func TestRank_TopKBound(t *testing.T) {
	r := NewRanker(5)

	// 7 distinct keys with distinct scores
	var hits []model.SearchHit
	for i := 0; i < 7; i++ {
		hits = append(hits, hit(fmt.Sprintf("doc%d", i), float64(i)*0.1))
	}
	out := r.Rank(hits)

	if len(out) != 5 {
		t.Fatalf("expected 5 results, got %d", len(out))
	}
	// the five highest scores, descending
	want := []float64{0.6, 0.5, 0.4, 0.3, 0.2}
	for i, res := range out {
		if diff := res.Score - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("result %d: expected score %v, got %v", i, want[i], res.Score)
		}
	}
}

func TestRank_OutputEqualsDistinctKeyCount(t *testing.T) {
	r := NewRanker(5)

	out := r.Rank([]model.SearchHit{
		hit("x", 0.3), hit("y", 0.1), hit("x", 0.2),
	})
	if len(out) != 2 {
		t.Fatalf("expected min(5, distinct keys)=2 results, got %d", len(out))
	}
}

func TestRank_DescendingOrder(t *testing.T) {
	r := NewRanker(DefaultTopK)

	out := r.Rank([]model.SearchHit{
		hit("a", 0.2), hit("b", 0.9), hit("c", 0.5), hit("d", 0.7),
	})
	for i := 0; i+1 < len(out); i++ {
		if out[i].Score < out[i+1].Score {
			t.Fatalf("output not in descending score order at %d: %v < %v", i, out[i].Score, out[i+1].Score)
		}
	}
}

func TestRank_TieKeepsEarlierChunk(t *testing.T) {
	r := NewRanker(DefaultTopK)

	first := model.SearchHit{StorageName: "doc1", ID: "chunk-1", Score: 0.8}
	second := model.SearchHit{StorageName: "doc1", ID: "chunk-2", Score: 0.8}
	out := r.Rank([]model.SearchHit{first, second})

	if len(out) != 1 {
		t.Fatalf("expected 1 result, got %d", len(out))
	}
	// first-write-wins: the equal-scoring later chunk never replaces the kept one
	if out[0].Snippet != first.Snippet || out[0].Score != 0.8 {
		t.Errorf("unexpected kept chunk: %+v", out[0])
	}
}

func TestRank_TieBetweenGroupsPreservesFirstSeenOrder(t *testing.T) {
	r := NewRanker(DefaultTopK)

	out := r.Rank([]model.SearchHit{
		hit("early", 0.5),
		hit("late", 0.5),
	})
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	if out[0].SourceKey != "early" || out[1].SourceKey != "late" {
		t.Errorf("tie broke first-seen order: got [%s, %s]", out[0].SourceKey, out[1].SourceKey)
	}
}

func TestRank_KeylessHitsCollapseToOneGroup(t *testing.T) {
	r := NewRanker(DefaultTopK)

	out := r.Rank([]model.SearchHit{
		{Score: 0.4},
		{Score: 0.6},
		hit("doc1", 0.5),
	})

	keyless := 0
	for _, res := range out {
		if res.SourceKey == "" {
			keyless++
			if res.Score != 0.6 {
				t.Errorf("keyless group should keep its best chunk, got score %v", res.Score)
			}
		}
	}
	if keyless != 1 {
		t.Fatalf("expected exactly one keyless result, got %d", keyless)
	}
	if out[0].SourceKey != "" {
		t.Errorf("keyless group sorts by its own score; expected it first, got %q", out[0].SourceKey)
	}
}

func TestRank_SourceKeyPreferenceOrder(t *testing.T) {
	cases := []struct {
		name string
		hit  model.SearchHit
		want string
	}{
		{"storage name wins", model.SearchHit{StorageName: "s", Title: "t", ID: "i"}, "s"},
		{"title next", model.SearchHit{Title: "t", ID: "i"}, "t"},
		{"id last", model.SearchHit{ID: "i"}, "i"},
		{"all absent", model.SearchHit{}, ""},
	}
	for _, tc := range cases {
		if got := tc.hit.SourceKey(); got != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
