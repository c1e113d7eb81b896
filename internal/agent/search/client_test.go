package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/contentiq/assistant/internal/agent/model"
)

func testConfig(endpoint string) model.SearchConfig {
	return model.SearchConfig{
		Endpoint:   endpoint,
		APIKey:     "test-key",
		Index:      "doc-index",
		APIVersion: "2023-07-01-preview",
		PageSize:   1000,
		Timeout:    2 * time.Second,
	}
}

func TestSearch_MapsHits(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotKey = r.Header.Get("api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]any{
			"value": []map[string]any{
				{
					"@search.score":         1.42,
					"id":                    "chunk-1",
					"title":                 "report.pdf",
					"metadata_storage_name": "report.pdf",
					"content":               strings.Repeat("x", 300),
				},
				{
					"@search.score": 0.3,
					"id":            "chunk-2",
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	hits, err := c.Search(context.Background(), "quarterly report")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if gotPath != "/indexes/doc-index/docs/search?api-version=2023-07-01-preview" {
		t.Errorf("unexpected request path: %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("missing api-key header, got %q", gotKey)
	}
	if gotBody["search"] != "quarterly report" {
		t.Errorf("unexpected search payload: %v", gotBody["search"])
	}
	if gotBody["top"] != float64(1000) {
		t.Errorf("expected page size 1000, got %v", gotBody["top"])
	}

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].StorageName != "report.pdf" || hits[0].Score != 1.42 {
		t.Errorf("unexpected first hit: %+v", hits[0])
	}
	if !strings.HasSuffix(hits[0].Snippet, "...") || len([]rune(hits[0].Snippet)) != 203 {
		t.Errorf("snippet not truncated to 200 runes: %d", len([]rune(hits[0].Snippet)))
	}
	if hits[1].SourceKey() != "chunk-2" {
		t.Errorf("expected id fallback for source key, got %q", hits[1].SourceKey())
	}
}

func TestSearch_HTTPErrorYieldsEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index on fire", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	hits, err := c.Search(context.Background(), "anything")

	if err == nil {
		t.Error("expected advisory error for HTTP 500")
	}
	if hits == nil || len(hits) != 0 {
		t.Fatalf("expected empty non-nil hit list, got %v", hits)
	}
}

func TestSearch_TimeoutYieldsEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 20 * time.Millisecond
	c := NewClient(cfg)

	hits, err := c.Search(context.Background(), "slow topic")
	if err == nil {
		t.Error("expected advisory error on timeout")
	}
	if len(hits) != 0 {
		t.Fatalf("expected empty hit list on timeout, got %d hits", len(hits))
	}
}

func TestSearch_UnreachableEndpointYieldsEmptyList(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Timeout = 500 * time.Millisecond
	c := NewClient(cfg)

	hits, err := c.Search(context.Background(), "anything")
	if err == nil {
		t.Error("expected advisory error for unreachable endpoint")
	}
	if len(hits) != 0 {
		t.Fatalf("expected empty hit list, got %d hits", len(hits))
	}
}
