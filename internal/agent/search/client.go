// Package search issues full-text queries against the external document
// index. One request per pipeline run: a single page at the configured page
// size, no pagination, no retries.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/contentiq/assistant/internal/agent/model"
	errx "github.com/contentiq/assistant/internal/core/error"
	logx "github.com/contentiq/assistant/pkg/logger"
)

// snippetRunes bounds the display snippet taken from a hit's content field.
const snippetRunes = 200

// Gateway is the outbound search capability consumed by the pipeline.
type Gateway interface {
	// Search returns the raw chunk-level hits for a topic. On any transport
	// or HTTP-level failure the hit list is empty and the returned error is
	// advisory: callers log it, flag the run as degraded, and continue —
	// zero hits is a valid terminal state, never an abort.
	Search(ctx context.Context, topic string) ([]model.SearchHit, error)
}

type Client struct {
	cfg   model.SearchConfig
	httpc *http.Client
}

func NewClient(cfg model.SearchConfig) *Client {
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: cfg.Timeout},
	}
}

type searchRequest struct {
	Search string `json:"search"`
	Top    int    `json:"top"`
}

type searchResponse struct {
	Value []json.RawMessage `json:"value"`
}

func (c *Client) Search(ctx context.Context, topic string) ([]model.SearchHit, error) {
	url := fmt.Sprintf("%s/indexes/%s/docs/search?api-version=%s",
		strings.TrimSuffix(c.cfg.Endpoint, "/"), c.cfg.Index, c.cfg.APIVersion)

	payload, err := json.Marshal(searchRequest{Search: topic, Top: c.cfg.PageSize})
	if err != nil {
		return []model.SearchHit{}, errx.WrapSearch(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return []model.SearchHit{}, errx.WrapSearch(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.cfg.APIKey)

	res, err := c.httpc.Do(req)
	if err != nil {
		logx.Warn().Err(err).Str("topic", topic).Msg("search request failed")
		return []model.SearchHit{}, errx.WrapSearch(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 2048))
		logx.Warn().
			Int("status", res.StatusCode).
			Str("topic", topic).
			Str("body", string(body)).
			Msg("search returned non-200 status")
		return []model.SearchHit{}, errx.WrapSearch(fmt.Errorf("search status %d", res.StatusCode))
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		logx.Warn().Err(err).Str("topic", topic).Msg("failed to decode search response")
		return []model.SearchHit{}, errx.WrapSearch(err)
	}

	hits := make([]model.SearchHit, 0, len(sr.Value))
	for _, raw := range sr.Value {
		hits = append(hits, decodeHit(raw))
	}

	logx.Debug().Str("topic", topic).Int("hit_count", len(hits)).Msg("search completed")
	return hits, nil
}

// decodeHit maps one raw index record to a SearchHit. Identity fields the
// record lacks stay empty; the full record is retained opaquely in Raw.
func decodeHit(raw json.RawMessage) model.SearchHit {
	var rec map[string]any
	if err := json.Unmarshal(raw, &rec); err != nil {
		return model.SearchHit{}
	}

	hit := model.SearchHit{
		ID:          stringField(rec, "id"),
		Title:       stringField(rec, "title"),
		StorageName: stringField(rec, "metadata_storage_name"),
		Raw:         rec,
	}
	if score, ok := rec["@search.score"].(float64); ok {
		hit.Score = score
	}
	hit.Snippet = snippet(stringField(rec, "content"))
	return hit
}

func stringField(rec map[string]any, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}

func snippet(content string) string {
	if content == "" {
		return ""
	}
	runes := []rune(content)
	if len(runes) <= snippetRunes {
		return content
	}
	return string(runes[:snippetRunes]) + "..."
}

var _ Gateway = (*Client)(nil)
