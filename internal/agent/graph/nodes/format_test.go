package nodes

import (
	"strings"
	"testing"

	"github.com/contentiq/assistant/internal/agent/model"
)

func TestFormatResultsEmpty(t *testing.T) {
	if got := FormatResults(nil); got != NoResultsMessage {
		t.Errorf("FormatResults(nil) = %q, want %q", got, NoResultsMessage)
	}
	if got := FormatResults([]model.RankedResult{}); got != NoResultsMessage {
		t.Errorf("FormatResults(empty) = %q, want %q", got, NoResultsMessage)
	}
}

func TestFormatResultsRendersNumberedList(t *testing.T) {
	out := FormatResults([]model.RankedResult{
		{SourceKey: "report.pdf", Title: "Q3 Report", Score: 0.95, Snippet: "revenue grew", RetrievalURL: "https://files.example.com/report.pdf?sig=abc"},
		{SourceKey: "notes.txt", Title: "Meeting Notes", Score: 0.5},
	})

	if !strings.Contains(out, "1. Q3 Report (score 0.95)") {
		t.Errorf("missing first entry:\n%s", out)
	}
	if !strings.Contains(out, "2. Meeting Notes (score 0.50)") {
		t.Errorf("missing second entry:\n%s", out)
	}
	if !strings.Contains(out, "revenue grew") {
		t.Errorf("missing snippet:\n%s", out)
	}
	if !strings.Contains(out, "Download: https://files.example.com/report.pdf?sig=abc") {
		t.Errorf("missing download link:\n%s", out)
	}
	// The second entry has no link and no snippet; only one Download line.
	if strings.Count(out, "Download:") != 1 {
		t.Errorf("unexpected download lines:\n%s", out)
	}
}

func TestFormatResultsTitleFallback(t *testing.T) {
	out := FormatResults([]model.RankedResult{
		{SourceKey: "report.pdf", Score: 0.9},
		{Score: 0.1},
	})
	if !strings.Contains(out, "1. report.pdf") {
		t.Errorf("untitled entry should fall back to source key:\n%s", out)
	}
	if !strings.Contains(out, "2. Untitled") {
		t.Errorf("keyless entry should fall back to Untitled:\n%s", out)
	}
}
