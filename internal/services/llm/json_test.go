package llm

import (
	"strings"
	"testing"
)

type themeRow struct {
	Theme     string   `json:"theme"`
	Subpoints []string `json:"subpoints"`
}

func TestDecodeAnalysisJSONFencedBlock(t *testing.T) {
	content := "Here are the themes:\n```json\n[{\"theme\":\"Trust\",\"subpoints\":[\"a\",\"b\"]}]\n```\nDone."
	var rows []themeRow
	if err := DecodeAnalysisJSON(content, &rows); err != nil {
		t.Fatalf("DecodeAnalysisJSON: %v", err)
	}
	if len(rows) != 1 || rows[0].Theme != "Trust" || len(rows[0].Subpoints) != 2 {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestDecodeAnalysisJSONFencedWithoutLanguageTag(t *testing.T) {
	content := "```\n[{\"theme\":\"Access\",\"subpoints\":[]}]\n```"
	var rows []themeRow
	if err := DecodeAnalysisJSON(content, &rows); err != nil {
		t.Fatalf("DecodeAnalysisJSON: %v", err)
	}
	if rows[0].Theme != "Access" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestDecodeAnalysisJSONBareArrayFallback(t *testing.T) {
	content := "<think>reasoning about transcripts</think>\nThe result is [{\"theme\":\"Cost\",\"subpoints\":[\"fees\"]}] as requested."
	var rows []themeRow
	if err := DecodeAnalysisJSON(content, &rows); err != nil {
		t.Fatalf("DecodeAnalysisJSON: %v", err)
	}
	if rows[0].Theme != "Cost" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestDecodeAnalysisJSONMalformedFencedFails(t *testing.T) {
	content := "```json\n[{\"theme\": \"broken\"\n```"
	var rows []themeRow
	err := DecodeAnalysisJSON(content, &rows)
	if err == nil {
		t.Fatal("expected parse failure")
	}
	if !strings.Contains(err.Error(), "payload snippet") {
		t.Fatalf("expected snippet in error, got %v", err)
	}
}

func TestDecodeAnalysisJSONNoArrayFails(t *testing.T) {
	var rows []themeRow
	if err := DecodeAnalysisJSON("I could not find any themes.", &rows); err == nil {
		t.Fatal("expected error for prose-only response")
	}
	if err := DecodeAnalysisJSON("   ", &rows); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestSummarizeSnippetTruncates(t *testing.T) {
	long := strings.Repeat("word ", 100)
	snippet := summarizeSnippet(long)
	if len([]rune(snippet)) > 170 {
		t.Fatalf("snippet too long: %d runes", len([]rune(snippet)))
	}
	if !strings.HasSuffix(snippet, "...") {
		t.Fatalf("expected ellipsis, got %q", snippet)
	}
}
