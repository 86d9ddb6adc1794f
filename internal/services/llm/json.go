package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DecodeAnalysisJSON decodes a JSON array from a model response. It prefers a
// fenced ```json block, falls back to the first bracket-matched array in the
// text, and fails when neither parses.
func DecodeAnalysisJSON(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return errors.New("empty payload")
	}

	if fenced := extractFencedBlock(trimmed); fenced != "" {
		if err := json.Unmarshal([]byte(fenced), target); err != nil {
			return fmt.Errorf("%w (payload snippet: %s)", err, summarizeSnippet(fenced))
		}
		return nil
	}

	if array := extractBracketArray(trimmed); array != "" {
		if err := json.Unmarshal([]byte(array), target); err != nil {
			return fmt.Errorf("%w (payload snippet: %s)", err, summarizeSnippet(array))
		}
		return nil
	}

	directErr := json.Unmarshal([]byte(trimmed), target)
	if directErr == nil {
		return nil
	}
	return fmt.Errorf("no JSON array found in response (payload snippet: %s)", summarizeSnippet(trimmed))
}

// extractFencedBlock returns the body of the first ``` fenced block, stripping
// an optional json language tag.
func extractFencedBlock(content string) string {
	start := strings.Index(content, "```")
	if start < 0 {
		return ""
	}
	body := content[start+3:]
	body = strings.TrimLeft(body, " \t\r\n")
	if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
		body = body[4:]
		body = strings.TrimLeft(body, " \t\r\n")
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

func extractBracketArray(content string) string {
	start := strings.Index(content, "[")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(content, "]")
	if end <= start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}

func summarizeSnippet(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "<empty>"
	}
	clean := strings.Join(strings.Fields(trimmed), " ")
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
