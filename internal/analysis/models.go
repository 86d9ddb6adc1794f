// Package analysis derives themes, keyword categories, and external context
// from a project's interview transcripts and manages the per-project cache.
package analysis

// Theme is one recurring topic identified across transcripts.
type Theme struct {
	Theme     string   `json:"theme"`
	Subpoints []string `json:"subpoints"`
}

// Keyword is a notable term with its meaning and a supporting quote.
type Keyword struct {
	Term        string `json:"term"`
	Description string `json:"description"`
	Quote       string `json:"quote"`
}

// KeywordCategory groups related keywords.
type KeywordCategory struct {
	Category string    `json:"category"`
	Keywords []Keyword `json:"keywords"`
}

// ThemeContext pairs a theme with a short externally sourced explanation.
type ThemeContext struct {
	Theme   string `json:"theme"`
	Context string `json:"context"`
}

// ThemesResult is the cached payload for a project's theme analysis.
type ThemesResult struct {
	Themes       []Theme `json:"themes"`
	LastAnalysis string  `json:"lastAnalysis"`
}

// KeywordsResult is the cached payload for a project's keyword analysis.
type KeywordsResult struct {
	Keywords     []KeywordCategory `json:"keywords"`
	LastAnalysis string            `json:"lastAnalysis"`
}

// ContextResult is the cached payload for a project's theme context.
type ContextResult struct {
	Data      []ThemeContext `json:"data"`
	LastFetch string         `json:"lastFetch"`
}

// Fallback context strings shown per theme.
const (
	contextNotFound   = "No relevant external information found."
	contextFetchError = "Error fetching context."
)
