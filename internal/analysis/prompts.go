package analysis

import (
	"fmt"
	"strings"

	"fieldnote/internal/projects"
)

const themesPromptTemplate = `You are a qualitative research assistant. Analyze the following interview transcripts and identify the main recurring themes.

Return ONLY a JSON array inside a fenced code block, like this:

` + "```json" + `
[
  {"theme": "Theme name", "subpoints": ["Supporting observation", "Another observation"]}
]
` + "```" + `

Each theme needs a concise name and two to four subpoints grounded in what participants actually said. Do not include any text outside the code block.

Transcripts:

%s`

const keywordsPromptTemplate = `You are a qualitative research assistant. Extract the notable keywords and phrases from the following interview transcripts and group them into categories.

Return ONLY a JSON array inside a fenced code block, like this:

` + "```json" + `
[
  {
    "category": "Category name",
    "keywords": [
      {"term": "keyword or phrase", "description": "what it means in context", "quote": "a short verbatim quote using it"}
    ]
  }
]
` + "```" + `

Use the participants' own wording for quotes. Do not include any text outside the code block.

Transcripts:

%s`

func themesPrompt(corpus string) string {
	return fmt.Sprintf(themesPromptTemplate, corpus)
}

func keywordsPrompt(corpus string) string {
	return fmt.Sprintf(keywordsPromptTemplate, corpus)
}

// contextQuery builds the web-search query for one theme.
func contextQuery(theme string) string {
	return fmt.Sprintf("What is %q?", theme)
}

// joinTranscripts concatenates non-empty transcripts, separated by blank lines.
func joinTranscripts(interviews []projects.Interview) string {
	parts := make([]string, 0, len(interviews))
	for _, interview := range interviews {
		if transcript := strings.TrimSpace(interview.Transcript); transcript != "" {
			parts = append(parts, transcript)
		}
	}
	return strings.Join(parts, "\n\n")
}
