package graph

import (
	"fmt"
	"io"
	"strings"
)

// FallbackAnswer is used when the LLM returns no text.
const FallbackAnswer = "I'm sorry, I couldn't generate a response."

// Answer is the structured reply to one question. Sources is nil, and
// omitted from JSON, when no passage carried a source.
type Answer struct {
	Text       string   `json:"answer"`
	Sources    []string `json:"sources,omitempty"`
	HasContext bool     `json:"hasContext"`
}

func shapeAnswer(raw string, gc GroundingContext, hasContext bool) *Answer {
	text := raw
	if strings.TrimSpace(text) == "" {
		text = FallbackAnswer
	}

	var sources []string
	if len(gc.Sources) > 0 {
		sources = gc.Sources
	}

	return &Answer{Text: text, Sources: sources, HasContext: hasContext}
}

// Print writes the answer for terminal use.
func Print(w io.Writer, a *Answer) {
	fmt.Fprintln(w, "\n===== ANSWER =====")
	fmt.Fprintln(w, a.Text)
	if !a.HasContext {
		fmt.Fprintln(w, "\n(No matching documents; answered from general knowledge.)")
	}
	if len(a.Sources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, s := range a.Sources {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
}
