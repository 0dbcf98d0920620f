package graph

import (
	"fmt"
	"strings"

	"github.com/Divas-Gupta30/docchat/internal/retrieval"
)

const (
	passageSeparator = "\n\n---\n\n"
	// NoContextMarker replaces the context text when nothing was retrieved.
	NoContextMarker = "No relevant context found in the knowledge base."
)

// GroundingContext is the text handed to the LLM plus the passage sources
// in retrieval order, duplicates kept.
type GroundingContext struct {
	Text    string
	Sources []string
}

// BuildContext joins passage texts in the order given. Passages without a
// source contribute text but no source entry.
func BuildContext(passages []retrieval.Passage) GroundingContext {
	if len(passages) == 0 {
		return GroundingContext{Text: NoContextMarker}
	}

	texts := make([]string, 0, len(passages))
	var sources []string
	for _, p := range passages {
		texts = append(texts, p.Text)
		if p.Source != "" {
			sources = append(sources, p.Source)
		}
	}
	return GroundingContext{
		Text:    strings.Join(texts, passageSeparator),
		Sources: sources,
	}
}

const promptTemplate = `You are a helpful assistant answering questions about a private document collection.

Use the context below to answer the question when it is relevant. If the context does not contain the answer, answer from your general knowledge and say clearly that the documents did not cover it. Never claim the documents say something they do not.

Context:
%s

Question: %s

Answer:`

// BuildPrompt interpolates the context text and the literal question.
func BuildPrompt(gc GroundingContext, question string) string {
	return fmt.Sprintf(promptTemplate, gc.Text, question)
}
