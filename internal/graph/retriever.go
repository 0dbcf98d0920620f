package graph

import (
	"context"

	"github.com/Divas-Gupta30/docchat/internal/retrieval"
)

// Retriever fetches passages for a question. It must not fail: an
// unavailable knowledge base yields no passages.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) []retrieval.Passage
}

func (p *Pipeline) retrieverNode(ctx context.Context, s *State) error {
	s.Passages = p.retriever.Retrieve(ctx, s.Question, p.topK)
	return nil
}
