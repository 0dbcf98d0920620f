package retrieval

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Divas-Gupta30/docchat/internal/metrics"
)

// Searcher is the outbound call to the retrieval service.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]Passage, error)
}

// PassageCache stores successful search results. Implementations must treat
// their own failures as misses.
type PassageCache interface {
	Get(ctx context.Context, query string, topK int) ([]Passage, bool)
	Set(ctx context.Context, query string, topK int, passages []Passage)
}

// Gateway is the best-effort front of the retrieval service: any failure
// degrades to no passages so the question can still be answered.
type Gateway struct {
	searcher Searcher
	cache    PassageCache
	log      *zap.Logger
}

// NewGateway wires a searcher and an optional cache (nil disables caching).
func NewGateway(searcher Searcher, cache PassageCache, log *zap.Logger) *Gateway {
	return &Gateway{searcher: searcher, cache: cache, log: log}
}

// Retrieve never fails. The query is passed through unmodified.
func (g *Gateway) Retrieve(ctx context.Context, query string, topK int) []Passage {
	if g.cache != nil {
		if passages, ok := g.cache.Get(ctx, query, topK); ok {
			metrics.ObserveRetrieval(metrics.OutcomeCacheHit, 0)
			g.log.Debug("retrieval cache hit", zap.Int("passages", len(passages)))
			return passages
		}
	}

	start := time.Now()
	passages, err := g.searcher.Search(ctx, query, topK)
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObserveRetrieval(metrics.OutcomeError, elapsed)
		g.log.Warn("retrieval failed, answering without context",
			zap.Error(err),
			zap.Duration("elapsed", elapsed),
		)
		return nil
	}

	metrics.ObserveRetrieval(metrics.OutcomeSuccess, elapsed)
	g.log.Debug("retrieval succeeded",
		zap.Int("passages", len(passages)),
		zap.Duration("elapsed", elapsed),
	)

	if g.cache != nil && len(passages) > 0 {
		g.cache.Set(ctx, query, topK, passages)
	}
	return passages
}
