package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Divas-Gupta30/docchat/internal/llm"
	"github.com/Divas-Gupta30/docchat/internal/metrics"
	"github.com/Divas-Gupta30/docchat/internal/retrieval"
)

// Composer grounds a question in retrieved passages and asks the LLM once.
type Composer struct {
	gen llm.Generator
	log *zap.Logger
}

func NewComposer(gen llm.Generator, log *zap.Logger) *Composer {
	return &Composer{gen: gen, log: log}
}

// Compose never retries. LLM failures are returned wrapped so callers can
// tell llm.ErrNotConfigured from llm.ErrGeneration.
func (c *Composer) Compose(ctx context.Context, question string, passages []retrieval.Passage) (*Answer, error) {
	gc := BuildContext(passages)
	prompt := BuildPrompt(gc, question)

	start := time.Now()
	raw, err := c.gen.Generate(ctx, prompt)
	elapsed := time.Since(start)

	if errors.Is(err, llm.ErrNotConfigured) {
		return nil, err
	}
	metrics.ObserveLLM(c.gen.Name(), err, elapsed)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	c.log.Debug("answer generated",
		zap.String("provider", c.gen.Name()),
		zap.Int("passages", len(passages)),
		zap.Duration("elapsed", elapsed),
	)
	return shapeAnswer(raw, gc, len(passages) > 0), nil
}

func (p *Pipeline) composerNode(ctx context.Context, s *State) error {
	answer, err := p.composer.Compose(ctx, s.Question, s.Passages)
	if err != nil {
		return err
	}
	s.Answer = answer
	return nil
}
