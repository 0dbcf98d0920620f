package graph

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Divas-Gupta30/docchat/internal/retrieval"
)

// ErrEmptyQuestion is returned before any network call when the question is
// blank.
var ErrEmptyQuestion = errors.New("question is empty")

// State is created per question and threaded through the nodes.
type State struct {
	Question string
	Passages []retrieval.Passage
	Answer   *Answer
}

// Pipeline answers questions: validate, retrieve (best-effort), compose.
// It holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	retriever Retriever
	composer  *Composer
	topK      int
	log       *zap.Logger
}

func NewPipeline(retriever Retriever, composer *Composer, topK int, log *zap.Logger) *Pipeline {
	return &Pipeline{retriever: retriever, composer: composer, topK: topK, log: log}
}

// Ask runs the workflow for one question.
func (p *Pipeline) Ask(ctx context.Context, question string) (*Answer, error) {
	s := &State{Question: question}
	if err := p.RunWorkflow(ctx, s); err != nil {
		return nil, err
	}
	return s.Answer, nil
}

func (p *Pipeline) RunWorkflow(ctx context.Context, s *State) error {
	nodes := []func(context.Context, *State) error{
		p.validateNode,
		p.retrieverNode,
		p.composerNode,
	}
	for _, n := range nodes {
		if err := n(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) validateNode(_ context.Context, s *State) error {
	if strings.TrimSpace(s.Question) == "" {
		return ErrEmptyQuestion
	}
	return nil
}
