package graph

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Divas-Gupta30/docchat/internal/config"
	"github.com/Divas-Gupta30/docchat/internal/llm"
	"github.com/Divas-Gupta30/docchat/internal/retrieval"
)

type fakeRetriever struct {
	passages []retrieval.Passage
	calls    int
	query    string
	topK     int
}

func (f *fakeRetriever) Retrieve(_ context.Context, query string, topK int) []retrieval.Passage {
	f.calls++
	f.query = query
	f.topK = topK
	return f.passages
}

type fakeGenerator struct {
	reply  string
	err    error
	calls  int
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.reply, f.err
}

func (f *fakeGenerator) Name() string { return "fake" }

func newPipeline(r Retriever, gen llm.Generator) *Pipeline {
	return NewPipeline(r, NewComposer(gen, zap.NewNop()), 5, zap.NewNop())
}

func TestBuildContext(t *testing.T) {
	gc := BuildContext(nil)
	assert.Equal(t, NoContextMarker, gc.Text)
	assert.Nil(t, gc.Sources)

	gc = BuildContext([]retrieval.Passage{
		{Text: "first", Source: "a.pdf"},
		{Text: "second", Source: "b.md"},
		{Text: "third", Source: "a.pdf"},
		{Text: "fourth"},
	})
	assert.Equal(t, "first\n\n---\n\nsecond\n\n---\n\nthird\n\n---\n\nfourth", gc.Text)
	assert.Equal(t, []string{"a.pdf", "b.md", "a.pdf"}, gc.Sources)
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(GroundingContext{Text: "Refunds within 30 days."}, "What is the refund policy? 100%")

	assert.Contains(t, prompt, "Context:\nRefunds within 30 days.")
	assert.Contains(t, prompt, "Question: What is the refund policy? 100%")
	assert.Contains(t, prompt, "general knowledge")
	assert.True(t, strings.HasSuffix(prompt, "Answer:"))
}

func TestPipeline_GroundedAnswer(t *testing.T) {
	r := &fakeRetriever{passages: []retrieval.Passage{
		{Text: "Refunds within 30 days.", Score: 0.9, Source: "policy.pdf"},
	}}
	gen := &fakeGenerator{reply: "You can get a refund within 30 days."}

	answer, err := newPipeline(r, gen).Ask(context.Background(), "What is the refund policy?")
	require.NoError(t, err)

	assert.True(t, answer.HasContext)
	assert.Equal(t, []string{"policy.pdf"}, answer.Sources)
	assert.Contains(t, answer.Text, "refund")
	assert.Equal(t, "What is the refund policy?", r.query)
	assert.Equal(t, 5, r.topK)
	assert.Contains(t, gen.prompt, "Refunds within 30 days.")
	assert.Contains(t, gen.prompt, "What is the refund policy?")
	assert.Equal(t, 1, gen.calls)
}

func TestPipeline_RetrievalTimeoutDegradesToNoContext(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer slow.Close()

	client := retrieval.NewClient(config.RetrievalConfig{BaseURL: slow.URL, Timeout: 50 * time.Millisecond})
	gateway := retrieval.NewGateway(client, nil, zap.NewNop())
	gen := &fakeGenerator{reply: "Hello! How can I help you today?"}

	answer, err := newPipeline(gateway, gen).Ask(context.Background(), "Hello")
	require.NoError(t, err)

	assert.False(t, answer.HasContext)
	assert.Nil(t, answer.Sources)
	assert.Equal(t, "Hello! How can I help you today?", answer.Text)
	assert.Contains(t, gen.prompt, NoContextMarker)
}

func TestPipeline_EmptyQuestionMakesNoCalls(t *testing.T) {
	for _, q := range []string{"", "   ", "\n\t"} {
		r := &fakeRetriever{}
		gen := &fakeGenerator{reply: "x"}

		answer, err := newPipeline(r, gen).Ask(context.Background(), q)

		assert.ErrorIs(t, err, ErrEmptyQuestion)
		assert.Nil(t, answer)
		assert.Zero(t, r.calls)
		assert.Zero(t, gen.calls)
	}
}

func TestPipeline_HasContextIffPassages(t *testing.T) {
	for k := 0; k <= 3; k++ {
		passages := make([]retrieval.Passage, k)
		for i := range passages {
			passages[i] = retrieval.Passage{Text: "t", Source: "s.md"}
		}
		answer, err := newPipeline(&fakeRetriever{passages: passages}, &fakeGenerator{reply: "ok"}).
			Ask(context.Background(), "q")
		require.NoError(t, err)
		assert.Equal(t, k > 0, answer.HasContext, "k=%d", k)
	}
}

func TestPipeline_SourcesKeepServiceOrder(t *testing.T) {
	r := &fakeRetriever{passages: []retrieval.Passage{
		{Text: "1", Score: 0.2, Source: "z.pdf"},
		{Text: "2", Score: 0.9, Source: "a.pdf"},
		{Text: "3", Score: 0.5, Source: "z.pdf"},
	}}

	answer, err := newPipeline(r, &fakeGenerator{reply: "ok"}).Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"z.pdf", "a.pdf", "z.pdf"}, answer.Sources)
}

func TestPipeline_PassagesWithoutSources(t *testing.T) {
	r := &fakeRetriever{passages: []retrieval.Passage{{Text: "no provenance"}}}

	answer, err := newPipeline(r, &fakeGenerator{reply: "ok"}).Ask(context.Background(), "q")
	require.NoError(t, err)
	assert.True(t, answer.HasContext)
	assert.Nil(t, answer.Sources)
}

func TestPipeline_EmptyLLMReplyUsesFallback(t *testing.T) {
	for _, reply := range []string{"", "  \n"} {
		answer, err := newPipeline(&fakeRetriever{}, &fakeGenerator{reply: reply}).Ask(context.Background(), "q")
		require.NoError(t, err)
		assert.Equal(t, FallbackAnswer, answer.Text)
	}
}

func TestPipeline_MissingCredentialWithHealthyRetrieval(t *testing.T) {
	r := &fakeRetriever{passages: []retrieval.Passage{{Text: "Refunds within 30 days.", Source: "policy.pdf"}}}
	gen, err := llm.New(context.Background(), config.LLMConfig{Provider: config.ProviderGemini})
	require.NoError(t, err)

	answer, err := newPipeline(r, gen).Ask(context.Background(), "What is the refund policy?")

	assert.Nil(t, answer)
	assert.ErrorIs(t, err, llm.ErrNotConfigured)
	assert.NotErrorIs(t, err, llm.ErrGeneration)
}

func TestPipeline_GenerationErrorPropagates(t *testing.T) {
	gen := &fakeGenerator{err: errors.Join(llm.ErrGeneration, errors.New("connection refused"))}

	answer, err := newPipeline(&fakeRetriever{}, gen).Ask(context.Background(), "q")

	assert.Nil(t, answer)
	assert.ErrorIs(t, err, llm.ErrGeneration)
	assert.Equal(t, 1, gen.calls, "no retry")
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, &Answer{Text: "30 days.", Sources: []string{"policy.pdf"}, HasContext: true})
	assert.Contains(t, buf.String(), "30 days.")
	assert.Contains(t, buf.String(), "  - policy.pdf")

	buf.Reset()
	Print(&buf, &Answer{Text: "Hi"})
	assert.Contains(t, buf.String(), "general knowledge")
	assert.NotContains(t, buf.String(), "Sources:")
}
