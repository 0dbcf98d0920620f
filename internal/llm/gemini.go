package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	generativelanguage "google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"

	"github.com/Divas-Gupta30/docchat/internal/config"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini calls the Generative Language API with an API key.
type Gemini struct {
	svc     *generativelanguage.Service
	model   string
	timeout time.Duration
}

// NewGemini fails with a *ConfigError when no API key is set.
func NewGemini(ctx context.Context, cfg config.LLMConfig, opts ...option.ClientOption) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, &ConfigError{Provider: config.ProviderGemini, Missing: "GEMINI_API_KEY"}
	}

	opts = append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	return &Gemini{svc: svc, model: model, timeout: cfg.Timeout}, nil
}

func (g *Gemini) Name() string {
	return config.ProviderGemini
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{
			{
				Role:  "user",
				Parts: []*generativelanguage.Part{{Text: prompt}},
			},
		},
	}

	resp, err := g.svc.Models.GenerateContent(g.model, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %w", ErrGeneration, err)
	}
	return candidateText(resp), nil
}

// candidateText returns the text of the first candidate that has any.
func candidateText(resp *generativelanguage.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, p := range c.Content.Parts {
			if p != nil {
				sb.WriteString(p.Text)
			}
		}
		if text := sb.String(); strings.TrimSpace(text) != "" {
			return text
		}
	}
	return ""
}
