// Package llm wraps the text-generation providers behind a single-call port.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/Divas-Gupta30/docchat/internal/config"
)

var (
	// ErrNotConfigured means the deployment lacks the provider's
	// configuration. It is raised before any network call.
	ErrNotConfigured = errors.New("LLM is not configured")
	// ErrGeneration wraps any failure of the provider itself.
	ErrGeneration = errors.New("LLM generation failed")
)

// Generator turns one composed prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// ConfigError names the missing setting. Its message is safe to show to
// callers.
type ConfigError struct {
	Provider string
	Missing  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("LLM is not configured: set %s", e.Missing)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrNotConfigured
}

// Unconfigured stands in for a provider whose configuration is missing.
// Every call fails with its ConfigError and never touches the network.
type Unconfigured struct {
	Err *ConfigError
}

func (u Unconfigured) Generate(context.Context, string) (string, error) {
	return "", u.Err
}

func (u Unconfigured) Name() string {
	return u.Err.Provider
}

// New selects the provider named in cfg. Missing configuration yields an
// Unconfigured generator rather than an error so the server can still start.
func New(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	var (
		gen Generator
		err error
	)
	switch cfg.Provider {
	case config.ProviderOllama:
		gen, err = NewOllama(cfg)
	default:
		gen, err = NewGemini(ctx, cfg)
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return Unconfigured{Err: cfgErr}, nil
	}
	if err != nil {
		return nil, err
	}
	return gen, nil
}

// Configured reports whether gen can reach a real provider.
func Configured(gen Generator) bool {
	_, unconfigured := gen.(Unconfigured)
	return !unconfigured
}
