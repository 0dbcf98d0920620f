package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Divas-Gupta30/docchat/internal/config"
)

const defaultOllamaModel = "llama3"

// request body for Ollama
type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// Ollama streaming response chunks look like { "response": "...", "done": false }
// With stream=false the whole answer arrives as one chunk.
type ollamaResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Ollama calls a local Ollama server's /api/generate.
type Ollama struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllama fails with a *ConfigError when no base URL is set.
func NewOllama(cfg config.LLMConfig) (*Ollama, error) {
	if cfg.OllamaURL == "" {
		return nil, &ConfigError{Provider: config.ProviderOllama, Missing: "OLLAMA_URL"}
	}
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	return &Ollama{
		baseURL:    cfg.OllamaURL,
		model:      model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (o *Ollama) Name() string {
	return config.ProviderOllama
}

func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(ollamaRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("encoding ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("creating ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: calling ollama: %w", ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: ollama status %d: %s", ErrGeneration, resp.StatusCode, string(body))
	}

	var out strings.Builder
	decoder := json.NewDecoder(resp.Body)
	for {
		var chunk ollamaResponse
		if err := decoder.Decode(&chunk); err == io.EOF {
			break
		} else if err != nil {
			return "", fmt.Errorf("%w: decoding ollama response: %w", ErrGeneration, err)
		}
		out.WriteString(chunk.Response)
		if chunk.Done {
			break
		}
	}

	return out.String(), nil
}
