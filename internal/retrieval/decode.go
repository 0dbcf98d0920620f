package retrieval

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrUnavailable covers transport failures, timeouts and non-2xx replies.
	ErrUnavailable = errors.New("retrieval service unavailable")
	// ErrMalformedResponse is returned when an upstream body does not match
	// the expected shape.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

var validate = validator.New()

// Passage is one retrieved chunk of text with its provenance.
type Passage struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Source string  `json:"source,omitempty"`
}

type searchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchResponse struct {
	Results []searchResult `json:"results" validate:"required,dive"`
	Query   string         `json:"query"`
}

type searchResult struct {
	Text   *string  `json:"text" validate:"required"`
	Score  *float64 `json:"score" validate:"required"`
	Source *string  `json:"source"`
}

// DecodeSearchResponse parses a /search body into passages, keeping the
// service's ordering.
func DecodeSearchResponse(body []byte) ([]Passage, error) {
	var wire searchResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if err := validate.Struct(wire); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	passages := make([]Passage, 0, len(wire.Results))
	for _, r := range wire.Results {
		p := Passage{Text: *r.Text, Score: *r.Score}
		if r.Source != nil {
			p.Source = *r.Source
		}
		passages = append(passages, p)
	}
	return passages, nil
}

// Ingest statuses reported by the knowledge base service.
const (
	IngestStatusSuccess = "success"
	IngestStatusError   = "error"
)

// IngestResult is the body of a knowledge base refresh.
type IngestResult struct {
	Status             string `json:"status" validate:"required,oneof=success error"`
	Message            string `json:"message"`
	DocumentsProcessed *int   `json:"documents_processed,omitempty" validate:"omitempty,min=0"`
}

// DecodeIngestResponse parses an /ingest body.
func DecodeIngestResponse(body []byte) (*IngestResult, error) {
	var res IngestResult
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if err := validate.Struct(res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return &res, nil
}
