package retrieval

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Divas-Gupta30/docchat/internal/config"
)

// Messages relayed to the UI when the refresh cannot reach a usable backend.
const (
	ConnectivityMessage = "Could not connect to the knowledge base service. Is the local RAG agent running?"
	MalformedMessage    = "Knowledge base service returned an invalid response."
)

// IngestClient triggers a knowledge base refresh on the retrieval service.
// Ingestion can take minutes, so it uses its own long-timeout client.
type IngestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewIngestClient(cfg config.RetrievalConfig) *IngestClient {
	return &IngestClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.IngestTimeout},
	}
}

// Refresh posts an empty body to /ingest. It always returns a result and
// the HTTP status to relay; err is non-nil only when the backend could not
// be used, and is for logging.
func (c *IngestClient) Refresh(ctx context.Context) (*IngestResult, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ingest", nil)
	if err != nil {
		return connectivityFailure(), http.StatusServiceUnavailable, fmt.Errorf("creating ingest request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return connectivityFailure(), http.StatusServiceUnavailable, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return connectivityFailure(), http.StatusServiceUnavailable, fmt.Errorf("%w: reading body: %w", ErrUnavailable, err)
	}

	result, err := DecodeIngestResponse(body)
	if err != nil {
		return &IngestResult{Status: IngestStatusError, Message: MalformedMessage},
			http.StatusBadGateway,
			fmt.Errorf("ingest status %d: %w", resp.StatusCode, err)
	}
	return result, resp.StatusCode, nil
}

func connectivityFailure() *IngestResult {
	return &IngestResult{Status: IngestStatusError, Message: ConnectivityMessage}
}
