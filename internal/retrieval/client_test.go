package retrieval

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Divas-Gupta30/docchat/internal/config"
)

func newTestClient(url string, timeout time.Duration) *Client {
	return NewClient(config.RetrievalConfig{BaseURL: url, TopK: 5, Timeout: timeout})
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req searchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "  What is the refund policy? ", req.Query)
		assert.Equal(t, 5, req.TopK)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"text":"Refunds within 30 days.","score":0.9,"source":"policy.pdf"}],"query":"What is the refund policy?"}`))
	}))
	defer server.Close()

	passages, err := newTestClient(server.URL, time.Second).Search(context.Background(), "  What is the refund policy? ", 5)
	require.NoError(t, err)
	assert.Equal(t, []Passage{{Text: "Refunds within 30 days.", Score: 0.9, Source: "policy.pdf"}}, passages)
}

func TestClient_Search_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Query cannot be empty."}`, http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, time.Second).Search(context.Background(), "q", 5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Search_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"hits": []}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, time.Second).Search(context.Background(), "q", 5)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClient_Search_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 50*time.Millisecond).Search(context.Background(), "Hello", 5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Search_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestClient(url, time.Second).Search(context.Background(), "q", 5)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Ping(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"status":"ok","vector_store_ready":true,"bm25_ready":true}`))
	}))
	defer healthy.Close()
	assert.NoError(t, newTestClient(healthy.URL, time.Second).Ping(context.Background()))

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()
	assert.ErrorIs(t, newTestClient(failing.URL, time.Second).Ping(context.Background()), ErrUnavailable)
}
