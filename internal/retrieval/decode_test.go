package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSearchResponse(t *testing.T) {
	body := []byte(`{
		"results": [
			{"text": "Refunds within 30 days.", "score": 0.9, "source": "policy.pdf"},
			{"text": "Shipping takes 5 days.", "score": 0.4, "source": null},
			{"text": "Refunds require a receipt.", "score": 0, "source": "policy.pdf"}
		],
		"query": "What is the refund policy?"
	}`)

	passages, err := DecodeSearchResponse(body)
	require.NoError(t, err)
	require.Len(t, passages, 3)

	assert.Equal(t, Passage{Text: "Refunds within 30 days.", Score: 0.9, Source: "policy.pdf"}, passages[0])
	assert.Equal(t, "", passages[1].Source)
	assert.Equal(t, 0.0, passages[2].Score)
}

func TestDecodeSearchResponse_EmptyResults(t *testing.T) {
	passages, err := DecodeSearchResponse([]byte(`{"results": [], "query": "x"}`))
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestDecodeSearchResponse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>502 Bad Gateway</html>`},
		{"empty body", ``},
		{"missing results", `{"query": "x"}`},
		{"null results", `{"results": null}`},
		{"results not a list", `{"results": {"text": "a"}}`},
		{"missing text", `{"results": [{"score": 0.5, "source": "a"}]}`},
		{"missing score", `{"results": [{"text": "a"}]}`},
		{"score wrong type", `{"results": [{"text": "a", "score": "high"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSearchResponse([]byte(tt.body))
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestDecodeIngestResponse(t *testing.T) {
	res, err := DecodeIngestResponse([]byte(`{"status": "success", "message": "Knowledge base refreshed successfully!", "documents_processed": 12}`))
	require.NoError(t, err)
	assert.Equal(t, IngestStatusSuccess, res.Status)
	require.NotNil(t, res.DocumentsProcessed)
	assert.Equal(t, 12, *res.DocumentsProcessed)

	res, err = DecodeIngestResponse([]byte(`{"status": "error", "message": "Ingestion timed out after 10 minutes."}`))
	require.NoError(t, err)
	assert.Equal(t, IngestStatusError, res.Status)
	assert.Nil(t, res.DocumentsProcessed)
}

func TestDecodeIngestResponse_Malformed(t *testing.T) {
	for _, body := range []string{
		`Internal Server Error`,
		`{"message": "no status"}`,
		`{"status": "pending", "message": "?"}`,
		`{"status": "success", "message": "ok", "documents_processed": -1}`,
	} {
		_, err := DecodeIngestResponse([]byte(body))
		assert.ErrorIs(t, err, ErrMalformedResponse, body)
	}
}
