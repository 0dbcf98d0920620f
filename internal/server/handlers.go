package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"

	"github.com/Divas-Gupta30/docchat/internal/graph"
	"github.com/Divas-Gupta30/docchat/internal/llm"
	"github.com/Divas-Gupta30/docchat/internal/metrics"
	"github.com/Divas-Gupta30/docchat/internal/retrieval"
)

const (
	msgMessageRequired = "Message is required"
	msgInvalidBody     = "Invalid request body"
	msgGenerateFailed  = "Failed to generate response"
	maxRequestBytes    = 1 << 20
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

type chatRequest struct {
	Message string `json:"message" validate:"notblank"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status        string `json:"status"`
	Retrieval     string `json:"retrieval"`
	Cache         string `json:"cache"`
	LLMProvider   string `json:"llm_provider"`
	LLMConfigured bool   `json:"llm_configured"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	log := loggerFrom(r.Context(), s.log)

	var req chatRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgMessageRequired})
		return
	}

	answer, err := s.deps.Pipeline.Ask(r.Context(), req.Message)
	if err != nil {
		s.writeChatError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

// writeChatError maps pipeline errors to responses. Internal details only
// reach the log.
func (s *Server) writeChatError(w http.ResponseWriter, log *zap.Logger, err error) {
	var cfgErr *llm.ConfigError
	switch {
	case errors.Is(err, graph.ErrEmptyQuestion):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgMessageRequired})
	case errors.As(err, &cfgErr):
		log.Error("llm misconfigured", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: cfgErr.Error()})
	default:
		log.Error("chat request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: msgGenerateFailed})
	}
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	log := loggerFrom(r.Context(), s.log)

	result, status, err := s.deps.Ingest.Refresh(r.Context())
	if err != nil {
		log.Warn("knowledge base refresh failed", zap.Error(err), zap.Int("status", status))
	}
	metrics.IngestRequestsTotal.WithLabelValues(result.Status).Inc()

	if result.Status == retrieval.IngestStatusSuccess && s.deps.Cache != nil {
		if n, err := s.deps.Cache.Invalidate(r.Context()); err != nil {
			log.Warn("retrieval cache invalidation failed", zap.Error(err))
		} else {
			log.Info("retrieval cache invalidated", zap.Int("keys", n))
		}
	}

	writeJSON(w, status, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := healthResponse{
		Status:        "healthy",
		Retrieval:     "connected",
		Cache:         "disabled",
		LLMProvider:   s.deps.LLMProvider,
		LLMConfigured: s.deps.LLMConfigured,
	}

	if err := s.deps.Retrieval.Ping(r.Context()); err != nil {
		health.Retrieval = "unreachable"
	}
	if s.deps.Cache != nil {
		health.Cache = "connected"
		if err := s.deps.Cache.Ping(r.Context()); err != nil {
			health.Cache = "disconnected"
		}
	}

	writeJSON(w, http.StatusOK, health)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
