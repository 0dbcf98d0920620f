package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Divas-Gupta30/docchat/internal/config"
	"github.com/Divas-Gupta30/docchat/internal/graph"
	"github.com/Divas-Gupta30/docchat/internal/retrieval"
)

// Asker answers one question.
type Asker interface {
	Ask(ctx context.Context, question string) (*graph.Answer, error)
}

// Refresher triggers a knowledge base refresh.
type Refresher interface {
	Refresh(ctx context.Context) (*retrieval.IngestResult, int, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Cache is the part of the retrieval cache the HTTP layer needs.
type Cache interface {
	Pinger
	Invalidate(ctx context.Context) (int, error)
}

// Deps are the collaborators behind the HTTP surface. Cache may be nil.
type Deps struct {
	Pipeline      Asker
	Ingest        Refresher
	Retrieval     Pinger
	Cache         Cache
	LLMProvider   string
	LLMConfigured bool
}

type Server struct {
	cfg     config.ServerConfig
	deps    Deps
	log     *zap.Logger
	limiter *rate.Limiter
}

func New(cfg config.ServerConfig, deps Deps, log *zap.Logger) *Server {
	s := &Server{cfg: cfg, deps: deps, log: log}
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}
	return s
}

// Handler builds the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Use(s.requestID, s.instrument)

	api := router.NewRoute().Subrouter()
	api.Use(s.rateLimit)
	api.HandleFunc("/chat", s.handleChat).Methods("POST")
	api.HandleFunc("/ingest", s.handleIngest).Methods("POST")

	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler())

	return s.cors(router)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("docchat server starting", zap.String("port", s.cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server exited")
	return nil
}
