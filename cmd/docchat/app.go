package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Divas-Gupta30/docchat/internal/config"
	"github.com/Divas-Gupta30/docchat/internal/graph"
	"github.com/Divas-Gupta30/docchat/internal/llm"
	"github.com/Divas-Gupta30/docchat/internal/logger"
	"github.com/Divas-Gupta30/docchat/internal/retrieval"
)

// app holds the wired components shared by all commands.
type app struct {
	cfg       config.Config
	log       *zap.Logger
	client    *retrieval.Client
	cache     *retrieval.RedisCache
	generator llm.Generator
	pipeline  *graph.Pipeline
	ingest    *retrieval.IngestClient
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log := logger.New(cfg.Log)

	a := &app{
		cfg:    cfg,
		log:    log,
		client: retrieval.NewClient(cfg.Retrieval),
		ingest: retrieval.NewIngestClient(cfg.Retrieval),
	}

	var cache retrieval.PassageCache
	if cfg.Cache.Enabled() {
		a.cache = retrieval.NewRedisCache(cfg.Cache, log)
		cache = a.cache
	}
	gateway := retrieval.NewGateway(a.client, cache, log)

	a.generator, err = llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", cfg.LLM.Provider, err)
	}
	if !llm.Configured(a.generator) {
		log.Warn("LLM credentials missing, questions will fail until configured",
			zap.String("provider", cfg.LLM.Provider))
	}

	composer := graph.NewComposer(a.generator, log)
	a.pipeline = graph.NewPipeline(gateway, composer, cfg.Retrieval.TopK, log)
	return a, nil
}

func (a *app) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("closing redis", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
