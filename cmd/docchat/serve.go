package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Divas-Gupta30/docchat/internal/llm"
	"github.com/Divas-Gupta30/docchat/internal/server"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Server port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if servePort != "" {
		a.cfg.Server.Port = servePort
	}

	deps := server.Deps{
		Pipeline:      a.pipeline,
		Ingest:        a.ingest,
		Retrieval:     a.client,
		LLMProvider:   a.generator.Name(),
		LLMConfigured: llm.Configured(a.generator),
	}
	if a.cache != nil {
		deps.Cache = a.cache
	}

	a.log.Info("configuration loaded",
		zap.String("rag_api_url", a.cfg.Retrieval.BaseURL),
		zap.Int("top_k", a.cfg.Retrieval.TopK),
		zap.Bool("cache_enabled", a.cache != nil),
		zap.String("llm_provider", a.cfg.LLM.Provider),
	)

	return server.New(a.cfg.Server, deps, a.log).Run(ctx)
}
