package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Divas-Gupta30/docchat/internal/retrieval"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-ingest documents on the retrieval service",
	RunE:  runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	result, status, err := a.ingest.Refresh(cmd.Context())
	if err != nil {
		a.log.Warn("knowledge base refresh failed", zap.Error(err), zap.Int("status", status))
	}

	if result.Status == retrieval.IngestStatusSuccess && a.cache != nil {
		if _, err := a.cache.Invalidate(cmd.Context()); err != nil {
			a.log.Warn("retrieval cache invalidation failed", zap.Error(err))
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", result.Status, result.Message)
	if result.DocumentsProcessed != nil {
		fmt.Fprintf(out, "Documents processed: %d\n", *result.DocumentsProcessed)
	}
	if result.Status != retrieval.IngestStatusSuccess {
		return fmt.Errorf("refresh failed with status %d", status)
	}
	return nil
}
