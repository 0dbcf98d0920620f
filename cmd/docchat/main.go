package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Document question answering over a local knowledge base",
	Long: `docchat answers questions using passages from the RAG retrieval service
as grounding context for an LLM. Run "docchat serve" for the HTTP API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, askCmd, refreshCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
