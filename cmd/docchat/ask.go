package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Divas-Gupta30/docchat/internal/graph"
)

var askQuestion string

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer one question from the command line",
	Example: `  docchat ask -q "What is the refund policy?"
  docchat ask What is the refund policy?`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "Question to answer")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := askQuestion
	if question == "" {
		question = strings.Join(args, " ")
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()

	answer, err := a.pipeline.Ask(cmd.Context(), question)
	if errors.Is(err, graph.ErrEmptyQuestion) {
		return errors.New(`please provide a question with -q "your question"`)
	}
	if err != nil {
		return err
	}

	graph.Print(cmd.OutOrStdout(), answer)
	return nil
}
