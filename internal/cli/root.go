// Package cli defines the research-rag command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rix-ai/research-rag/internal/app"
	"github.com/rix-ai/research-rag/internal/config"
	"github.com/rix-ai/research-rag/internal/observability"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "research-rag",
	Short: "research-rag answers questions over a corpus of research-paper abstracts",
	Long: `research-rag is a retrieval-augmented question answering service.

It embeds a query, searches a precomputed vector index of paper abstracts,
assembles the best matches into a bounded context window, and asks a
generative model for a cited answer. Run "serve" for the HTTP API or "ask"
for a one-shot query from the terminal.`,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initDependencies loads configuration and builds the component graph shared
// by the serve and ask commands.
func initDependencies(ctx context.Context) (*app.Dependencies, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		return nil, err
	}

	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dependencies", zap.Error(err))
		return nil, err
	}
	return deps, nil
}
