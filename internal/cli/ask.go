package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rix-ai/research-rag/internal/models"
	"github.com/rix-ai/research-rag/internal/pipeline"
)

var (
	askK         int
	askMinScore  float64
	askMaxTokens int
	askModel     string
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Answer a single question from the terminal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initDependencies(cmd.Context())
		if err != nil {
			return err
		}
		defer func() { _ = deps.Logger.Sync() }()

		query := strings.Join(args, " ")
		result, err := deps.Pipeline.Answer(cmd.Context(), query, pipeline.Options{
			K:               askK,
			MinScore:        askMinScore,
			MaxOutputTokens: askMaxTokens,
			Model:           askModel,
		})
		if err != nil {
			return err
		}

		printAnswer(result)

		totals := deps.Tracker.Totals()
		color.New(color.Faint).Printf("session: %d queries, %d tokens, $%.6f\n",
			totals.Queries, totals.InputTokens+totals.OutputTokens, totals.TotalCost)
		return nil
	},
}

func printAnswer(result *models.AnswerResult) {
	heading := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	heading.Println("Answer")
	fmt.Println(result.Answer)
	fmt.Println()

	if result.Status == models.StatusNoResults {
		dim.Println("no documents cleared the relevance threshold")
		return
	}

	heading.Println("Sources")
	for i, src := range result.Sources {
		cited := " "
		for _, id := range result.CitedIDs {
			if id == src.DocumentID {
				cited = "*"
				break
			}
		}
		fmt.Printf("%s %d. %s", cited, i+1, src.Title)
		if src.Authors != "" {
			fmt.Printf(" (%s", src.Authors)
			if src.Year > 0 {
				fmt.Printf(", %d", src.Year)
			}
			fmt.Print(")")
		} else if src.Year > 0 {
			fmt.Printf(" (%d)", src.Year)
		}
		fmt.Printf(" [score %.2f]\n", src.Score)
	}
	fmt.Println()

	cost := fmt.Sprintf("$%.6f", result.CostEstimate)
	if result.CostUnknown {
		cost = "unknown"
	}
	dim.Printf("model %s, %d tokens in, %d tokens out, cost %s, %.0f ms\n",
		result.Model, result.Usage.InputTokens, result.Usage.OutputTokens, cost, result.LatencyMs)
}

func init() {
	askCmd.Flags().IntVarP(&askK, "top-k", "k", 0, "number of documents to retrieve (default from config)")
	askCmd.Flags().Float64Var(&askMinScore, "min-score", 0, "relevance floor in [0, 1] (default from config)")
	askCmd.Flags().IntVar(&askMaxTokens, "max-tokens", 0, "cap on generated answer tokens (default from config)")
	askCmd.Flags().StringVarP(&askModel, "model", "m", "", "generative model to use (default from config)")
	rootCmd.AddCommand(askCmd)
}
