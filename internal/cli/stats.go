package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rix-ai/research-rag/internal/budget"
)

var (
	statsAddr  string
	statsReset bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session cost totals from a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: 10 * time.Second}

		url := statsAddr + "/api/v1/stats"
		var resp *http.Response
		var err error
		if statsReset {
			resp, err = client.Post(url+"/reset", "application/json", nil)
		} else {
			resp, err = client.Get(url)
		}
		if err != nil {
			return fmt.Errorf("failed to reach server at %s: %w", statsAddr, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned %s", resp.Status)
		}

		var body struct {
			Data budget.Totals `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("failed to decode stats response: %w", err)
		}

		totals := body.Data
		heading := color.New(color.FgCyan, color.Bold)
		heading.Println("Session totals")
		fmt.Printf("  queries:       %d\n", totals.Queries)
		fmt.Printf("  input tokens:  %d\n", totals.InputTokens)
		fmt.Printf("  output tokens: %d\n", totals.OutputTokens)
		fmt.Printf("  input cost:    $%.6f\n", totals.InputCost)
		fmt.Printf("  output cost:   $%.6f\n", totals.OutputCost)
		fmt.Printf("  total cost:    $%.6f\n", totals.TotalCost)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsAddr, "addr", "http://localhost:8080", "base URL of the running server")
	statsCmd.Flags().BoolVar(&statsReset, "reset", false, "reset the totals after reading them")
	rootCmd.AddCommand(statsCmd)
}
