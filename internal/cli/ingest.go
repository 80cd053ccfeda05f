package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rix-ai/research-rag/internal/index"
	"github.com/rix-ai/research-rag/internal/store/sqlite"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <snapshot.json> <corpus.db>",
	Short: "Convert a JSON corpus snapshot into a SQLite snapshot",
	Long: `ingest reads a JSON snapshot produced by the offline embedding step and
writes it out as a SQLite database. SQLite snapshots load the same way
(point INDEX_SNAPSHOT_PATH at the .db file) but handle large corpora
without parsing one giant JSON document at startup.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, output := args[0], args[1]
		if filepath.Ext(output) != ".db" {
			return fmt.Errorf("output path must end in .db, got %s", output)
		}

		snapshot, err := index.LoadSnapshot(input)
		if err != nil {
			return err
		}

		store, err := sqlite.Open(output)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.WriteSnapshot(cmd.Context(), snapshot.Dimension, snapshot.Documents); err != nil {
			return err
		}

		fmt.Printf("wrote %d documents (dimension %d) to %s\n",
			len(snapshot.Documents), snapshot.Dimension, output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
