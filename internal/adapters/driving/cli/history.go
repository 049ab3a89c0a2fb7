package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent ingestion batches",
	Long: `Lists recorded ingestion batches, newest first, with a line per file.

History is kept in ~/.artisan/data/history.db unless ARTISAN_HISTORY=false.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Maximum number of batches to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if ingestionCoordinator == nil {
		return errors.New("ingestion service not configured")
	}

	batches, err := ingestionCoordinator.History(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(batches) == 0 {
		cmd.Println("No ingestion history.")
		return nil
	}

	for i := range batches {
		b := batches[i]
		succeeded, failed, skipped := b.Counts()
		cmd.Printf("%s  %s  chunk size %d  %s\n",
			bold(b.StartedAt.Local().Format("2006-01-02 15:04:05")),
			b.Collection, b.ChunkSize, faint(b.ID))
		cmd.Printf("  %d succeeded, %d failed, %d skipped\n", succeeded, failed, skipped)
		for _, o := range b.Outcomes {
			printOutcome(cmd, o)
		}
		cmd.Println()
	}
	return nil
}
