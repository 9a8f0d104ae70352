package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"csrounds/internal/report"
	"csrounds/internal/storage"
)

var roundsCmd = &cobra.Command{
	Use:   "rounds <hash-prefix>",
	Short: "Show the round-by-round timeline for a stored match",
	Args:  cobra.ExactArgs(1),
	RunE:  runRounds,
}

func runRounds(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	summary, err := db.GetMatchByPrefix(args[0])
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if summary == nil {
		fmt.Fprintf(os.Stderr, "No match found with hash prefix %q\n", args[0])
		return nil
	}

	rounds, err := db.GetRounds(summary.DemoHash)
	if err != nil {
		return fmt.Errorf("get rounds: %w", err)
	}

	report.PrintMatchSummary(os.Stdout, *summary)
	report.PrintRoundTimeline(os.Stdout, rounds)
	return nil
}
