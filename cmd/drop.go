package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"csrounds/internal/storage"
)

var dropForce bool

var dropCmd = &cobra.Command{
	Use:   "drop <hash-prefix>",
	Short: "Delete a stored match",
	Long:  "Permanently delete one stored match and all of its rounds, economy, kills and stats. Re-parse the demo to rebuild it.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
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

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete %s (%s %d-%d).\n",
			summary.DemoHash[:12], summary.MapName, summary.Team1Score, summary.Team2Score)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if err := db.DeleteMatch(summary.DemoHash); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", summary.DemoHash[:12])
	return nil
}
