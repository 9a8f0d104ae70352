package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"csrounds/internal/analysis"
	"csrounds/internal/model"
	"csrounds/internal/report"
	"csrounds/internal/storage"
	"csrounds/internal/timeline"
)

var showFocusID uint64

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show a stored match by demo hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().Uint64Var(&showFocusID, "player", 0, "highlight player SteamID64")
}

func runShow(cmd *cobra.Command, args []string) error {
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
	return showStored(db, summary.DemoHash, engineConfig())
}

// showStored prints a stored match from the database. Team and player
// stats come back as persisted; key rounds and streaks are rebuilt from
// the stored rounds and economy, which is cheap and keeps the schema
// free of derived tables.
func showStored(db *storage.DB, hash string, cfg model.Config) error {
	summary, err := db.GetMatchByPrefix(hash)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if summary == nil {
		return fmt.Errorf("match not found: %s", hash)
	}

	team1, team2, err := db.GetTeamStats(hash)
	if err != nil {
		return fmt.Errorf("get team stats: %w", err)
	}
	players, err := db.GetPlayerStats(hash)
	if err != nil {
		return fmt.Errorf("get player stats: %w", err)
	}
	rounds, err := db.GetRounds(hash)
	if err != nil {
		return fmt.Errorf("get rounds: %w", err)
	}
	econ, err := db.GetEconomy(hash)
	if err != nil {
		return fmt.Errorf("get economy: %w", err)
	}

	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)

	report.PrintMatchSummary(os.Stdout, *summary)
	report.PrintTeamComparison(os.Stdout, team1, team2)
	report.PrintScoreboard(os.Stdout, players, showFocusID)
	report.PrintKeyRounds(os.Stdout, analysis.IdentifyKeyRounds(rounds, econ, mapper))
	report.PrintStreakBreaks(os.Stdout, analysis.DetectStreakBreaks(rounds, mapper, cfg.StreakThreshold))
	return nil
}
