package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"csrounds/internal/economy"
	"csrounds/internal/report"
	"csrounds/internal/storage"
	"csrounds/internal/timeline"
)

var economyCmd = &cobra.Command{
	Use:   "economy <hash-prefix>",
	Short: "Show the economy timeline, buy patterns and swings for a stored match",
	Args:  cobra.ExactArgs(1),
	RunE:  runEconomy,
}

func runEconomy(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

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
	econ, err := db.GetEconomy(summary.DemoHash)
	if err != nil {
		return fmt.Errorf("get economy: %w", err)
	}

	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)
	entries := economy.BuildTimeline(rounds, econ, mapper, cfg)

	report.PrintMatchSummary(os.Stdout, *summary)
	report.PrintEconomyTimeline(os.Stdout, entries)

	team1, team2 := economy.BuyPatterns(entries)
	report.PrintBuyPatterns(os.Stdout, team1, team2)
	report.PrintEconomicSwings(os.Stdout, economy.DetectSwings(entries, cfg))
	return nil
}
