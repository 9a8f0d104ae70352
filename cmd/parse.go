package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"csrounds/internal/analysis"
	"csrounds/internal/economy"
	"csrounds/internal/model"
	"csrounds/internal/parser"
	"csrounds/internal/rawdata"
	"csrounds/internal/report"
	"csrounds/internal/storage"
	"csrounds/internal/timeline"
)

var parseFocusID uint64

var parseCmd = &cobra.Command{
	Use:   "parse <demo.dem>",
	Short: "Parse a CS2 demo file and store the reconstructed match",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().Uint64Var(&parseFocusID, "player", 0, "highlight player SteamID64")
}

func runParse(cmd *cobra.Command, args []string) error {
	demoPath := args[0]
	cfg := engineConfig()

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	fmt.Fprintf(os.Stdout, "Parsing %s...\n", demoPath)
	tables, err := parser.ParseDemo(demoPath)
	if err != nil {
		return fmt.Errorf("parse demo: %w", err)
	}

	exists, err := db.MatchExists(tables.DemoHash)
	if err != nil {
		return fmt.Errorf("check match: %w", err)
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Demo %s already stored, showing cached results.\n\n", tables.DemoHash[:12])
		return showStored(db, tables.DemoHash, cfg)
	}

	adapter := rawdata.NewAdapter(tables)
	rounds := timeline.Build(adapter)
	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)
	econ := economy.BuildSnapshots(adapter, rounds, mapper, cfg)

	idx := timeline.NewTickRoundIndex(rounds)
	kills := idx.AssignRounds(adapter.NormalizedKills())
	kills = analysis.AnnotateTradeKills(kills, analysis.TradeWindowTicks(cfg, tables.Tickrate))

	rep, err := analysis.Aggregate(tables.MapName, rounds, econ, kills, mapper, cfg)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	summary := model.MatchSummary{
		DemoHash:   tables.DemoHash,
		MapName:    tables.MapName,
		MatchDate:  tables.MatchDate,
		Tickrate:   tables.Tickrate,
		Team1Score: rep.Team1Score,
		Team2Score: rep.Team2Score,
	}

	if err := db.InsertMatch(summary); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	if err := db.InsertRounds(tables.DemoHash, rounds); err != nil {
		return fmt.Errorf("insert rounds: %w", err)
	}
	if err := db.InsertEconomy(tables.DemoHash, econ); err != nil {
		return fmt.Errorf("insert economy: %w", err)
	}
	if err := db.InsertKills(tables.DemoHash, kills); err != nil {
		return fmt.Errorf("insert kills: %w", err)
	}
	if err := db.InsertTeamStats(tables.DemoHash, rep.Team1, rep.Team2); err != nil {
		return fmt.Errorf("insert team stats: %w", err)
	}
	if err := db.InsertPlayerStats(tables.DemoHash, rep.Players); err != nil {
		return fmt.Errorf("insert player stats: %w", err)
	}

	report.PrintMatchSummary(os.Stdout, summary)
	report.PrintTeamComparison(os.Stdout, rep.Team1, rep.Team2)
	report.PrintScoreboard(os.Stdout, rep.Players, parseFocusID)
	report.PrintKeyRounds(os.Stdout, rep.KeyRounds)
	report.PrintStreakBreaks(os.Stdout, rep.Swings)
	return nil
}
