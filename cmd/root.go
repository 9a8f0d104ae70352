package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"csrounds/internal/model"
)

var (
	dbPath string

	ecoMax          float64
	forceMax        float64
	tradeWindowMS   int
	halfLength      int
	streakThreshold int
)

var rootCmd = &cobra.Command{
	Use:   "csrounds",
	Short: "CS2 round and economy reconstruction tool",
	Long:  "Parse CS2 .dem files, rebuild the round timeline and team economies, and analyze trades, buy patterns and momentum.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaults := model.DefaultConfig()

	defaultDB := filepath.Join(mustUserHome(), ".csrounds", "rounds.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().Float64Var(&ecoMax, "eco-max", defaults.EcoMax, "average money below this counts as an eco")
	rootCmd.PersistentFlags().Float64Var(&forceMax, "force-max", defaults.ForceMax, "average money below this counts as a force buy")
	rootCmd.PersistentFlags().IntVar(&tradeWindowMS, "trade-window-ms", defaults.TradeWindowMS, "trade kill window in milliseconds")
	rootCmd.PersistentFlags().IntVar(&halfLength, "half-length", defaults.HalfLength, "rounds per half before the side swap")
	rootCmd.PersistentFlags().IntVar(&streakThreshold, "streak-threshold", defaults.StreakThreshold, "minimum win streak length for a momentum swing")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(economyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(dropCmd)
}

// engineConfig assembles the analysis thresholds from the persistent flags.
func engineConfig() model.Config {
	return model.Config{
		EcoMax:          ecoMax,
		ForceMax:        forceMax,
		TradeWindowMS:   tradeWindowMS,
		HalfLength:      halfLength,
		StreakThreshold: streakThreshold,
	}
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
