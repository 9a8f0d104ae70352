package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"csrounds/internal/features"
	"csrounds/internal/storage"
	"csrounds/internal/timeline"
)

var (
	exportOut        string
	exportIncomplete bool
)

var exportCmd = &cobra.Command{
	Use:   "export [hash-prefix]",
	Short: "Export per-round feature vectors as JSON",
	Long: `Exports one feature vector per resolved round, suitable for training
round-winner prediction models. With a hash prefix only that match is
exported; without one, every stored match is.

Matches that never reached a winnable score are skipped unless
--include-incomplete is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file path (default: stdout)")
	exportCmd.Flags().BoolVar(&exportIncomplete, "include-incomplete", false, "keep matches that ended before a winnable score")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if len(args) == 1 {
		summary, err := db.GetMatchByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("query match: %w", err)
		}
		if summary == nil {
			return fmt.Errorf("no match found with hash prefix %q", args[0])
		}
		matches = matches[:0]
		matches = append(matches, *summary)
	}

	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)
	var rows []features.RoundFeatures
	for _, m := range matches {
		rounds, err := db.GetRounds(m.DemoHash)
		if err != nil {
			return fmt.Errorf("get rounds for %s: %w", m.DemoHash[:12], err)
		}
		econ, err := db.GetEconomy(m.DemoHash)
		if err != nil {
			return fmt.Errorf("get economy for %s: %w", m.DemoHash[:12], err)
		}
		ex := features.NewExtractor(rounds, econ, mapper, m.DemoHash, m.MapName)
		rows = append(rows, ex.ExtractAll(!exportIncomplete, cfg.HalfLength)...)
	}

	out, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}
	out = append(out, '\n')

	if exportOut == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(exportOut, out, 0644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d rounds from %d matches to %s\n", len(rows), len(matches), exportOut)
	return nil
}
