// Package report renders the reconstructed match as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"csrounds/internal/economy"
	"csrounds/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	hash := s.DemoHash
	if len(hash) > 12 {
		hash = hash[:12]
	}
	fmt.Fprintf(w, "\nMap: %s  |  Date: %s  |  Score: team1 %d - team2 %d  |  Hash: %s\n\n",
		s.MapName, s.MatchDate, s.Team1Score, s.Team2Score, hash)
}

// PrintScoreboard prints the player stats table.
// If focusSteamID is non-zero, that player's row is marked with ">".
func PrintScoreboard(w io.Writer, players []model.PlayerStats, focusSteamID uint64) {
	table := newTable(w)
	table.Header(" ", "NAME", "SIDE", "K", "A", "D", "K/D", "HS%", "FK", "FD", "TRADE_K", "2K", "3K", "4K", "5K")

	for i := range players {
		p := &players[i]
		marker := " "
		if focusSteamID != 0 && p.SteamID == focusSteamID {
			marker = ">"
		}
		table.Append(
			marker,
			p.Name,
			p.StartingSide.String(),
			strconv.Itoa(p.Kills),
			strconv.Itoa(p.Assists),
			strconv.Itoa(p.Deaths),
			fmt.Sprintf("%.2f", p.KDRatio()),
			fmt.Sprintf("%.0f%%", p.HSPercent()),
			strconv.Itoa(p.FirstKills),
			strconv.Itoa(p.FirstDeaths),
			strconv.Itoa(p.TradeKills),
			strconv.Itoa(p.Kills2),
			strconv.Itoa(p.Kills3),
			strconv.Itoa(p.Kills4),
			strconv.Itoa(p.Kills5),
		)
	}
	table.Render()
}

// PrintTeamComparison prints both teams' rollups side by side.
func PrintTeamComparison(w io.Writer, team1, team2 model.TeamStats) {
	table := newTable(w)
	table.Header("METRIC", "TEAM1 (started CT)", "TEAM2 (started T)")

	rows := []struct {
		name   string
		t1, t2 string
	}{
		{"Rounds won", strconv.Itoa(team1.RoundsWon), strconv.Itoa(team2.RoundsWon)},
		{"Win rate", pct(team1.WinRate()), pct(team2.WinRate())},
		{"CT win rate", pct(team1.CTWinRate()), pct(team2.CTWinRate())},
		{"T win rate", pct(team1.TWinRate()), pct(team2.TWinRate())},
		{"Pistol rounds", record(team1.PistolRoundsWon, team1.PistolRoundsPlayed), record(team2.PistolRoundsWon, team2.PistolRoundsPlayed)},
		{"Eco rounds", record(team1.EcoRoundsWon, team1.EcoRoundsPlayed), record(team2.EcoRoundsWon, team2.EcoRoundsPlayed)},
		{"Force rounds", record(team1.ForceRoundsWon, team1.ForceRoundsPlayed), record(team2.ForceRoundsWon, team2.ForceRoundsPlayed)},
		{"Opening duels", pct(team1.FirstKillRate()), pct(team2.FirstKillRate())},
	}
	for _, r := range rows {
		table.Append(r.name, r.t1, r.t2)
	}
	table.Render()
}

// PrintRoundTimeline prints one row per reconstructed round.
func PrintRoundTimeline(w io.Writer, rounds []model.RoundRecord) {
	table := newTable(w)
	table.Header("RND", "START", "FREEZE_END", "END", "WINNER", "REASON", "SCORE")

	for i := range rounds {
		r := &rounds[i]
		freeze, end := "—", "—"
		if r.FreezeEndTick != nil {
			freeze = strconv.Itoa(*r.FreezeEndTick)
		}
		if r.EndTick != nil {
			end = strconv.Itoa(*r.EndTick)
		}
		winner, reason, score := "?", "unknown", ""
		if r.Result != nil {
			winner = r.Result.Winner.String()
			reason = r.Result.EndReason.String()
			score = fmt.Sprintf("%d-%d", r.Result.CTScore, r.Result.TScore)
		}
		table.Append(
			strconv.Itoa(r.RoundNum),
			strconv.Itoa(r.StartTick),
			freeze,
			end,
			winner,
			reason,
			score,
		)
	}
	table.Render()
}

// PrintEconomyTimeline prints the per-round economy in team-identity terms.
func PrintEconomyTimeline(w io.Writer, entries []economy.TimelineEntry) {
	table := newTable(w)
	table.Header("RND", "T1_SIDE", "T1_AVG", "T1_BUY", "T2_AVG", "T2_BUY", "WINNER")

	for _, e := range entries {
		table.Append(
			strconv.Itoa(e.RoundNum),
			e.Team1.Side.String(),
			fmt.Sprintf("$%.0f", e.Team1.AverageMoney),
			e.Team1.BuyType.String(),
			fmt.Sprintf("$%.0f", e.Team2.AverageMoney),
			e.Team2.BuyType.String(),
			e.Winner.String(),
		)
	}
	table.Render()
}

// PrintKeyRounds prints the tagged key rounds, or a note when there are none.
func PrintKeyRounds(w io.Writer, keys []model.KeyRound) {
	if len(keys) == 0 {
		fmt.Fprintln(w, "No key rounds tagged.")
		return
	}
	table := newTable(w)
	table.Header("RND", "TYPE", "WINNER", "DESCRIPTION")
	for _, k := range keys {
		table.Append(
			strconv.Itoa(k.RoundNum),
			k.Type.String(),
			k.Winner.String(),
			k.Description,
		)
	}
	table.Render()
}

// PrintStreakBreaks prints the momentum swings, or a note when there are none.
func PrintStreakBreaks(w io.Writer, swings []model.StreakBreak) {
	if len(swings) == 0 {
		fmt.Fprintln(w, "No momentum swings detected.")
		return
	}
	table := newTable(w)
	table.Header("RND", "STREAK", "ENDED_FOR", "BROKEN_BY")
	for _, s := range swings {
		table.Append(
			strconv.Itoa(s.RoundNum),
			strconv.Itoa(s.StreakLength),
			s.FromTeam.String(),
			s.ToTeam.String(),
		)
	}
	table.Render()
}

// PrintEconomicSwings prints detected economy resets and recoveries.
func PrintEconomicSwings(w io.Writer, swings []economy.Swing) {
	if len(swings) == 0 {
		fmt.Fprintln(w, "No economic swings detected.")
		return
	}
	table := newTable(w)
	table.Header("RND", "TEAM", "TYPE", "AVG_BEFORE", "AVG_AFTER")
	for _, s := range swings {
		table.Append(
			strconv.Itoa(s.RoundNum),
			s.Team.String(),
			s.Type.String(),
			fmt.Sprintf("$%.0f", s.AvgBefore),
			fmt.Sprintf("$%.0f", s.AvgAfter),
		)
	}
	table.Render()
}

// PrintBuyPatterns prints the per-team buy distribution and win rates.
func PrintBuyPatterns(w io.Writer, team1, team2 economy.BuyPattern) {
	fmt.Fprintln(w, "Buy patterns:")
	table := newTable(w)
	table.Header("METRIC", "TEAM1", "TEAM2")

	rows := []struct {
		name   string
		t1, t2 string
	}{
		{"Pistol rounds", strconv.Itoa(team1.PistolRounds), strconv.Itoa(team2.PistolRounds)},
		{"Eco rounds", strconv.Itoa(team1.EcoRounds), strconv.Itoa(team2.EcoRounds)},
		{"Force rounds", strconv.Itoa(team1.ForceRounds), strconv.Itoa(team2.ForceRounds)},
		{"Full rounds", strconv.Itoa(team1.FullRounds), strconv.Itoa(team2.FullRounds)},
		{"Bonus rounds", strconv.Itoa(team1.BonusRounds), strconv.Itoa(team2.BonusRounds)},
		{"Eco win rate", pct(team1.EcoWinRate()), pct(team2.EcoWinRate())},
		{"Force win rate", pct(team1.ForceWinRate()), pct(team2.ForceWinRate())},
		{"Full win rate", pct(team1.FullWinRate()), pct(team2.FullWinRate())},
		{"Total spent", fmt.Sprintf("$%d", team1.TotalSpent), fmt.Sprintf("$%d", team2.TotalSpent)},
	}
	for _, r := range rows {
		table.Append(r.name, r.t1, r.t2)
	}
	table.Render()
	fmt.Fprintln(w)
}

// PrintMatchList prints the stored match index.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches stored. Run 'csrounds parse <demo.dem>' first.")
		return
	}
	table := newTable(w)
	table.Header("HASH", "MAP", "DATE", "SCORE")
	for _, m := range matches {
		hash := m.DemoHash
		if len(hash) > 12 {
			hash = hash[:12]
		}
		table.Append(
			hash,
			m.MapName,
			m.MatchDate,
			fmt.Sprintf("%d-%d", m.Team1Score, m.Team2Score),
		)
	}
	table.Render()
}

func pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v)
}

func record(won, played int) string {
	return fmt.Sprintf("%d/%d", won, played)
}
