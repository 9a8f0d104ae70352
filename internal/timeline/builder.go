// Package timeline reconstructs the canonical round sequence from the raw
// event tables and answers tick→round and side→team queries against it.
package timeline

import (
	"sort"
	"strings"

	"csrounds/internal/model"
	"csrounds/internal/rawdata"
)

// startTickFallback is the synthesized round length, in ticks, used as a
// lower bound when the round-start table has no row for a round.
const startTickFallback = 10000

// Build stitches the round-start, round-end, and freeze-end tables into an
// ordered sequence of round records.
//
// Each table is deduplicated by round number keeping the last row, treating
// the feed as append-only corrections. The round-end table is authoritative
// for which rounds exist: warm-up or voided rounds that appear only in
// round-start never enter the output, and a round with no round-end row is
// absent, not "in progress".
func Build(a *rawdata.Adapter) []model.RoundRecord {
	starts := dedupeStarts(a.RoundStarts())
	ends := dedupeEnds(a.RoundEnds())
	freezes := dedupeFreezes(a.FreezeEnds())

	roundNums := make([]int, 0, len(ends))
	for rn := range ends {
		roundNums = append(roundNums, rn)
	}
	sort.Ints(roundNums)

	sort.Slice(freezes, func(i, j int) bool { return freezes[i].Tick < freezes[j].Tick })

	rounds := make([]model.RoundRecord, 0, len(roundNums))
	ctScore, tScore := 0, 0
	prevEnd := -1

	for _, rn := range roundNums {
		endRow := ends[rn]
		endTick := endRow.Tick

		var startTick int
		if startRow, ok := starts[rn]; ok {
			startTick = startRow.Tick
		} else {
			// Synthesize a usable lower bound, clamped past the previous
			// round's end so the intervals stay disjoint.
			startTick = endTick - startTickFallback
			if startTick <= prevEnd {
				startTick = prevEnd + 1
			}
			if startTick < 0 {
				startTick = 0
			}
		}

		var freezeEnd *int
		for _, f := range freezes {
			if f.Tick > startTick && f.Tick < endTick {
				t := f.Tick
				freezeEnd = &t
				break
			}
		}

		winner := parseWinner(endRow.Winner)
		reason := ParseEndReason(endRow.Reason, winner)
		switch winner {
		case model.SideCT:
			ctScore++
		case model.SideT:
			tScore++
		}

		end := endTick
		rounds = append(rounds, model.RoundRecord{
			RoundNum:      rn,
			StartTick:     startTick,
			EndTick:       &end,
			FreezeEndTick: freezeEnd,
			Result: &model.RoundResult{
				Winner:    winner,
				EndReason: reason,
				CTScore:   ctScore,
				TScore:    tScore,
			},
		})
		prevEnd = endTick
	}

	return rounds
}

// ParseEndReason maps the engine's raw reason string to an end reason using
// keyword matching. An unmatched reason with a known winner falls back to an
// elimination win for that side. Check order matters: "ct_killed" also
// contains "t_killed" as a substring.
func ParseEndReason(reason string, winner model.Side) model.RoundEndReason {
	reason = strings.ToLower(reason)

	switch {
	case strings.Contains(reason, "bomb_exploded") || strings.Contains(reason, "target_bombed"):
		return model.ReasonTBomb
	case strings.Contains(reason, "bomb_defused") || strings.Contains(reason, "defuse"):
		return model.ReasonCTDefuse
	case strings.Contains(reason, "time") || strings.Contains(reason, "round_draw"):
		return model.ReasonCTTime
	case strings.Contains(reason, "ct_killed") || strings.Contains(reason, "ct_win"):
		return model.ReasonCTElimination
	case strings.Contains(reason, "t_killed") || strings.Contains(reason, "t_win"):
		return model.ReasonTElimination
	case winner == model.SideCT:
		return model.ReasonCTElimination
	case winner == model.SideT:
		return model.ReasonTElimination
	}
	return model.ReasonUnknown
}

// parseWinner accepts only the exact "CT"/"T" vocabulary; anything else is
// the unknown sentinel, propagated rather than guessed.
func parseWinner(winner string) model.Side {
	switch strings.ToUpper(strings.TrimSpace(winner)) {
	case "CT":
		return model.SideCT
	case "T":
		return model.SideT
	default:
		return model.SideUnknown
	}
}

func dedupeStarts(rows []rawdata.RoundStartRow) map[int]rawdata.RoundStartRow {
	out := make(map[int]rawdata.RoundStartRow, len(rows))
	for _, r := range rows {
		out[r.RoundNum] = r
	}
	return out
}

func dedupeEnds(rows []rawdata.RoundEndRow) map[int]rawdata.RoundEndRow {
	out := make(map[int]rawdata.RoundEndRow, len(rows))
	for _, r := range rows {
		out[r.RoundNum] = r
	}
	return out
}

func dedupeFreezes(rows []rawdata.FreezeEndRow) []rawdata.FreezeEndRow {
	byRound := make(map[int]rawdata.FreezeEndRow, len(rows))
	order := make([]int, 0, len(rows))
	for _, r := range rows {
		if _, seen := byRound[r.RoundNum]; !seen {
			order = append(order, r.RoundNum)
		}
		byRound[r.RoundNum] = r
	}
	out := make([]rawdata.FreezeEndRow, 0, len(byRound))
	for _, rn := range order {
		out = append(out, byRound[rn])
	}
	return out
}
