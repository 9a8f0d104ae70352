package analysis

import (
	"sort"

	"csrounds/internal/model"
	"csrounds/internal/timeline"
)

// TradeWindowTicks converts the configured trade window from milliseconds to
// ticks at the given demo tickrate.
func TradeWindowTicks(cfg model.Config, tickrate float64) int {
	return int(float64(cfg.TradeWindowMS) / 1000.0 * tickrate)
}

// AnnotateTradeKills returns a copy of kills with IsTrade and
// TradeWindowTicks filled in. A kill is a trade when its attacker avenges a
// death on their own side within the window. The scan never crosses round
// boundaries, and only the nearest qualifying predecessor counts.
func AnnotateTradeKills(kills []model.Kill, windowTicks int) []model.Kill {
	out := make([]model.Kill, len(kills))
	copy(out, kills)

	byRound := map[int][]int{}
	for i := range out {
		// Kills no round owns must not pool into one shared scan group.
		if out[i].RoundNum == timeline.UnassignedRound {
			continue
		}
		byRound[out[i].RoundNum] = append(byRound[out[i].RoundNum], i)
	}

	for _, idxs := range byRound {
		sort.Slice(idxs, func(a, b int) bool {
			return out[idxs[a]].Tick < out[idxs[b]].Tick
		})

		for pos, i := range idxs {
			k := &out[i]
			if k.AttackerID == 0 {
				continue
			}
			// Walk backwards until the window closes.
			for j := pos - 1; j >= 0; j-- {
				prev := &out[idxs[j]]
				if k.Tick-prev.Tick > windowTicks {
					break
				}
				if prev.VictimID == k.AttackerID && prev.VictimSide == k.AttackerSide {
					k.IsTrade = true
					d := k.Tick - prev.Tick
					k.TradeWindowTicks = &d
					break
				}
			}
		}
	}

	return out
}
