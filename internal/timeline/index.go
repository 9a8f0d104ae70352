package timeline

import (
	"sort"

	"csrounds/internal/model"
)

// UnassignedRound is the sentinel returned for ticks no round owns
// (pre-game, between-match noise).
const UnassignedRound = 0

// TickRoundIndex answers "which round owns tick T" in O(log n) over the
// built round sequence. Rounds are disjoint and ordered by construction, so
// the lookup is monotonic: t1 < t2 implies RoundAt(t1) <= RoundAt(t2) for
// assigned ticks.
type TickRoundIndex struct {
	rounds []model.RoundRecord
}

func NewTickRoundIndex(rounds []model.RoundRecord) *TickRoundIndex {
	return &TickRoundIndex{rounds: rounds}
}

// RoundAt returns the round number whose [start_tick, end_tick] interval
// contains the tick, treating a nil end tick as +inf. Ticks outside every
// round return UnassignedRound.
func (idx *TickRoundIndex) RoundAt(tick int) int {
	n := len(idx.rounds)
	if n == 0 {
		return UnassignedRound
	}

	// First round whose start tick is beyond the target; the candidate owner
	// is its predecessor.
	i := sort.Search(n, func(i int) bool {
		return idx.rounds[i].StartTick > tick
	})
	if i == 0 {
		return UnassignedRound
	}

	r := &idx.rounds[i-1]
	if r.EndTick != nil && tick > *r.EndTick {
		return UnassignedRound
	}
	return r.RoundNum
}

// AssignRounds returns a copy of kills with RoundNum resolved through the
// index. Kills on unowned ticks keep UnassignedRound.
func (idx *TickRoundIndex) AssignRounds(kills []model.Kill) []model.Kill {
	out := make([]model.Kill, len(kills))
	copy(out, kills)
	for i := range out {
		out[i].RoundNum = idx.RoundAt(out[i].Tick)
	}
	return out
}
