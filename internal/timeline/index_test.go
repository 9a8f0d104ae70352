package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csrounds/internal/model"
)

func intPtr(v int) *int { return &v }

func TestTickRoundIndex_Ownership(t *testing.T) {
	rounds := []model.RoundRecord{
		{RoundNum: 1, StartTick: 100, EndTick: intPtr(1000)},
		{RoundNum: 2, StartTick: 1100, EndTick: intPtr(2000)},
		{RoundNum: 3, StartTick: 2100, EndTick: intPtr(3000)},
	}
	idx := NewTickRoundIndex(rounds)

	// Every tick inside a round's interval belongs to that round.
	for _, r := range rounds {
		for _, tick := range []int{r.StartTick, r.StartTick + 1, *r.EndTick - 1, *r.EndTick} {
			assert.Equal(t, r.RoundNum, idx.RoundAt(tick), "tick %d", tick)
		}
	}

	// Ticks before the first start, or in gaps past a round's end, are unowned.
	assert.Equal(t, UnassignedRound, idx.RoundAt(0))
	assert.Equal(t, UnassignedRound, idx.RoundAt(99))
	assert.Equal(t, UnassignedRound, idx.RoundAt(1050))
	assert.Equal(t, UnassignedRound, idx.RoundAt(2050))
}

func TestTickRoundIndex_OpenEndedLastRound(t *testing.T) {
	rounds := []model.RoundRecord{
		{RoundNum: 1, StartTick: 0, EndTick: intPtr(500)},
		{RoundNum: 2, StartTick: 600, EndTick: nil},
	}
	idx := NewTickRoundIndex(rounds)

	assert.Equal(t, 2, idx.RoundAt(600))
	assert.Equal(t, 2, idx.RoundAt(1_000_000))
}

func TestTickRoundIndex_Empty(t *testing.T) {
	idx := NewTickRoundIndex(nil)
	assert.Equal(t, UnassignedRound, idx.RoundAt(42))
}

func TestAssignRounds(t *testing.T) {
	rounds := []model.RoundRecord{
		{RoundNum: 1, StartTick: 0, EndTick: intPtr(1000)},
		{RoundNum: 2, StartTick: 1100, EndTick: intPtr(2000)},
	}
	idx := NewTickRoundIndex(rounds)

	kills := []model.Kill{
		{Tick: 500, AttackerID: 1},
		{Tick: 1500, AttackerID: 2},
		{Tick: 1050, AttackerID: 3}, // between rounds
	}
	got := idx.AssignRounds(kills)
	require.Len(t, got, 3)
	assert.Equal(t, 1, got[0].RoundNum)
	assert.Equal(t, 2, got[1].RoundNum)
	assert.Equal(t, UnassignedRound, got[2].RoundNum)

	// The input slice is never mutated.
	assert.Equal(t, 0, kills[0].RoundNum)
}
