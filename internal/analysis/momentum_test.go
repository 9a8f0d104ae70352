package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csrounds/internal/model"
	"csrounds/internal/timeline"
)

// makeWinSequence builds resolved rounds where each entry names the winning
// starting team (TeamNone becomes an unknown winner).
func makeWinSequence(winners []model.StartingTeam, mapper timeline.SideTeamMapper) []model.RoundRecord {
	rounds := make([]model.RoundRecord, 0, len(winners))
	for i, team := range winners {
		rn := i + 1
		end := rn*20000 + 19000
		side := model.SideUnknown
		if team != model.TeamNone {
			side = mapper.SideOf(team, rn)
		}
		rounds = append(rounds, model.RoundRecord{
			RoundNum:  rn,
			StartTick: rn * 20000,
			EndTick:   &end,
			Result:    &model.RoundResult{Winner: side},
		})
	}
	return rounds
}

func TestDetectStreakBreaks(t *testing.T) {
	mapper := timeline.NewSideTeamMapper(12)
	winners := []model.StartingTeam{
		model.Team1, model.Team1, model.Team1, model.Team1, // streak of 4
		model.Team2, // break
		model.Team1, model.Team2, // streak of 1, below threshold
	}

	breaks := DetectStreakBreaks(makeWinSequence(winners, mapper), mapper, 3)
	require.Len(t, breaks, 1)
	assert.Equal(t, 5, breaks[0].RoundNum)
	assert.Equal(t, model.Team1, breaks[0].FromTeam)
	assert.Equal(t, model.Team2, breaks[0].ToTeam)
	assert.Equal(t, 4, breaks[0].StreakLength)
}

func TestDetectStreakBreaks_SideSwapDoesNotBreak(t *testing.T) {
	mapper := timeline.NewSideTeamMapper(12)
	// Team1 wins all 24 rounds: 12 on CT, 12 on T. One continuous streak.
	winners := make([]model.StartingTeam, 24)
	for i := range winners {
		winners[i] = model.Team1
	}

	breaks := DetectStreakBreaks(makeWinSequence(winners, mapper), mapper, 3)
	assert.Empty(t, breaks)
}

func TestDetectStreakBreaks_UnknownWinnerResetsQuietly(t *testing.T) {
	mapper := timeline.NewSideTeamMapper(12)
	winners := []model.StartingTeam{
		model.Team1, model.Team1, model.Team1,
		model.TeamNone, // corrupt round
		model.Team2,
	}

	breaks := DetectStreakBreaks(makeWinSequence(winners, mapper), mapper, 3)
	assert.Empty(t, breaks)
}

func TestDetectStreakBreaks_ThresholdIsInclusive(t *testing.T) {
	mapper := timeline.NewSideTeamMapper(12)
	winners := []model.StartingTeam{
		model.Team2, model.Team2, model.Team2,
		model.Team1,
	}

	breaks := DetectStreakBreaks(makeWinSequence(winners, mapper), mapper, 3)
	require.Len(t, breaks, 1)
	assert.Equal(t, 3, breaks[0].StreakLength)
}
