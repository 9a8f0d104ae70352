package analysis

import (
	"csrounds/internal/model"
	"csrounds/internal/timeline"
)

// DetectStreakBreaks runs a single forward pass over the resolved rounds and
// emits a StreakBreak whenever a winning streak of at least threshold rounds
// is ended by the opposing team. Streaks are tracked by starting-team
// identity, so the half-time side swap alone never breaks one. Rounds with an
// unknown winner reset the streak without emitting.
func DetectStreakBreaks(rounds []model.RoundRecord, mapper timeline.SideTeamMapper, threshold int) []model.StreakBreak {
	var breaks []model.StreakBreak

	streakTeam := model.TeamNone
	streakLen := 0

	for i := range rounds {
		r := &rounds[i]
		if r.Result == nil || r.Result.Winner == model.SideUnknown {
			streakTeam = model.TeamNone
			streakLen = 0
			continue
		}

		winner := mapper.TeamOf(r.Result.Winner, r.RoundNum)
		if winner == streakTeam {
			streakLen++
			continue
		}

		if streakTeam != model.TeamNone && streakLen >= threshold {
			breaks = append(breaks, model.StreakBreak{
				RoundNum:     r.RoundNum,
				FromTeam:     streakTeam,
				ToTeam:       winner,
				StreakLength: streakLen,
			})
		}
		streakTeam = winner
		streakLen = 1
	}

	return breaks
}
