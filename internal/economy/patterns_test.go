package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csrounds/internal/model"
	"csrounds/internal/timeline"
)

// makeEconRounds builds n resolved rounds where team1's side wins every
// round, with per-round average money supplied for both starting teams.
func makeEconRounds(t *testing.T, avgs map[int][2]float64, winners map[int]model.StartingTeam) ([]model.RoundRecord, map[int]model.EconomySnapshot, timeline.SideTeamMapper) {
	t.Helper()
	cfg := model.DefaultConfig()
	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)

	var rounds []model.RoundRecord
	econ := make(map[int]model.EconomySnapshot)
	for rn, pair := range avgs {
		end := rn*20000 + 19000
		winSide := mapper.SideOf(winners[rn], rn)
		rounds = append(rounds, model.RoundRecord{
			RoundNum:  rn,
			StartTick: rn * 20000,
			EndTick:   &end,
			Result:    &model.RoundResult{Winner: winSide},
		})

		snap := model.EconomySnapshot{RoundNum: rn}
		for ti, team := range []model.StartingTeam{model.Team1, model.Team2} {
			side := mapper.SideOf(team, rn)
			ts := model.TeamEconomySnapshot{
				Side:         side,
				RoundNum:     rn,
				AverageMoney: pair[ti],
				TotalMoney:   int(pair[ti]) * 5,
			}
			*snap.BySide(side) = ts
		}
		econ[rn] = snap
	}

	// Map iteration order is random; restore round order.
	for i := 0; i < len(rounds); i++ {
		for j := i + 1; j < len(rounds); j++ {
			if rounds[j].RoundNum < rounds[i].RoundNum {
				rounds[i], rounds[j] = rounds[j], rounds[i]
			}
		}
	}
	return rounds, econ, mapper
}

func TestBuildTimeline_BonusClassification(t *testing.T) {
	cfg := model.DefaultConfig()
	// Team1 wins round 2 on a force, then holds full-buy money in round 3:
	// round 3 is a bonus round for team1.
	rounds, econ, mapper := makeEconRounds(t,
		map[int][2]float64{
			2: {3000, 5000},
			3: {6000, 2500},
		},
		map[int]model.StartingTeam{2: model.Team1, 3: model.Team1},
	)

	entries := BuildTimeline(rounds, econ, mapper, cfg)
	require.Len(t, entries, 2)

	assert.Equal(t, model.BuyForce, entries[0].Team1.BuyType)
	assert.Equal(t, model.BuyBonus, entries[1].Team1.BuyType)
	assert.Equal(t, model.BuyForce, entries[1].Team2.BuyType)
	assert.Equal(t, model.Team1, entries[1].Winner)
}

func TestBuildTimeline_SkipsRoundsWithoutEconomy(t *testing.T) {
	cfg := model.DefaultConfig()
	rounds, econ, mapper := makeEconRounds(t,
		map[int][2]float64{2: {4000, 4000}, 3: {4000, 4000}},
		map[int]model.StartingTeam{2: model.Team1, 3: model.Team1},
	)
	delete(econ, 3)

	entries := BuildTimeline(rounds, econ, mapper, cfg)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].RoundNum)
}

func TestBuildTimeline_SidesFollowTeamsAcrossHalves(t *testing.T) {
	cfg := model.DefaultConfig()
	rounds, econ, mapper := makeEconRounds(t,
		map[int][2]float64{12: {5000, 5000}, 13: {5000, 5000}},
		map[int]model.StartingTeam{12: model.Team1, 13: model.Team1},
	)

	entries := BuildTimeline(rounds, econ, mapper, cfg)
	require.Len(t, entries, 2)
	assert.Equal(t, model.SideCT, entries[0].Team1.Side)
	assert.Equal(t, model.SideT, entries[1].Team1.Side)
}

func TestDetectSwings(t *testing.T) {
	cfg := model.DefaultConfig()
	rounds, econ, mapper := makeEconRounds(t,
		map[int][2]float64{
			2: {6000, 6000},
			3: {1000, 6000}, // team1 reset
			4: {5000, 6000}, // team1 recovery
			5: {4800, 6000}, // gradual change, no swing
		},
		map[int]model.StartingTeam{2: model.Team2, 3: model.Team2, 4: model.Team2, 5: model.Team2},
	)

	entries := BuildTimeline(rounds, econ, mapper, cfg)
	swings := DetectSwings(entries, cfg)

	require.Len(t, swings, 2)
	assert.Equal(t, SwingReset, swings[0].Type)
	assert.Equal(t, 3, swings[0].RoundNum)
	assert.Equal(t, model.Team1, swings[0].Team)
	assert.Equal(t, SwingRecovery, swings[1].Type)
	assert.Equal(t, 4, swings[1].RoundNum)
}

func TestDetectSwings_HalfSwapIsNotASwing(t *testing.T) {
	cfg := model.DefaultConfig()
	// Steady money through the side swap: identity tracking must stay quiet.
	avgs := map[int][2]float64{}
	winners := map[int]model.StartingTeam{}
	for rn := 10; rn <= 16; rn++ {
		avgs[rn] = [2]float64{5000, 1500}
		winners[rn] = model.Team1
	}
	rounds, econ, mapper := makeEconRounds(t, avgs, winners)

	entries := BuildTimeline(rounds, econ, mapper, cfg)
	assert.Empty(t, DetectSwings(entries, cfg))
}

func TestBuyPatterns(t *testing.T) {
	cfg := model.DefaultConfig()
	rounds, econ, mapper := makeEconRounds(t,
		map[int][2]float64{
			2: {1000, 6000}, // team1 eco, loses
			3: {3000, 6000}, // team1 force, wins
			4: {6000, 6000}, // team1 full, wins
		},
		map[int]model.StartingTeam{2: model.Team2, 3: model.Team1, 4: model.Team1},
	)

	entries := BuildTimeline(rounds, econ, mapper, cfg)
	team1, team2 := BuyPatterns(entries)

	assert.Equal(t, 3, team1.TotalRounds)
	assert.Equal(t, 1, team1.EcoRounds)
	assert.Equal(t, 0, team1.EcoWins)
	assert.Equal(t, 1, team1.ForceRounds)
	assert.Equal(t, 1, team1.ForceWins)
	assert.InDelta(t, 100.0, team1.ForceWinRate(), 0.001)
	assert.Equal(t, 3, team2.FullRounds)
	assert.Equal(t, 1, team2.FullWins)
}

func TestMoneyDifferential(t *testing.T) {
	cfg := model.DefaultConfig()
	rounds, econ, mapper := makeEconRounds(t,
		map[int][2]float64{2: {4000, 3000}},
		map[int]model.StartingTeam{2: model.Team1},
	)

	entries := BuildTimeline(rounds, econ, mapper, cfg)
	diffs := MoneyDifferential(entries)
	require.Len(t, diffs, 1)
	assert.Equal(t, 2, diffs[0].RoundNum)
	assert.Equal(t, 5000, diffs[0].Diff)
}
