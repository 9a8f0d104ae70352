package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csrounds/internal/model"
	"csrounds/internal/timeline"
)

// sweepRounds builds a 24-round match where team1 wins every round:
// rounds 1-12 on CT (elimination/defuse), rounds 13-24 on T (elimination).
func sweepRounds(mapper timeline.SideTeamMapper) []model.RoundRecord {
	var rounds []model.RoundRecord
	ct, tt := 0, 0
	for rn := 1; rn <= 24; rn++ {
		side := mapper.SideOf(model.Team1, rn)
		reason := model.ReasonCTElimination
		if side == model.SideCT {
			if rn%2 == 0 {
				reason = model.ReasonCTDefuse
			}
			ct++
		} else {
			reason = model.ReasonTElimination
			tt++
		}
		end := rn*20000 + 19000
		rounds = append(rounds, model.RoundRecord{
			RoundNum:  rn,
			StartTick: rn * 20000,
			EndTick:   &end,
			Result:    &model.RoundResult{Winner: side, EndReason: reason, CTScore: ct, TScore: tt},
		})
	}
	return rounds
}

func TestAggregate_FullSweep(t *testing.T) {
	cfg := model.DefaultConfig()
	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)
	rounds := sweepRounds(mapper)

	// One kill per round so players exist.
	var kills []model.Kill
	for _, r := range rounds {
		atk := mapper.SideOf(model.Team1, r.RoundNum)
		kills = append(kills, model.Kill{
			Tick: r.StartTick + 500, RoundNum: r.RoundNum,
			AttackerID: 1, AttackerName: "a", AttackerSide: atk,
			VictimID: 2, VictimName: "b", VictimSide: atk.Opposite(),
		})
	}

	report, err := Aggregate("de_dust2", rounds, nil, kills, mapper, cfg)
	require.NoError(t, err)

	assert.Equal(t, 24, report.Team1Score)
	assert.Equal(t, 0, report.Team2Score)
	assert.InDelta(t, 100.0, report.Team1.CTWinRate(), 0.001)
	assert.InDelta(t, 100.0, report.Team1.TWinRate(), 0.001)
	assert.InDelta(t, 0.0, report.Team2.WinRate(), 0.001)

	// Winning every round across the swap is one unbroken identity streak.
	assert.Empty(t, report.Swings)

	// Both pistol rounds went to team1.
	assert.Equal(t, 2, report.Team1.PistolRoundsPlayed)
	assert.Equal(t, 2, report.Team1.PistolRoundsWon)
	assert.Equal(t, 0, report.Team2.PistolRoundsWon)

	// Team1 took the opening duel every round.
	assert.Equal(t, 24, report.Team1.FirstKills)
	assert.Equal(t, 24, report.Team2.FirstDeaths)

	require.Len(t, report.Players, 2)
	assert.Equal(t, uint64(1), report.Players[0].SteamID)
	assert.Equal(t, 24, report.Players[0].Kills)
	assert.Equal(t, 24, report.Players[1].Deaths)
	assert.Equal(t, model.SideCT, report.Players[0].StartingSide)
	assert.Equal(t, model.SideT, report.Players[1].StartingSide)
}

func TestAggregate_NoRounds(t *testing.T) {
	cfg := model.DefaultConfig()
	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)

	_, err := Aggregate("de_mirage", nil, nil, nil, mapper, cfg)
	assert.ErrorIs(t, err, ErrNoRounds)
}

func TestAggregate_NoPlayers(t *testing.T) {
	cfg := model.DefaultConfig()
	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)
	rounds := sweepRounds(mapper)

	_, err := Aggregate("de_mirage", rounds, nil, nil, mapper, cfg)
	assert.ErrorIs(t, err, ErrNoPlayers)
}

func TestAggregate_MultiKillExclusivity(t *testing.T) {
	cfg := model.DefaultConfig()
	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)
	rounds := sweepRounds(mapper)[:1]

	// Exactly 4 kills by one player in the round.
	var kills []model.Kill
	for i := 0; i < 4; i++ {
		kills = append(kills, model.Kill{
			Tick: rounds[0].StartTick + 100*(i+1), RoundNum: 1,
			AttackerID: 1, AttackerName: "a", AttackerSide: model.SideCT,
			VictimID: uint64(10 + i), VictimName: "v", VictimSide: model.SideT,
		})
	}

	report, err := Aggregate("de_inferno", rounds, nil, kills, mapper, cfg)
	require.NoError(t, err)

	var p *model.PlayerStats
	for i := range report.Players {
		if report.Players[i].SteamID == 1 {
			p = &report.Players[i]
		}
	}
	require.NotNil(t, p)
	assert.Equal(t, 4, p.Kills)
	assert.Equal(t, 0, p.Kills2)
	assert.Equal(t, 0, p.Kills3)
	assert.Equal(t, 1, p.Kills4)
	assert.Equal(t, 0, p.Kills5)
}

func TestAggregate_EcoAttributionSkipsMissingRounds(t *testing.T) {
	cfg := model.DefaultConfig()
	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)
	rounds := sweepRounds(mapper)[:3]

	// Economy known only for round 2: team2 on an eco, team1 full.
	econ := map[int]model.EconomySnapshot{
		2: {
			RoundNum: 2,
			CT:       model.TeamEconomySnapshot{Side: model.SideCT, AverageMoney: 6000, BuyType: model.BuyFull},
			T:        model.TeamEconomySnapshot{Side: model.SideT, AverageMoney: 1000, BuyType: model.BuyEco},
		},
	}
	kills := []model.Kill{{
		Tick: rounds[0].StartTick + 500, RoundNum: 1,
		AttackerID: 1, AttackerName: "a", AttackerSide: model.SideCT,
		VictimID: 2, VictimName: "b", VictimSide: model.SideT,
	}}

	report, err := Aggregate("de_nuke", rounds, econ, kills, mapper, cfg)
	require.NoError(t, err)

	// Rounds 1 and 3 have no economy entry and never count as eco or force.
	assert.Equal(t, 1, report.Team2.EcoRoundsPlayed)
	assert.Equal(t, 0, report.Team2.EcoRoundsWon)
	assert.Equal(t, 0, report.Team1.EcoRoundsPlayed)
	assert.Equal(t, 0, report.Team1.ForceRoundsPlayed)

	// Eco-vs-full loss is not an upset, but the defuse in round 2 still tags.
	var defuses int
	for _, k := range report.KeyRounds {
		if k.Type == model.KeyDefuse {
			defuses++
		}
	}
	assert.Equal(t, 1, defuses)
}

func TestIdentifyKeyRounds_NeedsNoKills(t *testing.T) {
	cfg := model.DefaultConfig()
	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)
	rounds := sweepRounds(mapper)

	// Stored matches are re-displayed from rounds and economy alone.
	keys := IdentifyKeyRounds(rounds, nil, mapper)

	var defuses int
	for _, k := range keys {
		if k.Type == model.KeyDefuse {
			defuses++
		}
	}
	assert.Equal(t, 6, defuses)
	assert.Empty(t, DetectStreakBreaks(rounds, mapper, cfg.StreakThreshold))
}

func TestAggregate_UnassignedKillsSkipMultiKillBuckets(t *testing.T) {
	cfg := model.DefaultConfig()
	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)
	rounds := sweepRounds(mapper)

	// One kill per round, plus two gap kills (pre-game and between halves)
	// the tick index could not assign to any round. Pooling those at round
	// 0 must not mint a fake 2K.
	var kills []model.Kill
	for _, r := range rounds {
		atk := mapper.SideOf(model.Team1, r.RoundNum)
		kills = append(kills, model.Kill{
			Tick: r.StartTick + 500, RoundNum: r.RoundNum,
			AttackerID: 1, AttackerName: "a", AttackerSide: atk,
			VictimID: 2, VictimName: "b", VictimSide: atk.Opposite(),
		})
	}
	kills = append(kills,
		model.Kill{Tick: 19500, RoundNum: 0, AttackerID: 1, AttackerName: "a", AttackerSide: model.SideCT, VictimID: 2, VictimName: "b", VictimSide: model.SideT},
		model.Kill{Tick: 259500, RoundNum: 0, AttackerID: 1, AttackerName: "a", AttackerSide: model.SideT, VictimID: 2, VictimName: "b", VictimSide: model.SideCT},
	)

	report, err := Aggregate("de_nuke", rounds, nil, kills, mapper, cfg)
	require.NoError(t, err)

	var p *model.PlayerStats
	for i := range report.Players {
		if report.Players[i].SteamID == 1 {
			p = &report.Players[i]
		}
	}
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Kills2)
	assert.Equal(t, 0, p.Kills3)
	assert.Equal(t, 0, p.Kills4)
	assert.Equal(t, 0, p.Kills5)
}

func TestAggregate_KeyRoundEcoUpset(t *testing.T) {
	cfg := model.DefaultConfig()
	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)

	end := 59000
	rounds := []model.RoundRecord{{
		RoundNum:  3,
		StartTick: 40000,
		EndTick:   &end,
		Result:    &model.RoundResult{Winner: model.SideT, EndReason: model.ReasonTElimination, TScore: 1},
	}}
	econ := map[int]model.EconomySnapshot{
		3: {
			RoundNum: 3,
			CT:       model.TeamEconomySnapshot{Side: model.SideCT, AverageMoney: 6000, BuyType: model.BuyFull},
			T:        model.TeamEconomySnapshot{Side: model.SideT, AverageMoney: 1200, BuyType: model.BuyEco},
		},
	}
	kills := []model.Kill{{
		Tick: 40500, RoundNum: 3,
		AttackerID: 1, AttackerName: "a", AttackerSide: model.SideT,
		VictimID: 2, VictimName: "b", VictimSide: model.SideCT,
	}}

	report, err := Aggregate("de_train", rounds, econ, kills, mapper, cfg)
	require.NoError(t, err)

	require.Len(t, report.KeyRounds, 1)
	assert.Equal(t, model.KeyEcoWin, report.KeyRounds[0].Type)
	assert.Equal(t, model.SideT, report.KeyRounds[0].Winner)
}
