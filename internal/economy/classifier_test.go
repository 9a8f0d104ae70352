package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csrounds/internal/model"
	"csrounds/internal/rawdata"
	"csrounds/internal/timeline"
)

func TestClassifyBuy_Thresholds(t *testing.T) {
	cfg := model.DefaultConfig()

	assert.Equal(t, model.BuyEco, ClassifyBuy(cfg, false, 0, nil))
	assert.Equal(t, model.BuyEco, ClassifyBuy(cfg, false, 1999, nil))
	// Bounds are exclusive on the low side.
	assert.Equal(t, model.BuyForce, ClassifyBuy(cfg, false, 2000, nil))
	assert.Equal(t, model.BuyForce, ClassifyBuy(cfg, false, 3499, nil))
	assert.Equal(t, model.BuyFull, ClassifyBuy(cfg, false, 3500, nil))
	assert.Equal(t, model.BuyFull, ClassifyBuy(cfg, false, 16000, nil))
}

func TestClassifyBuy_PistolOverridesMoney(t *testing.T) {
	cfg := model.DefaultConfig()
	assert.Equal(t, model.BuyPistol, ClassifyBuy(cfg, true, 800, nil))
	assert.Equal(t, model.BuyPistol, ClassifyBuy(cfg, true, 16000, nil))
}

func TestClassifyBuy_BonusNeedsContext(t *testing.T) {
	cfg := model.DefaultConfig()

	// Without previous-round context, high money is just a full buy.
	assert.Equal(t, model.BuyFull, ClassifyBuy(cfg, false, 6000, nil))

	// Won the previous round on a force and kept full-buy money: bonus.
	prev := &PrevRound{Won: true, BuyType: model.BuyForce}
	assert.Equal(t, model.BuyBonus, ClassifyBuy(cfg, false, 6000, prev))

	prev = &PrevRound{Won: true, BuyType: model.BuyEco}
	assert.Equal(t, model.BuyBonus, ClassifyBuy(cfg, false, 6000, prev))

	// Lost the previous round: no bonus.
	prev = &PrevRound{Won: false, BuyType: model.BuyForce}
	assert.Equal(t, model.BuyFull, ClassifyBuy(cfg, false, 6000, prev))

	// Won on a full buy: no bonus.
	prev = &PrevRound{Won: true, BuyType: model.BuyFull}
	assert.Equal(t, model.BuyFull, ClassifyBuy(cfg, false, 6000, prev))

	// Bonus still requires full-buy money.
	prev = &PrevRound{Won: true, BuyType: model.BuyForce}
	assert.Equal(t, model.BuyForce, ClassifyBuy(cfg, false, 3000, prev))
}

func econRow(id uint64, team string, money int) rawdata.PlayerEconRow {
	return rawdata.PlayerEconRow{SteamID: id, Name: "p", TeamName: team, StartBalance: &money}
}

func TestBuildSnapshots(t *testing.T) {
	cfg := model.DefaultConfig()
	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)

	tables := &rawdata.MatchTables{
		Snapshots: map[int][]rawdata.PlayerEconRow{
			1200: {
				econRow(1, "CT", 800),
				econRow(2, "CT", 800),
				econRow(3, "TERRORIST", 800),
			},
			21200: {
				econRow(1, "CT", 4500),
				econRow(2, "CT", 5500),
				econRow(3, "TERRORIST", 1000),
				econRow(4, "unassigned", 9999), // unknown side, excluded
			},
		},
	}
	a := rawdata.NewAdapter(tables)

	freeze1, freeze2, freeze3 := 1200, 21200, 41200
	end1, end2, end3 := 19000, 39000, 59000
	rounds := []model.RoundRecord{
		{RoundNum: 1, StartTick: 0, FreezeEndTick: &freeze1, EndTick: &end1},
		{RoundNum: 2, StartTick: 20000, FreezeEndTick: &freeze2, EndTick: &end2},
		{RoundNum: 3, StartTick: 40000, FreezeEndTick: &freeze3, EndTick: &end3},
	}

	econ := BuildSnapshots(a, rounds, mapper, cfg)

	// Round 3 has no snapshot data and must be absent, not zero-filled.
	require.Len(t, econ, 2)
	_, ok := econ[3]
	assert.False(t, ok)

	r1 := econ[1]
	assert.Equal(t, model.BuyPistol, r1.CT.BuyType)
	assert.Equal(t, model.BuyPistol, r1.T.BuyType)
	assert.Equal(t, 1600, r1.CT.TotalMoney)
	assert.Equal(t, 2, r1.CT.PlayerCount())

	r2 := econ[2]
	assert.Equal(t, 10000, r2.CT.TotalMoney)
	assert.InDelta(t, 5000.0, r2.CT.AverageMoney, 0.001)
	assert.Equal(t, model.BuyFull, r2.CT.BuyType)
	assert.Equal(t, model.BuyEco, r2.T.BuyType)
	// The unassigned row never lands in either bucket.
	assert.Equal(t, 1, r2.T.PlayerCount())
}

func TestBuildSnapshots_FallsBackToStartTick(t *testing.T) {
	cfg := model.DefaultConfig()
	mapper := timeline.NewSideTeamMapper(cfg.HalfLength)

	tables := &rawdata.MatchTables{
		Snapshots: map[int][]rawdata.PlayerEconRow{
			100: {econRow(1, "CT", 3000), econRow(2, "T", 3000)},
		},
	}
	end := 19000
	rounds := []model.RoundRecord{{RoundNum: 2, StartTick: 100, EndTick: &end}}

	econ := BuildSnapshots(rawdata.NewAdapter(tables), rounds, mapper, cfg)
	require.Len(t, econ, 1)
	assert.Equal(t, model.BuyForce, econ[2].CT.BuyType)
}
