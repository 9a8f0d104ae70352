// Package economy reads per-round economy snapshots, classifies buy types,
// and derives buy-pattern and swing analyses over the reconstructed timeline.
package economy

import (
	"csrounds/internal/model"
	"csrounds/internal/rawdata"
	"csrounds/internal/timeline"
)

// PrevRound carries the previous round's outcome for bonus-round detection.
// Callers without that context pass nil and never receive BuyBonus.
type PrevRound struct {
	Won     bool
	BuyType model.BuyType
}

// ClassifyBuy is the single buy-type classification rule consulted
// everywhere. Pistol rounds override the money-based rules. The eco bound is
// exclusive: an average exactly at EcoMax is a force, exactly at ForceMax a
// full buy.
func ClassifyBuy(cfg model.Config, pistol bool, avg float64, prev *PrevRound) model.BuyType {
	if pistol {
		return model.BuyPistol
	}
	if prev != nil && prev.Won &&
		(prev.BuyType == model.BuyEco || prev.BuyType == model.BuyForce) &&
		avg >= cfg.ForceMax {
		return model.BuyBonus
	}
	if avg < cfg.EcoMax {
		return model.BuyEco
	}
	if avg < cfg.ForceMax {
		return model.BuyForce
	}
	return model.BuyFull
}

// BuildSnapshots reads one point-in-time economy snapshot per round (at
// freeze-time end, falling back to round start) and classifies both sides.
//
// Rounds whose read fails are omitted from the map entirely: the economy map
// never contains fabricated zero entries, and its key set is always a subset
// of the round sequence.
func BuildSnapshots(a *rawdata.Adapter, rounds []model.RoundRecord, mapper timeline.SideTeamMapper, cfg model.Config) map[int]model.EconomySnapshot {
	econ := make(map[int]model.EconomySnapshot, len(rounds))

	for i := range rounds {
		r := &rounds[i]
		entries, err := a.SnapshotAt(r.EconomyReadTick())
		if err != nil {
			continue
		}

		ct := newTeamSnapshot(model.SideCT, r.RoundNum)
		t := newTeamSnapshot(model.SideT, r.RoundNum)
		for _, e := range entries {
			switch e.Side {
			case model.SideCT:
				ct.PlayerMoney[e.SteamID] = e.Money
				ct.TotalMoney += e.Money
				ct.EquipmentValue += e.EquipValue
			case model.SideT:
				t.PlayerMoney[e.SteamID] = e.Money
				t.TotalMoney += e.Money
				t.EquipmentValue += e.EquipValue
			default:
				// Unknown side stays unknown; never guessed into a bucket.
			}
		}

		pistol := mapper.IsPistolRound(r.RoundNum)
		finishTeamSnapshot(&ct, cfg, pistol)
		finishTeamSnapshot(&t, cfg, pistol)

		econ[r.RoundNum] = model.EconomySnapshot{RoundNum: r.RoundNum, CT: ct, T: t}
	}

	return econ
}

func newTeamSnapshot(side model.Side, roundNum int) model.TeamEconomySnapshot {
	return model.TeamEconomySnapshot{
		Side:        side,
		RoundNum:    roundNum,
		PlayerMoney: make(map[uint64]int),
	}
}

func finishTeamSnapshot(s *model.TeamEconomySnapshot, cfg model.Config, pistol bool) {
	if n := len(s.PlayerMoney); n > 0 {
		s.AverageMoney = float64(s.TotalMoney) / float64(n)
	}
	s.BuyType = ClassifyBuy(cfg, pistol, s.AverageMoney, nil)
}
