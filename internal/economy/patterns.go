package economy

import (
	"csrounds/internal/model"
	"csrounds/internal/timeline"
)

// TeamRoundEconomy is one team's economy for one round of the timeline,
// keyed by starting-team identity with a bonus-aware buy classification.
type TeamRoundEconomy struct {
	Side           model.Side
	TotalMoney     int
	AverageMoney   float64
	EquipmentValue int
	BuyType        model.BuyType
}

// TimelineEntry is the round-by-round economic timeline in team-identity
// terms. Winner is TeamNone for rounds with an unknown winner.
type TimelineEntry struct {
	RoundNum  int
	Team1     TeamRoundEconomy
	Team2     TeamRoundEconomy
	Winner    model.StartingTeam
	EndReason model.RoundEndReason
}

// BuildTimeline walks the resolved rounds in order and maps each economy
// snapshot onto starting-team identities. Because the walk carries each
// team's previous outcome and buy type, this path can classify bonus
// rounds, unlike the context-free per-round snapshots. Rounds without an
// economy snapshot are skipped.
func BuildTimeline(rounds []model.RoundRecord, econ map[int]model.EconomySnapshot, mapper timeline.SideTeamMapper, cfg model.Config) []TimelineEntry {
	var out []TimelineEntry
	prev := map[model.StartingTeam]*PrevRound{model.Team1: nil, model.Team2: nil}

	for i := range rounds {
		r := &rounds[i]
		snap, ok := econ[r.RoundNum]
		if !ok {
			continue
		}

		winner := model.TeamNone
		if r.Result != nil && r.Result.Winner != model.SideUnknown {
			winner = mapper.TeamOf(r.Result.Winner, r.RoundNum)
		}

		entry := TimelineEntry{RoundNum: r.RoundNum, Winner: winner}
		if r.Result != nil {
			entry.EndReason = r.Result.EndReason
		}

		pistol := mapper.IsPistolRound(r.RoundNum)
		for _, team := range []model.StartingTeam{model.Team1, model.Team2} {
			side := mapper.SideOf(team, r.RoundNum)
			ts := snap.BySide(side)
			buy := ClassifyBuy(cfg, pistol, ts.AverageMoney, prev[team])

			tre := TeamRoundEconomy{
				Side:           side,
				TotalMoney:     ts.TotalMoney,
				AverageMoney:   ts.AverageMoney,
				EquipmentValue: ts.EquipmentValue,
				BuyType:        buy,
			}
			if team == model.Team1 {
				entry.Team1 = tre
			} else {
				entry.Team2 = tre
			}

			prev[team] = &PrevRound{Won: winner == team, BuyType: buy}
		}

		out = append(out, entry)
	}

	return out
}

// BuyPattern summarizes one team's spending behavior across a match.
type BuyPattern struct {
	Team        model.StartingTeam
	TotalRounds int

	PistolRounds int
	EcoRounds    int
	ForceRounds  int
	FullRounds   int
	BonusRounds  int

	EcoWins   int
	ForceWins int
	FullWins  int

	TotalSpent int
}

func (p *BuyPattern) EcoWinRate() float64 {
	if p.EcoRounds == 0 {
		return 0
	}
	return float64(p.EcoWins) / float64(p.EcoRounds) * 100
}

func (p *BuyPattern) ForceWinRate() float64 {
	if p.ForceRounds == 0 {
		return 0
	}
	return float64(p.ForceWins) / float64(p.ForceRounds) * 100
}

func (p *BuyPattern) FullWinRate() float64 {
	if p.FullRounds == 0 {
		return 0
	}
	return float64(p.FullWins) / float64(p.FullRounds) * 100
}

// BuyPatterns aggregates the timeline into per-team buy distributions and
// win rates. Rounds with unknown winners count toward the distribution but
// not the win columns.
func BuyPatterns(entries []TimelineEntry) (team1, team2 BuyPattern) {
	team1 = BuyPattern{Team: model.Team1}
	team2 = BuyPattern{Team: model.Team2}

	for _, e := range entries {
		tally(&team1, e.Team1, e.Winner == model.Team1)
		tally(&team2, e.Team2, e.Winner == model.Team2)
	}
	return team1, team2
}

func tally(p *BuyPattern, tre TeamRoundEconomy, won bool) {
	p.TotalRounds++
	p.TotalSpent += tre.EquipmentValue

	switch tre.BuyType {
	case model.BuyPistol:
		p.PistolRounds++
	case model.BuyEco:
		p.EcoRounds++
		if won {
			p.EcoWins++
		}
	case model.BuyForce:
		p.ForceRounds++
		if won {
			p.ForceWins++
		}
	case model.BuyFull:
		p.FullRounds++
		if won {
			p.FullWins++
		}
	case model.BuyBonus:
		p.BonusRounds++
	}
}

// SwingType distinguishes economic resets from recoveries.
type SwingType int

const (
	SwingReset    SwingType = iota // full economy collapsed to eco money
	SwingRecovery                  // eco money recovered to full-buy level
)

func (s SwingType) String() string {
	if s == SwingReset {
		return "reset"
	}
	return "recovery"
}

// Swing is a significant round-over-round shift in one team's average money.
type Swing struct {
	RoundNum  int
	Team      model.StartingTeam
	Type      SwingType
	AvgBefore float64
	AvgAfter  float64
}

// DetectSwings finds rounds where a team's average money crossed from above
// the full-buy threshold to below the eco threshold (reset) or vice versa
// (recovery), tracked by starting-team identity so the half-time swap does
// not register as a swing.
func DetectSwings(entries []TimelineEntry, cfg model.Config) []Swing {
	var swings []Swing
	prevAvg := map[model.StartingTeam]float64{}

	for _, e := range entries {
		for _, team := range []model.StartingTeam{model.Team1, model.Team2} {
			tre := e.Team1
			if team == model.Team2 {
				tre = e.Team2
			}
			prev, seen := prevAvg[team]
			if seen {
				switch {
				case prev > cfg.ForceMax && tre.AverageMoney < cfg.EcoMax:
					swings = append(swings, Swing{
						RoundNum: e.RoundNum, Team: team, Type: SwingReset,
						AvgBefore: prev, AvgAfter: tre.AverageMoney,
					})
				case prev < cfg.EcoMax && tre.AverageMoney > cfg.ForceMax:
					swings = append(swings, Swing{
						RoundNum: e.RoundNum, Team: team, Type: SwingRecovery,
						AvgBefore: prev, AvgAfter: tre.AverageMoney,
					})
				}
			}
			prevAvg[team] = tre.AverageMoney
		}
	}
	return swings
}

// MoneyDiff is the team1-minus-team2 total money differential for one round.
type MoneyDiff struct {
	RoundNum int
	Diff     int
}

// MoneyDifferential returns the per-round money differential in
// team-identity terms.
func MoneyDifferential(entries []TimelineEntry) []MoneyDiff {
	diffs := make([]MoneyDiff, 0, len(entries))
	for _, e := range entries {
		diffs = append(diffs, MoneyDiff{
			RoundNum: e.RoundNum,
			Diff:     e.Team1.TotalMoney - e.Team2.TotalMoney,
		})
	}
	return diffs
}
