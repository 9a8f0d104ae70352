package analysis

import (
	"errors"
	"fmt"
	"sort"

	"csrounds/internal/model"
	"csrounds/internal/timeline"
)

var (
	ErrNoRounds  = errors.New("no resolved rounds")
	ErrNoPlayers = errors.New("no players observed")
)

// Aggregate composes the reconstructed timeline, economy map, and
// trade-annotated kills into a MatchReport. It is a read-only consumer: the
// inputs are never mutated. Rounds with unknown winners are excluded from
// win-rate denominators, and rounds missing an economy snapshot are skipped
// for eco/force attribution rather than defaulted.
func Aggregate(mapName string, rounds []model.RoundRecord, econ map[int]model.EconomySnapshot, kills []model.Kill, mapper timeline.SideTeamMapper, cfg model.Config) (*model.MatchReport, error) {
	if len(rounds) == 0 {
		return nil, ErrNoRounds
	}

	report := &model.MatchReport{
		MapName:     mapName,
		TotalRounds: len(rounds),
		Team1:       model.TeamStats{Team: model.Team1},
		Team2:       model.TeamStats{Team: model.Team2},
	}

	teamFor := func(t model.StartingTeam) *model.TeamStats {
		if t == model.Team1 {
			return &report.Team1
		}
		return &report.Team2
	}

	// ---- Pass 1: group kills by round, sorted by tick. ----

	killsByRound := make(map[int][]model.Kill)
	for _, k := range kills {
		killsByRound[k.RoundNum] = append(killsByRound[k.RoundNum], k)
	}
	for rn := range killsByRound {
		sort.Slice(killsByRound[rn], func(i, j int) bool {
			return killsByRound[rn][i].Tick < killsByRound[rn][j].Tick
		})
	}

	// ---- Pass 2: per-team round outcomes-wins, side splits, pistols, buys. ----

	for i := range rounds {
		r := &rounds[i]
		if r.Result == nil || r.Result.Winner == model.SideUnknown {
			continue
		}

		winSide := r.Result.Winner
		winTeam := mapper.TeamOf(winSide, r.RoundNum)
		loseTeam := winTeam.Other()
		win, lose := teamFor(winTeam), teamFor(loseTeam)

		win.RoundsWon++
		lose.RoundsLost++
		if winSide == model.SideCT {
			win.CTRoundsWon++
			lose.TRoundsLost++
		} else {
			win.TRoundsWon++
			lose.CTRoundsLost++
		}

		if mapper.IsPistolRound(r.RoundNum) {
			win.PistolRoundsPlayed++
			lose.PistolRoundsPlayed++
			win.PistolRoundsWon++
		}

		snap, ok := econ[r.RoundNum]
		if !ok {
			continue
		}
		for _, team := range []model.StartingTeam{model.Team1, model.Team2} {
			side := mapper.SideOf(team, r.RoundNum)
			ts := teamFor(team)
			switch snap.BySide(side).BuyType {
			case model.BuyEco:
				ts.EcoRoundsPlayed++
				if team == winTeam {
					ts.EcoRoundsWon++
				}
			case model.BuyForce:
				ts.ForceRoundsPlayed++
				if team == winTeam {
					ts.ForceRoundsWon++
				}
			}
		}
	}

	report.Team1Score = report.Team1.RoundsWon
	report.Team2Score = report.Team2.RoundsWon

	// ---- Pass 3: opening duels, attributed to teams and players. ----

	type opening struct {
		attackerID uint64
		victimID   uint64
	}
	openingByRound := make(map[int]opening)
	for i := range rounds {
		r := &rounds[i]
		for _, k := range killsByRound[r.RoundNum] {
			if k.AttackerID == 0 || k.AttackerSide == model.SideUnknown {
				continue
			}
			openingByRound[r.RoundNum] = opening{attackerID: k.AttackerID, victimID: k.VictimID}
			teamFor(mapper.TeamOf(k.AttackerSide, r.RoundNum)).FirstKills++
			if k.VictimSide != model.SideUnknown {
				teamFor(mapper.TeamOf(k.VictimSide, r.RoundNum)).FirstDeaths++
			}
			break
		}
	}

	// ---- Pass 4: per-player rollups with exclusive multi-kill buckets. ----

	players := make(map[uint64]*model.PlayerStats)
	playerFor := func(id uint64, name string) *model.PlayerStats {
		p := players[id]
		if p == nil {
			p = &model.PlayerStats{SteamID: id, Name: name}
			players[id] = p
		}
		if p.Name == "" {
			p.Name = name
		}
		return p
	}

	for _, k := range kills {
		if k.AttackerID != 0 {
			p := playerFor(k.AttackerID, k.AttackerName)
			p.Kills++
			if k.Headshot {
				p.Headshots++
			}
			if k.IsTrade {
				p.TradeKills++
			}
			if p.StartingSide == model.SideUnknown && k.AttackerSide != model.SideUnknown {
				p.StartingSide = startingSideOf(k.AttackerSide, k.RoundNum, mapper)
			}
		}
		if k.VictimID != 0 {
			p := playerFor(k.VictimID, k.VictimName)
			p.Deaths++
			if p.StartingSide == model.SideUnknown && k.VictimSide != model.SideUnknown {
				p.StartingSide = startingSideOf(k.VictimSide, k.RoundNum, mapper)
			}
		}
		if k.AssisterID != 0 {
			playerFor(k.AssisterID, k.AssisterName).Assists++
		}
	}

	for _, op := range openingByRound {
		if p, ok := players[op.attackerID]; ok {
			p.FirstKills++
		}
		if p, ok := players[op.victimID]; ok {
			p.FirstDeaths++
		}
	}

	for rn := range killsByRound {
		if rn == timeline.UnassignedRound {
			continue
		}
		perPlayer := make(map[uint64]int)
		for _, k := range killsByRound[rn] {
			if k.AttackerID != 0 {
				perPlayer[k.AttackerID]++
			}
		}
		for id, n := range perPlayer {
			p, ok := players[id]
			if !ok {
				continue
			}
			switch {
			case n >= 5:
				p.Kills5++
			case n == 4:
				p.Kills4++
			case n == 3:
				p.Kills3++
			case n == 2:
				p.Kills2++
			}
		}
	}

	if len(players) == 0 {
		return nil, ErrNoPlayers
	}
	for _, p := range players {
		report.Players = append(report.Players, *p)
	}
	sort.Slice(report.Players, func(i, j int) bool {
		if report.Players[i].Kills != report.Players[j].Kills {
			return report.Players[i].Kills > report.Players[j].Kills
		}
		return report.Players[i].SteamID < report.Players[j].SteamID
	})

	// ---- Pass 5: key rounds and momentum swings. ----

	report.KeyRounds = IdentifyKeyRounds(rounds, econ, mapper)
	report.Swings = DetectStreakBreaks(rounds, mapper, cfg.StreakThreshold)

	return report, nil
}

// startingSideOf maps an observed side at a given round back to the side the
// same team held in round 1.
func startingSideOf(side model.Side, roundNum int, mapper timeline.SideTeamMapper) model.Side {
	switch mapper.TeamOf(side, roundNum) {
	case model.Team1:
		return model.SideCT
	case model.Team2:
		return model.SideT
	default:
		return model.SideUnknown
	}
}

// IdentifyKeyRounds tags economic upsets (eco or force beating a full buy)
// and bomb-resolved rounds.
func IdentifyKeyRounds(rounds []model.RoundRecord, econ map[int]model.EconomySnapshot, mapper timeline.SideTeamMapper) []model.KeyRound {
	var keys []model.KeyRound

	for i := range rounds {
		r := &rounds[i]
		if r.Result == nil || r.Result.Winner == model.SideUnknown {
			continue
		}
		winSide := r.Result.Winner

		if snap, ok := econ[r.RoundNum]; ok && !mapper.IsPistolRound(r.RoundNum) {
			winBuy := snap.BySide(winSide).BuyType
			loseBuy := snap.BySide(winSide.Opposite()).BuyType
			if loseBuy == model.BuyFull {
				switch winBuy {
				case model.BuyEco:
					keys = append(keys, model.KeyRound{
						RoundNum:    r.RoundNum,
						Type:        model.KeyEcoWin,
						Winner:      winSide,
						Description: fmt.Sprintf("%s won an eco against a full buy", winSide),
					})
				case model.BuyForce:
					keys = append(keys, model.KeyRound{
						RoundNum:    r.RoundNum,
						Type:        model.KeyForceWin,
						Winner:      winSide,
						Description: fmt.Sprintf("%s won a force buy against a full buy", winSide),
					})
				}
			}
		}

		switch r.Result.EndReason {
		case model.ReasonCTDefuse:
			keys = append(keys, model.KeyRound{
				RoundNum:    r.RoundNum,
				Type:        model.KeyDefuse,
				Winner:      winSide,
				Description: "bomb defused",
			})
		case model.ReasonTBomb:
			keys = append(keys, model.KeyRound{
				RoundNum:    r.RoundNum,
				Type:        model.KeyBombExplode,
				Winner:      winSide,
				Description: "bomb exploded",
			})
		}
	}

	return keys
}
