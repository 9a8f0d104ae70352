// Package features flattens the reconstructed match into per-round numeric
// feature rows for round-outcome modeling.
package features

import (
	"csrounds/internal/model"
	"csrounds/internal/timeline"
)

// RoundFeatures is one labeled training row. Everything is expressed in
// starting-team identity terms so rows from both halves are comparable;
// Label is 1 when team1 (started CT) wins the round.
type RoundFeatures struct {
	RoundNum       int `json:"round_num"`
	IsFirstHalf    int `json:"is_first_half"`
	IsPistol       int `json:"is_pistol"`
	IsSecondPistol int `json:"is_second_pistol"`

	Team1SideIsCT   int     `json:"team1_side_is_ct"`
	Team1TotalMoney int     `json:"team1_total_money"`
	Team1AvgMoney   float64 `json:"team1_avg_money"`
	Team1EquipValue int     `json:"team1_equipment_value"`
	Team1BuyType    int     `json:"team1_buy_type"`
	Team1IsEco      int     `json:"team1_is_eco"`
	Team1IsForce    int     `json:"team1_is_force"`
	Team1IsFull     int     `json:"team1_is_full"`

	Team2TotalMoney int     `json:"team2_total_money"`
	Team2AvgMoney   float64 `json:"team2_avg_money"`
	Team2EquipValue int     `json:"team2_equipment_value"`
	Team2BuyType    int     `json:"team2_buy_type"`
	Team2IsEco      int     `json:"team2_is_eco"`
	Team2IsForce    int     `json:"team2_is_force"`
	Team2IsFull     int     `json:"team2_is_full"`

	MoneyDiff  int     `json:"money_diff"`
	EquipDiff  int     `json:"equip_diff"`
	MoneyRatio float64 `json:"money_ratio"`

	Team1Score int `json:"team1_score"`
	Team2Score int `json:"team2_score"`
	ScoreDiff  int `json:"score_diff"`

	Team1WonPrev int `json:"team1_won_prev"`
	Team2WonPrev int `json:"team2_won_prev"`

	Label int `json:"label"`

	DemoHash string `json:"demo_hash"`
	MapName  string `json:"map_name"`
}

// buyTypeCode is the ordinal encoding used in feature rows.
func buyTypeCode(b model.BuyType) int {
	switch b {
	case model.BuyPistol:
		return 0
	case model.BuyEco:
		return 1
	case model.BuyForce:
		return 2
	case model.BuyFull:
		return 3
	case model.BuyBonus:
		return 4
	default:
		return 0
	}
}

// Extractor builds feature rows from a reconstructed match.
type Extractor struct {
	rounds []model.RoundRecord
	econ   map[int]model.EconomySnapshot
	mapper timeline.SideTeamMapper

	demoHash string
	mapName  string
}

func NewExtractor(rounds []model.RoundRecord, econ map[int]model.EconomySnapshot, mapper timeline.SideTeamMapper, demoHash, mapName string) *Extractor {
	return &Extractor{
		rounds:   rounds,
		econ:     econ,
		mapper:   mapper,
		demoHash: demoHash,
		mapName:  mapName,
	}
}

// ExtractRound builds the feature row for one round, or false when the round
// is unresolved or its economy snapshot is missing.
func (e *Extractor) ExtractRound(roundNum int) (RoundFeatures, bool) {
	var round *model.RoundRecord
	for i := range e.rounds {
		if e.rounds[i].RoundNum == roundNum {
			round = &e.rounds[i]
			break
		}
	}
	if round == nil || round.Result == nil || round.Result.Winner == model.SideUnknown {
		return RoundFeatures{}, false
	}
	snap, ok := e.econ[roundNum]
	if !ok {
		return RoundFeatures{}, false
	}

	team1Side := e.mapper.SideOf(model.Team1, roundNum)
	team1Econ := snap.BySide(team1Side)
	team2Econ := snap.BySide(team1Side.Opposite())

	f := RoundFeatures{
		RoundNum:       roundNum,
		IsPistol:       boolInt(e.mapper.IsPistolRound(roundNum)),
		IsSecondPistol: boolInt(e.mapper.IsPistolRound(roundNum) && roundNum != 1),
		IsFirstHalf:    boolInt(team1Side == model.SideCT),

		Team1SideIsCT:   boolInt(team1Side == model.SideCT),
		Team1TotalMoney: team1Econ.TotalMoney,
		Team1AvgMoney:   team1Econ.AverageMoney,
		Team1EquipValue: team1Econ.EquipmentValue,
		Team1BuyType:    buyTypeCode(team1Econ.BuyType),
		Team1IsEco:      boolInt(team1Econ.BuyType == model.BuyEco),
		Team1IsForce:    boolInt(team1Econ.BuyType == model.BuyForce),
		Team1IsFull:     boolInt(team1Econ.BuyType == model.BuyFull || team1Econ.BuyType == model.BuyBonus),

		Team2TotalMoney: team2Econ.TotalMoney,
		Team2AvgMoney:   team2Econ.AverageMoney,
		Team2EquipValue: team2Econ.EquipmentValue,
		Team2BuyType:    buyTypeCode(team2Econ.BuyType),
		Team2IsEco:      boolInt(team2Econ.BuyType == model.BuyEco),
		Team2IsForce:    boolInt(team2Econ.BuyType == model.BuyForce),
		Team2IsFull:     boolInt(team2Econ.BuyType == model.BuyFull || team2Econ.BuyType == model.BuyBonus),

		MoneyDiff: team1Econ.TotalMoney - team2Econ.TotalMoney,
		EquipDiff: team1Econ.EquipmentValue - team2Econ.EquipmentValue,

		DemoHash: e.demoHash,
		MapName:  e.mapName,
	}

	denom := team2Econ.TotalMoney
	if denom < 1 {
		denom = 1
	}
	f.MoneyRatio = float64(team1Econ.TotalMoney) / float64(denom)

	// Score entering this round and previous-round momentum, both in
	// identity terms.
	for i := range e.rounds {
		r := &e.rounds[i]
		if r.RoundNum >= roundNum {
			break
		}
		if r.Result == nil || r.Result.Winner == model.SideUnknown {
			continue
		}
		winner := e.mapper.TeamOf(r.Result.Winner, r.RoundNum)
		if winner == model.Team1 {
			f.Team1Score++
		} else {
			f.Team2Score++
		}
		if r.RoundNum == roundNum-1 {
			f.Team1WonPrev = boolInt(winner == model.Team1)
			f.Team2WonPrev = boolInt(winner == model.Team2)
		}
	}
	f.ScoreDiff = f.Team1Score - f.Team2Score

	f.Label = boolInt(e.mapper.TeamOf(round.Result.Winner, roundNum) == model.Team1)
	return f, true
}

// ExtractAll builds rows for every resolved round with economy data. When
// skipIncomplete is set and the match never reached the win target (half
// length + 1), no rows are produced.
func (e *Extractor) ExtractAll(skipIncomplete bool, halfLength int) []RoundFeatures {
	if skipIncomplete && !e.reachedWinTarget(halfLength+1) {
		return nil
	}

	var rows []RoundFeatures
	for i := range e.rounds {
		if f, ok := e.ExtractRound(e.rounds[i].RoundNum); ok {
			rows = append(rows, f)
		}
	}
	return rows
}

func (e *Extractor) reachedWinTarget(target int) bool {
	if len(e.rounds) == 0 {
		return false
	}
	last := e.rounds[len(e.rounds)-1]
	if last.Result == nil {
		return false
	}
	return last.Result.CTScore >= target || last.Result.TScore >= target
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
