package timeline

import "csrounds/internal/model"

// SideTeamMapper translates between the side that played a round (the raw
// data's vocabulary) and the persistent starting-team identity (the
// analyst's vocabulary), encoding the half-time side swap.
//
// This is the single source of truth for the swap: no other component may
// test the half boundary on its own.
type SideTeamMapper struct {
	halfLength int
}

// NewSideTeamMapper builds a mapper for the given half length. A
// non-positive half length falls back to the standard 12.
func NewSideTeamMapper(halfLength int) SideTeamMapper {
	if halfLength <= 0 {
		halfLength = model.DefaultConfig().HalfLength
	}
	return SideTeamMapper{halfLength: halfLength}
}

// SideOf returns the side the given starting team plays in the given round:
// team1 is CT and team2 is T before the swap, inverted after it.
func (m SideTeamMapper) SideOf(team model.StartingTeam, roundNum int) model.Side {
	firstHalf := roundNum <= m.halfLength
	switch team {
	case model.Team1:
		if firstHalf {
			return model.SideCT
		}
		return model.SideT
	case model.Team2:
		if firstHalf {
			return model.SideT
		}
		return model.SideCT
	default:
		return model.SideUnknown
	}
}

// TeamOf is the inverse mapping: which starting team occupies the given side
// in the given round.
func (m SideTeamMapper) TeamOf(side model.Side, roundNum int) model.StartingTeam {
	firstHalf := roundNum <= m.halfLength
	switch side {
	case model.SideCT:
		if firstHalf {
			return model.Team1
		}
		return model.Team2
	case model.SideT:
		if firstHalf {
			return model.Team2
		}
		return model.Team1
	default:
		return model.TeamNone
	}
}

// IsPistolRound reports whether the round is a pistol round: the first round
// of either half.
func (m SideTeamMapper) IsPistolRound(roundNum int) bool {
	return roundNum == 1 || roundNum == m.halfLength+1
}
