package model

// Side is the in-game faction for a round. Sides swap between the two
// competing teams at the half boundary.
type Side int

const (
	SideUnknown Side = 0
	SideT       Side = 2
	SideCT      Side = 3
)

func (s Side) String() string {
	switch s {
	case SideT:
		return "T"
	case SideCT:
		return "CT"
	default:
		return "?"
	}
}

// Opposite returns the opposing side, or SideUnknown for SideUnknown.
func (s Side) Opposite() Side {
	switch s {
	case SideT:
		return SideCT
	case SideCT:
		return SideT
	default:
		return SideUnknown
	}
}

// StartingTeam is a team's persistent identity, defined by which side it
// occupied in round 1, independent of the half-time swap.
type StartingTeam int

const (
	TeamNone StartingTeam = 0
	Team1    StartingTeam = 1 // started CT
	Team2    StartingTeam = 2 // started T
)

func (t StartingTeam) String() string {
	switch t {
	case Team1:
		return "team1"
	case Team2:
		return "team2"
	default:
		return "?"
	}
}

// Other returns the opposing team identity.
func (t StartingTeam) Other() StartingTeam {
	switch t {
	case Team1:
		return Team2
	case Team2:
		return Team1
	default:
		return TeamNone
	}
}

// RoundEndReason is how a round ended.
type RoundEndReason int

const (
	ReasonUnknown RoundEndReason = iota
	ReasonCTElimination
	ReasonCTDefuse
	ReasonCTTime
	ReasonTElimination
	ReasonTBomb
)

func (r RoundEndReason) String() string {
	switch r {
	case ReasonCTElimination:
		return "ct_win_elimination"
	case ReasonCTDefuse:
		return "ct_win_defuse"
	case ReasonCTTime:
		return "ct_win_time"
	case ReasonTElimination:
		return "t_win_elimination"
	case ReasonTBomb:
		return "t_win_bomb"
	default:
		return "unknown"
	}
}

// RoundResult is the outcome of a resolved round. CTScore and TScore are the
// running scores after this round.
type RoundResult struct {
	Winner    Side
	EndReason RoundEndReason
	CTScore   int
	TScore    int
}

// RoundRecord is one round in the reconstructed timeline. Created exclusively
// by the timeline builder and immutable afterwards. EndTick and FreezeEndTick
// are nil when the raw feed never reported them.
type RoundRecord struct {
	RoundNum      int
	StartTick     int
	EndTick       *int
	FreezeEndTick *int
	Result        *RoundResult
}

// DurationTicks returns the round length in ticks, or -1 if the end is unknown.
func (r *RoundRecord) DurationTicks() int {
	if r.EndTick == nil {
		return -1
	}
	return *r.EndTick - r.StartTick
}

// EconomyReadTick is the tick at which the round's economy is sampled:
// freeze-time end when known, round start otherwise.
func (r *RoundRecord) EconomyReadTick() int {
	if r.FreezeEndTick != nil {
		return *r.FreezeEndTick
	}
	return r.StartTick
}

// BuyType classifies a team's round-start spending behavior.
type BuyType int

const (
	BuyUnknown BuyType = iota
	BuyPistol
	BuyEco
	BuyForce
	BuyFull
	BuyBonus
)

func (b BuyType) String() string {
	switch b {
	case BuyPistol:
		return "pistol"
	case BuyEco:
		return "eco"
	case BuyForce:
		return "force"
	case BuyFull:
		return "full"
	case BuyBonus:
		return "bonus"
	default:
		return "unknown"
	}
}

// TeamEconomySnapshot is one side's economy at a round's buy-phase end.
type TeamEconomySnapshot struct {
	Side           Side
	RoundNum       int
	PlayerMoney    map[uint64]int
	TotalMoney     int
	AverageMoney   float64
	EquipmentValue int
	BuyType        BuyType
}

func (t *TeamEconomySnapshot) PlayerCount() int {
	return len(t.PlayerMoney)
}

// EconomySnapshot pairs both sides' economy for one round.
type EconomySnapshot struct {
	RoundNum int
	CT       TeamEconomySnapshot
	T        TeamEconomySnapshot
}

// BySide returns the snapshot half for the given side.
func (e *EconomySnapshot) BySide(s Side) *TeamEconomySnapshot {
	if s == SideCT {
		return &e.CT
	}
	return &e.T
}

// Kill is a single kill event, annotated post-hoc with trade information.
// AttackerID is 0 for environmental deaths (fall damage, bomb).
type Kill struct {
	Tick     int
	RoundNum int

	AttackerID   uint64
	AttackerName string
	AttackerSide Side

	VictimID   uint64
	VictimName string
	VictimSide Side

	AssisterID   uint64
	AssisterName string

	Weapon        string
	Headshot      bool
	Penetrated    bool
	NoScope       bool
	ThruSmoke     bool
	AttackerBlind bool
	FlashAssist   bool

	IsTrade          bool
	TradeWindowTicks *int
}

// Config holds the externally supplied numeric thresholds for reconstruction
// and classification.
type Config struct {
	EcoMax          float64 // average money below this → eco
	ForceMax        float64 // average money below this (and ≥ EcoMax) → force
	TradeWindowMS   int     // trade kill window in milliseconds
	HalfLength      int     // rounds per half before the side swap
	StreakThreshold int     // minimum streak length for a momentum swing
}

// DefaultConfig returns the standard competitive ruleset values.
func DefaultConfig() Config {
	return Config{
		EcoMax:          2000,
		ForceMax:        3500,
		TradeWindowMS:   5000,
		HalfLength:      12,
		StreakThreshold: 3,
	}
}

// TeamStats is the per-team rollup, keyed by starting-team identity.
type TeamStats struct {
	Team StartingTeam

	RoundsWon  int
	RoundsLost int

	CTRoundsWon  int
	CTRoundsLost int
	TRoundsWon   int
	TRoundsLost  int

	PistolRoundsWon    int
	PistolRoundsPlayed int

	EcoRoundsWon      int
	EcoRoundsPlayed   int
	ForceRoundsWon    int
	ForceRoundsPlayed int

	FirstKills  int
	FirstDeaths int
}

func (s *TeamStats) WinRate() float64 {
	total := s.RoundsWon + s.RoundsLost
	if total == 0 {
		return 0
	}
	return float64(s.RoundsWon) / float64(total) * 100
}

func (s *TeamStats) CTWinRate() float64 {
	total := s.CTRoundsWon + s.CTRoundsLost
	if total == 0 {
		return 0
	}
	return float64(s.CTRoundsWon) / float64(total) * 100
}

func (s *TeamStats) TWinRate() float64 {
	total := s.TRoundsWon + s.TRoundsLost
	if total == 0 {
		return 0
	}
	return float64(s.TRoundsWon) / float64(total) * 100
}

func (s *TeamStats) PistolWinRate() float64 {
	if s.PistolRoundsPlayed == 0 {
		return 0
	}
	return float64(s.PistolRoundsWon) / float64(s.PistolRoundsPlayed) * 100
}

func (s *TeamStats) EcoWinRate() float64 {
	if s.EcoRoundsPlayed == 0 {
		return 0
	}
	return float64(s.EcoRoundsWon) / float64(s.EcoRoundsPlayed) * 100
}

func (s *TeamStats) ForceWinRate() float64 {
	if s.ForceRoundsPlayed == 0 {
		return 0
	}
	return float64(s.ForceRoundsWon) / float64(s.ForceRoundsPlayed) * 100
}

// FirstKillRate returns the share of opening duels this team won, or 50 when
// no opening duel was observed.
func (s *TeamStats) FirstKillRate() float64 {
	total := s.FirstKills + s.FirstDeaths
	if total == 0 {
		return 50
	}
	return float64(s.FirstKills) / float64(total) * 100
}

// PlayerStats is the per-player rollup for one match.
type PlayerStats struct {
	SteamID      uint64
	Name         string
	StartingSide Side

	Kills     int
	Deaths    int
	Assists   int
	Headshots int

	FirstKills  int
	FirstDeaths int
	TradeKills  int

	// Exclusive multi-kill buckets: a 4-kill round increments only Kills4.
	Kills2 int
	Kills3 int
	Kills4 int
	Kills5 int
}

func (s *PlayerStats) KDRatio() float64 {
	if s.Deaths == 0 {
		return float64(s.Kills)
	}
	return float64(s.Kills) / float64(s.Deaths)
}

func (s *PlayerStats) HSPercent() float64 {
	if s.Kills == 0 {
		return 0
	}
	return float64(s.Headshots) / float64(s.Kills) * 100
}

// KeyRoundType tags why a round is notable.
type KeyRoundType int

const (
	KeyEcoWin KeyRoundType = iota
	KeyForceWin
	KeyDefuse
	KeyBombExplode
)

func (k KeyRoundType) String() string {
	switch k {
	case KeyEcoWin:
		return "eco_win"
	case KeyForceWin:
		return "force_win"
	case KeyDefuse:
		return "defuse"
	case KeyBombExplode:
		return "bomb_explode"
	default:
		return "?"
	}
}

type KeyRound struct {
	RoundNum    int
	Type        KeyRoundType
	Winner      Side
	Description string
}

// StreakBreak records a momentum swing: a team-identity winning streak of at
// least the configured threshold ended by the opposing team.
type StreakBreak struct {
	RoundNum     int
	FromTeam     StartingTeam // team whose streak ended
	ToTeam       StartingTeam // team that broke it
	StreakLength int
}

// MatchReport is the aggregated output for one match: plain values, no
// behavior beyond derived-metric accessors, safe to hand to reporting or
// feature-extraction layers.
type MatchReport struct {
	MapName     string
	TotalRounds int

	Team1Score int
	Team2Score int

	Team1 TeamStats
	Team2 TeamStats

	Players []PlayerStats

	KeyRounds []KeyRound
	Swings    []StreakBreak
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	DemoHash   string
	MapName    string
	MatchDate  string
	Tickrate   float64
	Team1Score int
	Team2Score int
}
