// Package rawdata is the typed boundary over the externally supplied event
// tables. Raw rows are loosely typed (optional fields, engine-specific side
// name strings); everything is normalized here so the reconstruction core
// never performs ad hoc coercion.
package rawdata

import (
	"errors"
	"fmt"
	"strings"

	"csrounds/internal/model"
)

// ErrNoSnapshot is returned by SnapshotAt when the raw feed has no player
// data for the requested tick.
var ErrNoSnapshot = errors.New("no player snapshot at tick")

// RoundStartRow is one row of the round-start table. May contain warm-up
// rounds and duplicate round numbers from restarts.
type RoundStartRow struct {
	RoundNum int
	Tick     int
}

// RoundEndRow is one row of the round-end table. Winner and Reason are the
// engine's raw strings, parsed downstream.
type RoundEndRow struct {
	RoundNum int
	Tick     int
	Winner   string
	Reason   string
}

// FreezeEndRow is one row of the freeze-time-end table.
type FreezeEndRow struct {
	RoundNum int
	Tick     int
}

// KillRow is one row of the kill table. Attacker fields are nil/empty for
// environmental deaths.
type KillRow struct {
	Tick int

	AttackerID       *uint64
	AttackerName     string
	AttackerTeamName string

	VictimID       uint64
	VictimName     string
	VictimTeamName string

	AssisterID   *uint64
	AssisterName string

	Weapon        string
	Headshot      bool
	Penetrated    bool
	NoScope       bool
	ThruSmoke     bool
	AttackerBlind bool
	FlashAssist   bool
}

// PlayerEconRow is one row of the per-tick player economy table.
// StartBalance and EquipValue are nullable in the raw feed.
type PlayerEconRow struct {
	SteamID      uint64
	Name         string
	TeamName     string
	StartBalance *int
	EquipValue   *int
}

// EconEntry is a normalized economy reading for one player at one tick.
type EconEntry struct {
	SteamID    uint64
	Name       string
	Side       model.Side
	Money      int
	EquipValue int
}

// MatchTables is the full raw feed for one match, as delivered by the
// extraction layer.
type MatchTables struct {
	DemoHash  string
	MapName   string
	MatchDate string
	Tickrate  float64

	RoundStarts []RoundStartRow
	RoundEnds   []RoundEndRow
	FreezeEnds  []FreezeEndRow
	Kills       []KillRow

	// Snapshots holds player economy rows keyed by the tick they were
	// sampled at. The extraction layer captures them at round-start and
	// freeze-end ticks.
	Snapshots map[int][]PlayerEconRow
}

// Adapter provides normalized, typed access over a MatchTables feed.
type Adapter struct {
	tables *MatchTables
}

func NewAdapter(t *MatchTables) *Adapter {
	return &Adapter{tables: t}
}

func (a *Adapter) RoundStarts() []RoundStartRow { return a.tables.RoundStarts }
func (a *Adapter) RoundEnds() []RoundEndRow     { return a.tables.RoundEnds }
func (a *Adapter) FreezeEnds() []FreezeEndRow   { return a.tables.FreezeEnds }
func (a *Adapter) Tickrate() float64            { return a.tables.Tickrate }

// SnapshotAt returns the normalized economy entries sampled at the given
// tick, or ErrNoSnapshot when the feed has nothing for it.
func (a *Adapter) SnapshotAt(tick int) ([]EconEntry, error) {
	rows, ok := a.tables.Snapshots[tick]
	if !ok || len(rows) == 0 {
		return nil, fmt.Errorf("tick %d: %w", tick, ErrNoSnapshot)
	}
	entries := make([]EconEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, EconEntry{
			SteamID:    r.SteamID,
			Name:       r.Name,
			Side:       NormalizeSide(r.TeamName),
			Money:      intOrZero(r.StartBalance),
			EquipValue: intOrZero(r.EquipValue),
		})
	}
	return entries, nil
}

// NormalizedKills converts the raw kill rows into model kills with sides
// normalized and nullable identities collapsed to zero sentinels. RoundNum is
// left unassigned (0); the caller maps ticks to rounds against the
// reconstructed timeline.
func (a *Adapter) NormalizedKills() []model.Kill {
	kills := make([]model.Kill, 0, len(a.tables.Kills))
	for _, r := range a.tables.Kills {
		kills = append(kills, model.Kill{
			Tick:          r.Tick,
			AttackerID:    uint64OrZero(r.AttackerID),
			AttackerName:  r.AttackerName,
			AttackerSide:  NormalizeSide(r.AttackerTeamName),
			VictimID:      r.VictimID,
			VictimName:    r.VictimName,
			VictimSide:    NormalizeSide(r.VictimTeamName),
			AssisterID:    uint64OrZero(r.AssisterID),
			AssisterName:  r.AssisterName,
			Weapon:        r.Weapon,
			Headshot:      r.Headshot,
			Penetrated:    r.Penetrated,
			NoScope:       r.NoScope,
			ThruSmoke:     r.ThruSmoke,
			AttackerBlind: r.AttackerBlind,
			FlashAssist:   r.FlashAssist,
		})
	}
	return kills
}

// NormalizeSide maps an engine team-name string to a side. Anything
// containing "CT" or "COUNTER" is CT; anything containing "T" or "TERRORIST"
// is T; everything else is the unknown sentinel.
func NormalizeSide(teamName string) model.Side {
	if teamName == "" {
		return model.SideUnknown
	}
	upper := strings.ToUpper(teamName)
	if strings.Contains(upper, "CT") || strings.Contains(upper, "COUNTER") {
		return model.SideCT
	}
	if strings.Contains(upper, "T") || strings.Contains(upper, "TERRORIST") {
		return model.SideT
	}
	return model.SideUnknown
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func uint64OrZero(p *uint64) uint64 {
	if p == nil {
		return 0
	}
	return *p
}
