// Package parser extracts the raw event tables from a CS2 demo file. It is
// the only package that touches the demo format; everything downstream
// consumes the loosely typed tables it produces.
package parser

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"time"

	demoinfocs "github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs"
	common "github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs/common"
	"github.com/markus-wa/demoinfocs-golang/v4/pkg/demoinfocs/events"

	"csrounds/internal/rawdata"
)

// ParseDemo parses the demo at path into raw event tables.
func ParseDemo(path string) (*rawdata.MatchTables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open demo: %w", err)
	}
	defer f.Close()

	// Hash file for idempotency key.
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hash demo: %w", err)
	}
	demoHash := fmt.Sprintf("%x", h.Sum(nil))

	// Seek back to start for the parser.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek demo: %w", err)
	}

	p := demoinfocs.NewParser(f)
	defer p.Close()

	tables := &rawdata.MatchTables{
		DemoHash:  demoHash,
		Snapshots: make(map[int][]rawdata.PlayerEconRow),
	}

	var roundNumber int

	snapshotAt := func(tick int) {
		rows := make([]rawdata.PlayerEconRow, 0, 10)
		for _, pl := range p.GameState().Participants().Playing() {
			if pl == nil || pl.SteamID64 == 0 {
				continue
			}
			money := pl.Money()
			equip := pl.EquipmentValueCurrent()
			rows = append(rows, rawdata.PlayerEconRow{
				SteamID:      pl.SteamID64,
				Name:         pl.Name,
				TeamName:     sideName(pl.Team),
				StartBalance: &money,
				EquipValue:   &equip,
			})
		}
		if len(rows) > 0 {
			tables.Snapshots[tick] = rows
		}
	}

	// RoundStart: bump round counter, record the start row, sample economy.
	p.RegisterEventHandler(func(e events.RoundStart) {
		if p.GameState().IsWarmupPeriod() {
			return
		}
		roundNumber++
		tick := p.GameState().IngameTick()
		tables.RoundStarts = append(tables.RoundStarts, rawdata.RoundStartRow{
			RoundNum: roundNumber,
			Tick:     tick,
		})
		snapshotAt(tick)
	})

	// RoundFreezetimeEnd: buy phase is over, sample economy again.
	p.RegisterEventHandler(func(e events.RoundFreezetimeEnd) {
		if roundNumber == 0 {
			return
		}
		tick := p.GameState().IngameTick()
		tables.FreezeEnds = append(tables.FreezeEnds, rawdata.FreezeEndRow{
			RoundNum: roundNumber,
			Tick:     tick,
		})
		snapshotAt(tick)
	})

	// RoundEnd: record winner and reason as raw strings.
	p.RegisterEventHandler(func(e events.RoundEnd) {
		if roundNumber == 0 {
			return
		}
		tables.RoundEnds = append(tables.RoundEnds, rawdata.RoundEndRow{
			RoundNum: roundNumber,
			Tick:     p.GameState().IngameTick(),
			Winner:   winnerName(e.Winner),
			Reason:   reasonName(e.Reason),
		})
	})

	// Kill events. Killer may be nil for environmental deaths.
	p.RegisterEventHandler(func(e events.Kill) {
		if roundNumber == 0 || e.Victim == nil {
			return
		}
		row := rawdata.KillRow{
			Tick:           p.GameState().IngameTick(),
			VictimID:       e.Victim.SteamID64,
			VictimName:     e.Victim.Name,
			VictimTeamName: sideName(e.Victim.Team),
			Headshot:       e.IsHeadshot,
			Penetrated:     e.PenetratedObjects > 0,
			NoScope:        e.NoScope,
			ThruSmoke:      e.ThroughSmoke,
			AttackerBlind:  e.AttackerBlind,
			FlashAssist:    e.AssistedFlash,
		}
		if e.Killer != nil && e.Killer.SteamID64 != 0 {
			id := e.Killer.SteamID64
			row.AttackerID = &id
			row.AttackerName = e.Killer.Name
			row.AttackerTeamName = sideName(e.Killer.Team)
		}
		if e.Assister != nil && e.Assister.SteamID64 != 0 {
			id := e.Assister.SteamID64
			row.AssisterID = &id
			row.AssisterName = e.Assister.Name
		}
		if e.Weapon != nil {
			row.Weapon = e.Weapon.Type.String()
		}
		tables.Kills = append(tables.Kills, row)
	})

	if err := p.ParseToEnd(); err != nil {
		return nil, fmt.Errorf("parse demo: %w", err)
	}

	tables.MapName = p.Header().MapName
	tables.MatchDate = time.Now().Format("2006-01-02") // demos rarely embed wall-clock time
	tables.Tickrate = p.TickRate()

	return tables, nil
}

// sideName renders a team as the engine-style side string the raw layer
// normalizes downstream.
func sideName(t common.Team) string {
	switch t {
	case common.TeamCounterTerrorists:
		return "CT"
	case common.TeamTerrorists:
		return "TERRORIST"
	default:
		return ""
	}
}

func winnerName(t common.Team) string {
	switch t {
	case common.TeamCounterTerrorists:
		return "CT"
	case common.TeamTerrorists:
		return "T"
	default:
		return ""
	}
}

// reasonName maps the demo's end-reason enum back to the raw strings the
// timeline builder parses.
func reasonName(r events.RoundEndReason) string {
	switch r {
	case events.RoundEndReasonTargetBombed:
		return "bomb_exploded"
	case events.RoundEndReasonBombDefused:
		return "bomb_defused"
	case events.RoundEndReasonTargetSaved:
		return "time_expired"
	case events.RoundEndReasonDraw:
		return "round_draw"
	case events.RoundEndReasonCTWin:
		return "ct_win"
	case events.RoundEndReasonTerroristsWin:
		return "t_win"
	case events.RoundEndReasonCTSurrender:
		return "t_win"
	case events.RoundEndReasonTerroristsSurrender:
		return "ct_win"
	default:
		return ""
	}
}
