package storage

import (
	"database/sql"
	"fmt"
	"strconv"

	"csrounds/internal/model"
)

// MatchExists returns true if a match with the given demo hash is already stored.
func (db *DB) MatchExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch inserts a match record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertMatch(summary model.MatchSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO matches(hash, map_name, match_date, tickrate, team1_score, team2_score)
		VALUES (?, ?, ?, ?, ?, ?)`,
		summary.DemoHash, summary.MapName, summary.MatchDate,
		summary.Tickrate, summary.Team1Score, summary.Team2Score,
	)
	return err
}

// InsertRounds bulk-inserts the reconstructed round timeline in a transaction.
func (db *DB) InsertRounds(demoHash string, rounds []model.RoundRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO rounds(
			demo_hash, round_num, start_tick, end_tick, freeze_end_tick,
			winner, end_reason, ct_score, t_score
		) VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range rounds {
		r := &rounds[i]
		winner, reason := "", "unknown"
		ctScore, tScore := 0, 0
		if r.Result != nil {
			if r.Result.Winner != model.SideUnknown {
				winner = r.Result.Winner.String()
			}
			reason = r.Result.EndReason.String()
			ctScore, tScore = r.Result.CTScore, r.Result.TScore
		}
		_, err = stmt.Exec(
			demoHash, r.RoundNum, r.StartTick, nullableInt(r.EndTick), nullableInt(r.FreezeEndTick),
			winner, reason, ctScore, tScore,
		)
		if err != nil {
			return fmt.Errorf("insert round %d: %w", r.RoundNum, err)
		}
	}
	return tx.Commit()
}

// GetRounds returns the stored round timeline for a demo hash.
func (db *DB) GetRounds(demoHash string) ([]model.RoundRecord, error) {
	rows, err := db.conn.Query(`
		SELECT round_num, start_tick, end_tick, freeze_end_tick, winner, end_reason, ct_score, t_score
		FROM rounds WHERE demo_hash = ? ORDER BY round_num`, demoHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RoundRecord
	for rows.Next() {
		var r model.RoundRecord
		var endTick, freezeTick sql.NullInt64
		var winner, reason string
		var ctScore, tScore int
		if err := rows.Scan(&r.RoundNum, &r.StartTick, &endTick, &freezeTick,
			&winner, &reason, &ctScore, &tScore); err != nil {
			return nil, err
		}
		if endTick.Valid {
			v := int(endTick.Int64)
			r.EndTick = &v
		}
		if freezeTick.Valid {
			v := int(freezeTick.Int64)
			r.FreezeEndTick = &v
		}
		r.Result = &model.RoundResult{
			Winner:    parseSide(winner),
			EndReason: parseReason(reason),
			CTScore:   ctScore,
			TScore:    tScore,
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// InsertEconomy bulk-inserts one row per side per round in a transaction.
func (db *DB) InsertEconomy(demoHash string, econ map[int]model.EconomySnapshot) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO round_economy(
			demo_hash, round_num, side, total_money, average_money,
			equipment_value, buy_type, player_count
		) VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for rn, snap := range econ {
		for _, ts := range []*model.TeamEconomySnapshot{&snap.CT, &snap.T} {
			_, err = stmt.Exec(
				demoHash, rn, ts.Side.String(), ts.TotalMoney, ts.AverageMoney,
				ts.EquipmentValue, ts.BuyType.String(), ts.PlayerCount(),
			)
			if err != nil {
				return fmt.Errorf("insert economy round %d: %w", rn, err)
			}
		}
	}
	return tx.Commit()
}

// GetEconomy returns the stored economy map for a demo hash. Player-level
// money is not persisted; PlayerMoney comes back empty.
func (db *DB) GetEconomy(demoHash string) (map[int]model.EconomySnapshot, error) {
	rows, err := db.conn.Query(`
		SELECT round_num, side, total_money, average_money, equipment_value, buy_type
		FROM round_economy WHERE demo_hash = ? ORDER BY round_num`, demoHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	econ := make(map[int]model.EconomySnapshot)
	for rows.Next() {
		var rn, totalMoney, equipValue int
		var side, buyType string
		var avgMoney float64
		if err := rows.Scan(&rn, &side, &totalMoney, &avgMoney, &equipValue, &buyType); err != nil {
			return nil, err
		}
		snap := econ[rn]
		snap.RoundNum = rn
		ts := model.TeamEconomySnapshot{
			Side:           parseSide(side),
			RoundNum:       rn,
			TotalMoney:     totalMoney,
			AverageMoney:   avgMoney,
			EquipmentValue: equipValue,
			BuyType:        parseBuyType(buyType),
		}
		if ts.Side == model.SideCT {
			snap.CT = ts
		} else {
			snap.T = ts
		}
		econ[rn] = snap
	}
	return econ, rows.Err()
}

// InsertKills bulk-inserts the annotated kill list in a transaction.
func (db *DB) InsertKills(demoHash string, kills []model.Kill) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO kills(
			demo_hash, tick, round_num,
			attacker_id, attacker_name, attacker_side,
			victim_id, victim_name, victim_side,
			assister_id, weapon, headshot, is_trade, trade_window_ticks
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, k := range kills {
		_, err = stmt.Exec(
			demoHash, k.Tick, k.RoundNum,
			strconv.FormatUint(k.AttackerID, 10), k.AttackerName, sideString(k.AttackerSide),
			strconv.FormatUint(k.VictimID, 10), k.VictimName, sideString(k.VictimSide),
			strconv.FormatUint(k.AssisterID, 10), k.Weapon,
			boolInt(k.Headshot), boolInt(k.IsTrade), nullableInt(k.TradeWindowTicks),
		)
		if err != nil {
			return fmt.Errorf("insert kill at tick %d: %w", k.Tick, err)
		}
	}
	return tx.Commit()
}

// GetKills returns the stored kill list for a demo hash ordered by tick.
func (db *DB) GetKills(demoHash string) ([]model.Kill, error) {
	rows, err := db.conn.Query(`
		SELECT tick, round_num, attacker_id, attacker_name, attacker_side,
		       victim_id, victim_name, victim_side, assister_id, weapon,
		       headshot, is_trade, trade_window_ticks
		FROM kills WHERE demo_hash = ? ORDER BY tick`, demoHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Kill
	for rows.Next() {
		var k model.Kill
		var attackerID, victimID, assisterID, attackerSide, victimSide string
		var headshot, isTrade int
		var window sql.NullInt64
		if err := rows.Scan(&k.Tick, &k.RoundNum, &attackerID, &k.AttackerName, &attackerSide,
			&victimID, &k.VictimName, &victimSide, &assisterID, &k.Weapon,
			&headshot, &isTrade, &window); err != nil {
			return nil, err
		}
		k.AttackerID, _ = strconv.ParseUint(attackerID, 10, 64)
		k.VictimID, _ = strconv.ParseUint(victimID, 10, 64)
		k.AssisterID, _ = strconv.ParseUint(assisterID, 10, 64)
		k.AttackerSide = parseSide(attackerSide)
		k.VictimSide = parseSide(victimSide)
		k.Headshot = headshot != 0
		k.IsTrade = isTrade != 0
		if window.Valid {
			v := int(window.Int64)
			k.TradeWindowTicks = &v
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// InsertTeamStats stores both teams' rollups for a match.
func (db *DB) InsertTeamStats(demoHash string, stats ...model.TeamStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO team_stats(
			demo_hash, team,
			rounds_won, rounds_lost,
			ct_rounds_won, ct_rounds_lost, t_rounds_won, t_rounds_lost,
			pistol_rounds_won, pistol_rounds_played,
			eco_rounds_won, eco_rounds_played,
			force_rounds_won, force_rounds_played,
			first_kills, first_deaths
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		_, err = stmt.Exec(
			demoHash, s.Team.String(),
			s.RoundsWon, s.RoundsLost,
			s.CTRoundsWon, s.CTRoundsLost, s.TRoundsWon, s.TRoundsLost,
			s.PistolRoundsWon, s.PistolRoundsPlayed,
			s.EcoRoundsWon, s.EcoRoundsPlayed,
			s.ForceRoundsWon, s.ForceRoundsPlayed,
			s.FirstKills, s.FirstDeaths,
		)
		if err != nil {
			return fmt.Errorf("insert team_stats for %s: %w", s.Team, err)
		}
	}
	return tx.Commit()
}

// GetTeamStats returns both teams' rollups for a demo hash.
func (db *DB) GetTeamStats(demoHash string) (team1, team2 model.TeamStats, err error) {
	rows, err := db.conn.Query(`
		SELECT team, rounds_won, rounds_lost,
		       ct_rounds_won, ct_rounds_lost, t_rounds_won, t_rounds_lost,
		       pistol_rounds_won, pistol_rounds_played,
		       eco_rounds_won, eco_rounds_played,
		       force_rounds_won, force_rounds_played,
		       first_kills, first_deaths
		FROM team_stats WHERE demo_hash = ?`, demoHash)
	if err != nil {
		return team1, team2, err
	}
	defer rows.Close()

	for rows.Next() {
		var s model.TeamStats
		var teamStr string
		if err := rows.Scan(&teamStr, &s.RoundsWon, &s.RoundsLost,
			&s.CTRoundsWon, &s.CTRoundsLost, &s.TRoundsWon, &s.TRoundsLost,
			&s.PistolRoundsWon, &s.PistolRoundsPlayed,
			&s.EcoRoundsWon, &s.EcoRoundsPlayed,
			&s.ForceRoundsWon, &s.ForceRoundsPlayed,
			&s.FirstKills, &s.FirstDeaths); err != nil {
			return team1, team2, err
		}
		switch teamStr {
		case "team1":
			s.Team = model.Team1
			team1 = s
		case "team2":
			s.Team = model.Team2
			team2 = s
		}
	}
	return team1, team2, rows.Err()
}

// InsertPlayerStats bulk-inserts player match stats in a transaction.
func (db *DB) InsertPlayerStats(demoHash string, stats []model.PlayerStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_stats(
			demo_hash, steam_id, name, starting_side,
			kills, deaths, assists, headshots,
			first_kills, first_deaths, trade_kills,
			kills2, kills3, kills4, kills5
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		_, err = stmt.Exec(
			demoHash, strconv.FormatUint(s.SteamID, 10), s.Name, sideString(s.StartingSide),
			s.Kills, s.Deaths, s.Assists, s.Headshots,
			s.FirstKills, s.FirstDeaths, s.TradeKills,
			s.Kills2, s.Kills3, s.Kills4, s.Kills5,
		)
		if err != nil {
			return fmt.Errorf("insert player_stats for %d: %w", s.SteamID, err)
		}
	}
	return tx.Commit()
}

// GetPlayerStats returns all player stats for a demo hash ordered by kills.
func (db *DB) GetPlayerStats(demoHash string) ([]model.PlayerStats, error) {
	rows, err := db.conn.Query(`
		SELECT steam_id, name, starting_side,
		       kills, deaths, assists, headshots,
		       first_kills, first_deaths, trade_kills,
		       kills2, kills3, kills4, kills5
		FROM player_stats WHERE demo_hash = ?
		ORDER BY kills DESC`, demoHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerStats
	for rows.Next() {
		var s model.PlayerStats
		var steamIDStr, sideStr string
		if err := rows.Scan(&steamIDStr, &s.Name, &sideStr,
			&s.Kills, &s.Deaths, &s.Assists, &s.Headshots,
			&s.FirstKills, &s.FirstDeaths, &s.TradeKills,
			&s.Kills2, &s.Kills3, &s.Kills4, &s.Kills5); err != nil {
			return nil, err
		}
		s.SteamID, _ = strconv.ParseUint(steamIDStr, 10, 64)
		s.StartingSide = parseSide(sideStr)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListMatches returns all stored match summaries ordered by match_date desc.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT hash, map_name, match_date, tickrate, team1_score, team2_score
		FROM matches ORDER BY match_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		var s model.MatchSummary
		if err := rows.Scan(&s.DemoHash, &s.MapName, &s.MatchDate,
			&s.Tickrate, &s.Team1Score, &s.Team2Score); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose hash starts with the given prefix.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	var s model.MatchSummary
	err := db.conn.QueryRow(`
		SELECT hash, map_name, match_date, tickrate, team1_score, team2_score
		FROM matches WHERE hash LIKE ? LIMIT 1`, prefix+"%").
		Scan(&s.DemoHash, &s.MapName, &s.MatchDate,
			&s.Tickrate, &s.Team1Score, &s.Team2Score)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteMatch removes a match and all dependent rows.
func (db *DB) DeleteMatch(hash string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"rounds", "round_economy", "kills", "team_stats", "player_stats"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE demo_hash = ?", hash); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM matches WHERE hash = ?", hash); err != nil {
		return err
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableInt(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func sideString(s model.Side) string {
	if s == model.SideUnknown {
		return ""
	}
	return s.String()
}

func parseSide(s string) model.Side {
	switch s {
	case "CT":
		return model.SideCT
	case "T":
		return model.SideT
	default:
		return model.SideUnknown
	}
}

func parseBuyType(s string) model.BuyType {
	switch s {
	case "pistol":
		return model.BuyPistol
	case "eco":
		return model.BuyEco
	case "force":
		return model.BuyForce
	case "full":
		return model.BuyFull
	case "bonus":
		return model.BuyBonus
	default:
		return model.BuyUnknown
	}
}

func parseReason(s string) model.RoundEndReason {
	switch s {
	case "ct_win_elimination":
		return model.ReasonCTElimination
	case "ct_win_defuse":
		return model.ReasonCTDefuse
	case "ct_win_time":
		return model.ReasonCTTime
	case "t_win_elimination":
		return model.ReasonTElimination
	case "t_win_bomb":
		return model.ReasonTBomb
	default:
		return model.ReasonUnknown
	}
}
