package db

import (
	"context"
	"fmt"

	"github.com/JackBruzan/espn-scrape-sub000/model"
	"github.com/jackc/pgx/v5"
)

// SaveStatRecord upserts one player's stat line for one game. Re-running a
// stats sync for the same week overwrites rather than duplicates.
func (db *postgresDB) SaveStatRecord(ctx context.Context, rec *model.PlayerStatRecord) error {
	const upsert = `INSERT INTO player_stats(
			player_id, game_id, season, week, team,
			pass_yards, pass_tds, interceptions,
			rush_yards, rush_tds,
			receptions, rec_yards, rec_tds, fumbles
		) VALUES (
			@playerID, @gameID, @season, @week, @team,
			@passYards, @passTDs, @interceptions,
			@rushYards, @rushTDs,
			@receptions, @recYards, @recTDs, @fumbles
		)
		ON CONFLICT (player_id, game_id) DO UPDATE SET
			pass_yards=EXCLUDED.pass_yards,
			pass_tds=EXCLUDED.pass_tds,
			interceptions=EXCLUDED.interceptions,
			rush_yards=EXCLUDED.rush_yards,
			rush_tds=EXCLUDED.rush_tds,
			receptions=EXCLUDED.receptions,
			rec_yards=EXCLUDED.rec_yards,
			rec_tds=EXCLUDED.rec_tds,
			fumbles=EXCLUDED.fumbles`

	team := rec.Team
	if team == nil {
		team = model.TEAM_FA
	}

	args := pgx.NamedArgs{
		"playerID":      rec.PlayerID,
		"gameID":        rec.GameID,
		"season":        rec.Season,
		"week":          rec.Week,
		"team":          &DBNFLTeam{team: team},
		"passYards":     rec.PassYards,
		"passTDs":       rec.PassTDs,
		"interceptions": rec.Interceptions,
		"rushYards":     rec.RushYards,
		"rushTDs":       rec.RushTDs,
		"receptions":    rec.Receptions,
		"recYards":      rec.RecYards,
		"recTDs":        rec.RecTDs,
		"fumbles":       rec.Fumbles,
	}

	if _, err := db.pool.Exec(ctx, upsert, args); err != nil {
		return fmt.Errorf("error saving stats for player %s game %s: %w", rec.PlayerID, rec.GameID, err)
	}
	return nil
}

func (db *postgresDB) GetPlayerStats(ctx context.Context, playerID string) ([]model.PlayerStatRecord, error) {
	const query = `SELECT player_id, game_id, season, week, team,
			pass_yards, pass_tds, interceptions,
			rush_yards, rush_tds,
			receptions, rec_yards, rec_tds, fumbles
		FROM player_stats WHERE player_id=@playerID
		ORDER BY season, week`

	rows, err := db.pool.Query(ctx, query, pgx.NamedArgs{"playerID": playerID})
	if err != nil {
		return nil, fmt.Errorf("error querying stats for player %s: %w", playerID, err)
	}

	results := make([]model.PlayerStatRecord, 0, 18)
	for rows.Next() {
		var rec model.PlayerStatRecord
		var team DBNFLTeam
		err := rows.Scan(
			&rec.PlayerID,
			&rec.GameID,
			&rec.Season,
			&rec.Week,
			&team,
			&rec.PassYards,
			&rec.PassTDs,
			&rec.Interceptions,
			&rec.RushYards,
			&rec.RushTDs,
			&rec.Receptions,
			&rec.RecYards,
			&rec.RecTDs,
			&rec.Fumbles,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning stat record: %w", err)
		}
		rec.Team = team.team
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error with stat rows: %w", err)
	}

	return results, nil
}
