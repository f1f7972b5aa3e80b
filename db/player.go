package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/JackBruzan/espn-scrape-sub000/model"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const playerColumns = `id, espn_id, name_first, name_last, nickname1,
	position, team, jersey_num, college, active, created, updated`

func (db *postgresDB) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	p, err := db.getPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (db *postgresDB) SavePlayer(ctx context.Context, p *model.Player) error {
	if p.Team == nil {
		p.Team = model.TEAM_FA
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
		if err := db.insertPlayer(ctx, p); err != nil {
			p.ID = ""
			return fmt.Errorf("error inserting player: %w", err)
		}
		return nil
	}

	old, err := db.getPlayer(ctx, p.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("error reading player at start of SavePlayer(): %w", err)
	}

	// This is an update, see what, if anything changed
	changes := db.calculateChanges(old, p)
	if len(changes) > 0 {
		return db.updatePlayer(ctx, p, changes)
	}
	return nil
}

func (db *postgresDB) DeleteNickname(ctx context.Context, id string, oldNickname string) error {
	const update = `UPDATE players SET nickname1=NULL WHERE id=@id`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, update, pgx.NamedArgs{"id": id}); err != nil {
		return err
	}

	change := model.Change{
		Time:         db.clock.Now().UTC(),
		PropertyName: "Nickname1",
		OldValue:     oldNickname,
		NewValue:     "",
	}
	if err := insertPlayerChange(ctx, tx, id, &change); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (db *postgresDB) Search(ctx context.Context, q string, pos model.Position, team *model.NFLTeam) ([]model.Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players
			WHERE fts_player @@ websearch_to_tsquery(@q)
				AND team ILIKE @team
				AND position ILIKE @pos`, playerColumns)

	teamAndPosQuery := fmt.Sprintf(`SELECT %s FROM players
			WHERE team ILIKE @team AND position ILIKE @pos`, playerColumns)

	teamQ := "%"
	if team != nil {
		teamQ = team.String()
	}
	posQ := "%"
	if pos != model.POS_UNKNOWN {
		posQ = string(pos)
	}

	args := pgx.NamedArgs{
		"q":    q,
		"team": teamQ,
		"pos":  posQ,
	}

	qq := query
	if q == "" {
		qq = teamAndPosQuery
	}
	rows, err := db.pool.Query(ctx, qq, args)
	if err != nil {
		return nil, fmt.Errorf("error running search query: %w", err)
	}

	return collectPlayers(rows)
}

func (db *postgresDB) FindByEspnID(ctx context.Context, espnID string) (string, error) {
	const query = `SELECT id FROM players WHERE espn_id=@espnID`

	rows, err := db.pool.Query(ctx, query, pgx.NamedArgs{"espnID": espnID})
	if err != nil {
		return "", fmt.Errorf("error querying player with espn_id=%s: %w", espnID, err)
	}

	id, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrPlayerNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// FindCandidates pre-filters the player pool for the matcher. It matches on
// the last name token so spelling differences in first names still surface
// the row, plus a full-text pass over the whole hint.
func (db *postgresDB) FindCandidates(ctx context.Context, nameHint string) ([]model.Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players
			WHERE name_last ILIKE @last
				OR fts_player @@ websearch_to_tsquery(@hint)
			LIMIT 50`, playerColumns)

	_, last := model.SplitName(model.TrimNameSuffix(nameHint))
	if last == "" {
		last = nameHint
	}

	args := pgx.NamedArgs{
		"last": last,
		"hint": nameHint,
	}

	rows, err := db.pool.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error querying candidates for '%s': %w", nameHint, err)
	}

	return collectPlayers(rows)
}

func (db *postgresDB) SavePlayerEspnID(ctx context.Context, playerID, espnID string) error {
	const update = `UPDATE players SET espn_id=@espnID, updated=@updated WHERE id=@id`

	tag, err := db.pool.Exec(ctx, update, pgx.NamedArgs{
		"id":     playerID,
		"espnID": espnID,
		"updated": pgtype.Timestamptz{
			Time:  db.clock.Now().UTC(),
			Valid: true,
		},
	})
	if err != nil {
		return fmt.Errorf("error linking player %s to espn id %s: %w", playerID, espnID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (db *postgresDB) getPlayer(ctx context.Context, id string) (*model.Player, error) {
	query := fmt.Sprintf(`SELECT %s FROM players WHERE id=@id`, playerColumns)
	const changesQuery = `SELECT created, prop, old, new FROM player_changes
			WHERE player=@id ORDER BY created DESC LIMIT 20`

	row := db.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id})
	p, err := scanPlayer(row)
	if err != nil {
		return nil, err
	}

	rows, err := db.pool.Query(ctx, changesQuery, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("error loading changes for player %s: %w", id, err)
	}
	for rows.Next() {
		var c model.Change
		var created pgtype.Timestamptz
		if err := rows.Scan(&created, &c.PropertyName, &c.OldValue, &c.NewValue); err != nil {
			return nil, fmt.Errorf("error scanning player change: %w", err)
		}
		c.Time = created.Time
		p.Changes = append(p.Changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error with player change rows: %w", err)
	}

	return p, nil
}

func (db *postgresDB) insertPlayer(ctx context.Context, p *model.Player) error {
	const insert = `INSERT INTO players(
			id, espn_id, name_first, name_last, nickname1,
			position, team, jersey_num, college, active, created, updated
		) VALUES (
			@id, @espnID, @nameFirst, @nameLast, @nickname1,
			@position, @team, @jerseyNum, @college, @active, @updated, @updated
		)`

	_, err := db.pool.Exec(ctx, insert, namedArgsForPlayer(p, db.clock))
	return err
}

func (db *postgresDB) updatePlayer(ctx context.Context, p *model.Player, changes []model.Change) error {
	const update = `UPDATE players SET
			espn_id=@espnID,
			name_first=@nameFirst,
			name_last=@nameLast,
			nickname1=@nickname1,
			position=@position,
			team=@team,
			jersey_num=@jerseyNum,
			college=@college,
			active=@active,
			updated=@updated
		WHERE id=@id`

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	args := namedArgsForPlayer(p, db.clock)
	if _, err := tx.Exec(ctx, update, args); err != nil {
		return fmt.Errorf("error updating player (%s): %w", p.ID, err)
	}

	for _, change := range changes {
		if err := insertPlayerChange(ctx, tx, p.ID, &change); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing player transaction: %w", err)
	}

	p.Changes = append(p.Changes, changes...)
	slices.SortFunc(p.Changes, func(a, b model.Change) int {
		return b.Time.Compare(a.Time)
	})

	return nil
}

func insertPlayerChange(ctx context.Context, tx pgx.Tx, playerID string, c *model.Change) error {
	const insert = `INSERT INTO player_changes(player, prop, old, new)
			VALUES (@playerId, @prop, @old, @new)`

	_, err := tx.Exec(ctx, insert, pgx.NamedArgs{
		"playerId": playerID,
		"prop":     c.PropertyName,
		"old":      c.OldValue,
		"new":      c.NewValue,
	})
	if err != nil {
		return fmt.Errorf("error inserting player change: %w", err)
	}
	return nil
}

func (db *postgresDB) calculateChanges(p1, p2 *model.Player) []model.Change {
	changes := make([]model.Change, 0, 1)

	changes = checkChange(changes, db.clock, "FirstName", p1.FirstName, p2.FirstName)
	changes = checkChange(changes, db.clock, "LastName", p1.LastName, p2.LastName)
	changes = checkChange(changes, db.clock, "Position", string(p1.Position), string(p2.Position))
	changes = checkChange(changes, db.clock, "Team", p1.Team.String(), p2.Team.String())
	changes = checkChangeInt(changes, db.clock, "Jersey", p1.Jersey, p2.Jersey)
	changes = checkChange(changes, db.clock, "College", p1.College, p2.College)
	changes = checkChange(changes, db.clock, "Active", fmt.Sprintf("%v", p1.Active), fmt.Sprintf("%v", p2.Active))

	// The ESPN id is never cleared once linked, an update without one keeps
	// the existing link.
	if p2.EspnID != "" {
		changes = checkChange(changes, db.clock, "EspnID", p1.EspnID, p2.EspnID)
	} else {
		p2.EspnID = p1.EspnID
	}

	// Nicknames are curated by hand, not part of the ESPN data. Don't delete
	// one just because the incoming record doesn't have it.
	if p2.Nickname1 != "" {
		changes = checkChange(changes, db.clock, "Nickname1", p1.Nickname1, p2.Nickname1)
	} else {
		p2.Nickname1 = p1.Nickname1
	}

	return changes
}

func checkChange(changes []model.Change, clock clock.Clock, prop, old, new string) []model.Change {
	if old != new {
		c := model.Change{
			Time:         clock.Now().UTC(),
			PropertyName: prop,
			OldValue:     old,
			NewValue:     new,
		}
		changes = append(changes, c)
	}
	return changes
}

func checkChangeInt(changes []model.Change, clock clock.Clock, prop string, old, new int) []model.Change {
	return checkChange(changes, clock, prop, fmt.Sprintf("%d", old), fmt.Sprintf("%d", new))
}

func namedArgsForPlayer(p *model.Player, clock clock.Clock) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":        p.ID,
		"espnID":    nullString(p.EspnID),
		"nameFirst": p.FirstName,
		"nameLast":  p.LastName,
		"nickname1": nullString(p.Nickname1),
		"position":  &DBPosition{position: p.Position},
		"team":      &DBNFLTeam{team: p.Team},
		"jerseyNum": p.Jersey,
		"college":   nullString(p.College),
		"active":    p.Active,
		"updated": pgtype.Timestamptz{
			Time:             clock.Now().UTC(),
			InfinityModifier: pgtype.Finite,
			Valid:            true,
		},
	}
}

func scanPlayer(row pgx.Row) (*model.Player, error) {
	var result model.Player

	var pos DBPosition
	var team DBNFLTeam
	var espnID, nickname1, college sql.NullString
	var created, updated pgtype.Timestamptz
	err := row.Scan(
		&result.ID,
		&espnID,
		&result.FirstName,
		&result.LastName,
		&nickname1,
		&pos,
		&team,
		&result.Jersey,
		&college,
		&result.Active,
		&created,
		&updated,
	)
	if err != nil {
		return nil, err
	}

	result.EspnID = valueOrEmpty(espnID)
	result.Nickname1 = valueOrEmpty(nickname1)
	result.College = valueOrEmpty(college)
	result.Position = pos.position
	result.Team = team.team
	result.Created = created.Time
	result.Updated = updated.Time

	return &result, nil
}

func collectPlayers(rows pgx.Rows) ([]model.Player, error) {
	results := make([]model.Player, 0, 8)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error with player rows: %w", err)
	}

	return results, nil
}
