package db

import (
	"context"

	"github.com/JackBruzan/espn-scrape-sub000/model"
)

type DB interface {
	GetPlayer(ctx context.Context, id string) (*model.Player, error)
	// SavePlayer inserts p when it has no ID yet, assigning one, or updates
	// the existing row and records the field-level changes.
	SavePlayer(ctx context.Context, p *model.Player) error
	DeleteNickname(ctx context.Context, id string, oldNickname string) error
	Search(ctx context.Context, query string, pos model.Position, team *model.NFLTeam) ([]model.Player, error)

	// FindByEspnID returns the internal id of the player linked to the given
	// ESPN id, or ErrPlayerNotFound.
	FindByEspnID(ctx context.Context, espnID string) (string, error)
	// FindCandidates returns players that could plausibly be the person named
	// by nameHint. The fuzzy scoring happens in the matcher, this only
	// pre-filters the pool.
	FindCandidates(ctx context.Context, nameHint string) ([]model.Player, error)
	// SavePlayerEspnID links a player row to an ESPN id.
	SavePlayerEspnID(ctx context.Context, playerID, espnID string) error

	SaveStatRecord(ctx context.Context, rec *model.PlayerStatRecord) error
	// GetPlayerStats returns all stat lines for a player ordered by season
	// and week.
	GetPlayerStats(ctx context.Context, playerID string) ([]model.PlayerStatRecord, error)

	CheckConnectivity(ctx context.Context) bool
}
