package db

import (
	"context"
	"errors"
	"testing"

	"github.com/JackBruzan/espn-scrape-sub000/model"
)

func TestPlayer_saveAndLoad(t *testing.T) {
	ctx := context.Background()
	p := getPlayer()

	err := testDB.SavePlayer(ctx, p)
	assertFatalf(t, err == nil, "error saving player: %v", err)
	assertFatalf(t, p.ID != "", "expected an id to be assigned on insert")

	res, err := testDB.GetPlayer(ctx, p.ID)
	assertFatalf(t, err == nil, "error retrieving player: %v", err)

	// Make sure that after saving and retrieving the player, all the fields
	// are the same.
	assertEquals(t, "ID", p.ID, res.ID)
	assertEquals(t, "EspnID", p.EspnID, res.EspnID)
	assertEquals(t, "FirstName", p.FirstName, res.FirstName)
	assertEquals(t, "LastName", p.LastName, res.LastName)
	assertEquals(t, "Nickname1", p.Nickname1, res.Nickname1)
	assertEquals(t, "Position", p.Position, res.Position)
	assertEquals(t, "Team", p.Team, res.Team)
	assertEquals(t, "Jersey", p.Jersey, res.Jersey)
	assertEquals(t, "College", p.College, res.College)
	assertEquals(t, "Active", p.Active, res.Active)
	assertEquals(t, "player changes", 0, len(res.Changes))

	if res.Created.IsZero() {
		t.Errorf("expected res created time to not be zero")
	}

	// Now update a field and make sure it persists as expected.
	p.Jersey = 10
	err = testDB.SavePlayer(ctx, p)
	assertFatalf(t, err == nil, "error saving player after update: %v", err)

	res2, err := testDB.GetPlayer(ctx, p.ID)
	assertFatalf(t, err == nil, "error getting updated player: %v", err)

	assertEquals(t, "Jersey", p.Jersey, res2.Jersey)
	assertEquals(t, "Changes", 1, len(res2.Changes))
	assertPlayerChange(t, "jersey change", "Jersey", "16", "10", &res2.Changes[0])

	// Lookup a player that doesn't exist
	res3, err := testDB.GetPlayer(ctx, "1111")
	assertFatalf(t, err != nil, "should have had an error searching for player")
	assertEquals(t, "error type", true, errors.Is(err, ErrPlayerNotFound))
	if res3 != nil {
		t.Errorf("expected res3 to be nil, but was %v", res3)
	}
}

func TestPlayer_updateWithNonExistentID(t *testing.T) {
	p := getPlayer()
	p.ID = "does-not-exist"

	err := testDB.SavePlayer(context.Background(), p)
	assertEquals(t, "error type", true, errors.Is(err, ErrPlayerNotFound))
}

func TestPlayer_espnIDNeverCleared(t *testing.T) {
	ctx := context.Background()
	p := getPlayer()
	originalEspnID := p.EspnID

	err := testDB.SavePlayer(ctx, p)
	assertFatalf(t, err == nil, "error saving player: %v", err)

	// Save an update with no espn id and make sure the link isn't lost. This
	// happens when a record comes from a source that doesn't know the id.
	update := &model.Player{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Position:  p.Position,
		Team:      p.Team,
		Jersey:    p.Jersey,
		College:   p.College,
		Active:    p.Active,
	}
	err = testDB.SavePlayer(ctx, update)
	assertFatalf(t, err == nil, "error saving update: %v", err)

	res, err := testDB.GetPlayer(ctx, p.ID)
	assertFatalf(t, err == nil, "error getting player: %v", err)
	assertEquals(t, "EspnID", originalEspnID, res.EspnID)

	// The nickname is curated by hand and must survive updates too.
	assertEquals(t, "Nickname1", "Hot Locket", res.Nickname1)
}

func TestPlayer_search(t *testing.T) {
	ctx := context.Background()

	p := getPlayerWithName("DK", "Metcalf")
	p.Team = model.TEAM_SEA

	err := testDB.SavePlayer(ctx, p)
	assertFatalf(t, err == nil, "error saving player: %v", err)

	players, err := testDB.Search(ctx, "Metcalf", model.POS_UNKNOWN, nil)
	assertFatalf(t, err == nil, "error searching for player: %v", err)
	assertEquals(t, "num players found", 1, len(players))

	players, err = testDB.Search(ctx, "Frank", model.POS_UNKNOWN, nil)
	assertFatalf(t, err == nil, "error searching for players: %v", err)
	assertEquals(t, "num players found when searching for Frank", 0, len(players))

	// Filtering by another team must exclude the player.
	players, err = testDB.Search(ctx, "Metcalf", model.POS_UNKNOWN, model.TEAM_DAL)
	assertFatalf(t, err == nil, "error searching with team filter: %v", err)
	assertEquals(t, "num players found with wrong team", 0, len(players))

	players, err = testDB.Search(ctx, "Metcalf", model.POS_WR, model.TEAM_SEA)
	assertFatalf(t, err == nil, "error searching with filters: %v", err)
	assertEquals(t, "num players found with filters", 1, len(players))
}

func TestPlayer_findByEspnID(t *testing.T) {
	ctx := context.Background()

	p := getPlayerWithName("Puka", "Nacua")
	err := testDB.SavePlayer(ctx, p)
	assertFatalf(t, err == nil, "error saving player: %v", err)

	id, err := testDB.FindByEspnID(ctx, p.EspnID)
	assertFatalf(t, err == nil, "error finding player by espn id: %v", err)
	assertEquals(t, "id", p.ID, id)

	_, err = testDB.FindByEspnID(ctx, "does-not-exist")
	assertEquals(t, "error type", true, errors.Is(err, ErrPlayerNotFound))
}

func TestPlayer_findCandidates(t *testing.T) {
	ctx := context.Background()

	p := getPlayerWithName("Marquise", "Goodwin")
	err := testDB.SavePlayer(ctx, p)
	assertFatalf(t, err == nil, "error saving player: %v", err)

	// A different first name with the same last name still has to surface
	// the row, that's the whole point of the pre-filter.
	candidates, err := testDB.FindCandidates(ctx, "Hollywood Goodwin")
	assertFatalf(t, err == nil, "error finding candidates: %v", err)

	found := false
	for _, c := range candidates {
		if c.ID == p.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("expected candidate pool to include %s", p.ID)
	}
}

func TestPlayer_savePlayerEspnID(t *testing.T) {
	ctx := context.Background()

	p := getPlayerWithName("Rashee", "Rice")
	p.EspnID = ""
	err := testDB.SavePlayer(ctx, p)
	assertFatalf(t, err == nil, "error saving player: %v", err)

	espnID := nextEspnID()
	err = testDB.SavePlayerEspnID(ctx, p.ID, espnID)
	assertFatalf(t, err == nil, "error linking player: %v", err)

	id, err := testDB.FindByEspnID(ctx, espnID)
	assertFatalf(t, err == nil, "error finding linked player: %v", err)
	assertEquals(t, "id", p.ID, id)

	err = testDB.SavePlayerEspnID(ctx, "does-not-exist", nextEspnID())
	assertEquals(t, "error type", true, errors.Is(err, ErrPlayerNotFound))
}

func TestPlayer_deleteNickname(t *testing.T) {
	ctx := context.Background()

	p := getPlayerWithName("George", "Kittle")
	p.Nickname1 = "The People's Tight End"
	err := testDB.SavePlayer(ctx, p)
	assertFatalf(t, err == nil, "error saving player: %v", err)

	err = testDB.DeleteNickname(ctx, p.ID, p.Nickname1)
	assertFatalf(t, err == nil, "error deleting nickname: %v", err)

	res, err := testDB.GetPlayer(ctx, p.ID)
	assertFatalf(t, err == nil, "error getting player: %v", err)
	assertEquals(t, "Nickname1", "", res.Nickname1)
	assertEquals(t, "Changes", 1, len(res.Changes))
	assertPlayerChange(t, "nickname delete", "Nickname1", "The People's Tight End", "", &res.Changes[0])
}
