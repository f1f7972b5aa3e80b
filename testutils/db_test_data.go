package testutils

import (
	"context"
	"log"
	"time"

	"github.com/JackBruzan/espn-scrape-sub000/containers"
	"github.com/JackBruzan/espn-scrape-sub000/db"
	"github.com/JackBruzan/espn-scrape-sub000/model"
	"github.com/itbasis/go-clock"
)

// Fixture players. SavePlayer assigns their IDs on insert, so the IDs are
// only valid after InsertTestPlayers has run.
var (
	TylerLockett = &model.Player{
		EspnID:    "2577327",
		FirstName: "Tyler",
		LastName:  "Lockett",
		Position:  model.POS_WR,
		Team:      model.TEAM_SEA,
		Active:    true,
	}
	JalenHurts = &model.Player{
		EspnID:    "4040715",
		FirstName: "Jalen",
		LastName:  "Hurts",
		Position:  model.POS_QB,
		Team:      model.TEAM_PHI,
		Active:    true,
	}
	CeeDeeLamb = &model.Player{
		EspnID:    "4241389",
		FirstName: "CeeDee",
		LastName:  "Lamb",
		Position:  model.POS_WR,
		Team:      model.TEAM_DAL,
		Active:    true,
	}
	TJHockenson = &model.Player{
		EspnID:    "4036133",
		FirstName: "T.J.",
		LastName:  "Hockenson",
		Position:  model.POS_TE,
		Team:      model.TEAM_MIN,
		Active:    true,
	}
	BreeceHall = &model.Player{
		FirstName: "Breece",
		LastName:  "Hall",
		Position:  model.POS_RB,
		Team:      model.TEAM_NYJ,
		Active:    true,
	}
)

type TestDB struct {
	container *containers.DBContainer
	DB        db.DB
	Clock     clock.Clock
}

func NewTestDB() *TestDB {
	container := containers.NewDBContainer()
	clock := clock.New()

	db, err := db.New(context.Background(), container.ConnectionString(), clock)
	if err != nil {
		log.Fatalf("error connecting to db in test container: %v", err)
	}

	if err := InsertTestPlayers(db); err != nil {
		log.Fatalf("error populating db in test container: %v", err)
	}

	return &TestDB{
		container: container,
		DB:        db,
		Clock:     clock,
	}
}

func (db *TestDB) Shutdown() {
	db.container.Shutdown()
}

func InsertTestPlayers(db db.DB) error {
	players := []*model.Player{
		TylerLockett,
		JalenHurts,
		CeeDeeLamb,
		TJHockenson,
		BreeceHall,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, p := range players {
		err := db.SavePlayer(ctx, p)
		if err != nil {
			return err
		}
	}

	return nil
}
