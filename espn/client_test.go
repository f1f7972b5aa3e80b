package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JackBruzan/espn-scrape-sub000/model"
	"github.com/JackBruzan/espn-scrape-sub000/testutils"
)

func TestLoadPlayers_success(t *testing.T) {
	fakeESPN := testutils.NewFakeESPNServer()
	defer fakeESPN.Close()

	c := NewForTest(fakeESPN.URL())

	expected := map[string]model.Player{
		"3139477": {
			FirstName: "Patrick",
			LastName:  "Mahomes",
			Position:  model.POS_QB,
			Team:      model.TEAM_KCC,
			Jersey:    15,
		},
		"4262921": {
			FirstName: "Justin",
			LastName:  "Jefferson",
			Position:  model.POS_WR,
			Team:      model.TEAM_MIN,
			Jersey:    18,
		},
		"4430737": {
			FirstName: "Bijan",
			LastName:  "Robinson",
			Position:  model.POS_RB,
			Team:      model.TEAM_ATL,
			Jersey:    7,
		},
	}

	players, err := c.LoadPlayers(context.Background())
	if err != nil {
		t.Fatalf("error should have been nil, was: %v", err)
	}
	// The offensive lineman in the fixture has no fantasy position and must
	// be filtered out.
	if len(players) != len(expected) {
		t.Fatalf("wrong number of players, expected %d, got %d", len(expected), len(players))
	}

	for _, p := range players {
		e, found := expected[p.EspnID] // Get the expected data
		if !found {
			t.Fatalf("unexpected player in the response %s", p.EspnID)
		}

		if p.ID != "" {
			t.Errorf("players from espn must not have an internal id, got %s", p.ID)
		}
		if p.FirstName != e.FirstName {
			t.Errorf("expected first name %s, got %s", e.FirstName, p.FirstName)
		}
		if p.LastName != e.LastName {
			t.Errorf("expected last name %s, got %s", e.LastName, p.LastName)
		}
		if p.Position != e.Position {
			t.Errorf("expected position %v, got %v", e.Position, p.Position)
		}
		if p.Team != e.Team {
			t.Errorf("expected team %v, got %v", e.Team, p.Team)
		}
		if p.Jersey != e.Jersey {
			t.Errorf("expected jersey %d, got %d", e.Jersey, p.Jersey)
		}
	}
}

func TestLoadPlayers_httpError(t *testing.T) {
	fakeESPN := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		rw.WriteHeader(http.StatusNotFound)
	}))
	defer fakeESPN.Close()

	c := NewForTest(fakeESPN.URL)

	players, err := c.LoadPlayers(context.Background())
	if err == nil {
		t.Fatalf("expected an error but got nil")
	}
	if players != nil {
		t.Fatalf("expected players to be nil, got %v", players)
	}
}

func TestGamesForWeek(t *testing.T) {
	fakeESPN := testutils.NewFakeESPNServer()
	defer fakeESPN.Close()

	c := NewForTest(fakeESPN.URL())

	games, err := c.GamesForWeek(context.Background(), 2025, 1)
	if err != nil {
		t.Fatalf("error should have been nil, was: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("wrong number of games, expected 2, got %d", len(games))
	}

	g := games[0]
	if g.ID != "401671789" {
		t.Errorf("expected game id 401671789, got %s", g.ID)
	}
	if g.Season != 2025 || g.Week != 1 {
		t.Errorf("expected season 2025 week 1, got season %d week %d", g.Season, g.Week)
	}
	if g.HomeTeam != model.TEAM_KCC {
		t.Errorf("expected home team %v, got %v", model.TEAM_KCC, g.HomeTeam)
	}
	if g.AwayTeam != model.TEAM_MIN {
		t.Errorf("expected away team %v, got %v", model.TEAM_MIN, g.AwayTeam)
	}
	if g.Kickoff.IsZero() {
		t.Errorf("expected kickoff time to be set")
	}
}

func TestGamesForWeek_emptyWeek(t *testing.T) {
	fakeESPN := testutils.NewFakeESPNServer()
	defer fakeESPN.Close()

	c := NewForTest(fakeESPN.URL())

	games, err := c.GamesForWeek(context.Background(), 2025, 12)
	if err != nil {
		t.Fatalf("error should have been nil, was: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected no games, got %d", len(games))
	}
}

func TestGameStats(t *testing.T) {
	fakeESPN := testutils.NewFakeESPNServer()
	defer fakeESPN.Close()

	c := NewForTest(fakeESPN.URL())

	stats, err := c.GameStats(context.Background(), "401671789")
	if err != nil {
		t.Fatalf("error should have been nil, was: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("wrong number of stat records, expected 2, got %d", len(stats))
	}

	// Mahomes has passing and rushing lines that must merge into one record.
	mahomes := stats[0]
	if mahomes.EspnID != "3139477" {
		t.Fatalf("expected first record for 3139477, got %s", mahomes.EspnID)
	}
	if mahomes.PassYards != 291 || mahomes.PassTDs != 2 || mahomes.Interceptions != 1 {
		t.Errorf("passing line incorrect: %+v", mahomes)
	}
	if mahomes.RushYards != 32 || mahomes.RushTDs != 0 {
		t.Errorf("rushing line incorrect: %+v", mahomes)
	}
	if mahomes.GameID != "401671789" {
		t.Errorf("expected game id 401671789, got %s", mahomes.GameID)
	}
	if mahomes.Team != model.TEAM_KCC {
		t.Errorf("expected team %v, got %v", model.TEAM_KCC, mahomes.Team)
	}

	jefferson := stats[1]
	if jefferson.EspnID != "4262921" {
		t.Fatalf("expected second record for 4262921, got %s", jefferson.EspnID)
	}
	if jefferson.Receptions != 9 || jefferson.RecYards != 130 || jefferson.RecTDs != 1 {
		t.Errorf("receiving line incorrect: %+v", jefferson)
	}
	if jefferson.Fumbles != 1 {
		t.Errorf("fumbles incorrect: %+v", jefferson)
	}
}

func TestGameStats_unknownGame(t *testing.T) {
	fakeESPN := testutils.NewFakeESPNServer()
	defer fakeESPN.Close()

	c := NewForTest(fakeESPN.URL())

	if _, err := c.GameStats(context.Background(), "555"); err == nil {
		t.Fatalf("expected an error for an unknown game")
	}
}

func TestCheckConnectivity(t *testing.T) {
	fakeESPN := testutils.NewFakeESPNServer()

	c := NewForTest(fakeESPN.URL())
	if !c.CheckConnectivity(context.Background()) {
		t.Errorf("expected connectivity to a running server")
	}

	fakeESPN.Close()
	if c.CheckConnectivity(context.Background()) {
		t.Errorf("expected no connectivity after the server closed")
	}
}
