package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/JackBruzan/espn-scrape-sub000/model"
)

const ESPNURL = "https://site.api.espn.com"

// Client wraps the ESPN site API endpoints the sync pipeline needs. All of
// the JSON mapping lives here, callers only ever see model types.
type Client interface {
	// LoadPlayers fetches the full NFL athlete list. The returned players
	// have their EspnID set but no internal ID.
	LoadPlayers(ctx context.Context) ([]model.Player, error)
	GamesForWeek(ctx context.Context, season, week int) ([]model.GameRef, error)
	GameStats(ctx context.Context, gameID string) ([]model.PlayerStatRecord, error)
	CheckConnectivity(ctx context.Context) bool
}

type client struct {
	url        string
	httpClient *http.Client
}

func New() (Client, error) {
	return &client{
		url: ESPNURL,
		httpClient: &http.Client{
			Timeout: 1 * time.Minute,
		},
	}, nil
}

func NewForTest(url string) Client {
	return &client{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *client) LoadPlayers(ctx context.Context) ([]model.Player, error) {
	url := fmt.Sprintf("%s/apis/common/v3/sports/football/nfl/athletes?limit=20000&active=true", c.url)

	var parsed athletesResponse
	if err := c.getJSON(ctx, url, &parsed); err != nil {
		return nil, fmt.Errorf("error loading athletes: %w", err)
	}

	result := make([]model.Player, 0, len(parsed.Items))
	for _, a := range parsed.Items {
		if a.ID == "" || a.DisplayName == "" {
			continue
		}
		pos := model.PositionGroup(a.Position.Abbreviation)
		if pos == model.POS_UNKNOWN {
			continue
		}
		result = append(result, *a.toPlayer())
	}

	return result, nil
}

func (c *client) GamesForWeek(ctx context.Context, season, week int) ([]model.GameRef, error) {
	url := fmt.Sprintf("%s/apis/site/v2/sports/football/nfl/scoreboard?seasontype=2&week=%d&dates=%d", c.url, week, season)

	var parsed scoreboardResponse
	if err := c.getJSON(ctx, url, &parsed); err != nil {
		return nil, fmt.Errorf("error loading scoreboard for season %d week %d: %w", season, week, err)
	}

	games := make([]model.GameRef, 0, len(parsed.Events))
	for _, e := range parsed.Events {
		if e.ID == "" {
			continue
		}
		games = append(games, *e.toGameRef(season, week))
	}
	return games, nil
}

func (c *client) GameStats(ctx context.Context, gameID string) ([]model.PlayerStatRecord, error) {
	url := fmt.Sprintf("%s/apis/site/v2/sports/football/nfl/summary?event=%s", c.url, gameID)

	var parsed summaryResponse
	if err := c.getJSON(ctx, url, &parsed); err != nil {
		return nil, fmt.Errorf("error loading stats for game %s: %w", gameID, err)
	}

	return parsed.toStatRecords(gameID), nil
}

// CheckConnectivity reports whether the ESPN API answers at all. It is used
// as a pre-flight check before a sync run, so a false here just means "don't
// start".
func (c *client) CheckConnectivity(ctx context.Context) bool {
	url := fmt.Sprintf("%s/apis/site/v2/sports/football/nfl/scoreboard", c.url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

func (c *client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating http request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error sending http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("error parsing response from espn: %w", err)
	}
	return nil
}
