package mockespn

import (
	"context"

	"github.com/JackBruzan/espn-scrape-sub000/model"
	"github.com/stretchr/testify/mock"
)

type Client struct {
	mock.Mock
}

func (c *Client) LoadPlayers(ctx context.Context) ([]model.Player, error) {
	args := c.Called(ctx)

	var players []model.Player
	if args.Get(0) != nil {
		players = args.Get(0).([]model.Player)
	}
	return players, args.Error(1)
}

func (c *Client) GamesForWeek(ctx context.Context, season, week int) ([]model.GameRef, error) {
	args := c.Called(ctx, season, week)

	var games []model.GameRef
	if args.Get(0) != nil {
		games = args.Get(0).([]model.GameRef)
	}
	return games, args.Error(1)
}

func (c *Client) GameStats(ctx context.Context, gameID string) ([]model.PlayerStatRecord, error) {
	args := c.Called(ctx, gameID)

	var stats []model.PlayerStatRecord
	if args.Get(0) != nil {
		stats = args.Get(0).([]model.PlayerStatRecord)
	}
	return stats, args.Error(1)
}

func (c *Client) CheckConnectivity(ctx context.Context) bool {
	args := c.Called(ctx)
	return args.Bool(0)
}
