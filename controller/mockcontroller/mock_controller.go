package mockcontroller

import (
	"context"
	"sync"
	"time"

	"github.com/JackBruzan/espn-scrape-sub000/controller"
	"github.com/JackBruzan/espn-scrape-sub000/model"
	"github.com/JackBruzan/espn-scrape-sub000/ratelimit"
	"github.com/stretchr/testify/mock"
)

type C struct {
	mock.Mock
}

func (c *C) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	args := c.Called(ctx, id)

	var p *model.Player
	if args.Get(0) != nil {
		p = args.Get(0).(*model.Player)
	}

	return p, args.Error(1)
}

func (c *C) Search(ctx context.Context, query string) ([]model.Player, error) {
	args := c.Called(ctx, query)

	var res []model.Player
	if args.Get(0) != nil {
		res = args.Get(0).([]model.Player)
	}

	return res, args.Error(1)
}

func (c *C) UpdatePlayerNickname(ctx context.Context, id, nickname string) error {
	args := c.Called(ctx, id, nickname)
	return args.Error(0)
}

func (c *C) GetPlayerStats(ctx context.Context, playerID string) ([]model.PlayerStatRecord, error) {
	args := c.Called(ctx, playerID)

	var res []model.PlayerStatRecord
	if args.Get(0) != nil {
		res = args.Get(0).([]model.PlayerStatRecord)
	}

	return res, args.Error(1)
}

func (c *C) LinkPlayer(ctx context.Context, espnID, playerID string) (model.PlayerMatchResult, error) {
	args := c.Called(ctx, espnID, playerID)

	var res model.PlayerMatchResult
	if args.Get(0) != nil {
		res = args.Get(0).(model.PlayerMatchResult)
	}

	return res, args.Error(1)
}

func (c *C) SyncPlayers(ctx context.Context, opts *model.SyncOptions) *model.SyncResult {
	args := c.Called(ctx, opts)
	return args.Get(0).(*model.SyncResult)
}

func (c *C) SyncPlayerStats(ctx context.Context, season, week int, opts *model.SyncOptions) *model.SyncResult {
	args := c.Called(ctx, season, week, opts)
	return args.Get(0).(*model.SyncResult)
}

func (c *C) FullSync(ctx context.Context, season int, opts *model.SyncOptions) *model.SyncResult {
	args := c.Called(ctx, season, opts)
	return args.Get(0).(*model.SyncResult)
}

func (c *C) IsSyncRunning() bool {
	args := c.Called()
	return args.Bool(0)
}

func (c *C) CancelRunningSync() bool {
	args := c.Called()
	return args.Bool(0)
}

func (c *C) LastSyncResult() *model.SyncResult {
	args := c.Called()

	var res *model.SyncResult
	if args.Get(0) != nil {
		res = args.Get(0).(*model.SyncResult)
	}

	return res
}

func (c *C) ValidateConnectivity(ctx context.Context) controller.ConnectivityReport {
	args := c.Called(ctx)
	return args.Get(0).(controller.ConnectivityReport)
}

func (c *C) RateLimitStatus() ratelimit.Status {
	args := c.Called()
	return args.Get(0).(ratelimit.Status)
}

func (c *C) RunPeriodicPlayerSyncs(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup) {
	c.Called(frequency, shutdown, wg)
}
