package controller

import (
	"context"
	"sync"
	"time"

	"github.com/JackBruzan/espn-scrape-sub000/db"
	"github.com/JackBruzan/espn-scrape-sub000/espn"
	"github.com/JackBruzan/espn-scrape-sub000/matcher"
	"github.com/JackBruzan/espn-scrape-sub000/model"
	"github.com/JackBruzan/espn-scrape-sub000/ratelimit"
	"github.com/itbasis/go-clock"
)

// C encapsulates business logic without worrying about any web layers
type C interface {
	GetPlayer(ctx context.Context, id string) (*model.Player, error)
	Search(ctx context.Context, query string) ([]model.Player, error)
	// Updates a player's nickname, or deletes it if the nickname == ""
	// Returns an error if not successful, nil otherwise.
	UpdatePlayerNickname(ctx context.Context, id, nickname string) error
	GetPlayerStats(ctx context.Context, playerID string) ([]model.PlayerStatRecord, error)

	// LinkPlayer manually links a player row to an ESPN id, bypassing the
	// matcher. The returned result always carries confidence 1.0.
	LinkPlayer(ctx context.Context, espnID, playerID string) (model.PlayerMatchResult, error)

	// SyncPlayers pulls the full ESPN athlete list and reconciles it with
	// the player database. Only one sync may run at a time; a second call
	// while one is active returns a Failed result immediately. Errors are
	// reported through the returned SyncResult, never as a Go error.
	SyncPlayers(ctx context.Context, opts *model.SyncOptions) *model.SyncResult
	// SyncPlayerStats pulls the box scores for every game in the given week
	// and persists per-player stat lines.
	SyncPlayerStats(ctx context.Context, season, week int, opts *model.SyncOptions) *model.SyncResult
	// FullSync runs a player sync followed by a stats sync for every week of
	// the season. Week-level failures become warnings on the overall run.
	FullSync(ctx context.Context, season int, opts *model.SyncOptions) *model.SyncResult

	IsSyncRunning() bool
	// CancelRunningSync cancels the active sync run if there is one,
	// returning whether anything was cancelled.
	CancelRunningSync() bool
	LastSyncResult() *model.SyncResult
	ValidateConnectivity(ctx context.Context) ConnectivityReport
	RateLimitStatus() ratelimit.Status

	RunPeriodicPlayerSyncs(frequency time.Duration, shutdown chan bool, wg *sync.WaitGroup)
}

// ConnectivityReport is the result of probing both external collaborators.
type ConnectivityReport struct {
	SourceOK   bool     `json:"sourceOk"`
	DatabaseOK bool     `json:"databaseOk"`
	Errors     []string `json:"errors,omitempty"`
}

type controller struct {
	clock   clock.Clock
	espn    espn.Client
	db      db.DB
	matcher *matcher.Matcher
	limiter *ratelimit.Limiter

	// Guards the single-flight sync state below. Sync runs are exclusive,
	// read operations are not.
	mu         sync.Mutex
	syncActive bool
	cancelSync context.CancelFunc
	lastResult *model.SyncResult
}

func New(clock clock.Clock, db db.DB, espnClient espn.Client, m *matcher.Matcher, limiter *ratelimit.Limiter) (C, error) {
	c := &controller{
		clock:   clock,
		espn:    espnClient,
		db:      db,
		matcher: m,
		limiter: limiter,
	}
	return c, nil
}
