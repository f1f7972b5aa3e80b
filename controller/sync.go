package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/JackBruzan/espn-scrape-sub000/db"
	"github.com/JackBruzan/espn-scrape-sub000/matcher"
	"github.com/JackBruzan/espn-scrape-sub000/model"
	"github.com/JackBruzan/espn-scrape-sub000/ratelimit"
	"github.com/google/uuid"
)

// ErrSyncAlreadyRunning is reported when a sync is requested while another
// one is still active. The caller gets it as a Failed SyncResult, not as a
// Go error.
var ErrSyncAlreadyRunning = errors.New("a sync is already running")

// The regular season. FullSync walks every week of it.
const weeksPerSeason = 18

func (c *controller) SyncPlayers(ctx context.Context, opts *model.SyncOptions) *model.SyncResult {
	options := normalizeOptions(opts)

	runCtx, result, err := c.startRun(ctx, model.SyncTypePlayers, options)
	if err != nil {
		return c.rejectedRun(model.SyncTypePlayers, options, err)
	}
	defer c.endRun()

	c.guarded(result, func() {
		c.runPlayerSync(runCtx, result)
	})
	c.finishRun(runCtx, result)
	return result
}

func (c *controller) SyncPlayerStats(ctx context.Context, season, week int, opts *model.SyncOptions) *model.SyncResult {
	options := normalizeOptions(opts)

	runCtx, result, err := c.startRun(ctx, model.SyncTypePlayerStats, options)
	if err != nil {
		return c.rejectedRun(model.SyncTypePlayerStats, options, err)
	}
	defer c.endRun()

	c.guarded(result, func() {
		c.runStatsSync(runCtx, result, season, week)
	})
	c.finishRun(runCtx, result)
	return result
}

func (c *controller) FullSync(ctx context.Context, season int, opts *model.SyncOptions) *model.SyncResult {
	options := normalizeOptions(opts)

	runCtx, result, err := c.startRun(ctx, model.SyncTypeFull, options)
	if err != nil {
		return c.rejectedRun(model.SyncTypeFull, options, err)
	}
	defer c.endRun()

	c.guarded(result, func() {
		c.runPlayerSync(runCtx, result)

		for week := 1; week <= weeksPerSeason; week++ {
			if runCtx.Err() != nil {
				return
			}

			// Each week runs against its own accumulator so a bad week
			// becomes a warning on the overall run instead of failing it.
			weekResult := &model.SyncResult{
				SyncID:    result.SyncID,
				SyncType:  model.SyncTypePlayerStats,
				Status:    model.SyncStatusRunning,
				StartTime: c.clock.Now().UTC(),
				Options:   result.Options,
			}
			c.runStatsSync(runCtx, weekResult, season, week)

			result.RecordsProcessed += weekResult.RecordsProcessed
			result.PlayersProcessed += weekResult.PlayersProcessed
			result.NewPlayersAdded += weekResult.NewPlayersAdded
			result.PlayersUpdated += weekResult.PlayersUpdated
			result.StatsRecordsProcessed += weekResult.StatsRecordsProcessed

			errCount := weekResult.DataErrors + weekResult.MatchingErrors + weekResult.APIErrors
			if errCount > 0 {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("week %d stats sync had %d errors", week, errCount))
			}
		}
	})
	c.finishRun(runCtx, result)
	return result
}

func (c *controller) IsSyncRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncActive
}

func (c *controller) CancelRunningSync() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.syncActive || c.cancelSync == nil {
		return false
	}
	c.cancelSync()
	return true
}

func (c *controller) LastSyncResult() *model.SyncResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastResult
}

func (c *controller) ValidateConnectivity(ctx context.Context) ConnectivityReport {
	report := ConnectivityReport{
		SourceOK:   c.espn.CheckConnectivity(ctx),
		DatabaseOK: c.db.CheckConnectivity(ctx),
	}
	if !report.SourceOK {
		report.Errors = append(report.Errors, "ESPN API is unreachable")
	}
	if !report.DatabaseOK {
		report.Errors = append(report.Errors, "player database is unreachable")
	}
	return report
}

func (c *controller) RateLimitStatus() ratelimit.Status {
	return c.limiter.GetStatus()
}

// startRun acquires the single-flight lock and creates the run accumulator.
// It fails fast with ErrSyncAlreadyRunning instead of queueing.
func (c *controller) startRun(ctx context.Context, syncType model.SyncType, options model.SyncOptions) (context.Context, *model.SyncResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.syncActive {
		return nil, nil, ErrSyncAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	result := &model.SyncResult{
		SyncID:    uuid.NewString(),
		SyncType:  syncType,
		Status:    model.SyncStatusRunning,
		StartTime: c.clock.Now().UTC(),
		Options:   options,
	}

	c.syncActive = true
	c.cancelSync = cancel
	c.lastResult = result

	log.Printf("sync %s (%s) starting", result.SyncID, syncType)
	return runCtx, result, nil
}

// endRun releases the single-flight lock. It runs unconditionally, including
// when the run body panicked.
func (c *controller) endRun() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelSync != nil {
		c.cancelSync()
	}
	c.syncActive = false
	c.cancelSync = nil
}

// guarded runs the sync body, converting a panic into an error on the result
// instead of letting it escape to the caller.
func (c *controller) guarded(result *model.SyncResult, body func()) {
	defer func() {
		if p := recover(); p != nil {
			result.DataErrors++
			result.Errors = append(result.Errors, fmt.Sprintf("unexpected error: %v", p))
		}
	}()
	body()
}

// finishRun freezes the result. Cancellation beats every other status.
func (c *controller) finishRun(runCtx context.Context, result *model.SyncResult) {
	if runCtx.Err() != nil && result.Status == model.SyncStatusRunning {
		result.Status = model.SyncStatusCancelled
	} else {
		result.Status = result.FinalStatus()
	}
	end := c.clock.Now().UTC()
	result.EndTime = &end

	log.Printf("sync %s finished with status %s: %d records, %d players (%d new, %d updated), %d stats, errors data=%d matching=%d api=%d",
		result.SyncID, result.Status, result.RecordsProcessed, result.PlayersProcessed,
		result.NewPlayersAdded, result.PlayersUpdated, result.StatsRecordsProcessed,
		result.DataErrors, result.MatchingErrors, result.APIErrors)
}

// rejectedRun builds the Failed result for a sync that never started. The
// active run's counters are untouched and lastResult still points at it.
func (c *controller) rejectedRun(syncType model.SyncType, options model.SyncOptions, err error) *model.SyncResult {
	now := c.clock.Now().UTC()
	return &model.SyncResult{
		SyncID:    uuid.NewString(),
		SyncType:  syncType,
		Status:    model.SyncStatusFailed,
		StartTime: now,
		EndTime:   &now,
		Errors:    []string{err.Error()},
		Options:   options,
	}
}

func (c *controller) runPlayerSync(ctx context.Context, result *model.SyncResult) {
	if !c.preflight(ctx, result) {
		return
	}

	if err := c.limiter.WaitForRequest(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		result.APIErrors++
		result.Errors = append(result.Errors, fmt.Sprintf("rate limiter rejected player fetch: %v", err))
		return
	}

	players, err := c.espn.LoadPlayers(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		result.APIErrors++
		result.Errors = append(result.Errors, fmt.Sprintf("error loading players from ESPN: %v", err))
		return
	}
	if len(players) == 0 {
		// An empty athlete list means the scrape broke, not that the NFL
		// has no players.
		result.APIErrors++
		result.Errors = append(result.Errors, "no player data retrieved from ESPN")
		return
	}

	batches := partition(players, result.Options.BatchSize)
	for i, batch := range batches {
		if ctx.Err() != nil {
			return
		}

		for j := range batch {
			if ctx.Err() != nil {
				return
			}

			p := &batch[j]
			result.RecordsProcessed++
			result.PlayersProcessed++

			if err := c.processPlayerRecord(ctx, p, result); err != nil {
				if ctx.Err() != nil {
					return
				}
				result.DataErrors++
				result.Errors = append(result.Errors,
					fmt.Sprintf("error processing player %s (%s): %v", p.EspnID, p.FullName(), err))
				if !result.Options.SkipInvalidRecords {
					return
				}
			}
		}

		if i < len(batches)-1 && result.Options.RetryDelay > 0 {
			if err := c.sleep(ctx, result.Options.RetryDelay); err != nil {
				return
			}
		}
	}
}

// processPlayerRecord reconciles one ESPN record with the database: stable-id
// lookup first, then fuzzy matching against a candidate pool, then creation.
func (c *controller) processPlayerRecord(ctx context.Context, p *model.Player, result *model.SyncResult) error {
	id, err := c.db.FindByEspnID(ctx, p.EspnID)
	if err == nil {
		p.ID = id
		if err := c.db.SavePlayer(ctx, p); err != nil {
			return err
		}
		result.PlayersUpdated++
		return nil
	}
	if !errors.Is(err, db.ErrPlayerNotFound) {
		return err
	}

	pool, err := c.db.FindCandidates(ctx, p.FullName())
	if err != nil {
		return err
	}

	match := c.matcher.FindMatch(matcher.SourceRecord{
		ID:       p.EspnID,
		Name:     p.FullName(),
		Team:     p.Team.String(),
		Position: string(p.Position),
	}, pool)

	if match.MatchedPlayerID != "" && !match.RequiresManualReview {
		p.ID = match.MatchedPlayerID
		if err := c.db.SavePlayer(ctx, p); err != nil {
			return err
		}
		result.PlayersUpdated++
		return nil
	}

	if match.MatchedPlayerID != "" {
		// There is a plausible match but it isn't safe to auto-link.
		// Creating a row anyway would duplicate the player, so leave it for
		// an operator.
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("player %s (%s) needs manual review: best candidate %s at %.2f",
				p.EspnID, p.FullName(), match.MatchedPlayerID, match.ConfidenceScore))
		return nil
	}

	p.ID = ""
	if err := c.db.SavePlayer(ctx, p); err != nil {
		result.MatchingErrors++
		result.Errors = append(result.Errors,
			fmt.Sprintf("no match for player %s (%s) and creation failed: %v", p.EspnID, p.FullName(), err))
		return nil
	}
	result.NewPlayersAdded++
	return nil
}

func (c *controller) runStatsSync(ctx context.Context, result *model.SyncResult, season, week int) {
	if !c.preflight(ctx, result) {
		return
	}

	if err := c.limiter.WaitForRequest(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		result.APIErrors++
		result.Errors = append(result.Errors, fmt.Sprintf("rate limiter rejected scoreboard fetch: %v", err))
		return
	}

	games, err := c.espn.GamesForWeek(ctx, season, week)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		result.APIErrors++
		result.Errors = append(result.Errors,
			fmt.Sprintf("error loading games for season %d week %d: %v", season, week, err))
		return
	}
	if len(games) == 0 {
		result.APIErrors++
		result.Errors = append(result.Errors,
			fmt.Sprintf("no games retrieved for season %d week %d", season, week))
		return
	}

	for _, game := range games {
		if ctx.Err() != nil {
			return
		}

		if err := c.limiter.WaitForRequest(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			result.APIErrors++
			result.Errors = append(result.Errors,
				fmt.Sprintf("rate limiter rejected stats fetch for game %s: %v", game.ID, err))
			continue
		}

		stats, err := c.espn.GameStats(ctx, game.ID)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			// One broken box score shouldn't sink the week.
			result.APIErrors++
			result.Errors = append(result.Errors, fmt.Sprintf("error loading stats for game %s: %v", game.ID, err))
			continue
		}

		for i := range stats {
			if ctx.Err() != nil {
				return
			}
			c.processStatRecord(ctx, &stats[i], result, season, week)
		}
	}
}

// processStatRecord resolves the stat line's player by stable id, creating a
// minimal player row when the id is unknown but a display name is available,
// then persists the line. Failures are isolated to the record.
func (c *controller) processStatRecord(ctx context.Context, rec *model.PlayerStatRecord, result *model.SyncResult, season, week int) {
	result.RecordsProcessed++
	result.PlayersProcessed++

	id, err := c.db.FindByEspnID(ctx, rec.EspnID)
	if errors.Is(err, db.ErrPlayerNotFound) {
		if rec.PlayerName == "" {
			result.MatchingErrors++
			result.Errors = append(result.Errors,
				fmt.Sprintf("stat record for unknown espn id %s in game %s has no name", rec.EspnID, rec.GameID))
			return
		}

		first, last := model.SplitName(rec.PlayerName)
		p := &model.Player{
			EspnID:    rec.EspnID,
			FirstName: first,
			LastName:  last,
			Team:      rec.Team,
			Active:    true,
		}
		if err := c.db.SavePlayer(ctx, p); err != nil {
			result.MatchingErrors++
			result.Errors = append(result.Errors,
				fmt.Sprintf("error creating player for espn id %s (%s): %v", rec.EspnID, rec.PlayerName, err))
			return
		}
		result.NewPlayersAdded++
		id = p.ID
	} else if err != nil {
		result.DataErrors++
		result.Errors = append(result.Errors,
			fmt.Sprintf("error resolving player for espn id %s in game %s: %v", rec.EspnID, rec.GameID, err))
		return
	}

	rec.PlayerID = id
	rec.Season = season
	rec.Week = week
	if err := c.db.SaveStatRecord(ctx, rec); err != nil {
		result.DataErrors++
		result.Errors = append(result.Errors,
			fmt.Sprintf("error saving stats for player %s in game %s: %v", rec.EspnID, rec.GameID, err))
		return
	}
	result.StatsRecordsProcessed++
}

// preflight verifies both collaborators are reachable before the run spends
// any rate-limit budget. A failure here aborts with nothing processed.
func (c *controller) preflight(ctx context.Context, result *model.SyncResult) bool {
	ok := true
	if !c.espn.CheckConnectivity(ctx) {
		result.APIErrors++
		result.Errors = append(result.Errors, "ESPN API is unreachable")
		ok = false
	}
	if !c.db.CheckConnectivity(ctx) {
		result.APIErrors++
		result.Errors = append(result.Errors, "player database is unreachable")
		ok = false
	}
	return ok
}

func (c *controller) sleep(ctx context.Context, d time.Duration) error {
	t := c.clock.Timer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func partition(players []model.Player, batchSize int) [][]model.Player {
	if batchSize <= 0 {
		return [][]model.Player{players}
	}

	batches := make([][]model.Player, 0, (len(players)+batchSize-1)/batchSize)
	for start := 0; start < len(players); start += batchSize {
		end := min(start+batchSize, len(players))
		batches = append(batches, players[start:end])
	}
	return batches
}

func normalizeOptions(opts *model.SyncOptions) model.SyncOptions {
	options := model.DefaultSyncOptions()
	if opts != nil {
		options = *opts
	}
	if options.BatchSize <= 0 {
		options.BatchSize = model.DefaultSyncOptions().BatchSize
	}
	return options
}
