package model

import (
	"time"
)

type SyncType string

const (
	SyncTypePlayers     SyncType = "players"
	SyncTypePlayerStats SyncType = "player_stats"
	SyncTypeFull        SyncType = "full"
)

type SyncStatus string

const (
	SyncStatusRunning               SyncStatus = "running"
	SyncStatusCompleted             SyncStatus = "completed"
	SyncStatusCompletedWithWarnings SyncStatus = "completed_with_warnings"
	SyncStatusPartiallyCompleted    SyncStatus = "partially_completed"
	SyncStatusFailed                SyncStatus = "failed"
	SyncStatusCancelled             SyncStatus = "cancelled"
)

// SyncOptions configures a single sync run. It is not modified once the run
// has started.
type SyncOptions struct {
	BatchSize int `json:"batchSize"`
	// How long to wait between batches. This is backpressure toward ESPN,
	// not a correctness requirement.
	RetryDelay time.Duration `json:"retryDelay"`
	// When false the first record-level error aborts the entire run.
	SkipInvalidRecords bool `json:"skipInvalidRecords"`
	ForceFullSync      bool `json:"forceFullSync"`
}

func DefaultSyncOptions() SyncOptions {
	return SyncOptions{
		BatchSize:          50,
		RetryDelay:         2 * time.Second,
		SkipInvalidRecords: true,
	}
}

// SyncResult accumulates the outcome of one sync run. It is mutated in place
// by the orchestrator while the run is active and frozen exactly once when
// the run reaches a terminal status.
type SyncResult struct {
	SyncID                string      `json:"syncId"`
	SyncType              SyncType    `json:"syncType"`
	Status                SyncStatus  `json:"status"`
	StartTime             time.Time   `json:"startTime"`
	EndTime               *time.Time  `json:"endTime,omitempty"`
	RecordsProcessed      int         `json:"recordsProcessed"`
	PlayersProcessed      int         `json:"playersProcessed"`
	NewPlayersAdded       int         `json:"newPlayersAdded"`
	PlayersUpdated        int         `json:"playersUpdated"`
	StatsRecordsProcessed int         `json:"statsRecordsProcessed"`
	DataErrors            int         `json:"dataErrors"`
	MatchingErrors        int         `json:"matchingErrors"`
	APIErrors             int         `json:"apiErrors"`
	Errors                []string    `json:"errors,omitempty"`
	Warnings              []string    `json:"warnings,omitempty"`
	Options               SyncOptions `json:"options"`
}

// SuccessRate is the percentage of processed players that did not produce a
// data or matching error. Returns 0 when no players were processed.
func (r *SyncResult) SuccessRate() float64 {
	if r.PlayersProcessed <= 0 {
		return 0
	}
	ok := r.PlayersProcessed - r.DataErrors - r.MatchingErrors
	return float64(ok) / float64(r.PlayersProcessed) * 100
}

// FinalStatus derives the terminal status from the accumulated counters.
// Error counters take precedence over warnings: any error means the run is at
// best PartiallyCompleted, and only if more than half the processed players
// succeeded.
func (r *SyncResult) FinalStatus() SyncStatus {
	if r.DataErrors > 0 || r.MatchingErrors > 0 || r.APIErrors > 0 {
		if r.PlayersProcessed > 0 && r.SuccessRate() > 50 {
			return SyncStatusPartiallyCompleted
		}
		return SyncStatusFailed
	}
	if len(r.Warnings) > 0 {
		return SyncStatusCompletedWithWarnings
	}
	return SyncStatusCompleted
}
