package model

import (
	"time"
)

// GameRef identifies one NFL game on ESPN's scoreboard.
type GameRef struct {
	ID       string
	Season   int
	Week     int
	HomeTeam *NFLTeam
	AwayTeam *NFLTeam
	Kickoff  time.Time
}

// PlayerStatRecord is one player's stat line for one game, already converted
// into the shape the database stores.
type PlayerStatRecord struct {
	PlayerID      string   `json:"playerId"` // internal player id, filled in during sync
	EspnID        string   `json:"espnId"`
	PlayerName    string   `json:"playerName,omitempty"`
	GameID        string   `json:"gameId"`
	Season        int      `json:"season"`
	Week          int      `json:"week"`
	Team          *NFLTeam `json:"team"`
	PassYards     int      `json:"passYards"`
	PassTDs       int      `json:"passTds"`
	Interceptions int      `json:"interceptions"`
	RushYards     int      `json:"rushYards"`
	RushTDs       int      `json:"rushTds"`
	Receptions    int      `json:"receptions"`
	RecYards      int      `json:"recYards"`
	RecTDs        int      `json:"recTds"`
	Fumbles       int      `json:"fumbles"`
}
