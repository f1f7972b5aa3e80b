package espn

import (
	"log"
	"strconv"
	"time"

	"github.com/JackBruzan/espn-scrape-sub000/model"
)

type scoreboardResponse struct {
	Events []event `json:"events"`
}

type event struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Competitions []competition `json:"competitions"`
}

type competition struct {
	Competitors []competitor `json:"competitors"`
}

type competitor struct {
	HomeAway string `json:"homeAway"`
	Team     struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
}

const espnDateFormat = "2006-01-02T15:04Z"

func (e *event) toGameRef(season, week int) *model.GameRef {
	g := &model.GameRef{
		ID:     e.ID,
		Season: season,
		Week:   week,
	}

	if e.Date != "" {
		d, err := time.Parse(espnDateFormat, e.Date)
		if err != nil {
			log.Printf("error parsing kickoff time for game %s: %v", e.ID, err)
		} else {
			g.Kickoff = d
		}
	}

	for _, comp := range e.Competitions {
		for _, c := range comp.Competitors {
			switch c.HomeAway {
			case "home":
				g.HomeTeam = model.ParseTeam(c.Team.Abbreviation)
			case "away":
				g.AwayTeam = model.ParseTeam(c.Team.Abbreviation)
			}
		}
	}
	return g
}

type summaryResponse struct {
	Boxscore struct {
		Players []teamStats `json:"players"`
	} `json:"boxscore"`
}

type teamStats struct {
	Team struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
	Statistics []statCategory `json:"statistics"`
}

type statCategory struct {
	Name     string        `json:"name"`
	Athletes []athleteLine `json:"athletes"`
}

type athleteLine struct {
	Athlete struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"athlete"`
	Stats []string `json:"stats"`
}

// toStatRecords flattens a box score into one record per athlete, merging the
// passing/rushing/receiving/fumbles categories. Season and week are filled in
// by the caller, the summary endpoint does not repeat them.
func (r *summaryResponse) toStatRecords(gameID string) []model.PlayerStatRecord {
	byAthlete := make(map[string]*model.PlayerStatRecord)
	order := make([]string, 0, 32)

	record := func(team *model.NFLTeam, line *athleteLine) *model.PlayerStatRecord {
		id := line.Athlete.ID
		if rec, found := byAthlete[id]; found {
			return rec
		}
		rec := &model.PlayerStatRecord{
			EspnID:     id,
			PlayerName: line.Athlete.DisplayName,
			GameID:     gameID,
			Team:       team,
		}
		byAthlete[id] = rec
		order = append(order, id)
		return rec
	}

	for _, ts := range r.Boxscore.Players {
		team := model.ParseTeam(ts.Team.Abbreviation)
		for _, cat := range ts.Statistics {
			for i := range cat.Athletes {
				line := &cat.Athletes[i]
				if line.Athlete.ID == "" {
					continue
				}
				rec := record(team, line)

				// The stats arrays are positional and category specific:
				// passing  [C/ATT, YDS, AVG, TD, INT, ...]
				// rushing  [CAR, YDS, AVG, TD, LONG]
				// receiving [REC, YDS, AVG, TD, LONG, TGTS]
				// fumbles  [FUM, LOST, REC]
				switch cat.Name {
				case "passing":
					rec.PassYards = statInt(line.Stats, 1, line.Athlete.ID)
					rec.PassTDs = statInt(line.Stats, 3, line.Athlete.ID)
					rec.Interceptions = statInt(line.Stats, 4, line.Athlete.ID)
				case "rushing":
					rec.RushYards = statInt(line.Stats, 1, line.Athlete.ID)
					rec.RushTDs = statInt(line.Stats, 3, line.Athlete.ID)
				case "receiving":
					rec.Receptions = statInt(line.Stats, 0, line.Athlete.ID)
					rec.RecYards = statInt(line.Stats, 1, line.Athlete.ID)
					rec.RecTDs = statInt(line.Stats, 3, line.Athlete.ID)
				case "fumbles":
					rec.Fumbles = statInt(line.Stats, 0, line.Athlete.ID)
				}
			}
		}
	}

	result := make([]model.PlayerStatRecord, 0, len(order))
	for _, id := range order {
		result = append(result, *byAthlete[id])
	}
	return result
}

func statInt(stats []string, idx int, athleteID string) int {
	if idx >= len(stats) {
		return 0
	}
	s := stats[idx]
	if s == "" || s == "--" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("error parsing stat value '%s' for athlete %s: %v", s, athleteID, err)
		return 0
	}
	return v
}
