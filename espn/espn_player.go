package espn

import (
	"log"
	"strconv"

	"github.com/JackBruzan/espn-scrape-sub000/model"
)

type athletesResponse struct {
	Items []athlete `json:"items"`
}

type athlete struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DisplayName string `json:"displayName"`
	Jersey      string `json:"jersey"`
	Active      bool   `json:"active"`
	Position    struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"position"`
	Team struct {
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
	College struct {
		Name string `json:"name"`
	} `json:"college"`
}

func (a *athlete) toPlayer() *model.Player {
	first, last := a.FirstName, a.LastName
	if first == "" && last == "" {
		first, last = model.SplitName(a.DisplayName)
	}

	return &model.Player{
		EspnID:    a.ID,
		FirstName: first,
		LastName:  last,
		Position:  model.PositionGroup(a.Position.Abbreviation),
		Team:      model.ParseTeam(a.Team.Abbreviation),
		Jersey:    parseInt(a.Jersey, a.ID),
		College:   a.College.Name,
		Active:    a.Active,
	}
}

func parseInt(i, athleteID string) int {
	if i == "" {
		return 0
	}
	v, err := strconv.Atoi(i)
	if err != nil {
		log.Printf("error converting string to int for athlete %s: %v", athleteID, err)
		return 0
	}
	return v
}
