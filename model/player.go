package model

import (
	"fmt"
	"strings"
	"time"
)

type Player struct {
	ID        string    `json:"id"`     // internal id, assigned by the db on insert
	EspnID    string    `json:"espnId"` // stable id from ESPN, empty until the player has been linked
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Nickname1 string    `json:"nickname,omitempty"`
	Position  Position  `json:"position"`
	Team      *NFLTeam  `json:"team"`
	Jersey    int       `json:"jersey"`
	College   string    `json:"college,omitempty"`
	Active    bool      `json:"active"`
	Created   time.Time `json:"created"`
	Updated   time.Time `json:"updated"`
	Changes   []Change  `json:"changes,omitempty"`
}

func (p *Player) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", p.FirstName, p.LastName))
}

func (p *Player) FormattedCreatedTime() string {
	if p.Created.IsZero() {
		return "unknown"
	}
	return p.Created.Format(time.DateTime)
}

func (p *Player) FormattedUpdatedTime() string {
	if p.Updated.IsZero() {
		return "unknown"
	}
	return p.Updated.Format(time.DateTime)
}

type Change struct {
	Time         time.Time `json:"time"`
	PropertyName string    `json:"property"`
	OldValue     string    `json:"oldValue"`
	NewValue     string    `json:"newValue"`
}

func (c *Change) String() string {
	return fmt.Sprintf("%s changed from '%s' to '%s'", c.PropertyName, c.OldValue, c.NewValue)
}

// Take a full name, like "Deebo Samuel Sr." and return "Deebo Samuel".
func TrimNameSuffix(fullName string) string {
	suffixList := []string{
		"Jr.",
		"Sr.",
		"III",
		"II",
		"IV",
		"V",
	}

	for _, s := range suffixList {
		fullName = strings.TrimSuffix(fullName, s)
	}

	return strings.TrimSpace(fullName)
}

// SplitName breaks a display name like "Patrick Mahomes" into first and last
// parts. Everything after the first space belongs to the last name.
func SplitName(fullName string) (first, last string) {
	fullName = strings.TrimSpace(fullName)
	parts := strings.SplitN(fullName, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
