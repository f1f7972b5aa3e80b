package model

import (
	"strings"
)

type Position string

const (
	POS_UNKNOWN Position = "UNK"
	POS_QB      Position = "QB"
	POS_RB      Position = "RB"
	POS_WR      Position = "WR"
	POS_TE      Position = "TE"
	POS_K       Position = "K"
	POS_DEF     Position = "DEF"
)

func ParsePosition(pos string) Position {
	pos = strings.ToLower(pos)
	switch pos {
	case "qb":
		return POS_QB
	case "rb":
		return POS_RB
	case "wr":
		return POS_WR
	case "te":
		return POS_TE
	case "k":
		return POS_K
	case "def":
		return POS_DEF
	default:
		return POS_UNKNOWN
	}
}

// positionGroups maps the alternate position labels different data sources
// use onto the canonical position they belong with. ESPN box scores use HB/FB
// for running backs, FL/SE for receivers, PK for kickers and DST for defenses.
var positionGroups = map[string]Position{
	"qb":  POS_QB,
	"rb":  POS_RB,
	"hb":  POS_RB,
	"fb":  POS_RB,
	"wr":  POS_WR,
	"fl":  POS_WR,
	"se":  POS_WR,
	"te":  POS_TE,
	"k":   POS_K,
	"pk":  POS_K,
	"def": POS_DEF,
	"dst": POS_DEF,
	"d":   POS_DEF,
}

// PositionGroup returns the canonical position a raw label belongs to, or
// POS_UNKNOWN if the label isn't recognized.
func PositionGroup(pos string) Position {
	if p, ok := positionGroups[strings.ToLower(strings.TrimSpace(pos))]; ok {
		return p
	}
	return POS_UNKNOWN
}
