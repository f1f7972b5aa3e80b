package model

type MatchMethod string

const (
	MatchMethodNone          MatchMethod = "none"
	MatchMethodExactName     MatchMethod = "exact_name"
	MatchMethodNameVariation MatchMethod = "name_variation"
	MatchMethodPhonetic      MatchMethod = "phonetic"
	MatchMethodFuzzyName     MatchMethod = "fuzzy_name"
	MatchMethodMultiFactor   MatchMethod = "multiple_factors"
	MatchMethodManualLink    MatchMethod = "manual_link"
)

// MatchCandidate is one scored database player for a source record. These are
// transient, they are never persisted.
type MatchCandidate struct {
	PlayerID        string
	PlayerName      string
	PlayerTeam      string
	PlayerPosition  string
	ConfidenceScore float64
	MatchReasons    []string
}

// PlayerMatchResult is the outcome of resolving one ESPN record against the
// player database. MatchedPlayerID is empty when no candidate reached the
// minimum confidence threshold.
type PlayerMatchResult struct {
	SourceID             string
	SourceName           string
	MatchedPlayerID      string
	ConfidenceScore      float64
	MatchMethod          MatchMethod
	RequiresManualReview bool
	// Up to 5 runners-up, best first. The winner is not included.
	AlternateCandidates []MatchCandidate
}
