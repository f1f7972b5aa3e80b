package matcher

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/JackBruzan/espn-scrape-sub000/model"
	"github.com/agnivade/levenshtein"
	"github.com/itbasis/go-clock"
	"github.com/xrash/smetrics"
)

// Weights for the confidence sub-scores. They sum to 1.0.
const (
	nameWeight     = 0.70
	teamWeight     = 0.20
	positionWeight = 0.10
)

// Scores awarded by the boolean name checks.
const (
	nameVariationScore = 0.9
	phoneticScore      = 0.8
	initialsScore      = 0.6
)

type Config struct {
	// Candidates scoring below this are discarded entirely.
	MinimumConfidenceThreshold float64
	// Matches scoring below this are flagged for manual review.
	AutoLinkThreshold float64
	// When the top two candidates are closer than this the match is
	// ambiguous and flagged for manual review.
	ManualReviewMargin float64
	// Pause between records in BulkMatch so a shared backing resource isn't
	// saturated. Not algorithmically significant.
	BulkMatchDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinimumConfidenceThreshold: 0.5,
		AutoLinkThreshold:          0.85,
		ManualReviewMargin:         0.05,
		BulkMatchDelay:             25 * time.Millisecond,
	}
}

// SourceRecord is the part of an ESPN player record the matcher looks at.
// Team and Position are optional.
type SourceRecord struct {
	ID       string
	Name     string
	Team     string
	Position string
}

// Matcher resolves ESPN player records against the player database by name,
// team and position similarity. It has no mutable state and is safe for
// concurrent use.
type Matcher struct {
	config Config
	clock  clock.Clock
}

func New(config Config, clock clock.Clock) *Matcher {
	return &Matcher{
		config: config,
		clock:  clock,
	}
}

// nameSignals captures which name checks fired for a candidate. They classify
// the match method of the winner, they do not affect scoring order.
type nameSignals struct {
	exact      bool
	variation  bool
	phonetic   bool
	similarity float64
}

// FindMatch scores every candidate in the pool against the source record and
// returns the best match, or a no-match result if no candidate reaches the
// minimum confidence threshold. Ties between exactly-equal scores go to the
// candidate with the lower player id so results don't depend on pool order.
func (m *Matcher) FindMatch(source SourceRecord, pool []model.Player) model.PlayerMatchResult {
	result := model.PlayerMatchResult{
		SourceID:    source.ID,
		SourceName:  source.Name,
		MatchMethod: model.MatchMethodNone,
	}

	type scored struct {
		candidate model.MatchCandidate
		signals   nameSignals
	}

	candidates := make([]scored, 0, len(pool))
	for i := range pool {
		c, signals := m.score(source, &pool[i])
		if c.ConfidenceScore < m.config.MinimumConfidenceThreshold {
			continue
		}
		candidates = append(candidates, scored{candidate: c, signals: signals})
	}

	if len(candidates) == 0 {
		result.RequiresManualReview = true
		return result
	}

	slices.SortFunc(candidates, func(a, b scored) int {
		if a.candidate.ConfidenceScore != b.candidate.ConfidenceScore {
			if a.candidate.ConfidenceScore > b.candidate.ConfidenceScore {
				return -1
			}
			return 1
		}
		return strings.Compare(a.candidate.PlayerID, b.candidate.PlayerID)
	})

	winner := candidates[0]
	result.MatchedPlayerID = winner.candidate.PlayerID
	result.ConfidenceScore = winner.candidate.ConfidenceScore
	result.MatchMethod = classify(winner.signals)

	if result.ConfidenceScore < m.config.AutoLinkThreshold {
		result.RequiresManualReview = true
	}
	if len(candidates) > 1 {
		margin := winner.candidate.ConfidenceScore - candidates[1].candidate.ConfidenceScore
		if margin < m.config.ManualReviewMargin {
			result.RequiresManualReview = true
		}
	}

	for _, c := range candidates[1:] {
		result.AlternateCandidates = append(result.AlternateCandidates, c.candidate)
		if len(result.AlternateCandidates) == 5 {
			break
		}
	}

	return result
}

// BulkMatch runs FindMatch over every record sequentially, pausing between
// records. It stops early if the context is cancelled.
func (m *Matcher) BulkMatch(ctx context.Context, records []SourceRecord, pool []model.Player) ([]model.PlayerMatchResult, error) {
	results := make([]model.PlayerMatchResult, 0, len(records))
	for i, r := range records {
		if i > 0 && m.config.BulkMatchDelay > 0 {
			t := m.clock.Timer(m.config.BulkMatchDelay)
			select {
			case <-ctx.Done():
				t.Stop()
				return results, ctx.Err()
			case <-t.C:
			}
		}
		results = append(results, m.FindMatch(r, pool))
	}
	return results, nil
}

// ManualLink builds the match result for an operator-confirmed link. The
// caller is responsible for persisting the link.
func (m *Matcher) ManualLink(sourceID, playerID string) model.PlayerMatchResult {
	return model.PlayerMatchResult{
		SourceID:        sourceID,
		MatchedPlayerID: playerID,
		ConfidenceScore: 1.0,
		MatchMethod:     model.MatchMethodManualLink,
	}
}

func (m *Matcher) score(source SourceRecord, p *model.Player) (model.MatchCandidate, nameSignals) {
	c := model.MatchCandidate{
		PlayerID:       p.ID,
		PlayerName:     p.FullName(),
		PlayerPosition: string(p.Position),
	}
	if hasTeam(p.Team) {
		c.PlayerTeam = p.Team.String()
	}

	nameScore, signals := scoreName(source.Name, p.FullName())
	c.ConfidenceScore = nameScore * nameWeight
	switch {
	case signals.exact:
		c.MatchReasons = append(c.MatchReasons, "exact name match")
	case signals.variation:
		c.MatchReasons = append(c.MatchReasons, "known name variation")
	case signals.phonetic:
		c.MatchReasons = append(c.MatchReasons, "phonetic name match")
	case nameScore > 0:
		c.MatchReasons = append(c.MatchReasons, fmt.Sprintf("name similarity %.2f", nameScore))
	}

	srcTeam := model.ParseTeam(source.Team)
	if source.Team != "" && hasTeam(srcTeam) && hasTeam(p.Team) {
		if srcTeam == p.Team {
			c.ConfidenceScore += teamWeight
			c.MatchReasons = append(c.MatchReasons, "team match")
		}
	}

	if source.Position != "" {
		if strings.EqualFold(source.Position, string(p.Position)) {
			c.ConfidenceScore += positionWeight
			c.MatchReasons = append(c.MatchReasons, "position match")
		} else if g := model.PositionGroup(source.Position); g != model.POS_UNKNOWN && g == model.PositionGroup(string(p.Position)) {
			c.ConfidenceScore += positionWeight * 0.8
			c.MatchReasons = append(c.MatchReasons, "position group match")
		}
	}

	if c.ConfidenceScore > 1.0 {
		c.ConfidenceScore = 1.0
	}
	return c, signals
}

// scoreName produces the name sub-score in [0,1] along with the signals that
// fired. An exact normalized match is 1.0, otherwise the best of the edit
// distance similarity, Jaro-Winkler, the phonetic and name variation checks,
// and an initials fallback wins.
func scoreName(sourceName, candidateName string) (float64, nameSignals) {
	a := normalizeName(sourceName)
	b := normalizeName(candidateName)
	if a == "" || b == "" {
		return 0, nameSignals{}
	}

	if a == b {
		return 1.0, nameSignals{exact: true, similarity: 1.0}
	}

	signals := nameSignals{
		variation:  isNameVariation(a, b),
		phonetic:   phoneticSimilar(a, b),
		similarity: similarity(a, b),
	}

	score := signals.similarity
	if signals.phonetic && phoneticScore > score {
		score = phoneticScore
	}
	if signals.variation && nameVariationScore > score {
		score = nameVariationScore
	}
	if score < initialsScore {
		ai, bi := initials(a), initials(b)
		if len(ai) >= 2 && len(bi) >= 2 && ai == bi {
			score = initialsScore
		}
	}
	return score, signals
}

// similarity is the better of the Levenshtein-derived ratio and Jaro-Winkler.
func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	lev := 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
	jw := smetrics.JaroWinkler(a, b, 0.7, 4)
	return max(lev, jw)
}

func classify(s nameSignals) model.MatchMethod {
	switch {
	case s.exact:
		return model.MatchMethodExactName
	case s.variation:
		return model.MatchMethodNameVariation
	case s.phonetic:
		return model.MatchMethodPhonetic
	case s.similarity > 0.8:
		return model.MatchMethodFuzzyName
	default:
		return model.MatchMethodMultiFactor
	}
}

func hasTeam(t *model.NFLTeam) bool {
	return t != nil && t != model.TEAM_FA
}
