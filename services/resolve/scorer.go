package resolve

import (
	"math"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// ScoreWeights controls how the search scorer blends popularity, quality, and
// text relevance. The relative magnitudes matter: popularity is meant to
// dominate (~70% of a realistic total) so a globally known near-match outranks
// an obscure exact match.
type ScoreWeights struct {
	// PopularityFactor multiplies ln(popularity). Log scaling keeps extremely
	// popular titles from running away with the ranking.
	PopularityFactor float64
	// QualityFactor is the bonus a 10/10 title earns once it clears the vote
	// gate; a 5/10 title earns half of it.
	QualityFactor float64
	// QualityMinVotes gates the quality bonus so a handful of votes can't
	// inflate a title's standing.
	QualityMinVotes int
	// Text relevance bonuses. Contains gates the other two; exact and prefix
	// stack on top of it independently.
	ContainsBonus float64
	ExactBonus    float64
	PrefixBonus   float64
	// WordMatchBonus is added once per (query word, title word) pair where one
	// contains the other. Repeated matches across title words stack on
	// purpose; they reinforce relevance.
	WordMatchBonus float64
}

// DefaultScoreWeights returns the production ranking weights.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		PopularityFactor: 50,
		QualityFactor:    20,
		QualityMinVotes:  100,
		ContainsBonus:    30,
		ExactBonus:       20,
		PrefixBonus:      15,
		WordMatchBonus:   5,
	}
}

// Score ranks a search candidate against the query. rating <= 0 means the
// provider had no usable vote average, which forfeits the quality bonus rather
// than counting as a zero rating.
func (w ScoreWeights) Score(title, query string, popularity, rating float64, voteCount int) float64 {
	titleNorm := normalizeText(title)
	queryNorm := normalizeText(query)

	score := math.Log(math.Max(popularity, 1)) * w.PopularityFactor

	if rating > 0 && voteCount > w.QualityMinVotes {
		score += (rating / 10) * w.QualityFactor
	}

	// An empty query would trivially "contain" and "prefix" every title;
	// it contributes nothing instead.
	if queryNorm == "" {
		return score
	}

	if strings.Contains(titleNorm, queryNorm) {
		score += w.ContainsBonus
		if titleNorm == queryNorm {
			score += w.ExactBonus
		}
		if strings.HasPrefix(titleNorm, queryNorm) {
			score += w.PrefixBonus
		}
	}

	for _, queryWord := range strings.Fields(queryNorm) {
		for _, titleWord := range strings.Fields(titleNorm) {
			if strings.Contains(titleWord, queryWord) || strings.Contains(queryWord, titleWord) {
				score += w.WordMatchBonus
			}
		}
	}

	return score
}

// normalizeText folds text to lowercase ASCII with collapsed whitespace so
// accented titles compare cleanly against plain-keyboard queries.
func normalizeText(s string) string {
	s = unidecode.Unidecode(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}
