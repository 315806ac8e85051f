package resolve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScorePopularityMonotonic(t *testing.T) {
	w := DefaultScoreWeights()

	// Same title/query/rating/votes: higher popularity must always win.
	pops := []float64{0, 1, 5, 50, 500, 5000}
	var prev float64 = -1
	for _, p := range pops {
		score := w.Score("Inception", "inception", p, 8.8, 35000)
		if prev >= 0 && p > 1 {
			require.Greater(t, score, prev, "popularity %v should outscore lower popularity", p)
		}
		prev = score
	}

	// Popularity 0 and 1 both hit the log floor.
	require.Equal(t,
		w.Score("Inception", "inception", 0, 8.8, 35000),
		w.Score("Inception", "inception", 1, 8.8, 35000))
}

func TestScoreExactMatchIsMaxRelevance(t *testing.T) {
	w := DefaultScoreWeights()

	// Exact match stacks contains+exact+prefix = 65; any non-equal substring
	// match can reach at most contains+prefix = 45.
	exact := w.Score("Avatar", "avatar", 100, 0, 0)
	prefix := w.Score("Avatar: The Way of Water", "avatar", 100, 0, 0)
	substr := w.Score("The Last Avatar", "avatar", 100, 0, 0)

	base := math.Log(100) * 50
	require.InDelta(t, base+30+20+15+5, exact, 1e-9)
	require.InDelta(t, base+30+15+5, prefix, 1e-9)
	require.InDelta(t, base+30+5, substr, 1e-9)
	require.Greater(t, exact, prefix)
	require.Greater(t, prefix, substr)
}

func TestScoreQualityGate(t *testing.T) {
	w := DefaultScoreWeights()

	// At or below the vote gate the rating must not matter at all.
	low := w.Score("Sharknado", "sharknado", 40, 1.0, 100)
	high := w.Score("Sharknado", "sharknado", 40, 10.0, 100)
	require.Equal(t, low, high)

	// One vote over the gate, the bonus appears.
	gated := w.Score("Sharknado", "sharknado", 40, 10.0, 101)
	require.InDelta(t, high+20, gated, 1e-9)

	// A missing rating never earns the bonus regardless of votes.
	require.Equal(t,
		w.Score("Sharknado", "sharknado", 40, 0, 500000),
		w.Score("Sharknado", "sharknado", 40, 0, 0))
}

func TestScoreEmptyQueryContributesNothing(t *testing.T) {
	w := DefaultScoreWeights()

	// Empty and whitespace-only queries earn popularity/quality only; the
	// "empty string is a substring of everything" trap must not fire.
	base := math.Log(250)*50 + (7.0/10)*20
	require.InDelta(t, base, w.Score("Dune", "", 250, 7.0, 9000), 1e-9)
	require.InDelta(t, base, w.Score("Dune", "   ", 250, 7.0, 9000), 1e-9)
}

func TestScoreNormalizesCaseAndAccents(t *testing.T) {
	w := DefaultScoreWeights()

	plain := w.Score("Amelie", "amelie", 80, 0, 0)
	accented := w.Score("Amélie", "AMELIE", 80, 0, 0)
	require.Equal(t, plain, accented)

	spaced := w.Score("  Iron   Man  ", "iron man", 80, 0, 0)
	require.Equal(t, w.Score("Iron Man", "iron man", 80, 0, 0), spaced)
}

func TestScoreWordOverlapStacks(t *testing.T) {
	w := DefaultScoreWeights()
	base := math.Log(1) * 50

	// "iron man" vs "Iron Man 3": contains gives 30, prefix 15, and the word
	// pairs (iron/iron, man/man) add 5 each. Double counting across repeated
	// title words is intended.
	score := w.Score("Iron Man 3", "iron man", 1, 0, 0)
	require.InDelta(t, base+30+15+10, score, 1e-9)

	// "america" and "american" contain each other one way; still counts.
	score = w.Score("American Pie", "america", 1, 0, 0)
	require.InDelta(t, base+30+15+5, score, 1e-9)
}
