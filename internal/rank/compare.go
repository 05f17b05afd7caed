package rank

import (
	"fmt"

	"github.com/peekknuf/rankstat/internal/correlation"
)

// Comparison is the outcome of ranking two samples and correlating the
// ranks of the labels they share.
type Comparison struct {
	RankedA     []Ranked
	RankedB     []Ranked
	Pairs       []Pair
	Correlation correlation.Result
}

// Compare ranks a and b, matches them by label, sorts the pairs and
// correlates the paired ranks.
func Compare(a, b []Observation) (*Comparison, error) {
	c := &Comparison{
		RankedA: BuildObservations(a),
		RankedB: BuildObservations(b),
	}

	c.Pairs = Match(c.RankedA, c.RankedB)
	SortPairs(c.Pairs)

	ranksA, ranksB := Split(c.Pairs)
	result, err := correlation.Correlate(ranksA, ranksB)
	if err != nil {
		return c, fmt.Errorf("failed to correlate %d paired ranks: %w", len(c.Pairs), err)
	}
	c.Correlation = result

	return c, nil
}
