// Package correlation implements the Spearman and Kendall rank correlation
// coefficients together with their two-sided p-values.
package correlation

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/mathx"
	"github.com/aclements/go-moremath/stats"
)

// maxExactKendall is the largest sample for which the Kendall p-value is
// taken from the exact null distribution when there are no ties
const maxExactKendall = 33

var (
	// ErrLengthMismatch is returned when x and y are not parallel
	ErrLengthMismatch = errors.New("samples have different lengths")

	// ErrTooFewPairs is returned when fewer than two pairs are given
	ErrTooFewPairs = errors.New("at least two pairs are required")
)

// Coefficient is a correlation statistic with its two-sided p-value.
// Both fields are NaN when the statistic is undefined, e.g. when one
// sample is constant.
type Coefficient struct {
	Value  float64 `yaml:"value"`
	PValue float64 `yaml:"p_value"`
}

// Significant reports whether the p-value is below alpha
func (c Coefficient) Significant(alpha float64) bool {
	return !math.IsNaN(c.PValue) && c.PValue < alpha
}

// Result bundles both rank statistics for one pair of samples
type Result struct {
	N        int         `yaml:"n"`
	Spearman Coefficient `yaml:"spearman"`
	Kendall  Coefficient `yaml:"kendall"`
}

// Correlate computes Spearman rho and Kendall tau-b for x and y
func Correlate(x, y []float64) (Result, error) {
	rho, err := Spearman(x, y)
	if err != nil {
		return Result{}, err
	}
	tau, err := Kendall(x, y)
	if err != nil {
		return Result{}, err
	}
	return Result{N: len(x), Spearman: rho, Kendall: tau}, nil
}

func checkSamples(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewPairs, len(x))
	}
	return nil
}

// Spearman returns the rank correlation of x and y. Ties receive the mean
// of the ranks they span. The p-value uses the t distribution with n-2
// degrees of freedom.
func Spearman(x, y []float64) (Coefficient, error) {
	if err := checkSamples(x, y); err != nil {
		return Coefficient{}, err
	}

	rho := pearson(AverageRanks(x), AverageRanks(y))
	if math.IsNaN(rho) {
		return Coefficient{Value: math.NaN(), PValue: math.NaN()}, nil
	}

	n := float64(len(x))
	if n < 3 {
		return Coefficient{Value: rho, PValue: math.NaN()}, nil
	}

	// |rho| == 1 makes the t statistic infinite
	if math.Abs(rho) >= 1 {
		return Coefficient{Value: rho, PValue: 0}, nil
	}

	// two-sided tail of the t distribution with v = n-2, written with the
	// incomplete beta function so small p-values do not cancel to zero
	v := n - 2
	t := rho * math.Sqrt(v/((1-rho)*(1+rho)))
	p := mathx.BetaInc(v/(v+t*t), v/2, 0.5)
	return Coefficient{Value: rho, PValue: clampProbability(p)}, nil
}

// Kendall returns tau-b for x and y. Without ties the p-value comes from
// the exact permutation distribution when n <= 33 or when at most one pair
// is out of order (or in order); otherwise it is the normal approximation
// corrected for ties in either sample.
func Kendall(x, y []float64) (Coefficient, error) {
	if err := checkSamples(x, y); err != nil {
		return Coefficient{}, err
	}

	n := len(x)
	var score float64 // concordant minus discordant
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			score += sign(x[i]-x[j]) * sign(y[i]-y[j])
		}
	}

	xt := countTies(x)
	yt := countTies(y)

	total := float64(n*(n-1)) / 2
	denom := math.Sqrt((total - xt.pairs) * (total - yt.pairs))
	if denom == 0 {
		return Coefficient{Value: math.NaN(), PValue: math.NaN()}, nil
	}
	tau := score / denom

	if xt.pairs == 0 && yt.pairs == 0 {
		discordant := int(math.Round((total - score) / 2))
		c := discordant
		if other := int(total) - discordant; other < c {
			c = other
		}
		if n <= maxExactKendall || c <= 1 {
			return Coefficient{Value: tau, PValue: kendallExact(n, c)}, nil
		}
	}

	size := float64(n)
	m := size * (size - 1)
	variance := (m*(2*size+5)-xt.v1-yt.v1)/18 +
		2*xt.pairs*yt.pairs/m
	if n > 2 {
		variance += xt.v2 * yt.v2 / (9 * m * (size - 2))
	}
	if variance <= 0 {
		return Coefficient{Value: tau, PValue: math.NaN()}, nil
	}

	z := score / math.Sqrt(variance)
	p := 2 * stats.StdNormal.CDF(-math.Abs(z))
	return Coefficient{Value: tau, PValue: clampProbability(p)}, nil
}

// kendallExact returns the two-sided p-value of observing at most c
// discordant pairs among n untied items, c <= n(n-1)/4. counts[k] tracks
// the number of permutations with k inversions divided by j!, built one
// item at a time; it starts at 2 so the sum is already two-sided.
func kendallExact(n, c int) float64 {
	if n <= 2 || 4*c == n*(n-1) {
		return 1
	}

	counts := make([]float64, c+1)
	counts[0] = 1
	if c >= 1 {
		counts[1] = 1
	}
	for j := 3; j <= n; j++ {
		var sum float64
		next := make([]float64, c+1)
		for k, v := range counts {
			sum += v
			next[k] = sum / float64(j)
		}
		// item j adds at most j-1 inversions
		for k := c; k >= j; k-- {
			next[k] -= next[k-j]
		}
		counts = next
	}

	var p float64
	for _, v := range counts {
		p += v
	}
	return clampProbability(p)
}

// AverageRanks ranks xs ascending from 1, giving tied values the mean of
// the positions they occupy.
func AverageRanks(xs []float64) []float64 {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return xs[idx[a]] < xs[idx[b]]
	})

	ranks := make([]float64, len(xs))
	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && xs[idx[end]] == xs[idx[start]] {
			end++
		}
		// positions start..end-1 hold rank start+1..end
		avg := float64(start+1+end) / 2
		for k := start; k < end; k++ {
			ranks[idx[k]] = avg
		}
		start = end
	}
	return ranks
}

func pearson(x, y []float64) float64 {
	mx := stats.Mean(x)
	my := stats.Mean(y)

	var sxy, sxx, syy float64
	for i := range x {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}

	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r))
}

type tieCounts struct {
	pairs float64 // sum t(t-1)/2
	v1    float64 // sum t(t-1)(2t+5)
	v2    float64 // sum t(t-1)(t-2)
}

func countTies(xs []float64) tieCounts {
	groups := make(map[float64]int, len(xs))
	for _, v := range xs {
		groups[v]++
	}

	var tc tieCounts
	for _, c := range groups {
		if c < 2 {
			continue
		}
		t := float64(c)
		tc.pairs += t * (t - 1) / 2
		tc.v1 += t * (t - 1) * (2*t + 5)
		tc.v2 += t * (t - 1) * (t - 2)
	}
	return tc
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func clampProbability(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
