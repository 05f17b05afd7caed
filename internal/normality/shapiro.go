// Package normality implements the Shapiro-Wilk test of normality.
package normality

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

const (
	// MinSample and MaxSample bound the sizes the approximation covers
	MinSample = 3
	MaxSample = 5000

	// DefaultAlpha is the level below which normality is rejected
	DefaultAlpha = 0.05

	// smallestP is reported when W falls beyond the small-sample bound
	smallestP = 1e-99
)

var (
	// ErrSampleSize is returned when fewer than 3 or more than 5000 values remain
	ErrSampleSize = errors.New("sample size out of range")

	// ErrConstant is returned when all values are equal
	ErrConstant = errors.New("sample is constant")
)

// Royston (1995) polynomial coefficients
var (
	c1 = []float64{0, 0.221157, -0.147981, -2.071190, 4.434685, -2.706056}
	c2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	c3 = []float64{0.5440, -0.39978, 0.025054, -6.714e-4}
	c4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	c5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	c6 = []float64{-0.4803, -0.082676, 0.0030302}
	g  = []float64{-2.273, 0.459}
)

// Result is the outcome of one Shapiro-Wilk test
type Result struct {
	N      int     `yaml:"n"`
	W      float64 `yaml:"w"`
	PValue float64 `yaml:"p_value"`
}

// Normal reports whether normality is kept at level alpha
func (r Result) Normal(alpha float64) bool {
	return r.PValue > alpha
}

// ShapiroWilk tests whether xs comes from a normal distribution. NaN
// values are dropped. The p-value follows Royston's approximation, exact
// for n = 3.
func ShapiroWilk(xs []float64) (Result, error) {
	x := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) {
			x = append(x, v)
		}
	}
	n := len(x)
	if n < MinSample || n > MaxSample {
		return Result{N: n}, fmt.Errorf("%w: %d values, need %d to %d", ErrSampleSize, n, MinSample, MaxSample)
	}
	sort.Float64s(x)
	if x[0] == x[n-1] {
		return Result{N: n}, ErrConstant
	}

	a := coefficients(n)

	mean := stats.Mean(x)
	var ss, b float64
	for _, v := range x {
		ss += (v - mean) * (v - mean)
	}
	for i, ai := range a {
		b += ai * (x[n-1-i] - x[i])
	}
	w := math.Min(1, b*b/ss)

	return Result{N: n, W: w, PValue: pValue(w, n)}, nil
}

// coefficients returns the first n/2 weights a_i of the test statistic;
// the remaining ones are their negatives in reverse order.
func coefficients(n int) []float64 {
	half := n / 2
	a := make([]float64, half)
	if n == 3 {
		a[0] = math.Sqrt2 / 2
		return a
	}

	// m holds the lower half of the expected normal order statistics
	size := float64(n)
	m := make([]float64, half)
	var summ2 float64
	for i := range m {
		m[i] = stats.StdNormal.InvCDF((float64(i+1) - 0.375) / (size + 0.25))
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(size)

	a1 := poly(c1, rsn) - m[0]/ssumm2
	a[0] = a1

	first := 1
	var fac float64
	if n > 5 {
		a2 := -m[1]/ssumm2 + poly(c2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
		first = 2
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	for i := first; i < half; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func pValue(w float64, n int) float64 {
	if n == 3 {
		// exact distribution of W for three values
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Pi/3)
		return math.Max(0, p)
	}

	size := float64(n)
	w1 := math.Log1p(-w)
	var mu, sigma float64
	if n <= 11 {
		gamma := poly(g, size)
		if w1 >= gamma {
			return smallestP
		}
		w1 = -math.Log(gamma - w1)
		mu = poly(c3, size)
		sigma = math.Exp(poly(c4, size))
	} else {
		ln := math.Log(size)
		mu = poly(c5, ln)
		sigma = math.Exp(poly(c6, ln))
	}
	// upper tail
	return stats.StdNormal.CDF(-(w1 - mu) / sigma)
}

// poly evaluates cc[0] + cc[1]x + cc[2]x^2 + ...
func poly(cc []float64, x float64) float64 {
	var r float64
	for i := len(cc) - 1; i >= 0; i-- {
		r = r*x + cc[i]
	}
	return r
}
