package profiler

import (
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// Summary holds the descriptive statistics of one numeric column
type Summary struct {
	Column     string  `yaml:"column"`
	Count      int     `yaml:"count"`
	Missing    int     `yaml:"missing"`
	Mean       float64 `yaml:"mean"`
	Median     float64 `yaml:"median"`
	Mode       float64 `yaml:"mode"`
	Std        float64 `yaml:"std"` // population, ddof=0
	MeanAbsDev float64 `yaml:"mean_abs_dev"`
	Min        float64 `yaml:"min"`
	Max        float64 `yaml:"max"`
	Range      float64 `yaml:"range"`
	Q1         float64 `yaml:"q1"`
	Q3         float64 `yaml:"q3"`
	IQR        float64 `yaml:"iqr"`
	D1         float64 `yaml:"d1"`
	D9         float64 `yaml:"d9"`
	IDR        float64 `yaml:"idr"`
}

// Summarize computes the statistics of values, ignoring NaN entries
func Summarize(column string, values []float64) Summary {
	xs := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}

	s := Summary{Column: column, Count: len(xs), Missing: len(values) - len(xs)}
	if len(xs) == 0 {
		nan := math.NaN()
		s.Mean, s.Median, s.Mode, s.Std, s.MeanAbsDev = nan, nan, nan, nan, nan
		s.Min, s.Max, s.Range = nan, nan, nan
		s.Q1, s.Q3, s.IQR, s.D1, s.D9, s.IDR = nan, nan, nan, nan, nan, nan
		return s
	}

	sort.Float64s(xs)
	sample := stats.Sample{Xs: xs, Sorted: true}

	s.Mean = sample.Mean()
	s.Min, s.Max = sample.Bounds()
	s.Range = s.Max - s.Min

	n := float64(len(xs))
	if len(xs) > 1 {
		s.Std = math.Sqrt(sample.Variance() * (n - 1) / n)
	}

	var absDev float64
	for _, x := range xs {
		absDev += math.Abs(x - s.Mean)
	}
	s.MeanAbsDev = absDev / n

	s.Median = Quantile(sample.Xs, 0.5)
	s.Q1 = Quantile(sample.Xs, 0.25)
	s.Q3 = Quantile(sample.Xs, 0.75)
	s.D1 = Quantile(sample.Xs, 0.10)
	s.D9 = Quantile(sample.Xs, 0.90)
	s.IQR = s.Q3 - s.Q1
	s.IDR = s.D9 - s.D1
	s.Mode = mode(sample.Xs)

	return s
}

// Quantile interpolates linearly between the order statistics of sorted,
// placing p=0 on the minimum and p=1 on the maximum.
func Quantile(sorted []float64, p float64) float64 {
	switch {
	case len(sorted) == 0:
		return math.NaN()
	case p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[len(sorted)-1]
	}

	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[i]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// mode returns the most frequent value of sorted, the smallest on ties
func mode(sorted []float64) float64 {
	best, bestCount := sorted[0], 0
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end] == sorted[start] {
			end++
		}
		if end-start > bestCount {
			best, bestCount = sorted[start], end-start
		}
		start = end
	}
	return best
}

// Round2 rounds half away from zero to two decimals
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
