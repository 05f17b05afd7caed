// Package sampling computes fluctuation and confidence intervals for
// opinion frequencies observed over repeated samples.
package sampling

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// DefaultZ is the two-sided 95% normal quantile
const DefaultZ = 1.96

var (
	// ErrNoSamples is returned when the sample table has no rows or columns
	ErrNoSamples = errors.New("no samples")

	// ErrInvalidPopulation is returned for a malformed population list
	ErrInvalidPopulation = errors.New("invalid population")
)

// Category is a named count, e.g. the number of "Pour" answers
type Category struct {
	Name  string  `yaml:"name"`
	Count float64 `yaml:"count"`
}

// Interval is a closed range around a frequency
type Interval struct {
	Name      string  `yaml:"name"`
	Frequency float64 `yaml:"frequency"`
	Low       float64 `yaml:"low"`
	High      float64 `yaml:"high"`
}

// Contains reports whether f lies inside the interval
func (i Interval) Contains(f float64) bool {
	return f >= i.Low && f <= i.High
}

// Analysis is the outcome of comparing samples with their population
type Analysis struct {
	Means       []Category `yaml:"means"`
	N           float64    `yaml:"n"`
	Frequencies []Category `yaml:"frequencies"`
	Fluctuation []Interval `yaml:"fluctuation"`
	FirstSample []Interval `yaml:"first_sample"`
}

// Analyze rounds the mean of every column, turns the means into
// frequencies and builds the fluctuation interval of each population
// frequency for n equal to the sum of the rounded means. It also builds
// the confidence interval of each frequency in the first sample. columns
// holds one slice per header; NaN cells are ignored in the means.
func Analyze(headers []string, columns [][]float64, population []Category, z float64) (*Analysis, error) {
	if len(headers) == 0 || len(columns) != len(headers) || len(columns[0]) == 0 {
		return nil, ErrNoSamples
	}

	a := &Analysis{}
	for i, name := range headers {
		mean := RoundTo(meanOf(columns[i]), 0)
		a.Means = append(a.Means, Category{Name: name, Count: mean})
		a.N += mean
	}
	a.Frequencies = Frequencies(a.Means)

	for _, f := range Frequencies(population) {
		a.Fluctuation = append(a.Fluctuation, NewInterval(f.Name, f.Count, a.N, z))
	}

	first := make([]Category, len(headers))
	var total float64
	for i, name := range headers {
		v := columns[i][0]
		if math.IsNaN(v) {
			v = 0
		}
		first[i] = Category{Name: name, Count: v}
		total += v
	}
	for _, f := range Frequencies(first) {
		a.FirstSample = append(a.FirstSample, NewInterval(f.Name, f.Count, total, z))
	}

	return a, nil
}

// NewInterval returns f ± z·sqrt(f(1-f)/n) with bounds rounded to two decimals
func NewInterval(name string, f, n, z float64) Interval {
	margin := z * math.Sqrt(f*(1-f)/n)
	return Interval{
		Name:      name,
		Frequency: f,
		Low:       RoundTo(f-margin, 2),
		High:      RoundTo(f+margin, 2),
	}
}

// Frequencies divides each count by the total, rounded to two decimals
func Frequencies(counts []Category) []Category {
	var total float64
	for _, c := range counts {
		total += c.Count
	}

	freqs := make([]Category, len(counts))
	for i, c := range counts {
		f := math.NaN()
		if total != 0 {
			f = RoundTo(c.Count/total, 2)
		}
		freqs[i] = Category{Name: c.Name, Count: f}
	}
	return freqs
}

// ParsePopulation parses "Pour=852,Contre=911,Sans opinion=422"
func ParsePopulation(s string) ([]Category, error) {
	var cats []Category
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not name=count", ErrInvalidPopulation, part)
		}
		count, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("%w: bad count in %q", ErrInvalidPopulation, part)
		}
		cats = append(cats, Category{Name: strings.TrimSpace(name), Count: count})
	}
	if len(cats) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidPopulation)
	}
	return cats, nil
}

// RoundTo rounds v to the given number of decimals, halves to even
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}

func meanOf(xs []float64) float64 {
	present := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			present = append(present, x)
		}
	}
	if len(present) == 0 {
		return 0
	}
	return stats.Mean(present)
}
