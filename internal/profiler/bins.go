package profiler

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidEdges is returned when bin edges are not strictly increasing
var ErrInvalidEdges = errors.New("bin edges must be strictly increasing")

// Bin is one interval of a histogram and the number of values in it
type Bin struct {
	Label string  `yaml:"label"`
	Low   float64 `yaml:"low"`
	High  float64 `yaml:"high"`
	Count int     `yaml:"count"`
}

// Histogram counts values per interval (edges[i], edges[i+1]]. The first
// interval also includes its lower edge. NaN and out-of-range values are
// not counted.
func Histogram(values []float64, edges []float64) ([]Bin, error) {
	if len(edges) < 2 {
		return nil, fmt.Errorf("%w: need at least two edges, got %d", ErrInvalidEdges, len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if !(edges[i] > edges[i-1]) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEdges, edges)
		}
	}

	bins := make([]Bin, len(edges)-1)
	for i := range bins {
		bins[i] = Bin{
			Label: binLabel(edges[i], edges[i+1]),
			Low:   edges[i],
			High:  edges[i+1],
		}
	}

	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v == edges[0] {
			bins[0].Count++
			continue
		}
		for i := range bins {
			if v > bins[i].Low && v <= bins[i].High {
				bins[i].Count++
				break
			}
		}
	}
	return bins, nil
}

// ParseEdges parses a comma separated list of edges; "inf" is accepted
func ParseEdges(s string) ([]float64, error) {
	var edges []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid edge %q: %w", part, err)
		}
		edges = append(edges, v)
	}
	return edges, nil
}

func binLabel(low, high float64) string {
	if math.IsInf(high, 1) {
		return ">=" + formatEdge(low)
	}
	return formatEdge(low) + "-" + formatEdge(high)
}

func formatEdge(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
