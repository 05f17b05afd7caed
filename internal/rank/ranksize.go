package rank

import (
	"math"
	"sort"
)

// SizePoint is one point of a rank-size distribution
type SizePoint struct {
	Rank     int     `yaml:"rank"`
	Value    float64 `yaml:"value"`
	LogRank  float64 `yaml:"log_rank"`
	LogValue float64 `yaml:"log_value"` // NaN when Value <= 0
}

// RankSize sorts the non-missing values descending and pairs each with its
// rank and the natural logs of both.
func RankSize(values []float64) []SizePoint {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sorted = append(sorted, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	points := make([]SizePoint, len(sorted))
	for i, v := range sorted {
		logValue := math.NaN()
		if v > 0 {
			logValue = math.Log(v)
		}
		points[i] = SizePoint{
			Rank:     i + 1,
			Value:    v,
			LogRank:  math.Log(float64(i + 1)),
			LogValue: logValue,
		}
	}
	return points
}
