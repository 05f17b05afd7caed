package rank

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrLengthMismatch is returned when values and labels are not parallel
var ErrLengthMismatch = errors.New("values and labels have different lengths")

// Observation is a labelled value. A NaN value is treated as missing.
type Observation struct {
	Label string
	Value float64
}

// Missing reports whether the observation carries no usable value
func (o Observation) Missing() bool {
	return math.IsNaN(o.Value)
}

// Ranked is a label with its position in a descending ordering
type Ranked struct {
	Rank  int
	Label string
}

// Observations zips parallel value and label slices
func Observations(values []float64, labels []string) ([]Observation, error) {
	if len(values) != len(labels) {
		return nil, fmt.Errorf("%w: %d values, %d labels", ErrLengthMismatch, len(values), len(labels))
	}

	obs := make([]Observation, len(values))
	for i := range values {
		obs[i] = Observation{Label: labels[i], Value: values[i]}
	}
	return obs, nil
}

// Build ranks parallel values and labels, see BuildObservations
func Build(values []float64, labels []string) ([]Ranked, error) {
	obs, err := Observations(values, labels)
	if err != nil {
		return nil, err
	}
	return BuildObservations(obs), nil
}

// BuildObservations drops missing values, sorts the rest descending and
// numbers them 1..k. Equal values keep their input order.
func BuildObservations(obs []Observation) []Ranked {
	present := make([]Observation, 0, len(obs))
	for _, o := range obs {
		if o.Missing() {
			continue
		}
		present = append(present, o)
	}

	sort.SliceStable(present, func(i, j int) bool {
		return present[i].Value > present[j].Value
	})

	ranked := make([]Ranked, len(present))
	for i, o := range present {
		ranked[i] = Ranked{Rank: i + 1, Label: o.Label}
	}
	return ranked
}
