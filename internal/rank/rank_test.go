package rank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrdersDescending(t *testing.T) {
	ranked, err := Build([]float64{30, 10, 20}, []string{"A", "B", "C"})
	require.NoError(t, err)

	require.Equal(t, []Ranked{
		{Rank: 1, Label: "A"},
		{Rank: 2, Label: "C"},
		{Rank: 3, Label: "B"},
	}, ranked)
}

func TestBuildSkipsMissing(t *testing.T) {
	values := []float64{5, math.NaN(), 7, math.NaN(), 1}
	labels := []string{"a", "b", "c", "d", "e"}

	ranked, err := Build(values, labels)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	seen := make(map[int]bool)
	for _, r := range ranked {
		seen[r.Rank] = true
		assert.NotEqual(t, "b", r.Label)
		assert.NotEqual(t, "d", r.Label)
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, seen)
	assert.Equal(t, "c", ranked[0].Label)
}

func TestBuildKeepsInputOrderForTies(t *testing.T) {
	ranked, err := Build([]float64{2, 5, 2, 2}, []string{"x", "y", "z", "w"})
	require.NoError(t, err)

	require.Equal(t, []Ranked{
		{Rank: 1, Label: "y"},
		{Rank: 2, Label: "x"},
		{Rank: 3, Label: "z"},
		{Rank: 4, Label: "w"},
	}, ranked)
}

func TestBuildEmpty(t *testing.T) {
	ranked, err := Build(nil, nil)
	require.NoError(t, err)
	require.Empty(t, ranked)
}

func TestBuildLengthMismatch(t *testing.T) {
	_, err := Build([]float64{1, 2}, []string{"a"})
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestMatchEqualLengthWalksB(t *testing.T) {
	a := []Ranked{{1, "A"}, {2, "B"}}
	b := []Ranked{{1, "B"}, {2, "A"}}

	pairs := Match(a, b)
	require.Equal(t, []Pair{
		{RankA: 2, RankB: 1, Label: "B"},
		{RankA: 1, RankB: 2, Label: "A"},
	}, pairs)

	SortPairs(pairs)
	require.Equal(t, []Pair{
		{RankA: 1, RankB: 2, Label: "A"},
		{RankA: 2, RankB: 1, Label: "B"},
	}, pairs)
}

func TestMatchLongerAIsWalked(t *testing.T) {
	a := []Ranked{{1, "C"}, {2, "A"}, {3, "B"}}
	b := []Ranked{{1, "B"}, {2, "A"}}

	pairs := Match(a, b)
	require.Equal(t, []Pair{
		{RankA: 2, RankB: 2, Label: "A"},
		{RankA: 3, RankB: 1, Label: "B"},
	}, pairs)
}

func TestMatchDropsUnmatchedAndKeepsDuplicates(t *testing.T) {
	a := []Ranked{{1, "A"}, {2, "A"}, {3, "X"}}
	b := []Ranked{{1, "A"}, {2, "Y"}, {3, "Z"}, {4, "W"}}

	pairs := Match(a, b)
	require.Len(t, pairs, 2)
	for _, p := range pairs {
		assert.Equal(t, "A", p.Label)
		assert.Equal(t, 1, p.RankB)
	}

	onlyA, onlyB := Unmatched(a, b)
	assert.Equal(t, []string{"X"}, onlyA)
	assert.Equal(t, []string{"Y", "Z", "W"}, onlyB)
}

func TestMatchLabelsExistInBothInputs(t *testing.T) {
	a, err := Build([]float64{9, 3, 4, math.NaN(), 8}, []string{"p", "q", "r", "s", "t"})
	require.NoError(t, err)
	b, err := Build([]float64{1, 2, 3}, []string{"t", "s", "p"})
	require.NoError(t, err)

	labelsA := make(map[string]bool)
	for _, r := range a {
		labelsA[r.Label] = true
	}
	labelsB := make(map[string]bool)
	for _, r := range b {
		labelsB[r.Label] = true
	}

	pairs := Match(a, b)
	require.Len(t, pairs, 2)
	for _, p := range pairs {
		assert.True(t, labelsA[p.Label], p.Label)
		assert.True(t, labelsB[p.Label], p.Label)
	}
}

func TestCompareIdenticalAndReversed(t *testing.T) {
	labels := []string{"a", "b", "c", "d", "e", "f"}
	values := []float64{6, 5, 4, 3, 2, 1}
	reversed := []float64{1, 2, 3, 4, 5, 6}

	obs, err := Observations(values, labels)
	require.NoError(t, err)
	rev, err := Observations(reversed, labels)
	require.NoError(t, err)

	same, err := Compare(obs, obs)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, same.Correlation.Spearman.Value, 1e-12)
	assert.InDelta(t, 1.0, same.Correlation.Kendall.Value, 1e-12)
	assert.Equal(t, 6, same.Correlation.N)

	opposite, err := Compare(obs, rev)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, opposite.Correlation.Spearman.Value, 1e-12)
	assert.InDelta(t, -1.0, opposite.Correlation.Kendall.Value, 1e-12)
}

func TestCompareTooFewPairs(t *testing.T) {
	a := []Observation{{Label: "a", Value: 1}}
	b := []Observation{{Label: "b", Value: 1}}

	c, err := Compare(a, b)
	require.Error(t, err)
	require.NotNil(t, c)
	require.Empty(t, c.Pairs)
}

func TestRankSize(t *testing.T) {
	points := RankSize([]float64{3, math.NaN(), 10, 0})
	require.Len(t, points, 3)

	assert.Equal(t, 1, points[0].Rank)
	assert.Equal(t, 10.0, points[0].Value)
	assert.InDelta(t, 0.0, points[0].LogRank, 1e-12)
	assert.InDelta(t, math.Log(10), points[0].LogValue, 1e-12)

	assert.Equal(t, 3, points[2].Rank)
	assert.True(t, math.IsNaN(points[2].LogValue))
}
