package profiler

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/rankstat/internal/parser"
)

func createTestCSV(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "test.csv")
	require.NoError(t, os.WriteFile(filename, []byte(content), 0o644))
	return filename
}

func TestCSVProfiler(t *testing.T) {
	file := createTestCSV(t, `Code,Inscrits,Taux,Nom,Actif
01,100,1.5,Ain,true
02,200,,Aisne,false
03,,2.5,Allier,true
04,400,3,Alpes,false
05,500,x,Hautes-Alpes,true`)

	profiler := NewCSVProfiler(file, parser.DefaultParserConfig(), zerolog.Nop())
	require.NoError(t, profiler.Profile())

	require.Equal(t, 5, profiler.RowCount)
	types := make([]string, len(profiler.ColumnStats))
	for i, stats := range profiler.ColumnStats {
		types[i] = stats.Type
	}
	assert.Equal(t, []string{TypeInt, TypeFloat, TypeString, TypeString, TypeBool}, types)
	assert.Equal(t, []int{0, 1}, profiler.NumericColumns())
	assert.Equal(t, 1200.0, profiler.ColumnStats[1].Sum)

	metrics := profiler.CalculateQuality()
	assert.Equal(t, 5, metrics.TotalRows)
	assert.Equal(t, 5, metrics.TotalColumns)
	assert.Equal(t, 2, metrics.NumericColumns)
	assert.InDelta(t, 2.0/25.0*100, metrics.NullPercentage, 1e-9)

	summaries, err := profiler.Describe([]int{1, 2})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Inscrits", summaries[0].Column)
	assert.Equal(t, 4, summaries[0].Count)
	assert.Equal(t, 1, summaries[0].Missing)
	assert.InDelta(t, 300.0, summaries[0].Mean, 1e-9)

	// the stray "x" is coerced to missing
	assert.Equal(t, 3, summaries[1].Count)
	assert.Equal(t, 2, summaries[1].Missing)

	_, err = profiler.Describe([]int{9})
	require.Error(t, err)
}

func TestDescribeBeforeProfile(t *testing.T) {
	profiler := NewCSVProfiler("unused.csv", parser.DefaultParserConfig(), zerolog.Nop())
	_, err := profiler.Describe([]int{0})
	require.Error(t, err)
}

func TestSummarize(t *testing.T) {
	s := Summarize("v", []float64{10, 2, math.NaN(), 1, 3, 2, 4})

	assert.Equal(t, 6, s.Count)
	assert.Equal(t, 1, s.Missing)
	assert.InDelta(t, 3.6666666666666665, s.Mean, 1e-12)
	assert.InDelta(t, 2.5, s.Median, 1e-12)
	assert.Equal(t, 2.0, s.Mode)
	assert.InDelta(t, 2.9814239699997196, s.Std, 1e-12)
	assert.InDelta(t, 2.2222222222222223, s.MeanAbsDev, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 10.0, s.Max)
	assert.Equal(t, 9.0, s.Range)
	assert.InDelta(t, 2.0, s.Q1, 1e-12)
	assert.InDelta(t, 3.75, s.Q3, 1e-12)
	assert.InDelta(t, 1.75, s.IQR, 1e-12)
	assert.InDelta(t, 1.5, s.D1, 1e-12)
	assert.InDelta(t, 7.0, s.D9, 1e-12)
	assert.InDelta(t, 5.5, s.IDR, 1e-12)
}

func TestSummarizeEdgeCases(t *testing.T) {
	empty := Summarize("e", []float64{math.NaN()})
	assert.Equal(t, 0, empty.Count)
	assert.True(t, math.IsNaN(empty.Mean))
	assert.True(t, math.IsNaN(empty.IQR))

	single := Summarize("s", []float64{7})
	assert.Equal(t, 7.0, single.Mean)
	assert.Equal(t, 0.0, single.Std)
	assert.Equal(t, 7.0, single.Q1)
	assert.Equal(t, 7.0, single.Mode)
}

func TestHistogram(t *testing.T) {
	edges, err := ParseEdges("0,10,25,50,100,inf")
	require.NoError(t, err)
	require.True(t, math.IsInf(edges[len(edges)-1], 1))

	values := []float64{0, 10, 10.5, 25, 99, 100, 5000, math.NaN(), -1}
	bins, err := Histogram(values, edges)
	require.NoError(t, err)

	labels := make([]string, len(bins))
	counts := make([]int, len(bins))
	for i, b := range bins {
		labels[i] = b.Label
		counts[i] = b.Count
	}
	assert.Equal(t, []string{"0-10", "10-25", "25-50", "50-100", ">=100"}, labels)
	assert.Equal(t, []int{2, 2, 0, 2, 1}, counts)
}

func TestHistogramInvalidEdges(t *testing.T) {
	_, err := Histogram(nil, []float64{1})
	require.ErrorIs(t, err, ErrInvalidEdges)

	_, err = Histogram(nil, []float64{1, 1, 2})
	require.ErrorIs(t, err, ErrInvalidEdges)

	_, err = ParseEdges("1,abc")
	require.Error(t, err)
}

func TestTypeInference(t *testing.T) {
	testCases := []struct {
		cells []string
		want  string
	}{
		{[]string{"1", "-2", "+3"}, TypeInt},
		{[]string{"1", ""}, TypeFloat},
		{[]string{"1.5", "2"}, TypeFloat},
		{[]string{"1e3", "2.5E-2"}, TypeFloat},
		{[]string{"True", "false"}, TypeBool},
		{[]string{"true", "1"}, TypeString},
		{[]string{"1", "abc"}, TypeString},
		{[]string{"e5"}, TypeString},
	}

	for _, tc := range testCases {
		stats := NewColumnStats("c")
		for _, cell := range tc.cells {
			stats.Update(cell)
		}
		stats.Finalize()
		assert.Equal(t, tc.want, stats.Type, "%v", tc.cells)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 2.35, Round2(2.345678))
	assert.Equal(t, -1.5, Round2(-1.499999))
}
