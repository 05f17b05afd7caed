package correlation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpearman(t *testing.T) {
	testCases := []struct {
		name  string
		x, y  []float64
		rho   float64
		p     float64
		delta float64
	}{
		{
			name:  "ties in y",
			x:     []float64{1, 2, 3, 4, 5},
			y:     []float64{5, 6, 7, 8, 7},
			rho:   0.8207826816681233,
			p:     0.0885870053135438,
			delta: 1e-6,
		},
		{
			name:  "adjacent swaps",
			x:     []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			y:     []float64{2, 1, 4, 3, 6, 5, 8, 7, 10, 9},
			rho:   0.9393939393939394,
			p:     5.484052996518329e-05,
			delta: 1e-6,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Spearman(tc.x, tc.y)
			require.NoError(t, err)
			require.InDelta(t, tc.rho, c.Value, 1e-12)
			require.InDelta(t, tc.p, c.PValue, tc.delta)
		})
	}
}

func TestSpearmanPerfect(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7}
	y := []float64{7, 6, 5, 4, 3, 2, 1}

	same, err := Spearman(x, x)
	require.NoError(t, err)
	require.InDelta(t, 1.0, same.Value, 1e-12)
	require.Equal(t, 0.0, same.PValue)

	reversed, err := Spearman(x, y)
	require.NoError(t, err)
	require.InDelta(t, -1.0, reversed.Value, 1e-12)
}

func TestKendall(t *testing.T) {
	testCases := []struct {
		name string
		x, y []float64
		tau  float64
		p    float64
	}{
		{
			name: "ties in both",
			x:    []float64{12, 2, 1, 12, 2},
			y:    []float64{1, 4, 7, 1, 0},
			tau:  -0.4714045207910316,
			p:    0.28274545993277467,
		},
		{
			name: "reversed",
			x:    []float64{1, 2, 3, 4, 5},
			y:    []float64{5, 4, 3, 2, 1},
			tau:  -1,
			p:    0.016666666666666666,
		},
		{
			name: "identical four",
			x:    []float64{1, 2, 3, 4},
			y:    []float64{1, 2, 3, 4},
			tau:  1,
			p:    0.08333333333333333,
		},
		{
			name: "adjacent swaps",
			x:    []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			y:    []float64{2, 1, 4, 3, 6, 5, 8, 7, 10, 9},
			tau:  0.7777777777777777,
			p:    0.0009463183421516755,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Kendall(tc.x, tc.y)
			require.NoError(t, err)
			require.InDelta(t, tc.tau, c.Value, 1e-12)
			require.InDelta(t, tc.p, c.PValue, 1e-9)
		})
	}
}

func TestKendallSmallSampleNotSignificant(t *testing.T) {
	x := []float64{1, 2, 3, 4}

	c, err := Kendall(x, x)
	require.NoError(t, err)
	require.False(t, c.Significant(0.05))
}

func TestKendallExactDistribution(t *testing.T) {
	// all permutations of 6 items: 2 * P(inversions <= 3)
	require.InDelta(t, 0.13611111111111113, kendallExact(6, 3), 1e-12)
	require.Equal(t, 1.0, kendallExact(2, 0))
	require.Equal(t, 1.0, kendallExact(4, 3))
}

func TestStrongCorrelationKeepsTinyPValues(t *testing.T) {
	x := make([]float64, 60)
	y := make([]float64, 60)
	for i := range x {
		x[i] = float64(i + 1)
		y[i] = float64(i + 1)
	}
	y[0], y[1] = y[1], y[0]

	rho, err := Spearman(x, y)
	require.NoError(t, err)
	require.Greater(t, rho.PValue, 0.0)
	require.Less(t, rho.PValue, 1e-50)

	// one discordant pair uses the exact distribution: 2/59!
	tau, err := Kendall(x, y)
	require.NoError(t, err)
	require.InEpsilon(t, 1.4421365923791871e-80, tau.PValue, 1e-9)

	// large sample with ties falls back to the normal approximation
	y[2] = y[3]
	tau, err = Kendall(x, y)
	require.NoError(t, err)
	require.Greater(t, tau.PValue, 0.0)
	require.Less(t, tau.PValue, 1e-20)
}

func TestConstantSampleIsUndefined(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{3, 3, 3, 3}

	rho, err := Spearman(x, y)
	require.NoError(t, err)
	require.True(t, math.IsNaN(rho.Value))

	tau, err := Kendall(x, y)
	require.NoError(t, err)
	require.True(t, math.IsNaN(tau.Value))
	require.False(t, tau.Significant(0.05))
}

func TestInvalidSamples(t *testing.T) {
	_, err := Correlate([]float64{1, 2}, []float64{1})
	require.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Correlate([]float64{1}, []float64{1})
	require.ErrorIs(t, err, ErrTooFewPairs)
}

func TestAverageRanks(t *testing.T) {
	require.Equal(t, []float64{3, 1.5, 1.5, 4}, AverageRanks([]float64{5, 2, 2, 9}))
	require.Empty(t, AverageRanks(nil))
}
