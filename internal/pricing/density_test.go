package pricing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/pricesnapshot/pkg/errors"
)

func TestComputeDensityShape(t *testing.T) {
	curve, err := ComputeDensity([]float64{10, 50, 90}, CurveOptions{})
	require.NoError(t, err)

	require.Len(t, curve.Points, DefaultResolution)
	assert.Equal(t, DefaultBandwidth, curve.Bandwidth)
	assert.Equal(t, 10.0, curve.Points[0].X)
	assert.Equal(t, 90.0, curve.Points[DefaultResolution-1].X)
	assert.Equal(t, 0.0, curve.Points[0].Position)
	assert.Equal(t, 1.0, curve.Points[DefaultResolution-1].Position)

	for _, p := range curve.Points {
		assert.False(t, math.IsNaN(p.Density) || math.IsInf(p.Density, 0))
		assert.GreaterOrEqual(t, p.Density, 0.0)
		assert.Equal(t, math.Round(p.X), p.X, "labels are whole prices")
	}
}

func TestComputeDensityPeaks(t *testing.T) {
	curve, err := ComputeDensity([]float64{10, 50, 90}, CurveOptions{Resolution: 100, Bandwidth: 0.05})
	require.NoError(t, err)

	tests := []struct {
		from, to int
		want     []int
	}{
		{from: 0, to: 20, want: []int{0}},
		{from: 30, to: 70, want: []int{49, 50}},
		{from: 80, to: 99, want: []int{99}},
	}
	for _, tt := range tests {
		peak := argmax(curve, tt.from, tt.to)
		assert.Contains(t, tt.want, peak, "peak in [%d,%d]", tt.from, tt.to)
	}

	// valleys between clusters sit far below the peaks
	assert.Less(t, curve.Points[25].Density, 0.01)
	assert.Less(t, curve.Points[75].Density, 0.01)
	assert.InDelta(t, 1.0, curve.Points[0].Density, 1e-6)
}

func TestComputeDensityClustersProduceTallerPeaks(t *testing.T) {
	curve, err := ComputeDensity([]float64{10, 11, 12, 13, 100}, CurveOptions{})
	require.NoError(t, err)
	low := curve.Points[argmax(curve, 0, 20)].Density
	high := curve.Points[argmax(curve, 80, 99)].Density
	assert.Greater(t, low, 3.0)
	assert.InDelta(t, 1.0, high, 0.01)
	assert.Equal(t, CompetitionSome, curve.Points[argmax(curve, 0, 20)].Competition)
}

func TestComputeDensityIdenticalPricesStayFinite(t *testing.T) {
	curve, err := ComputeDensity([]float64{42, 42, 42}, CurveOptions{})
	require.NoError(t, err)

	for _, p := range curve.Points {
		assert.False(t, math.IsNaN(p.Density) || math.IsInf(p.Density, 0))
		assert.False(t, math.IsNaN(p.X) || math.IsInf(p.X, 0))
		assert.Equal(t, 42.0, p.X)
	}
	peak := argmax(curve, 0, DefaultResolution-1)
	assert.Contains(t, []int{49, 50}, peak)
	assert.InDelta(t, 3.0, curve.MaxDensity(), 0.05)

	idx, ok := curve.IndexOf(42)
	require.True(t, ok)
	assert.Equal(t, 50, idx)
}

func TestComputeDensityValidation(t *testing.T) {
	_, err := ComputeDensity(nil, CurveOptions{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeEmptyInput))

	_, err = ComputeDensity([]float64{1, 2}, CurveOptions{Resolution: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ComputeDensity([]float64{1, 2}, CurveOptions{Bandwidth: -0.1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = ComputeDensity([]float64{1, -2}, CurveOptions{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestNormalizeRoundTrip(t *testing.T) {
	prices := []float64{12.5, 19.99, 48, 103.75, 250}
	curve, err := ComputeDensity(prices, CurveOptions{})
	require.NoError(t, err)

	for _, p := range prices {
		x := curve.Normalize(p)
		assert.GreaterOrEqual(t, x, 0.0)
		assert.LessOrEqual(t, x, 1.0)
		assert.InDelta(t, p, curve.Denormalize(x), 1e-9)
	}
}

func TestCompetitionLevel(t *testing.T) {
	assert.Equal(t, CompetitionMost, CompetitionLevel(5.1))
	assert.Equal(t, CompetitionSome, CompetitionLevel(5))
	assert.Equal(t, CompetitionSome, CompetitionLevel(2.01))
	assert.Equal(t, CompetitionFew, CompetitionLevel(2))
	assert.Equal(t, CompetitionFew, CompetitionLevel(0))
}

func argmax(c *Curve, from, to int) int {
	best := from
	for i := from; i <= to; i++ {
		if c.Points[i].Density > c.Points[best].Density {
			best = i
		}
	}
	return best
}
