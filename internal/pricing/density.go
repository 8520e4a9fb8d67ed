package pricing

import (
	"math"

	pkgerrors "github.com/angelmondragon/pricesnapshot/pkg/errors"
)

const (
	DefaultResolution = 100
	DefaultBandwidth  = 0.05

	// degeneratePosition is where every price sits on the grid when all
	// prices are equal.
	degeneratePosition = 0.5
)

// Competition bands derived from the kernel sum at a grid point.
const (
	CompetitionMost = "most"
	CompetitionSome = "some"
	CompetitionFew  = "few"
)

// CurveOptions tunes the density grid. Zero values select the defaults.
type CurveOptions struct {
	Resolution int     `json:"resolution"`
	Bandwidth  float64 `json:"bandwidth"`
}

func (o CurveOptions) withDefaults() CurveOptions {
	if o.Resolution == 0 {
		o.Resolution = DefaultResolution
	}
	if o.Bandwidth == 0 {
		o.Bandwidth = DefaultBandwidth
	}
	return o
}

func (o CurveOptions) validate() error {
	if o.Resolution < 2 {
		return pkgerrors.New(pkgerrors.CodeValidation, "resolution must be at least 2").
			WithDetails(map[string]any{"resolution": o.Resolution})
	}
	if o.Bandwidth <= 0 || math.IsNaN(o.Bandwidth) || math.IsInf(o.Bandwidth, 0) {
		return pkgerrors.New(pkgerrors.CodeValidation, "bandwidth must be a positive number").
			WithDetails(map[string]any{"bandwidth": o.Bandwidth})
	}
	return nil
}

// Highlight marks a grid point with the rank of a listing priced there.
type Highlight struct {
	Rank int `json:"rank"`
}

// CurvePoint is one grid sample of the density curve.
type CurvePoint struct {
	X           float64    `json:"x"`
	Position    float64    `json:"position"`
	Density     float64    `json:"density"`
	Competition string     `json:"competition"`
	Highlight   *Highlight `json:"highlight,omitempty"`
}

// Curve is a kernel density estimate over a price set, sampled on an evenly
// spaced grid spanning [Min, Max].
type Curve struct {
	Min        float64      `json:"min"`
	Max        float64      `json:"max"`
	Resolution int          `json:"resolution"`
	Bandwidth  float64      `json:"bandwidth"`
	Points     []CurvePoint `json:"points"`
}

// ComputeDensity builds the curve for prices. Density values are raw kernel
// sums and are not normalized to integrate to one.
func ComputeDensity(prices []float64, opts CurveOptions) (*Curve, error) {
	if len(prices) == 0 {
		return nil, ErrEmptyInput()
	}
	if err := validatePrices(prices); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	curve := &Curve{
		Min:        prices[0],
		Max:        prices[0],
		Resolution: opts.Resolution,
		Bandwidth:  opts.Bandwidth,
	}
	for _, p := range prices[1:] {
		curve.Min = math.Min(curve.Min, p)
		curve.Max = math.Max(curve.Max, p)
	}

	positions := make([]float64, len(prices))
	for i, p := range prices {
		positions[i] = curve.Normalize(p)
	}

	step := 1 / float64(opts.Resolution-1)
	curve.Points = make([]CurvePoint, opts.Resolution)
	for i := range curve.Points {
		x := float64(i) * step
		if i == opts.Resolution-1 {
			x = 1
		}
		density := kernelSum(x, positions, opts.Bandwidth)
		curve.Points[i] = CurvePoint{
			X:           math.Round(curve.Denormalize(x)),
			Position:    x,
			Density:     density,
			Competition: CompetitionLevel(density),
		}
	}
	return curve, nil
}

func kernelSum(x float64, positions []float64, bandwidth float64) float64 {
	var sum float64
	for _, p := range positions {
		d := (x - p) / bandwidth
		sum += math.Exp(-0.5 * d * d)
	}
	return sum
}

// CompetitionLevel buckets a density value the way the chart tooltip reads it.
func CompetitionLevel(density float64) string {
	switch {
	case density > 5:
		return CompetitionMost
	case density > 2:
		return CompetitionSome
	default:
		return CompetitionFew
	}
}

// Span is max - min.
func (c *Curve) Span() float64 {
	return c.Max - c.Min
}

// Normalize maps a price onto [0,1]. A zero span maps every price to the
// center of the grid.
func (c *Curve) Normalize(price float64) float64 {
	span := c.Span()
	if span == 0 {
		return degeneratePosition
	}
	return (price - c.Min) / span
}

// Denormalize maps a grid position back to price units.
func (c *Curve) Denormalize(x float64) float64 {
	return c.Min + x*c.Span()
}

// MaxDensity is the tallest peak of the curve.
func (c *Curve) MaxDensity() float64 {
	var peak float64
	for _, p := range c.Points {
		if p.Density > peak {
			peak = p.Density
		}
	}
	return peak
}

// Labels returns the x-axis price labels.
func (c *Curve) Labels() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.X
	}
	return out
}

// Densities returns the density value of every grid point.
func (c *Curve) Densities() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Density
	}
	return out
}
