package pricing

import (
	"math"
	"sort"
)

// Marker places a ranked listing on a grid index of a curve.
type Marker struct {
	Index int `json:"index"`
	Rank  int `json:"rank"`
}

// MapHighlights converts ranked prices into grid markers. Rank is the 1-based
// position in highlightPrices. Prices that are NaN or fall outside the grid
// are dropped. On a flat curve only prices equal to the common price are
// kept. When several prices land on one index the earliest one keeps it.
// Markers come back ordered by index.
func MapHighlights(curve *Curve, highlightPrices []float64) []Marker {
	if curve == nil || curve.Resolution < 2 {
		return nil
	}
	taken := make(map[int]struct{}, len(highlightPrices))
	markers := make([]Marker, 0, len(highlightPrices))
	for i, price := range highlightPrices {
		idx, ok := curve.IndexOf(price)
		if !ok {
			continue
		}
		if _, dup := taken[idx]; dup {
			continue
		}
		taken[idx] = struct{}{}
		markers = append(markers, Marker{Index: idx, Rank: i + 1})
	}
	sort.Slice(markers, func(i, j int) bool {
		return markers[i].Index < markers[j].Index
	})
	return markers
}

// IndexOf returns the grid index closest to price.
func (c *Curve) IndexOf(price float64) (int, bool) {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	if c.Span() == 0 && price != c.Min {
		return 0, false
	}
	idx := int(math.Round(c.Normalize(price) * float64(c.Resolution-1)))
	if idx < 0 || idx >= c.Resolution {
		return 0, false
	}
	return idx, true
}

// Annotate returns a copy of curve whose points carry the marker ranks.
func Annotate(curve *Curve, markers []Marker) *Curve {
	if curve == nil {
		return nil
	}
	out := *curve
	out.Points = make([]CurvePoint, len(curve.Points))
	copy(out.Points, curve.Points)
	for _, m := range markers {
		if m.Index < 0 || m.Index >= len(out.Points) {
			continue
		}
		out.Points[m.Index].Highlight = &Highlight{Rank: m.Rank}
	}
	return &out
}

// Markers reads the highlight annotations back off the curve.
func (c *Curve) Markers() []Marker {
	var out []Marker
	for i, p := range c.Points {
		if p.Highlight != nil {
			out = append(out, Marker{Index: i, Rank: p.Highlight.Rank})
		}
	}
	return out
}

// ChartData is the flat, chart-ready projection of an annotated curve.
type ChartData struct {
	Labels           []float64 `json:"labels"`
	Density          []float64 `json:"density"`
	HighlightIndices []Marker  `json:"highlight_indices"`
	MaxDensity       float64   `json:"max_density"`
}

// Chart flattens the curve for presentation.
func (c *Curve) Chart() ChartData {
	markers := c.Markers()
	if markers == nil {
		markers = []Marker{}
	}
	return ChartData{
		Labels:           c.Labels(),
		Density:          c.Densities(),
		HighlightIndices: markers,
		MaxDensity:       c.MaxDensity(),
	}
}

// BuildCurve computes the density of prices and annotates it with the
// ranked highlight prices in one step.
func BuildCurve(prices, highlightPrices []float64, opts CurveOptions) (*Curve, error) {
	curve, err := ComputeDensity(prices, opts)
	if err != nil {
		return nil, err
	}
	return Annotate(curve, MapHighlights(curve, highlightPrices)), nil
}
