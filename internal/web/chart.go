package web

import (
	"strconv"
	"strings"

	"github.com/angelmondragon/pricesnapshot/internal/pricing"
)

const (
	chartWidth     = 760.0
	chartHeight    = 200.0
	chartPadX      = 16.0
	chartPadTop    = 12.0
	chartAxisSpace = 28.0
	chartMaxTicks  = 8
	// headroom above the tallest peak
	chartYScale = 1.2
)

// ChartView is the SVG geometry of a price curve.
type ChartView struct {
	Width    float64
	Height   float64
	Baseline float64
	PlotTop  float64
	PlotH    float64
	AreaPath string
	LinePath string
	Points   []ChartPoint
	Markers  []ChartMarker
	Ticks    []ChartTick
	Currency string
}

// ChartPoint is a hover target with its competition hint.
type ChartPoint struct {
	X     float64
	Slot  float64
	Title string
}

type ChartMarker struct {
	X    float64
	Y    float64
	Rank int
}

type ChartTick struct {
	X     float64
	Label string
}

var competitionHints = map[string]string{
	pricing.CompetitionMost: "🔥 Most competitors here",
	pricing.CompetitionSome: "✅ Some competitors here",
	pricing.CompetitionFew:  "🌊 Few competitors here",
}

// BuildChart lays out the chart for the given currency symbol. It returns nil
// when there is nothing to draw.
func BuildChart(data pricing.ChartData, symbol, currency string) *ChartView {
	n := len(data.Density)
	if n < 2 || len(data.Labels) != n {
		return nil
	}
	if symbol == "" {
		symbol = "$"
	}

	yMax := data.MaxDensity * chartYScale
	if yMax <= 0 {
		yMax = 1
	}
	plotW := chartWidth - 2*chartPadX
	plotH := chartHeight - chartPadTop - chartAxisSpace
	baseline := chartPadTop + plotH

	xAt := func(i int) float64 {
		return chartPadX + float64(i)/float64(n-1)*plotW
	}
	yAt := func(d float64) float64 {
		return chartPadTop + plotH*(1-d/yMax)
	}

	view := &ChartView{
		Width:    chartWidth,
		Height:   chartHeight,
		Baseline: baseline,
		PlotTop:  chartPadTop,
		PlotH:    plotH,
		Currency: currency,
		Points:   make([]ChartPoint, n),
	}

	var line, area strings.Builder
	area.WriteString("M" + coord(xAt(0), baseline))
	slot := plotW / float64(n-1)
	for i, d := range data.Density {
		x, y := xAt(i), yAt(d)
		if i == 0 {
			line.WriteString("M" + coord(x, y))
		} else {
			line.WriteString(" L" + coord(x, y))
		}
		area.WriteString(" L" + coord(x, y))

		view.Points[i] = ChartPoint{
			X:     x - slot/2,
			Slot:  slot,
			Title: "Price: " + symbol + strconv.FormatFloat(data.Labels[i], 'f', 0, 64) + "\n" + competitionHints[pricing.CompetitionLevel(d)],
		}
	}
	area.WriteString(" L" + coord(xAt(n-1), baseline) + " Z")
	view.LinePath = line.String()
	view.AreaPath = area.String()

	for _, m := range data.HighlightIndices {
		if m.Index < 0 || m.Index >= n {
			continue
		}
		view.Markers = append(view.Markers, ChartMarker{
			X:    xAt(m.Index),
			Y:    yAt(data.Density[m.Index]),
			Rank: m.Rank,
		})
	}

	ticks := chartMaxTicks
	if n < ticks {
		ticks = n
	}
	for t := 0; t < ticks; t++ {
		i := t * (n - 1) / (ticks - 1)
		view.Ticks = append(view.Ticks, ChartTick{
			X:     xAt(i),
			Label: symbol + strconv.FormatFloat(data.Labels[i], 'f', 0, 64),
		})
	}
	return view
}

func coord(x, y float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64) + "," + strconv.FormatFloat(y, 'f', 2, 64)
}
