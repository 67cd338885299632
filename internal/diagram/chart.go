package diagram

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/sweep"
)

// ChartSeries is one margin curve
type ChartSeries struct {
	Name    string
	Margins []float64
}

// ChartData holds a stability chart: margins against a swept parameter
type ChartData struct {
	Parameter string
	Unit      string
	Values    []float64
	Series    []ChartSeries // one per mode, then the governing curve
	Threshold float64
}

// ChartDataFromSeries collects the per-mode and governing curves of a sweep
func ChartDataFromSeries(s *sweep.Series) ChartData {
	d := ChartData{
		Parameter: string(s.Parameter),
		Unit:      s.Parameter.Unit(),
		Values:    s.Values(),
		Threshold: s.Threshold(),
	}
	for _, m := range codes.Modes {
		d.Series = append(d.Series, ChartSeries{Name: m.Title(), Margins: s.Margins(m)})
	}
	d.Series = append(d.Series, ChartSeries{Name: "Governing", Margins: s.GoverningMargins()})
	return d
}

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue,
	asciigraph.Green,
	asciigraph.Yellow,
	asciigraph.Magenta,
	asciigraph.Red,
}

// TerminalChart renders the stability chart for a terminal.
// The pass threshold is drawn as a flat series.
func TerminalChart(data ChartData, height int) string {
	if len(data.Values) == 0 {
		return ""
	}
	if height <= 0 {
		height = 15
	}

	var plots [][]float64
	var legends []string
	for _, s := range data.Series {
		plots = append(plots, displayMargins(s.Margins))
		legends = append(legends, s.Name)
	}

	threshold := make([]float64, len(data.Values))
	for i := range threshold {
		threshold[i] = data.Threshold
	}
	plots = append(plots, threshold)
	legends = append(legends, fmt.Sprintf("Required %.2f", data.Threshold))

	colors := make([]asciigraph.AnsiColor, len(plots))
	for i := range colors {
		colors[i] = seriesColors[i%len(seriesColors)]
	}
	colors[len(colors)-1] = asciigraph.White

	caption := fmt.Sprintf("margin vs %s (%s), %.3g to %.3g", data.Parameter, data.Unit, data.Values[0], data.Values[len(data.Values)-1])

	return asciigraph.PlotMany(plots,
		asciigraph.Height(height),
		asciigraph.Width(60),
		asciigraph.LowerBound(0),
		asciigraph.Precision(2),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption(caption),
	)
}

// marginCeiling keeps huge margins of a very strong mode from flattening the
// other curves
const marginCeiling = 10.0

func displayMargins(margins []float64) []float64 {
	out := make([]float64, len(margins))
	for i, m := range margins {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			m = marginCeiling
		}
		out[i] = math.Min(m, marginCeiling)
	}
	return out
}
