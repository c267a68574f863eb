package chart

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/opts"
)

// Palette is cycled when a figure has more series than colors.
var Palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	"#aec7e8", "#ffbb78", "#98df8a", "#ff9896", "#c5b0d5",
	"#c8a9a0", "#f7b6d2", "#c7c7c7", "#dbdb8d", "#9edae5",
}

const (
	defaultWidth  = "950px"
	defaultHeight = "520px"
)

// Config carries the options common to every figure.
type Config struct {
	Title    string
	Subtitle string
	Width    string
	Height   string
}

func (c Config) width() string {
	if c.Width == "" {
		return defaultWidth
	}
	return c.Width
}

func (c Config) height() string {
	if c.Height == "" {
		return defaultHeight
	}
	return c.Height
}

// seriesColors cycles the palette to n colors.
func seriesColors(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = Palette[i%len(Palette)]
	}
	return out
}

// jsValue maps NaN to nil so series data marshals as JSON null, which
// ECharts treats as a gap.
func jsValue(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func jsValues(vals []float64) []interface{} {
	out := make([]interface{}, len(vals))
	for i, v := range vals {
		out[i] = jsValue(v)
	}
	return out
}

func lineData(vals []float64) []opts.LineData {
	out := make([]opts.LineData, len(vals))
	for i, v := range vals {
		out[i] = opts.LineData{Value: jsValue(v)}
	}
	return out
}

func barData(vals []float64) []opts.BarData {
	out := make([]opts.BarData, len(vals))
	for i, v := range vals {
		out[i] = opts.BarData{Value: jsValue(v)}
	}
	return out
}

func scatterData(vals []float64) []opts.ScatterData {
	out := make([]opts.ScatterData, len(vals))
	for i, v := range vals {
		out[i] = opts.ScatterData{Value: jsValue(v), SymbolSize: 10}
	}
	return out
}

// seriesPatch is one series replacement for a setOption call.
func seriesPatch(data []interface{}) map[string]interface{} {
	return map[string]interface{}{"data": data}
}

// valueRange returns the finite min and max across all slices, ignoring
// NaN. Both are zero when nothing is finite.
func valueRange(slices ...[]float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, vals := range slices {
		for _, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// alignToAxis spreads a group's values onto the shared date axis.
// dateIndex maps a raw date string to its axis position.
func alignToAxis(vals []float64, rows []int, dates []string, dateIndex map[string]int, width int) []float64 {
	out := make([]float64, width)
	for i := range out {
		out[i] = math.NaN()
	}
	for _, r := range rows {
		if pos, ok := dateIndex[dates[r]]; ok {
			out[pos] = vals[r]
		}
	}
	return out
}
