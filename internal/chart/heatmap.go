package chart

import (
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/econviz/xplorts/internal/dataset"
)

// HeatmapConfig configures a date-by-level grid colored by one measure.
type HeatmapConfig struct {
	Config
	DateVar string
	By      string
	Value   string
	// Symmetric centers the color scale on zero, for signed measures
	// like growth or revisions.
	Symmetric bool
}

var (
	divergingColors  = []string{"#313695", "#74add1", "#ffffff", "#f46d43", "#a50026"}
	sequentialColors = []string{"#ffffff", "#a1d99b", "#31a354", "#006d2c"}
)

// Heatmap shows every split level at once: dates across, levels down,
// cell color carrying the measure. Missing cells are left blank.
func Heatmap(ds *dataset.Dataset, cfg HeatmapConfig) (*Snippet, error) {
	if cfg.By == "" {
		return nil, errors.New("chart: heatmap needs a split factor")
	}
	axis, err := newTimeAxis(ds, cfg.DateVar)
	if err != nil {
		return nil, err
	}
	levels, vals, err := groupedValues(ds, axis, cfg.DateVar, cfg.By, []string{cfg.Value})
	if err != nil {
		return nil, err
	}

	var cells []opts.HeatMapData
	flat := make([][]float64, len(levels))
	for li := range levels {
		flat[li] = vals[li][0]
		for xi, v := range vals[li][0] {
			if math.IsNaN(v) {
				continue
			}
			cells = append(cells, opts.HeatMapData{Value: []interface{}{xi, li, v}})
		}
	}
	lo, hi := valueRange(flat...)

	vm := opts.VisualMap{
		Calculable: true,
		Min:        float32(lo),
		Max:        float32(hi),
		InRange:    &opts.VisualMapInRange{Color: sequentialColors},
	}
	if cfg.Symmetric {
		m := math.Max(math.Abs(lo), math.Abs(hi))
		vm.Min, vm.Max = float32(-m), float32(m)
		vm.InRange = &opts.VisualMapInRange{Color: divergingColors}
	}

	id := nextChartID()
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: id,
			Width:   cfg.width(),
			Height:  cfg.height(),
		}),
		charts.WithTitleOpts(opts.Title{Title: cfg.Title, Subtitle: cfg.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: axis.labels}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: levels}),
		charts.WithVisualMapOpts(vm),
	)
	hm.AddSeries(cfg.Value, cells)

	snip := &Snippet{ID: id}
	hm.Renderer = newSnippetRender(hm, hm.Validate)
	if snip.HTML, err = renderSnippet(id, hm); err != nil {
		return nil, err
	}
	return snip, nil
}
