package chart

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/econviz/xplorts/internal/dataset"
)

// ScatterConfig configures a point figure over the date axis.
type ScatterConfig struct {
	Config
	DateVar string
	By      string
	Values  []string
	// Horizontal puts the date axis on the vertical, mirroring the
	// stacked bar orientation switch.
	Horizontal bool
}

// Scatter draws the value columns as markers per date, one series per
// column. Useful when series are sparse and lines would interpolate
// across gaps.
func Scatter(ds *dataset.Dataset, cfg ScatterConfig) (*Snippet, error) {
	if len(cfg.Values) == 0 {
		return nil, errors.New("chart: scatter needs at least one value column")
	}
	axis, err := newTimeAxis(ds, cfg.DateVar)
	if err != nil {
		return nil, err
	}
	levels, vals, err := groupedValues(ds, axis, cfg.DateVar, cfg.By, cfg.Values)
	if err != nil {
		return nil, err
	}

	id := nextChartID()
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: id,
			Width:   cfg.width(),
			Height:  cfg.height(),
		}),
		charts.WithTitleOpts(opts.Title{Title: cfg.Title, Subtitle: cfg.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "30"}),
		charts.WithColorsOpts(opts.Colors(seriesColors(len(cfg.Values)))),
	)
	sc.SetXAxis(axis.labels)
	for ci, name := range cfg.Values {
		sc.AddSeries(name, scatterData(vals[0][ci]))
	}
	if cfg.Horizontal {
		sc.XYReversal()
	}

	snip := &Snippet{ID: id}
	if cfg.By != "" {
		snip.Options = levels
		snip.payload = make([][]map[string]interface{}, len(levels))
		for li := range levels {
			patches := make([]map[string]interface{}, len(cfg.Values))
			for ci := range cfg.Values {
				patches[ci] = seriesPatch(jsValues(vals[li][ci]))
			}
			snip.payload[li] = patches
		}
	}

	sc.Renderer = newSnippetRender(sc, sc.Validate)
	if snip.HTML, err = renderSnippet(id, sc); err != nil {
		return nil, err
	}
	return snip, nil
}
