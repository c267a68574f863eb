package chart

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/econviz/xplorts/internal/dataset"
)

// StacksConfig configures a stacked bar figure over the date axis.
type StacksConfig struct {
	Config
	DateVar string
	By      string
	Values  []string
	// Horizontal puts the date axis on the vertical and grows bars
	// sideways.
	Horizontal bool
}

// Stacks draws the value columns as stacked bars per date. Positive and
// negative contributions stack on opposite sides of the axis.
func Stacks(ds *dataset.Dataset, cfg StacksConfig) (*Snippet, error) {
	if len(cfg.Values) == 0 {
		return nil, errors.New("chart: stacks needs at least one value column")
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
	bar := charts.NewBar()
	bar.SetGlobalOptions(
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
	bar.SetXAxis(axis.labels)
	for ci, name := range cfg.Values {
		bar.AddSeries(name, barData(vals[0][ci]))
	}
	bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
	if cfg.Horizontal {
		bar.XYReversal()
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

	bar.Renderer = newSnippetRender(bar, bar.Validate)
	if snip.HTML, err = renderSnippet(id, bar); err != nil {
		return nil, err
	}
	return snip, nil
}
