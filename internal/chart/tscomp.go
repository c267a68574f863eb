package chart

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/econviz/xplorts/internal/dataset"
)

// TSCompConfig configures a time series growth comparison: component
// bars stacked per date with the total drawn as a line on top.
type TSCompConfig struct {
	Config
	DateVar string
	By      string
	// Values stack as signed bars.
	Values []string
	// Total is drawn as a line over the stack. Optional.
	Total string
}

// TSComp draws stacked component bars against the date axis with a total
// line overlaid. With a split factor the figure shows one level at a
// time.
func TSComp(ds *dataset.Dataset, cfg TSCompConfig) (*Snippet, error) {
	if len(cfg.Values) == 0 {
		return nil, errors.New("chart: time series comparison needs value columns")
	}
	axis, err := newTimeAxis(ds, cfg.DateVar)
	if err != nil {
		return nil, err
	}
	columns := append([]string(nil), cfg.Values...)
	if cfg.Total != "" {
		columns = append(columns, cfg.Total)
	}
	levels, vals, err := groupedValues(ds, axis, cfg.DateVar, cfg.By, columns)
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
		charts.WithColorsOpts(opts.Colors(seriesColors(len(columns)))),
	)
	bar.SetXAxis(axis.labels)
	for ci, name := range cfg.Values {
		bar.AddSeries(name, barData(vals[0][ci]))
	}
	bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))

	if cfg.Total != "" {
		line := charts.NewLine()
		line.AddSeries(cfg.Total, lineData(vals[0][len(columns)-1]))
		line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Symbol: "circle"}))
		bar.Overlap(line)
	}

	snip := &Snippet{ID: id}
	if cfg.By != "" {
		snip.Options = levels
		snip.payload = make([][]map[string]interface{}, len(levels))
		for li := range levels {
			patches := make([]map[string]interface{}, len(columns))
			for ci := range columns {
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
