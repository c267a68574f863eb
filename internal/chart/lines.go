package chart

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/econviz/xplorts/internal/dataset"
)

// LinesConfig configures a multi-line time series figure.
type LinesConfig struct {
	Config
	DateVar string
	// By splits the data; a filter widget steps through its levels.
	// Optional.
	By     string
	Values []string
}

// Lines draws one line per value column against the date axis. With a
// split factor the figure shows one level at a time and carries a
// payload for every level.
func Lines(ds *dataset.Dataset, cfg LinesConfig) (*Snippet, error) {
	if len(cfg.Values) == 0 {
		return nil, errors.New("chart: lines needs at least one value column")
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
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			ChartID: id,
			Width:   cfg.width(),
			Height:  cfg.height(),
		}),
		charts.WithTitleOpts(opts.Title{Title: cfg.Title, Subtitle: cfg.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "30"}),
		charts.WithColorsOpts(opts.Colors(seriesColors(len(cfg.Values)))),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(axis.labels)
	for ci, name := range cfg.Values {
		line.AddSeries(name, lineData(vals[0][ci]))
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Symbol: "circle"}))

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

	line.Renderer = newSnippetRender(line, line.Validate)
	if snip.HTML, err = renderSnippet(id, line); err != nil {
		return nil, err
	}
	return snip, nil
}
