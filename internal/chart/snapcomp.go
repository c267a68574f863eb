package chart

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/pkg/errors"

	"github.com/econviz/xplorts/internal/dataset"
)

// SnapCompConfig configures a one-period snapshot of growth components
// across split levels.
type SnapCompConfig struct {
	Config
	DateVar string
	By      string
	// Values stack as signed horizontal bars per level.
	Values []string
	// Total is marked per level on top of the stack. Optional.
	Total string
	// InitialDate selects the first snapshot shown; defaults to the
	// earliest date. The widget payload covers every date.
	InitialDate string
}

// SnapComp draws, for one date at a time, horizontal bars of the
// component columns stacked per split level, with the total overlaid as
// markers. The filter payload steps through the dates.
func SnapComp(ds *dataset.Dataset, cfg SnapCompConfig) (*Snippet, error) {
	if cfg.By == "" {
		return nil, errors.New("chart: snapshot comparison needs a split factor")
	}
	if len(cfg.Values) == 0 {
		return nil, errors.New("chart: snapshot comparison needs value columns")
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

	// atDate[di][ci] holds column ci's value per level for date di.
	atDate := make([][][]float64, axis.width())
	for di := range atDate {
		atDate[di] = make([][]float64, len(columns))
		for ci := range columns {
			perLevel := make([]float64, len(levels))
			for li := range levels {
				perLevel[li] = vals[li][ci][di]
			}
			atDate[di][ci] = perLevel
		}
	}

	initial := 0
	if cfg.InitialDate != "" {
		pos, ok := axis.index[cfg.InitialDate]
		if !ok {
			return nil, errors.Errorf("chart: no data at date %q", cfg.InitialDate)
		}
		initial = pos
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
	bar.SetXAxis(levels)
	for ci, name := range cfg.Values {
		bar.AddSeries(name, barData(atDate[initial][ci]))
	}
	bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
	bar.XYReversal()

	if cfg.Total != "" {
		sc := charts.NewScatter()
		sc.AddSeries(cfg.Total, scatterData(atDate[initial][len(columns)-1]))
		bar.Overlap(sc)
	}

	snip := &Snippet{ID: id, Options: dataset.DateLabels(axis.raw)}
	snip.payload = make([][]map[string]interface{}, axis.width())
	for di := range snip.payload {
		patches := make([]map[string]interface{}, len(columns))
		for ci := range columns {
			patches[ci] = seriesPatch(jsValues(atDate[di][ci]))
		}
		snip.payload[di] = patches
	}

	bar.Renderer = newSnippetRender(bar, bar.Validate)
	if snip.HTML, err = renderSnippet(id, bar); err != nil {
		return nil, err
	}
	return snip, nil
}
