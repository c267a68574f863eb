package chart

import (
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/econviz/xplorts/internal/dataset"
)

// StaticConfig configures a non-interactive PNG rendition of a lines
// figure, for embedding where JavaScript is unavailable.
type StaticConfig struct {
	Title   string
	DateVar string
	// By filters to one level before plotting. Optional.
	By     string
	Level  string
	Values []string
}

// WriteStaticPNG plots the value columns as lines over the date axis and
// writes a PNG.
func WriteStaticPNG(ds *dataset.Dataset, cfg StaticConfig, w io.Writer) error {
	if len(cfg.Values) == 0 {
		return errors.New("chart: static export needs value columns")
	}
	if cfg.By != "" && cfg.Level != "" {
		sub, err := ds.FilterEq(cfg.By, cfg.Level)
		if err != nil {
			return err
		}
		ds = sub
	}
	axis, err := newTimeAxis(ds, cfg.DateVar)
	if err != nil {
		return err
	}
	_, vals, err := groupedValues(ds, axis, cfg.DateVar, "", cfg.Values)
	if err != nil {
		return err
	}

	xs := make([]float64, axis.width())
	for i := range xs {
		xs[i] = float64(i)
	}
	labels := axis.labels
	series := make([]gochart.Series, 0, len(cfg.Values))
	for ci, name := range cfg.Values {
		ys := make([]float64, len(vals[0][ci]))
		for i, v := range vals[0][ci] {
			if math.IsNaN(v) {
				// go-chart has no gap support; carry the last value.
				if i > 0 {
					ys[i] = ys[i-1]
				}
				continue
			}
			ys[i] = v
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   gochart.Style{StrokeColor: gochart.GetDefaultColor(ci)},
		})
	}

	graph := gochart.Chart{
		Title: cfg.Title,
		XAxis: gochart.XAxis{
			ValueFormatter: func(v interface{}) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				i := int(math.Round(f))
				if i < 0 || i >= len(labels) || f != math.Round(f) {
					return ""
				}
				return labels[i]
			},
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return errors.Wrap(graph.Render(gochart.PNG, w), "chart: static render")
}

// SaveStaticPNG renders to a file path.
func SaveStaticPNG(ds *dataset.Dataset, cfg StaticConfig, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "chart: create png")
	}
	if err := WriteStaticPNG(ds, cfg, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
