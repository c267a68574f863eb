package chart

import (
	"github.com/pkg/errors"

	"github.com/econviz/xplorts/internal/dataset"
)

// timeAxis is the shared category axis of a figure: the distinct dates
// of a dataset in chronological order, with display labels.
type timeAxis struct {
	raw    []string
	labels []string
	index  map[string]int
}

func newTimeAxis(ds *dataset.Dataset, dateVar string) (*timeAxis, error) {
	sorted, err := ds.SortByDate(dateVar)
	if err != nil {
		return nil, err
	}
	dates, err := sorted.Levels(dateVar)
	if err != nil {
		return nil, err
	}
	axis := &timeAxis{
		raw:    dates,
		labels: dataset.DateLabels(dates),
		index:  make(map[string]int, len(dates)),
	}
	for i, d := range dates {
		axis.index[d] = i
	}
	return axis, nil
}

func (a *timeAxis) width() int { return len(a.raw) }

// groupedValues reads the named columns and splits each onto the date
// axis per level of the by column. The outer index follows level order,
// the inner the column order.
func groupedValues(ds *dataset.Dataset, axis *timeAxis, dateVar, by string, columns []string) (levels []string, vals [][][]float64, err error) {
	if ds.Len() == 0 {
		return nil, nil, errors.New("chart: dataset has no rows")
	}
	levels, groups, err := ds.GroupRows(by)
	if err != nil {
		return nil, nil, err
	}
	dates, err := ds.Column(dateVar)
	if err != nil {
		return nil, nil, err
	}
	vals = make([][][]float64, len(levels))
	for li, level := range levels {
		vals[li] = make([][]float64, len(columns))
		for ci, col := range columns {
			raw, err := ds.Numeric(col)
			if err != nil {
				return nil, nil, err
			}
			vals[li][ci] = alignToAxis(raw, groups[level], dates, axis.index, axis.width())
		}
	}
	return levels, vals, nil
}
