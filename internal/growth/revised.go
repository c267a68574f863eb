package growth

import (
	"math"

	"github.com/pkg/errors"

	"github.com/econviz/xplorts/internal/dataset"
)

// RevisedTS is a time series dataset along with an earlier vintage of
// the same series. New holds current values for all periods; Original is
// a snapshot of what was published earlier.
//
// Measures are classified by what comparisons are meaningful:
// levels support revision comparison across vintages, indexes only
// support growth-rate comparison, and growths are already growth rates.
type RevisedTS struct {
	New      *dataset.Dataset
	Original *dataset.Dataset
	DateVar  string
	By       string

	Levels  []string
	Indexes []string
	Growths []string
}

// NewRevisedTS builds a two-vintage dataset. When neither levels nor
// indexes are named, every column other than the date and split factor
// is treated as a level. Measure classes must not overlap.
func NewRevisedTS(current, original *dataset.Dataset, dateVar, by string, levels, indexes []string) (*RevisedTS, error) {
	if current == nil {
		return nil, errors.New("growth: revised dataset requires a current vintage")
	}
	if len(levels) == 0 && len(indexes) == 0 {
		for _, col := range current.Columns() {
			if col != dateVar && col != by {
				levels = append(levels, col)
			}
		}
	}
	r := &RevisedTS{
		New:      current,
		Original: original,
		DateVar:  dateVar,
		By:       by,
		Levels:   levels,
		Indexes:  indexes,
	}
	if err := r.checkDisjoint(); err != nil {
		return nil, err
	}
	for _, vintage := range []*dataset.Dataset{current, original} {
		if vintage == nil {
			continue
		}
		if dateVar != "" {
			if err := vintage.Require(dateVar); err != nil {
				return nil, err
			}
		}
		if by != "" {
			if err := vintage.Require(by); err != nil {
				return nil, err
			}
		}
		if err := vintage.Require(r.AllMeasures()...); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *RevisedTS) checkDisjoint() error {
	seen := map[string]struct{}{}
	for _, name := range r.AllMeasures() {
		if _, dup := seen[name]; dup {
			return errors.Errorf("growth: measure %q classified more than once", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// AllMeasures returns levels, indexes and growths, in that order.
func (r *RevisedTS) AllMeasures() []string {
	out := append([]string(nil), r.Levels...)
	out = append(out, r.Indexes...)
	return append(out, r.Growths...)
}

// Apply transforms each vintage with fn, keeping the measure classes.
func (r *RevisedTS) Apply(fn func(*dataset.Dataset) (*dataset.Dataset, error)) (*RevisedTS, error) {
	out := *r
	var err error
	if out.New, err = fn(r.New); err != nil {
		return nil, err
	}
	if r.Original != nil {
		if out.Original, err = fn(r.Original); err != nil {
			return nil, err
		}
	}
	out.Levels = append([]string(nil), r.Levels...)
	out.Indexes = append([]string(nil), r.Indexes...)
	out.Growths = append([]string(nil), r.Growths...)
	return &out, nil
}

// CalcGrowth replaces level and index measures in each vintage with
// their growth rates, reclassifying everything as growths. The zero
// baseline gives period-on-period growth; Baseline{First: true} gives
// cumulative growth.
func (r *RevisedTS) CalcGrowth(baseline Baseline) (*RevisedTS, error) {
	columns := Cols(append(append([]string(nil), r.Levels...), r.Indexes...)...)
	out, err := r.Apply(func(ds *dataset.Dataset) (*dataset.Dataset, error) {
		return Growth(ds, Options{
			Columns:  columns,
			DateVar:  r.DateVar,
			By:       r.By,
			Baseline: baseline,
		})
	})
	if err != nil {
		return nil, err
	}
	out.Growths = out.AllMeasures()
	out.Indexes = nil
	out.Levels = nil
	return out, nil
}

// Revisions compares the current vintage to the original for level and
// growth measures. Index measures cannot be compared across vintages, so
// their cells come back as NaN. The default method is relative percent;
// growth revisions are usually taken with Diff.
func (r *RevisedTS) Revisions(method Method) (*dataset.Dataset, error) {
	if r.Original == nil {
		return nil, errors.New("growth: revisions require an original vintage")
	}
	columns := Cols(append(append([]string(nil), r.Levels...), r.Growths...)...)
	result, err := Growth(r.New, Options{
		Columns:  columns,
		DateVar:  r.DateVar,
		By:       r.By,
		Baseline: Baseline{Frame: r.Original},
		Method:   method,
	})
	if err != nil {
		return nil, err
	}
	for _, name := range r.Indexes {
		if err := result.SetNumeric(name, nanSlice(result.Len())); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// AbsValues returns a copy of a revision dataset with the named columns
// replaced by their absolute values, for magnitude heatmaps.
func AbsValues(ds *dataset.Dataset, columns []string) (*dataset.Dataset, error) {
	out := ds.Clone()
	for _, name := range columns {
		vals, err := out.Numeric(name)
		if err != nil {
			return nil, err
		}
		for i := range vals {
			vals[i] = math.Abs(vals[i])
		}
		if err := out.SetNumeric(name, vals); err != nil {
			return nil, err
		}
	}
	return out, nil
}
