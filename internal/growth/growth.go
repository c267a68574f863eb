// Package growth computes period-on-period growth, cumulative growth
// relative to a baseline period, and revision deltas between two data
// vintages, optionally weighted by component contribution factors.
package growth

import (
	"fmt"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"github.com/econviz/xplorts/internal/dataset"
)

// Method selects how values are compared to their baseline.
type Method string

const (
	// RelPct is relative percent, (data/baseline - 1) * 100.
	RelPct Method = "relpct"
	// LogPct is log percent, ln(data/baseline) * 100. Unlike simple
	// percentage differences, log percents sum across periods.
	LogPct Method = "logpct"
	// Ratio is data/baseline.
	Ratio Method = "ratio"
	// Diff is data - baseline.
	Diff Method = "diff"
)

// Compare applies a comparison method element-wise. NaN in either input
// propagates to the output.
func Compare(data, baseline []float64, method Method) ([]float64, error) {
	if len(data) != len(baseline) {
		return nil, errors.Errorf("growth: data has %d values, baseline %d", len(data), len(baseline))
	}
	out := make([]float64, len(data))
	for i := range data {
		d, b := data[i], baseline[i]
		switch method {
		case RelPct, "":
			out[i] = (d/b - 1) * 100
		case LogPct:
			out[i] = math.Log(d/b) * 100
		case Ratio:
			out[i] = d / b
		case Diff:
			out[i] = d - b
		default:
			return nil, errors.Errorf("growth: expected relpct, logpct, ratio or diff, not %q", method)
		}
	}
	return out, nil
}

// Component names a data column of time series values and specifies how
// growth in that series is weighted when it contributes to growth of a
// derived variable. Weight is either empty (weight 1), a numeric
// literal, or the name of a column whose baseline-period values supply
// the weights. For a dependent variable y = num/den, the num component
// has weight 1 and the den component weight -1.
type Component struct {
	Name   string
	Weight string
	Label  string
}

// Col is a plain unweighted component.
func Col(name string) Component {
	return Component{Name: name}
}

// Weighted names a component with an explicit weight and output label.
func Weighted(name, weight, label string) Component {
	return Component{Name: name, Weight: weight, Label: label}
}

// SignReversed is the denominator special case: weight -1, labelled
// "<name> (sign reversed)".
func SignReversed(name string) Component {
	return Component{Name: name, Weight: "-1", Label: name + " (sign reversed)"}
}

// OutName is the column name carrying the component's weighted growth.
func (c Component) OutName() string {
	if c.Label != "" {
		return c.Label
	}
	return c.Name
}

// Cols wraps plain column names as unweighted components.
func Cols(names ...string) []Component {
	comps := make([]Component, len(names))
	for i, name := range names {
		comps[i] = Col(name)
	}
	return comps
}

// Baseline selects what values growth is computed relative to. The zero
// value means period-on-period growth at the configured lag. Exactly one
// of the fields may be set.
type Baseline struct {
	// First computes cumulative growth relative to the earliest date in
	// each split group.
	First bool
	// Date computes growth relative to the mean of the rows at the named
	// date within each split group.
	Date string
	// Frame computes revisions comparing the data to another vintage,
	// aligned on the split factor and date columns.
	Frame *dataset.Dataset
}

func (b Baseline) kind() string {
	switch {
	case b.First:
		return "first"
	case b.Date != "":
		return "date"
	case b.Frame != nil:
		return "frame"
	default:
		return "lag"
	}
}

func (b Baseline) validate() error {
	n := 0
	if b.First {
		n++
	}
	if b.Date != "" {
		n++
	}
	if b.Frame != nil {
		n++
	}
	if n > 1 {
		return errors.New("growth: baseline can set at most one of First, Date and Frame")
	}
	return nil
}

// Options configures Growth.
type Options struct {
	Columns []Component
	// DateVar orders rows within each split group.
	DateVar string
	// By partitions rows into split groups. Optional.
	By string
	// Periods is the lag for period-on-period growth. Defaults to 1.
	// Ignored when a baseline is set.
	Periods int
	Baseline Baseline
	// Method defaults to RelPct.
	Method Method
}

// Growth computes growth for columns of a dataset. The result keeps the
// non-value columns (date, split factor) and replaces each requested
// column with its growth under the component's output name. For
// period-on-period growth the result rows are stably sorted by date.
func Growth(data *dataset.Dataset, opts Options) (*dataset.Dataset, error) {
	if err := opts.Baseline.validate(); err != nil {
		return nil, err
	}
	if len(opts.Columns) == 0 {
		return nil, errors.New("growth: no columns requested")
	}
	if opts.DateVar != "" {
		if err := data.Require(opts.DateVar); err != nil {
			return nil, err
		}
	}
	if opts.By != "" {
		if err := data.Require(opts.By); err != nil {
			return nil, err
		}
	}
	names := make([]string, len(opts.Columns))
	for i, c := range opts.Columns {
		names[i] = c.Name
	}
	if err := data.Require(names...); err != nil {
		return nil, err
	}

	work := data
	if opts.Baseline.kind() == "lag" && opts.DateVar != "" {
		sorted, err := data.SortByDate(opts.DateVar)
		if err != nil {
			return nil, err
		}
		work = sorted
	}

	aligned, err := alignBaseline(work, opts)
	if err != nil {
		return nil, err
	}

	result := work.Clone()
	for _, comp := range opts.Columns {
		vals, err := work.Numeric(comp.Name)
		if err != nil {
			return nil, err
		}
		compared, err := Compare(vals, aligned.column(comp.Name), opts.Method)
		if err != nil {
			return nil, err
		}
		if comp.Weight != "" {
			weights, err := aligned.weights(comp.Weight, work.Len())
			if err != nil {
				return nil, err
			}
			for i := range compared {
				compared[i] *= weights[i]
			}
		}
		if out := comp.OutName(); out != comp.Name {
			result.DropColumn(comp.Name)
			if err := result.SetNumeric(out, compared); err != nil {
				return nil, err
			}
		} else if err := result.SetNumeric(comp.Name, compared); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// alignedBaseline holds, for every row of the working dataset, the
// baseline value of each column that growth or weighting needs.
type alignedBaseline struct {
	values map[string][]float64
	nrows  int
}

func (a *alignedBaseline) column(name string) []float64 { return a.values[name] }

// weights resolves a component weight: a numeric literal, or the
// baseline-period values of a named column.
func (a *alignedBaseline) weights(spec string, nrows int) ([]float64, error) {
	if vals, ok := a.values[spec]; ok {
		return vals, nil
	}
	w, err := strconv.ParseFloat(spec, 64)
	if err != nil {
		return nil, errors.Errorf("growth: weight %q is neither numeric nor a baseline column", spec)
	}
	out := make([]float64, nrows)
	for i := range out {
		out[i] = w
	}
	return out, nil
}

func alignBaseline(work *dataset.Dataset, opts Options) (*alignedBaseline, error) {
	// Baseline values are needed for the value columns and for any
	// column-valued weights.
	needed := map[string]struct{}{}
	for _, comp := range opts.Columns {
		needed[comp.Name] = struct{}{}
		if comp.Weight != "" {
			if _, err := strconv.ParseFloat(comp.Weight, 64); err != nil {
				needed[comp.Weight] = struct{}{}
			}
		}
	}

	aligned := &alignedBaseline{values: map[string][]float64{}, nrows: work.Len()}
	switch opts.Baseline.kind() {
	case "lag":
		periods := opts.Periods
		if periods == 0 {
			periods = 1
		}
		_, groups, err := work.GroupRows(opts.By)
		if err != nil {
			return nil, err
		}
		for name := range needed {
			vals, err := work.Numeric(name)
			if err != nil {
				return nil, err
			}
			base := nanSlice(work.Len())
			for _, rows := range groups {
				for pos, r := range rows {
					if pos >= periods {
						base[r] = vals[rows[pos-periods]]
					}
				}
			}
			aligned.values[name] = base
		}

	case "first":
		if opts.DateVar == "" {
			return nil, errors.New("growth: cumulative growth requires a date variable")
		}
		sorted, err := work.SortByDate(opts.DateVar)
		if err != nil {
			return nil, err
		}
		// First non-missing value per group, in date order.
		firsts := map[string]map[string]float64{} // column -> level -> value
		_, sortedGroups, err := sorted.GroupRows(opts.By)
		if err != nil {
			return nil, err
		}
		for name := range needed {
			vals, err := sorted.Numeric(name)
			if err != nil {
				return nil, err
			}
			firsts[name] = map[string]float64{}
			for level, rows := range sortedGroups {
				for _, r := range rows {
					if !math.IsNaN(vals[r]) {
						firsts[name][level] = vals[r]
						break
					}
				}
			}
		}
		levelOf, err := groupLabels(work, opts.By)
		if err != nil {
			return nil, err
		}
		for name := range needed {
			base := nanSlice(work.Len())
			for i := range base {
				if v, ok := firsts[name][levelOf[i]]; ok {
					base[i] = v
				}
			}
			aligned.values[name] = base
		}

	case "date":
		if opts.DateVar == "" {
			return nil, errors.New("growth: baseline date requires a date variable")
		}
		dates, err := work.Column(opts.DateVar)
		if err != nil {
			return nil, err
		}
		levelOf, err := groupLabels(work, opts.By)
		if err != nil {
			return nil, err
		}
		matched := false
		for name := range needed {
			vals, err := work.Numeric(name)
			if err != nil {
				return nil, err
			}
			sums := map[string]float64{}
			counts := map[string]int{}
			for i := range dates {
				if dates[i] != opts.Baseline.Date || math.IsNaN(vals[i]) {
					continue
				}
				matched = true
				sums[levelOf[i]] += vals[i]
				counts[levelOf[i]]++
			}
			base := nanSlice(work.Len())
			for i := range base {
				if n := counts[levelOf[i]]; n > 0 {
					base[i] = sums[levelOf[i]] / float64(n)
				}
			}
			aligned.values[name] = base
		}
		if !matched {
			return nil, errors.Errorf("growth: no rows match baseline date %q", opts.Baseline.Date)
		}

	case "frame":
		frame := opts.Baseline.Frame
		// Align on whichever of the split and date columns the frame
		// carries: a frame with one row per level may omit the date.
		joinBy, joinDate := opts.By, opts.DateVar
		if joinBy != "" && !frame.HasColumn(joinBy) {
			joinBy = ""
		}
		if joinDate != "" && !frame.HasColumn(joinDate) {
			joinDate = ""
		}
		if joinBy == "" && joinDate == "" && frame.Len() != work.Len() {
			return nil, errors.Errorf(
				"growth: baseline frame has %d rows, want %d", frame.Len(), work.Len())
		}
		idx, err := frameIndex(frame, joinBy, joinDate)
		if err != nil {
			return nil, err
		}
		keys, err := rowKeys(work, joinBy, joinDate)
		if err != nil {
			return nil, err
		}
		for name := range needed {
			frameVals, err := frame.Numeric(name)
			if err != nil {
				return nil, errors.Wrap(err, "growth: baseline frame")
			}
			base := nanSlice(work.Len())
			if joinBy == "" && joinDate == "" {
				copy(base, frameVals)
			} else {
				for i, key := range keys {
					if r, ok := idx[key]; ok {
						base[i] = frameVals[r]
					}
				}
			}
			aligned.values[name] = base
		}
	}
	return aligned, nil
}

// groupLabels returns the split level of each row, or "" for every row
// when there is no split factor.
func groupLabels(ds *dataset.Dataset, by string) ([]string, error) {
	if by == "" {
		return make([]string, ds.Len()), nil
	}
	return ds.Column(by)
}

func rowKeys(ds *dataset.Dataset, by, dateVar string) ([]string, error) {
	levels, err := groupLabels(ds, by)
	if err != nil {
		return nil, err
	}
	dates := make([]string, ds.Len())
	if dateVar != "" {
		if dates, err = ds.Column(dateVar); err != nil {
			return nil, err
		}
	}
	keys := make([]string, ds.Len())
	for i := range keys {
		keys[i] = fmt.Sprintf("%s\x00%s", levels[i], dates[i])
	}
	return keys, nil
}

// frameIndex maps (level, date) keys of a baseline frame to row numbers.
func frameIndex(frame *dataset.Dataset, by, dateVar string) (map[string]int, error) {
	keys, err := rowKeys(frame, by, dateVar)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(keys))
	for i, key := range keys {
		idx[key] = i
	}
	return idx, nil
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
