// Package dataset holds tabular time series data loaded from CSV or
// XLSX files: rows are observations, columns are a date, zero or more
// categorical split factors, and numeric measures.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Dataset is a column-ordered table of string cells. Numeric access
// parses on demand, treating blank cells as NaN.
type Dataset struct {
	columns []string
	cells   map[string][]string
	nrows   int
}

// New creates an empty dataset with the given column names.
func New(columns []string) (*Dataset, error) {
	seen := map[string]struct{}{}
	cells := make(map[string][]string, len(columns))
	for _, col := range columns {
		if col == "" {
			return nil, errors.New("dataset: empty column name")
		}
		if _, dup := seen[col]; dup {
			return nil, errors.Errorf("dataset: duplicate column %q", col)
		}
		seen[col] = struct{}{}
		cells[col] = nil
	}
	return &Dataset{columns: append([]string(nil), columns...), cells: cells}, nil
}

// Read loads a dataset from path, dispatching on the file suffix:
// ".xlsx" is read through excelize, anything else as CSV.
func Read(path string) (*Dataset, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, "")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "dataset: open")
	}
	defer f.Close()
	ds, err := ReadCSV(f)
	return ds, errors.Wrapf(err, "dataset: reading %s", path)
}

// ReadCSV reads a dataset from CSV content whose first row names the
// columns.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("empty input")
	}
	if err != nil {
		return nil, err
	}
	ds, err := New(header)
	if err != nil {
		return nil, err
	}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := ds.AppendRow(record); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// ReadXLSX reads a dataset from a worksheet. An empty sheet name selects
// the first sheet in the workbook.
func ReadXLSX(path, sheet string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "dataset: open workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.Errorf("dataset: sheet %q is empty", sheet)
	}
	ds, err := New(rows[0])
	if err != nil {
		return nil, err
	}
	for _, row := range rows[1:] {
		// Trailing blank cells are dropped by excelize; pad them back.
		for len(row) < len(ds.columns) {
			row = append(row, "")
		}
		if err := ds.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// AppendRow adds one observation. The record must have one cell per
// column.
func (ds *Dataset) AppendRow(record []string) error {
	if len(record) != len(ds.columns) {
		return errors.Errorf("dataset: row has %d cells, want %d", len(record), len(ds.columns))
	}
	for i, col := range ds.columns {
		ds.cells[col] = append(ds.cells[col], record[i])
	}
	ds.nrows++
	return nil
}

// Len returns the number of rows.
func (ds *Dataset) Len() int { return ds.nrows }

// Columns returns the column names in order.
func (ds *Dataset) Columns() []string { return append([]string(nil), ds.columns...) }

// HasColumn reports whether the dataset has the named column.
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.cells[name]
	return ok
}

// Require errors unless every named column is present. The error names
// both the missing column and the available columns, mirroring the data
// file the user pointed at.
func (ds *Dataset) Require(names ...string) error {
	for _, name := range names {
		if !ds.HasColumn(name) {
			return errors.Errorf("dataset: no column %q among %v", name, ds.columns)
		}
	}
	return nil
}

// Column returns the raw string cells of a column.
func (ds *Dataset) Column(name string) ([]string, error) {
	cells, ok := ds.cells[name]
	if !ok {
		return nil, errors.Errorf("dataset: no column %q among %v", name, ds.columns)
	}
	return cells, nil
}

// Numeric parses a column as float64. Blank cells and "NA" become NaN;
// anything else unparseable is an error naming the offending row.
func (ds *Dataset) Numeric(name string) ([]float64, error) {
	cells, err := ds.Column(name)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, len(cells))
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" || strings.EqualFold(cell, "na") || strings.EqualFold(cell, "nan") {
			vals[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
		if err != nil {
			return nil, errors.Errorf("dataset: column %q row %d: %q is not numeric", name, i+1, cell)
		}
		vals[i] = v
	}
	return vals, nil
}

// SetColumn assigns string cells to a column, appending the column if it
// does not exist yet.
func (ds *Dataset) SetColumn(name string, cells []string) error {
	if len(cells) != ds.nrows {
		return errors.Errorf("dataset: column %q has %d cells, want %d", name, len(cells), ds.nrows)
	}
	if !ds.HasColumn(name) {
		ds.columns = append(ds.columns, name)
	}
	ds.cells[name] = append([]string(nil), cells...)
	return nil
}

// SetNumeric assigns float values to a column, formatting NaN as blank.
func (ds *Dataset) SetNumeric(name string, vals []float64) error {
	cells := make([]string, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			cells[i] = ""
		} else {
			cells[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	return ds.SetColumn(name, cells)
}

// DropColumn removes a column if present.
func (ds *Dataset) DropColumn(name string) {
	if !ds.HasColumn(name) {
		return
	}
	delete(ds.cells, name)
	for i, col := range ds.columns {
		if col == name {
			ds.columns = append(ds.columns[:i], ds.columns[i+1:]...)
			break
		}
	}
}

// Levels returns the distinct values of a column in order of first
// appearance.
func (ds *Dataset) Levels(name string) ([]string, error) {
	cells, err := ds.Column(name)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var levels []string
	for _, cell := range cells {
		if _, ok := seen[cell]; ok {
			continue
		}
		seen[cell] = struct{}{}
		levels = append(levels, cell)
	}
	return levels, nil
}

// Clone returns a deep copy.
func (ds *Dataset) Clone() *Dataset {
	out := &Dataset{
		columns: append([]string(nil), ds.columns...),
		cells:   make(map[string][]string, len(ds.cells)),
		nrows:   ds.nrows,
	}
	for col, cells := range ds.cells {
		out.cells[col] = append([]string(nil), cells...)
	}
	return out
}

// Take returns a copy containing the given rows, in the given order.
func (ds *Dataset) Take(rows []int) *Dataset {
	out := &Dataset{
		columns: append([]string(nil), ds.columns...),
		cells:   make(map[string][]string, len(ds.cells)),
		nrows:   len(rows),
	}
	for col, cells := range ds.cells {
		picked := make([]string, len(rows))
		for i, r := range rows {
			picked[i] = cells[r]
		}
		out.cells[col] = picked
	}
	return out
}

// FilterEq returns the rows where column equals value.
func (ds *Dataset) FilterEq(column, value string) (*Dataset, error) {
	cells, err := ds.Column(column)
	if err != nil {
		return nil, err
	}
	var rows []int
	for i, cell := range cells {
		if cell == value {
			rows = append(rows, i)
		}
	}
	return ds.Take(rows), nil
}

// SortByDate stably sorts rows by the named date column. When every cell
// parses as a period the chronological key is used, otherwise the raw
// strings are compared, which already orders ISO-style dates.
func (ds *Dataset) SortByDate(dateVar string) (*Dataset, error) {
	cells, err := ds.Column(dateVar)
	if err != nil {
		return nil, err
	}
	keys := make([]int, len(cells))
	parsable := true
	for i, cell := range cells {
		p, err := ParsePeriod(cell)
		if err != nil {
			parsable = false
			break
		}
		keys[i] = p.Key()
	}
	rows := make([]int, ds.nrows)
	for i := range rows {
		rows[i] = i
	}
	if parsable {
		sort.SliceStable(rows, func(a, b int) bool { return keys[rows[a]] < keys[rows[b]] })
	} else {
		sort.SliceStable(rows, func(a, b int) bool { return cells[rows[a]] < cells[rows[b]] })
	}
	return ds.Take(rows), nil
}

// GroupRows maps each level of the by column to its row indices, levels
// in order of first appearance. An empty by name yields a single group
// of all rows.
func (ds *Dataset) GroupRows(by string) ([]string, map[string][]int, error) {
	if by == "" {
		all := make([]int, ds.nrows)
		for i := range all {
			all[i] = i
		}
		return []string{""}, map[string][]int{"": all}, nil
	}
	cells, err := ds.Column(by)
	if err != nil {
		return nil, nil, err
	}
	groups := map[string][]int{}
	var levels []string
	for i, cell := range cells {
		if _, ok := groups[cell]; !ok {
			levels = append(levels, cell)
		}
		groups[cell] = append(groups[cell], i)
	}
	return levels, groups, nil
}

// WriteCSV serializes the dataset with a header row.
func (ds *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.columns); err != nil {
		return err
	}
	record := make([]string, len(ds.columns))
	for i := 0; i < ds.nrows; i++ {
		for j, col := range ds.columns {
			record[j] = ds.cells[col][i]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
