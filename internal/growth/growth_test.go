package growth

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econviz/xplorts/internal/dataset"
)

func mustRead(t *testing.T, csv string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return ds
}

func numeric(t *testing.T, ds *dataset.Dataset, name string) []float64 {
	t.Helper()
	vals, err := ds.Numeric(name)
	require.NoError(t, err)
	return vals
}

func TestCompareMethods(t *testing.T) {
	data := []float64{110}
	base := []float64{100}

	got, err := Compare(data, base, RelPct)
	require.NoError(t, err)
	assert.InDelta(t, 10, got[0], 1e-9)

	got, err = Compare(data, base, LogPct)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(1.1)*100, got[0], 1e-9)

	got, err = Compare(data, base, Ratio)
	require.NoError(t, err)
	assert.InDelta(t, 1.1, got[0], 1e-9)

	got, err = Compare(data, base, Diff)
	require.NoError(t, err)
	assert.InDelta(t, 10, got[0], 1e-9)

	// Empty method defaults to relative percent.
	got, err = Compare(data, base, "")
	require.NoError(t, err)
	assert.InDelta(t, 10, got[0], 1e-9)
}

func TestCompareBadMethod(t *testing.T) {
	_, err := Compare([]float64{1}, []float64{1}, "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestCompareLengthMismatch(t *testing.T) {
	_, err := Compare([]float64{1, 2}, []float64{1}, RelPct)
	assert.Error(t, err)
}

func TestGrowthConstantSeriesIsZero(t *testing.T) {
	ds := mustRead(t, "date,v\n2019,5\n2020,5\n2021,5\n")
	out, err := Growth(ds, Options{Columns: Cols("v"), DateVar: "date"})
	require.NoError(t, err)

	g := numeric(t, out, "v")
	assert.True(t, math.IsNaN(g[0]), "first period has no prior value")
	assert.InDelta(t, 0, g[1], 1e-9)
	assert.InDelta(t, 0, g[2], 1e-9)
}

func TestGrowthLagsWithinGroups(t *testing.T) {
	ds := mustRead(t, "date,industry,v\n2019,A,100\n2020,A,110\n2019,B,200\n2020,B,190\n")
	out, err := Growth(ds, Options{Columns: Cols("v"), DateVar: "date", By: "industry"})
	require.NoError(t, err)

	// Result rows are date-sorted: A 2019, B 2019, A 2020, B 2020.
	g := numeric(t, out, "v")
	by, err := out.Column("industry")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "A", "B"}, by)
	assert.True(t, math.IsNaN(g[0]))
	assert.True(t, math.IsNaN(g[1]))
	assert.InDelta(t, 10, g[2], 1e-9)
	assert.InDelta(t, -5, g[3], 1e-9)
}

func TestGrowthTwoPeriodLag(t *testing.T) {
	ds := mustRead(t, "date,v\n2019,100\n2020,110\n2021,121\n")
	out, err := Growth(ds, Options{Columns: Cols("v"), DateVar: "date", Periods: 2})
	require.NoError(t, err)

	g := numeric(t, out, "v")
	assert.True(t, math.IsNaN(g[0]))
	assert.True(t, math.IsNaN(g[1]))
	assert.InDelta(t, 21, g[2], 1e-9)
}

func TestCumulativeGrowthZeroAtBaseline(t *testing.T) {
	ds := mustRead(t, "date,industry,v\n2019,A,100\n2020,A,110\n2019,B,50\n2020,B,45\n")
	out, err := Growth(ds, Options{
		Columns:  Cols("v"),
		DateVar:  "date",
		By:       "industry",
		Baseline: Baseline{First: true},
	})
	require.NoError(t, err)

	g := numeric(t, out, "v")
	// Rows keep input order for non-lag baselines.
	assert.InDelta(t, 0, g[0], 1e-9)
	assert.InDelta(t, 10, g[1], 1e-9)
	assert.InDelta(t, 0, g[2], 1e-9)
	assert.InDelta(t, -10, g[3], 1e-9)
}

func TestCumulativeGrowthSkipsLeadingMissing(t *testing.T) {
	ds := mustRead(t, "date,v\n2019,\n2020,100\n2021,120\n")
	out, err := Growth(ds, Options{
		Columns:  Cols("v"),
		DateVar:  "date",
		Baseline: Baseline{First: true},
	})
	require.NoError(t, err)

	g := numeric(t, out, "v")
	assert.True(t, math.IsNaN(g[0]))
	assert.InDelta(t, 0, g[1], 1e-9)
	assert.InDelta(t, 20, g[2], 1e-9)
}

func TestNamedDateBaseline(t *testing.T) {
	ds := mustRead(t, "date,industry,v\n2019,A,100\n2020,A,110\n2019,B,200\n2020,B,150\n")
	out, err := Growth(ds, Options{
		Columns:  Cols("v"),
		DateVar:  "date",
		By:       "industry",
		Baseline: Baseline{Date: "2019"},
	})
	require.NoError(t, err)

	g := numeric(t, out, "v")
	assert.InDelta(t, 0, g[0], 1e-9)
	assert.InDelta(t, 10, g[1], 1e-9)
	assert.InDelta(t, 0, g[2], 1e-9)
	assert.InDelta(t, -25, g[3], 1e-9)
}

func TestNamedDateBaselineNoMatch(t *testing.T) {
	ds := mustRead(t, "date,v\n2019,100\n")
	_, err := Growth(ds, Options{
		Columns:  Cols("v"),
		DateVar:  "date",
		Baseline: Baseline{Date: "1999"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"1999"`)
}

func TestFrameBaselineRevisions(t *testing.T) {
	current := mustRead(t, "date,industry,v\n2019,A,102\n2019,B,48\n2020,A,110\n")
	original := mustRead(t, "date,industry,v\n2019,A,100\n2019,B,50\n")

	out, err := Growth(current, Options{
		Columns:  Cols("v"),
		DateVar:  "date",
		By:       "industry",
		Baseline: Baseline{Frame: original},
	})
	require.NoError(t, err)

	g := numeric(t, out, "v")
	assert.InDelta(t, 2, g[0], 1e-9)
	assert.InDelta(t, -4, g[1], 1e-9)
	assert.True(t, math.IsNaN(g[2]), "2020 has no original vintage value")
}

func TestFrameBaselineWithoutJoinColumns(t *testing.T) {
	current := mustRead(t, "date,v\n2019,102\n2020,110\n")
	frame := mustRead(t, "v\n100\n100\n")

	out, err := Growth(current, Options{
		Columns:  Cols("v"),
		DateVar:  "date",
		Baseline: Baseline{Frame: frame},
		Method:   Diff,
	})
	require.NoError(t, err)

	g := numeric(t, out, "v")
	assert.InDelta(t, 2, g[0], 1e-9)
	assert.InDelta(t, 10, g[1], 1e-9)
}

func TestBaselineExclusive(t *testing.T) {
	ds := mustRead(t, "date,v\n2019,1\n")
	_, err := Growth(ds, Options{
		Columns:  Cols("v"),
		DateVar:  "date",
		Baseline: Baseline{First: true, Date: "2019"},
	})
	assert.Error(t, err)
}

func TestSignReversedComponent(t *testing.T) {
	ds := mustRead(t, "date,labour\n2019,100\n2020,110\n")
	out, err := Growth(ds, Options{
		Columns: []Component{SignReversed("labour")},
		DateVar: "date",
	})
	require.NoError(t, err)

	assert.False(t, out.HasColumn("labour"))
	g := numeric(t, out, "labour (sign reversed)")
	assert.True(t, math.IsNaN(g[0]))
	assert.InDelta(t, -10, g[1], 1e-9)
}

func TestDoubleSignReversalIdentity(t *testing.T) {
	ds := mustRead(t, "date,v\n2019,100\n2020,107\n")

	plain, err := Growth(ds, Options{Columns: Cols("v"), DateVar: "date"})
	require.NoError(t, err)
	reversed, err := Growth(ds, Options{
		Columns: []Component{SignReversed("v")},
		DateVar: "date",
	})
	require.NoError(t, err)

	want := numeric(t, plain, "v")
	got := numeric(t, reversed, "v (sign reversed)")
	assert.InDelta(t, -want[1], got[1], 1e-9)
}

func TestColumnValuedWeight(t *testing.T) {
	// Growth of v weighted by the baseline-period share column.
	ds := mustRead(t, "date,v,share\n2019,100,0.5\n2020,110,0.6\n")
	out, err := Growth(ds, Options{
		Columns: []Component{Weighted("v", "share", "v contribution")},
		DateVar: "date",
	})
	require.NoError(t, err)

	g := numeric(t, out, "v contribution")
	assert.True(t, math.IsNaN(g[0]))
	// 10% growth times the 2019 share of 0.5.
	assert.InDelta(t, 5, g[1], 1e-9)
}

func TestBadWeight(t *testing.T) {
	ds := mustRead(t, "date,v\n2019,1\n2020,2\n")
	_, err := Growth(ds, Options{
		Columns: []Component{Weighted("v", "no-such-column", "")},
		DateVar: "date",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-column")
}

func TestGrowthMissingColumn(t *testing.T) {
	ds := mustRead(t, "date,v\n2019,1\n")
	_, err := Growth(ds, Options{Columns: Cols("oph"), DateVar: "date"})
	assert.Error(t, err)
}
