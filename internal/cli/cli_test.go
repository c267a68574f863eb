package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/econviz/xplorts/internal/chart"
	"github.com/econviz/xplorts/internal/dataset"
)

const sampleCSV = `date,industry,lprod,gva,labour
2019,A,100,200,2
2020,A,98,190,1.94
2021,A,103,210,2.04
2019,B,100,50,0.5
2020,B,101,52,0.51
2021,B,103,54,0.52
`

const revisedCSV = `date,industry,lprod,gva,labour
2019,A,100,200,2
2020,A,99,192,1.94
2021,A,102,208,2.04
2019,B,100,50,0.5
2020,B,100,51,0.51
2021,B,104,55,0.52
`

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestLinesCommand(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "prod.html")

	_, err := run(t, "lines", data, "-t", out)
	require.NoError(t, err)

	html := readFile(t, out)
	assert.Contains(t, html, "echarts.init")
	assert.Contains(t, html, "<title>prod</title>")
	// Positional defaulting: industry became the split factor.
	assert.Contains(t, html, "<option>A</option>")
	assert.Contains(t, html, "<option>B</option>")
	assert.Contains(t, html, "lprod")
}

func TestLinesDefaultOutputPath(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	_, err := run(t, "lines", data)
	require.NoError(t, err)

	html := readFile(t, strings.TrimSuffix(data, ".csv")+".html")
	assert.Contains(t, html, "echarts.init")
}

func TestLinesMissingColumn(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	_, err := run(t, "lines", data, "--lines", "oph")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oph")
}

func TestLinesInlineAssets(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	js := writeSample(t, "echarts.min.js", "var echarts = {};")
	out := filepath.Join(t.TempDir(), "prod.html")

	_, err := run(t, "lines", data, "-t", out, "--inline-js", js)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, out), "var echarts = {};")
}

func TestLinesStaticPNG(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "prod.html")
	png := filepath.Join(t.TempDir(), "prod.png")

	_, err := run(t, "lines", data, "-t", out, "--png", png)
	require.NoError(t, err)
	b, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")))
}

func TestLinesHeaderOnlyDatafile(t *testing.T) {
	data := writeSample(t, "empty.csv", "date,industry,lprod,gva,labour\n")
	_, err := run(t, "lines", data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rows")
}

func TestScatterHorizontalCommand(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "out.html")

	_, err := run(t, "scatter", data, "-t", out, "-y", "date", "--values", "lprod")
	require.NoError(t, err)

	html := readFile(t, out)
	// Flipped orientation: the date categories sit on the y axis.
	yIdx := strings.Index(html, `"yAxis"`)
	require.Positive(t, yIdx)
	assert.Contains(t, html[yIdx:], "2019")
}

func TestStacksCommand(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "out.html")

	_, err := run(t, "stacks", data, "-t", out, "--bars", "gva,labour")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, out), `"stack":"total"`)
}

func TestStacksAxesMutuallyExclusive(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	_, err := run(t, "stacks", data, "-x", "date", "-y", "date")
	assert.Error(t, err)
}

func TestScatterCommand(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "out.html")

	_, err := run(t, "scatter", data, "-t", out, "--values", "lprod")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, out), "scatter")
}

func TestHeatmapCommand(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "out.html")

	_, err := run(t, "heatmap", data, "-t", out, "--values", "lprod,gva")
	require.NoError(t, err)

	html := readFile(t, out)
	assert.Contains(t, html, "visualMap")
	// Two measures: a selector toggles the sections.
	assert.Contains(t, html, `id="measure_0"`)
	assert.Contains(t, html, `id="measure_1"`)
	assert.Contains(t, html, "<option>lprod</option>")
}

func TestSnapCompCommand(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "out.html")

	_, err := run(t, "snapcomp", data, "-t", out,
		"--bars", "gva,labour", "--markers", "lprod", "-L")
	require.NoError(t, err)

	html := readFile(t, out)
	// The date widget starts at the latest period.
	assert.Contains(t, html, "<option>2021</option>")
	assert.Contains(t, html, "apply(2)")
}

func TestTSCompCommand(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "out.html")

	_, err := run(t, "tscomp", data, "-t", out, "--bars", "gva,labour", "--line", "lprod")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, out), `"stack":"total"`)
}

func TestDblProdCommand(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "out.html")

	_, err := run(t, "dblprod", data, "-t", out)
	require.NoError(t, err)

	html := readFile(t, out)
	assert.Contains(t, html, "Levels")
	assert.Contains(t, html, "Cumulative growth")
	assert.Contains(t, html, "Growth snapshot")
	assert.Contains(t, html, "labour (sign reversed)")
	assert.Contains(t, html, "visualMap")
}

func TestDiffCommand(t *testing.T) {
	from := writeSample(t, "before.csv", revisedCSV)
	to := writeSample(t, "after.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "out.html")

	_, err := run(t, "diff", from, to, "-t", out, "--levels", "gva,labour", "--indexes", "lprod")
	require.NoError(t, err)

	html := readFile(t, out)
	assert.Contains(t, html, "Revisions to levels")
	assert.Contains(t, html, "Revisions to growth")
	assert.Contains(t, html, "Revisions to cumulative growth")
	assert.Contains(t, html, "magnitude")
}

func TestVintageRoundTrip(t *testing.T) {
	store := filepath.Join(t.TempDir(), "vintages.sqlite3")
	data := writeSample(t, "prod.csv", revisedCSV)

	_, err := run(t, "vintage", "add", "2026-01", data, "--store", store)
	require.NoError(t, err)

	out, err := run(t, "vintage", "list", "--store", store)
	require.NoError(t, err)
	assert.Contains(t, out, "2026-01")
	assert.Contains(t, out, "6 rows")

	out, err = run(t, "vintage", "export", "2026-01", "--store", store)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "date,industry,lprod,gva,labour\n"))
}

func TestDiffAgainstArchive(t *testing.T) {
	store := filepath.Join(t.TempDir(), "vintages.sqlite3")
	earlier := writeSample(t, "before.csv", revisedCSV)
	current := writeSample(t, "after.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "out.html")

	_, err := run(t, "vintage", "add", "2026-01", earlier, "--store", store)
	require.NoError(t, err)

	_, err = run(t, "diff", current, "-t", out, "--original", "2026-01", "--store", store)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, out), "Revisions to levels")
}

func TestDiffMissingVintage(t *testing.T) {
	store := filepath.Join(t.TempDir(), "vintages.sqlite3")
	current := writeSample(t, "after.csv", sampleCSV)

	_, err := run(t, "diff", current, "--original", "nope", "--store", store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope"`)
}

func TestAddFilterWidgetRejectsMismatchedOptions(t *testing.T) {
	first, err := dataset.ReadCSV(strings.NewReader("date,industry,v\n2019,A,1\n2019,B,2\n"))
	require.NoError(t, err)
	second, err := dataset.ReadCSV(strings.NewReader("date,industry,v\n2019,B,2\n2019,A,1\n"))
	require.NoError(t, err)

	s1, err := chart.Lines(first, chart.LinesConfig{DateVar: "date", By: "industry", Values: []string{"v"}})
	require.NoError(t, err)
	s2, err := chart.Lines(second, chart.LinesConfig{DateVar: "date", By: "industry", Values: []string{"v"}})
	require.NoError(t, err)

	page := chart.NewPage("t", "")
	err = addFilterWidget(page, "industry", false, s1, s2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filter options")
}

func TestAssetsFlagBinding(t *testing.T) {
	data := writeSample(t, "prod.csv", sampleCSV)
	out := filepath.Join(t.TempDir(), "out.html")

	_, err := run(t, "lines", data, "-t", out, "--assets", "https://cdn.example.com/assets/")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, out), "https://cdn.example.com/assets/echarts.min.js")
}

func TestDefaultVarnames(t *testing.T) {
	ds, err := dataset.ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	var date, by string
	var values []string
	require.NoError(t, defaultVarnames(ds, &date, &by, &values))
	assert.Equal(t, "date", date)
	assert.Equal(t, "industry", by)
	assert.Equal(t, []string{"lprod", "gva", "labour"}, values)
}

func TestDefaultVarnamesPartial(t *testing.T) {
	ds, err := dataset.ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	date := "date"
	by := ""
	values := []string{"gva"}
	require.NoError(t, defaultVarnames(ds, &date, &by, &values))
	// The explicit value column is claimed, so by picks industry.
	assert.Equal(t, "industry", by)
	assert.Equal(t, []string{"gva"}, values)
}

func TestDefaultVarnamesTooFewColumns(t *testing.T) {
	ds, err := dataset.ReadCSV(strings.NewReader("date\n2019\n"))
	require.NoError(t, err)

	var date, by string
	var values []string
	assert.Error(t, defaultVarnames(ds, &date, &by, &values))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "data/prod.html", outputPath("data/prod.csv", ""))
	assert.Equal(t, "out.html", outputPath("data/prod.csv", "out.html"))
	assert.Equal(t, "prod.html", outputPath("prod", ""))
}
