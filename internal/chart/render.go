// Package chart renders standalone interactive HTML pages of ECharts
// figures from tabular time series data. Each figure is rendered to an
// embeddable snippet; a page stitches snippets together with filter
// widgets whose scripts run after every chart global exists.
package chart

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"sync/atomic"

	chartrender "github.com/go-echarts/go-echarts/v2/render"
	"github.com/pkg/errors"
)

// DefaultAssetsHost serves echarts.min.js when no local copy is inlined.
const DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

const snippetTpl = `
<div class="chart" id="{{ .ChartID }}" style="width:{{ .Initialization.Width }};height:{{ .Initialization.Height }};"></div>
<script type="text/javascript">
"use strict";
let goecharts_{{ .ChartID | safeJS }} = echarts.init(document.getElementById('{{ .ChartID | safeJS }}'), "{{ .Theme }}");
let option_{{ .ChartID | safeJS }} = {{ .JSONNotEscaped | safeJS }};
goecharts_{{ .ChartID | safeJS }}.setOption(option_{{ .ChartID | safeJS }});
{{- range .JSFunctions.Fns }}
{{ . | safeJS }}
{{- end }}
</script>
`

const pageTpl = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
{{- if .InlineJS }}
<script type="text/javascript">{{ .InlineJS | safeJS }}</script>
{{- else }}
<script src="{{ .AssetsHost }}echarts.min.js"></script>
{{- end }}
<style>
body { font-family: "Helvetica Neue", Helvetica, Arial, sans-serif; margin: 1.5em; }
h1 { font-size: 1.4em; margin-bottom: 0.2em; }
p.subtitle { color: #666; margin-top: 0; }
div.widget { margin: 0.8em 0; }
div.widget label { margin-right: 0.6em; font-weight: bold; }
div.widget input[type=range] { vertical-align: middle; margin-left: 0.8em; width: 20em; }
div.section { margin-bottom: 1em; }
</style>
</head>
<body>
<h1>{{ .Title }}</h1>
{{- if .Subtitle }}
<p class="subtitle">{{ .Subtitle }}</p>
{{- end }}
{{- range .Widgets }}
{{ .HTML }}
{{- end }}
{{- range .Body }}
{{ . }}
{{- end }}
<script type="text/javascript">
"use strict";
{{- range .Scripts }}
{{ . | safeJS }}
{{- end }}
</script>
</body>
</html>
`

var tplFuncs = template.FuncMap{
	"safeJS": func(s interface{}) template.JS {
		return template.JS(fmt.Sprint(s))
	},
}

var (
	snippetTemplate = template.Must(template.New("snippet").Funcs(tplFuncs).Parse(snippetTpl))
	pageTemplate    = template.Must(template.New("page").Funcs(tplFuncs).Parse(pageTpl))
)

var chartSeq uint64

func nextChartID() string {
	return fmt.Sprintf("xchart_%d", atomic.AddUint64(&chartSeq, 1))
}

// snippetRender renders one chart as a div plus init script, without the
// full-page scaffolding the stock go-echarts renderer emits.
type snippetRender struct {
	c      interface{}
	before []func()
}

func newSnippetRender(c interface{}, before ...func()) chartrender.Renderer {
	return &snippetRender{c: c, before: before}
}

func (r *snippetRender) Render(w io.Writer) error {
	for _, fn := range r.before {
		fn()
	}
	return snippetTemplate.Execute(w, r.c)
}

// Snippet is a rendered chart ready for page embedding. When the source
// data carried a split factor the snippet also holds, per split level,
// the series data a filter widget swaps in.
type Snippet struct {
	ID   string
	HTML template.HTML

	// Options are the filter labels the payload was built for, in
	// payload order. Empty when the chart has nothing to filter.
	Options []string

	// payload[i][j] patches series j when widget option i is selected.
	payload [][]map[string]interface{}
}

type renderer interface {
	Render(w io.Writer) error
}

func renderSnippet(id string, c renderer) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.Render(&buf); err != nil {
		return "", errors.Wrapf(err, "chart: rendering %s", id)
	}
	return template.HTML(buf.String()), nil
}

// Section wraps snippets in a named container div so widgets can toggle
// whole groups of charts in and out of view.
func Section(id string, heading string, snippets ...*Snippet) template.HTML {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<div class=\"section\" id=\"%s\">\n", template.HTMLEscapeString(id))
	if heading != "" {
		fmt.Fprintf(&buf, "<h2>%s</h2>\n", template.HTMLEscapeString(heading))
	}
	for _, s := range snippets {
		buf.WriteString(string(s.HTML))
	}
	buf.WriteString("</div>\n")
	return template.HTML(buf.String())
}

// Page assembles widgets and chart snippets into one standalone HTML
// document. Widget scripts are emitted last so every chart instance the
// widgets reference already exists.
type Page struct {
	Title      string
	Subtitle   string
	AssetsHost string
	// InlineJS embeds an ECharts bundle so the page opens offline.
	InlineJS template.JS

	Widgets []*SlideSelect
	Body    []template.HTML
	Scripts []template.JS
}

// NewPage creates a page with the default assets host.
func NewPage(title, subtitle string) *Page {
	return &Page{Title: title, Subtitle: subtitle, AssetsHost: DefaultAssetsHost}
}

// InlineAssets embeds the ECharts bundle at path into the page itself.
func (p *Page) InlineAssets(path string) error {
	js, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "chart: inline assets")
	}
	p.InlineJS = template.JS(js)
	return nil
}

// Add appends chart snippets to the page body.
func (p *Page) Add(snippets ...*Snippet) {
	for _, s := range snippets {
		p.Body = append(p.Body, s.HTML)
	}
}

// AddHTML appends raw markup, such as a Section, to the page body.
func (p *Page) AddHTML(html ...template.HTML) {
	p.Body = append(p.Body, html...)
}

// AddWidget registers a filter widget. Its markup renders above the
// charts and its script after them.
func (p *Page) AddWidget(w *SlideSelect) error {
	script, err := w.Script()
	if err != nil {
		return err
	}
	p.Widgets = append(p.Widgets, w)
	p.Scripts = append(p.Scripts, template.JS(script))
	return nil
}

// Render writes the page document.
func (p *Page) Render(w io.Writer) error {
	return pageTemplate.Execute(w, p)
}

// WriteFile renders the page to path.
func (p *Page) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "chart: create output")
	}
	if err := p.Render(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "chart: close output")
}
