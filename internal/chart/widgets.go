package chart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"sync/atomic"

	"github.com/pkg/errors"
)

var widgetSeq uint64

// SlideSelect is a drop-down paired with a slider, kept in sync, that
// steps through the levels of a split factor or the dates of a series.
// Selecting an option either swaps chart series data or toggles section
// visibility, depending on how charts were linked.
type SlideSelect struct {
	ID      string
	Title   string
	Options []string
	// Initial is the option selected on load.
	Initial int

	declarations []string
	actions      []string
}

// NewSlideSelect creates a widget over the given options. Options come
// from dataset level order, which every linked chart's payload must
// match.
func NewSlideSelect(title string, options []string) *SlideSelect {
	return &SlideSelect{
		ID:      fmt.Sprintf("xwidget_%d", atomic.AddUint64(&widgetSeq, 1)),
		Title:   title,
		Options: options,
	}
}

// LinkSeries makes the widget swap the snippet's series data when the
// selection changes. The snippet's payload must have one entry per
// widget option.
func (w *SlideSelect) LinkSeries(s *Snippet) error {
	if len(s.payload) == 0 {
		return errors.Errorf("chart: snippet %s has no filter payload", s.ID)
	}
	if len(s.payload) != len(w.Options) {
		return errors.Errorf("chart: snippet %s has %d payload entries, widget has %d options",
			s.ID, len(s.payload), len(w.Options))
	}
	blob, err := json.Marshal(s.payload)
	if err != nil {
		return errors.Wrapf(err, "chart: marshaling payload for %s", s.ID)
	}
	w.declarations = append(w.declarations,
		fmt.Sprintf("var payload_%s = %s;", s.ID, blob))
	w.actions = append(w.actions,
		fmt.Sprintf("goecharts_%s.setOption({series: payload_%s[i]});", s.ID, s.ID))
	return nil
}

// LinkVisibility shows the i-th container when option i is selected and
// hides the rest. Containers are element ids, one per option.
func (w *SlideSelect) LinkVisibility(containerIDs []string) error {
	if len(containerIDs) != len(w.Options) {
		return errors.Errorf("chart: %d containers for %d options", len(containerIDs), len(w.Options))
	}
	blob, err := json.Marshal(containerIDs)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("sections_%s", w.ID)
	w.declarations = append(w.declarations, fmt.Sprintf("var %s = %s;", name, blob))
	w.actions = append(w.actions, fmt.Sprintf(
		"%[1]s.forEach(function(id, j) { document.getElementById(id).style.display = j === i ? 'block' : 'none'; });",
		name))
	return nil
}

// HTML renders the widget markup. The slider is omitted for a single
// option.
func (w *SlideSelect) HTML() template.HTML {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<div class=\"widget\" id=\"%s\">\n", w.ID)
	fmt.Fprintf(&buf, "<label for=\"%s_select\">%s</label>\n",
		w.ID, template.HTMLEscapeString(w.Title))
	fmt.Fprintf(&buf, "<select id=\"%s_select\">\n", w.ID)
	for _, opt := range w.Options {
		fmt.Fprintf(&buf, "<option>%s</option>\n", template.HTMLEscapeString(opt))
	}
	buf.WriteString("</select>\n")
	if len(w.Options) > 1 {
		fmt.Fprintf(&buf, "<input type=\"range\" id=\"%s_slider\" min=\"0\" max=\"%d\" value=\"0\">\n",
			w.ID, len(w.Options)-1)
	}
	buf.WriteString("</div>\n")
	return template.HTML(buf.String())
}

// Script emits the JS wiring the select and slider together and applying
// the linked actions. It must run after the linked charts initialize.
func (w *SlideSelect) Script() (string, error) {
	if len(w.actions) == 0 {
		return "", errors.Errorf("chart: widget %q has no linked charts", w.Title)
	}
	if w.Initial < 0 || w.Initial >= len(w.Options) {
		return "", errors.Errorf("chart: widget %q initial option %d out of range", w.Title, w.Initial)
	}
	var buf bytes.Buffer
	for _, decl := range w.declarations {
		buf.WriteString(decl)
		buf.WriteString("\n")
	}
	fmt.Fprintf(&buf, `(function() {
var sel = document.getElementById('%[1]s_select');
var sld = document.getElementById('%[1]s_slider');
var apply = function(i) {
`, w.ID)
	for _, action := range w.actions {
		buf.WriteString(action)
		buf.WriteString("\n")
	}
	fmt.Fprintf(&buf, `};
sel.addEventListener('change', function() {
  if (sld) { sld.value = sel.selectedIndex; }
  apply(sel.selectedIndex);
});
if (sld) {
  sld.addEventListener('input', function() {
    sel.selectedIndex = Number(sld.value);
    apply(Number(sld.value));
  });
}
sel.selectedIndex = %[1]d;
if (sld) { sld.value = %[1]d; }
apply(%[1]d);
})();
`, w.Initial)
	return buf.String(), nil
}
