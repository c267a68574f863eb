package cli

import (
	"path/filepath"
	"strings"

	"github.com/pkg/browser"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/econviz/xplorts/internal/chart"
	"github.com/econviz/xplorts/internal/dataset"
)

// pageOpts are the flags every chart subcommand shares.
type pageOpts struct {
	by   string
	date string
	save string
	show bool
	last bool
}

func addPageFlags(cmd *cobra.Command, o *pageOpts) {
	cmd.Flags().StringVarP(&o.by, "by", "b", "", "split factor column")
	cmd.Flags().StringVarP(&o.date, "date", "d", "", "date column")
	cmd.Flags().StringVarP(&o.save, "save", "t", "", "output HTML path (default: datafile with .html suffix)")
	cmd.Flags().BoolVarP(&o.show, "show", "s", false, "open the chart in a browser")
	cmd.Flags().BoolVarP(&o.last, "last", "L", false, "start filter widgets at the last option")
}

func loadData(path string) (*dataset.Dataset, error) {
	ds, err := dataset.Read(path)
	if err != nil {
		return nil, err
	}
	log.WithFields(map[string]interface{}{
		"file":    path,
		"rows":    ds.Len(),
		"columns": len(ds.Columns()),
	}).Debug("loaded dataset")
	return ds, nil
}

// defaultVarnames fills unset column names positionally: the first
// unclaimed column is the date, the next the split factor, the rest the
// values. A nil by pointer means the command takes no split factor.
func defaultVarnames(ds *dataset.Dataset, date *string, by *string, values *[]string) error {
	claimed := map[string]bool{}
	if *date != "" {
		claimed[*date] = true
	}
	if by != nil && *by != "" {
		claimed[*by] = true
	}
	for _, v := range *values {
		claimed[v] = true
	}

	next := func() (string, bool) {
		for _, col := range ds.Columns() {
			if !claimed[col] {
				claimed[col] = true
				return col, true
			}
		}
		return "", false
	}

	if *date == "" {
		col, ok := next()
		if !ok {
			return errors.New("not enough columns to infer a date variable")
		}
		*date = col
	}
	if by != nil && *by == "" {
		col, ok := next()
		if !ok {
			return errors.New("not enough columns to infer a split factor")
		}
		*by = col
	}
	if len(*values) == 0 {
		for {
			col, ok := next()
			if !ok {
				break
			}
			*values = append(*values, col)
		}
		if len(*values) == 0 {
			return errors.New("not enough columns to infer value columns")
		}
	}

	need := []string{*date}
	if by != nil {
		need = append(need, *by)
	}
	need = append(need, *values...)
	return ds.Require(need...)
}

// baseName is the datafile name without directory or suffix, used as
// the default page title.
func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// outputPath defaults the artifact path to the datafile with an .html
// suffix.
func outputPath(datafile, save string) string {
	if save != "" {
		return save
	}
	base := strings.TrimSuffix(datafile, filepath.Ext(datafile))
	return base + ".html"
}

// newPage builds a page honoring the --assets and --inline-js flags.
func newPage(cmd *cobra.Command, title, subtitle string) (*chart.Page, error) {
	page := chart.NewPage(title, subtitle)
	page.AssetsHost = viper.GetString("assets")
	if inline, _ := cmd.Flags().GetString("inline-js"); inline != "" {
		if err := page.InlineAssets(inline); err != nil {
			return nil, err
		}
	}
	return page, nil
}

// addFilterWidget links a select+slider widget over the snippets' shared
// filter options. Snippets without options are skipped; the widget is
// omitted entirely when nothing is filterable.
func addFilterWidget(page *chart.Page, title string, last bool, snips ...*chart.Snippet) error {
	var linked []*chart.Snippet
	var options []string
	for _, s := range snips {
		if len(s.Options) == 0 {
			continue
		}
		if options == nil {
			options = s.Options
		} else if !equalStrings(options, s.Options) {
			return errors.Errorf("charts disagree on filter options: %v vs %v", options, s.Options)
		}
		linked = append(linked, s)
	}
	if len(linked) == 0 {
		return nil
	}
	w := chart.NewSlideSelect(title, options)
	if last {
		w.Initial = len(options) - 1
	}
	for _, s := range linked {
		if err := w.LinkSeries(s); err != nil {
			return err
		}
	}
	return page.AddWidget(w)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// writePage renders the page and optionally opens it.
func writePage(page *chart.Page, out string, show bool) error {
	if err := page.WriteFile(out); err != nil {
		return err
	}
	log.WithField("file", out).Info("wrote chart")
	if show {
		if err := browser.OpenFile(out); err != nil {
			return errors.Wrap(err, "opening browser")
		}
	}
	return nil
}
