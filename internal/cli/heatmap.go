package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/econviz/xplorts/internal/chart"
)

func newHeatmapCmd() *cobra.Command {
	var (
		opts      pageOpts
		values    []string
		symmetric bool
	)
	cmd := &cobra.Command{
		Use:   "heatmap <datafile>",
		Short: "Heatmap of a measure across periods and split levels",
		Long: `Draws every split level at once: dates across, levels down, cell
color carrying the measure. With several measures the page holds one
heatmap each, toggled by a measure selector.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			datafile := args[0]
			ds, err := loadData(datafile)
			if err != nil {
				return err
			}
			if err := defaultVarnames(ds, &opts.date, &opts.by, &values); err != nil {
				return err
			}

			title := baseName(datafile)
			page, err := newPage(cmd, title, "")
			if err != nil {
				return err
			}

			var sections []string
			for i, value := range values {
				snip, err := chart.Heatmap(ds, chart.HeatmapConfig{
					Config:    chart.Config{Title: value},
					DateVar:   opts.date,
					By:        opts.by,
					Value:     value,
					Symmetric: symmetric,
				})
				if err != nil {
					return err
				}
				id := fmt.Sprintf("measure_%d", i)
				sections = append(sections, id)
				page.AddHTML(chart.Section(id, "", snip))
			}

			if len(values) > 1 {
				w := chart.NewSlideSelect("measure", values)
				if opts.last {
					w.Initial = len(values) - 1
				}
				if err := w.LinkVisibility(sections); err != nil {
					return err
				}
				if err := page.AddWidget(w); err != nil {
					return err
				}
			}
			return writePage(page, outputPath(datafile, opts.save), opts.show)
		},
	}
	addPageFlags(cmd, &opts)
	cmd.Flags().StringSliceVar(&values, "values", nil, "measure columns, one heatmap each")
	cmd.Flags().BoolVar(&symmetric, "symmetric", false, "center the color scale on zero")
	return cmd
}
