package cli

import (
	"github.com/spf13/cobra"

	"github.com/econviz/xplorts/internal/chart"
)

func newScatterCmd() *cobra.Command {
	var (
		opts   pageOpts
		values []string
		xvar   string
		yvar   string
	)
	cmd := &cobra.Command{
		Use:   "scatter <datafile>",
		Short: "Point chart of measures per period",
		Long: `Draws the measures as markers per date, one series per measure.
Markers leave gaps where data is missing instead of interpolating.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			datafile := args[0]
			horizontal := false
			switch {
			case yvar != "":
				opts.date = yvar
				horizontal = true
			case xvar != "":
				opts.date = xvar
			}

			ds, err := loadData(datafile)
			if err != nil {
				return err
			}
			if err := defaultVarnames(ds, &opts.date, &opts.by, &values); err != nil {
				return err
			}

			title := baseName(datafile)
			snip, err := chart.Scatter(ds, chart.ScatterConfig{
				Config:     chart.Config{Title: title},
				DateVar:    opts.date,
				By:         opts.by,
				Values:     values,
				Horizontal: horizontal,
			})
			if err != nil {
				return err
			}

			page, err := newPage(cmd, title, "")
			if err != nil {
				return err
			}
			page.Add(snip)
			if err := addFilterWidget(page, opts.by, opts.last, snip); err != nil {
				return err
			}
			return writePage(page, outputPath(datafile, opts.save), opts.show)
		},
	}
	addPageFlags(cmd, &opts)
	cmd.Flags().StringVarP(&xvar, "x", "x", "", "date column, drawn across the bottom")
	cmd.Flags().StringVarP(&yvar, "y", "y", "", "date column, drawn down the side")
	cmd.Flags().StringSliceVar(&values, "values", nil, "measure columns to draw as markers")
	cmd.MarkFlagsMutuallyExclusive("x", "y")
	return cmd
}
