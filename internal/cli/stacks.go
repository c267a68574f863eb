package cli

import (
	"github.com/spf13/cobra"

	"github.com/econviz/xplorts/internal/chart"
)

func newStacksCmd() *cobra.Command {
	var (
		opts pageOpts
		bars []string
		xvar string
		yvar string
	)
	cmd := &cobra.Command{
		Use:   "stacks <datafile>",
		Short: "Stacked bar chart of measures per period",
		Long: `Draws the measures as bars stacked per date. Positive and negative
values stack on opposite sides of the axis. -x puts the dates across
the bottom, -y down the side with horizontal bars.`,
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
			if err := defaultVarnames(ds, &opts.date, &opts.by, &bars); err != nil {
				return err
			}

			title := baseName(datafile)
			snip, err := chart.Stacks(ds, chart.StacksConfig{
				Config:     chart.Config{Title: title},
				DateVar:    opts.date,
				By:         opts.by,
				Values:     bars,
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
	cmd.Flags().StringSliceVar(&bars, "bars", nil, "measure columns to stack")
	cmd.MarkFlagsMutuallyExclusive("x", "y")
	return cmd
}
