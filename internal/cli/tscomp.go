package cli

import (
	"github.com/spf13/cobra"

	"github.com/econviz/xplorts/internal/chart"
)

func newTSCompCmd() *cobra.Command {
	var (
		opts pageOpts
		bars []string
		line string
	)
	cmd := &cobra.Command{
		Use:   "tscomp <datafile>",
		Short: "Time series of growth components with a total line",
		Long: `Draws the component measures as signed bars stacked per date with
the total drawn as a line on top. With a split factor the page shows
one level at a time.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			datafile := args[0]
			ds, err := loadData(datafile)
			if err != nil {
				return err
			}
			if err := defaultVarnames(ds, &opts.date, &opts.by, &bars); err != nil {
				return err
			}
			if line != "" {
				if err := ds.Require(line); err != nil {
					return err
				}
			}
			if line == "" && len(bars) > 1 {
				line = bars[len(bars)-1]
				bars = bars[:len(bars)-1]
			}

			title := baseName(datafile)
			snip, err := chart.TSComp(ds, chart.TSCompConfig{
				Config:  chart.Config{Title: title},
				DateVar: opts.date,
				By:      opts.by,
				Values:  bars,
				Total:   line,
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
	cmd.Flags().StringSliceVar(&bars, "bars", nil, "component columns to stack")
	cmd.Flags().StringVar(&line, "line", "", "total column drawn as a line")
	return cmd
}
