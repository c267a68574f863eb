package cli

import (
	"github.com/spf13/cobra"

	"github.com/econviz/xplorts/internal/chart"
)

func newSnapCompCmd() *cobra.Command {
	var (
		opts    pageOpts
		bars    []string
		markers string
	)
	cmd := &cobra.Command{
		Use:   "snapcomp <datafile>",
		Short: "Snapshot of growth components across split levels",
		Long: `Draws, for one period at a time, the component measures as signed
horizontal bars stacked per split level, with the total overlaid as
markers. The widget steps through the periods; -L starts at the
latest one.`,
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
			if markers != "" {
				if err := ds.Require(markers); err != nil {
					return err
				}
			}
			// The last inferred column supplies the total when --markers
			// was not given.
			if markers == "" && len(bars) > 1 {
				markers = bars[len(bars)-1]
				bars = bars[:len(bars)-1]
			}

			title := baseName(datafile)
			snip, err := chart.SnapComp(ds, chart.SnapCompConfig{
				Config:  chart.Config{Title: title},
				DateVar: opts.date,
				By:      opts.by,
				Values:  bars,
				Total:   markers,
			})
			if err != nil {
				return err
			}

			page, err := newPage(cmd, title, "")
			if err != nil {
				return err
			}
			page.Add(snip)
			if err := addFilterWidget(page, opts.date, opts.last, snip); err != nil {
				return err
			}
			return writePage(page, outputPath(datafile, opts.save), opts.show)
		},
	}
	addPageFlags(cmd, &opts)
	cmd.Flags().StringSliceVar(&bars, "bars", nil, "component columns to stack")
	cmd.Flags().StringVar(&markers, "markers", "", "total column overlaid as markers")
	return cmd
}
