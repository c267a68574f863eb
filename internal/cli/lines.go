package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/econviz/xplorts/internal/chart"
)

func newLinesCmd() *cobra.Command {
	var (
		opts  pageOpts
		lines []string
		png   string
	)
	cmd := &cobra.Command{
		Use:   "lines <datafile>",
		Short: "Line chart of time series, one line per measure",
		Long: `Draws each measure as a line against the date axis. With a split
factor the page shows one level at a time, stepped by a select and
slider pair. Columns default positionally: first the date, then the
split factor, then the measures.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			datafile := args[0]
			ds, err := loadData(datafile)
			if err != nil {
				return err
			}
			if err := defaultVarnames(ds, &opts.date, &opts.by, &lines); err != nil {
				return err
			}

			title := baseName(datafile)
			snip, err := chart.Lines(ds, chart.LinesConfig{
				Config:  chart.Config{Title: title},
				DateVar: opts.date,
				By:      opts.by,
				Values:  lines,
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

			if png != "" {
				levels, err := ds.Levels(opts.by)
				if err != nil {
					return err
				}
				if len(levels) == 0 {
					return errors.Errorf("no %s levels to plot", opts.by)
				}
				cfg := chart.StaticConfig{
					Title:   title,
					DateVar: opts.date,
					By:      opts.by,
					Level:   levels[0],
					Values:  lines,
				}
				if err := chart.SaveStaticPNG(ds, cfg, png); err != nil {
					return err
				}
				log.WithField("file", png).Info("wrote static chart")
			}

			return writePage(page, outputPath(datafile, opts.save), opts.show)
		},
	}
	addPageFlags(cmd, &opts)
	cmd.Flags().StringSliceVar(&lines, "lines", nil, "measure columns to draw as lines")
	cmd.Flags().StringVar(&png, "png", "", "also write a static PNG rendition to this path")
	return cmd
}
