package cli

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/econviz/xplorts/internal/chart"
	"github.com/econviz/xplorts/internal/growth"
)

func newDblProdCmd() *cobra.Command {
	var (
		opts   pageOpts
		lprod  string
		gva    string
		labour string
	)
	cmd := &cobra.Command{
		Use:   "dblprod <datafile>",
		Short: "Labour productivity dashboard",
		Long: `Builds a four-panel labour productivity page: the levels as lines,
cumulative growth of productivity decomposed into output and labour
contributions, a one-period growth snapshot across split levels, and
a heatmap of productivity growth. Productivity growth decomposes as
output growth minus labour growth, so the labour bars carry a
reversed sign. Columns default positionally: date, split factor,
productivity, output, labour.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			datafile := args[0]
			ds, err := loadData(datafile)
			if err != nil {
				return err
			}

			var values []string
			for _, v := range []string{lprod, gva, labour} {
				if v != "" {
					values = append(values, v)
				}
			}
			if err := defaultVarnames(ds, &opts.date, &opts.by, &values); err != nil {
				return err
			}
			if len(values) != 3 {
				return errors.Errorf(
					"dblprod needs productivity, output and labour columns, got %v", values)
			}
			if lprod == "" || gva == "" || labour == "" {
				lprod, gva, labour = values[0], values[1], values[2]
			}

			components := []growth.Component{
				growth.Col(lprod),
				growth.Col(gva),
				growth.SignReversed(labour),
			}
			labourRev := growth.SignReversed(labour).OutName()

			cum, err := growth.Growth(ds, growth.Options{
				Columns:  components,
				DateVar:  opts.date,
				By:       opts.by,
				Baseline: growth.Baseline{First: true},
			})
			if err != nil {
				return err
			}
			pop, err := growth.Growth(ds, growth.Options{
				Columns: components,
				DateVar: opts.date,
				By:      opts.by,
			})
			if err != nil {
				return err
			}

			title := baseName(datafile)
			levels, err := chart.Lines(ds, chart.LinesConfig{
				Config:  chart.Config{Title: "Levels"},
				DateVar: opts.date,
				By:      opts.by,
				Values:  []string{lprod, gva, labour},
			})
			if err != nil {
				return err
			}
			cumComp, err := chart.TSComp(cum, chart.TSCompConfig{
				Config:  chart.Config{Title: "Cumulative growth", Subtitle: "percent since first period"},
				DateVar: opts.date,
				By:      opts.by,
				Values:  []string{gva, labourRev},
				Total:   lprod,
			})
			if err != nil {
				return err
			}
			snap, err := chart.SnapComp(pop, chart.SnapCompConfig{
				Config:  chart.Config{Title: "Growth snapshot", Subtitle: "percent on previous period"},
				DateVar: opts.date,
				By:      opts.by,
				Values:  []string{gva, labourRev},
				Total:   lprod,
			})
			if err != nil {
				return err
			}
			heat, err := chart.Heatmap(pop, chart.HeatmapConfig{
				Config:    chart.Config{Title: "Productivity growth", Subtitle: "percent on previous period"},
				DateVar:   opts.date,
				By:        opts.by,
				Value:     lprod,
				Symmetric: true,
			})
			if err != nil {
				return err
			}

			page, err := newPage(cmd, title, "labour productivity dashboard")
			if err != nil {
				return err
			}
			page.Add(levels, cumComp, snap, heat)
			if err := addFilterWidget(page, opts.by, false, levels, cumComp); err != nil {
				return err
			}
			if err := addFilterWidget(page, opts.date, opts.last, snap); err != nil {
				return err
			}
			return writePage(page, outputPath(datafile, opts.save), opts.show)
		},
	}
	addPageFlags(cmd, &opts)
	cmd.Flags().StringVar(&lprod, "lprod", "", "labour productivity column")
	cmd.Flags().StringVar(&gva, "gva", "", "output (gross value added) column")
	cmd.Flags().StringVar(&labour, "labour", "", "labour input column")
	return cmd
}
