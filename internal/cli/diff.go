package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/econviz/xplorts/internal/chart"
	"github.com/econviz/xplorts/internal/dataset"
	"github.com/econviz/xplorts/internal/growth"
	"github.com/econviz/xplorts/internal/vintage"
)

func newDiffCmd() *cobra.Command {
	var (
		opts         pageOpts
		levels       []string
		indexes      []string
		originalName string
	)
	cmd := &cobra.Command{
		Use:   "diff <from-file> <to-file>",
		Short: "Chart revisions between two data vintages",
		Long: `Compares a dataset against an earlier vintage of itself and charts
the revisions in three sections: levels, period growth and cumulative
growth. Each section pairs a signed heatmap with a magnitude heatmap
per measure. Level measures compare directly; index measures only
through their growth. With --original the earlier vintage comes from
the vintage archive instead of a file:

  xplorts diff --original 2026-01 current.csv`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				current  *dataset.Dataset
				original *dataset.Dataset
				fromName string
				err      error
			)
			datafile := args[len(args)-1]
			if originalName != "" {
				if len(args) != 1 {
					return fmt.Errorf("--original replaces the from-file argument")
				}
				store, err := vintage.Open(viper.GetString("store"))
				if err != nil {
					return err
				}
				defer store.Close()
				if original, err = store.Get(context.Background(), originalName); err != nil {
					return err
				}
				fromName = originalName
			} else {
				if len(args) != 2 {
					return fmt.Errorf("diff needs a from-file and a to-file, or --original")
				}
				if original, err = loadData(args[0]); err != nil {
					return err
				}
				fromName = baseName(args[0])
			}
			if current, err = loadData(datafile); err != nil {
				return err
			}

			combined := append(append([]string(nil), levels...), indexes...)
			if err := defaultVarnames(current, &opts.date, &opts.by, &combined); err != nil {
				return err
			}
			if len(levels) == 0 && len(indexes) == 0 {
				levels = combined
			}

			r, err := growth.NewRevisedTS(current, original, opts.date, opts.by, levels, indexes)
			if err != nil {
				return err
			}

			title := fmt.Sprintf("Revisions: %s vs %s", baseName(datafile), fromName)
			page, err := newPage(cmd, title, "")
			if err != nil {
				return err
			}

			if len(r.Levels) > 0 {
				rev, err := r.Revisions(growth.RelPct)
				if err != nil {
					return err
				}
				if err := addRevisionSection(page, "lvl", "Revisions to levels",
					"percent", rev, r.Levels, opts); err != nil {
					return err
				}
			}

			g, err := r.CalcGrowth(growth.Baseline{})
			if err != nil {
				return err
			}
			grev, err := g.Revisions(growth.Diff)
			if err != nil {
				return err
			}
			if err := addRevisionSection(page, "gro", "Revisions to growth",
				"percentage points", grev, g.Growths, opts); err != nil {
				return err
			}

			gc, err := r.CalcGrowth(growth.Baseline{First: true})
			if err != nil {
				return err
			}
			gcrev, err := gc.Revisions(growth.Diff)
			if err != nil {
				return err
			}
			if err := addRevisionSection(page, "cum", "Revisions to cumulative growth",
				"percentage points", gcrev, gc.Growths, opts); err != nil {
				return err
			}

			return writePage(page, outputPath(datafile, opts.save), opts.show)
		},
	}
	addPageFlags(cmd, &opts)
	cmd.Flags().StringSliceVar(&levels, "levels", nil, "measure columns comparable across vintages")
	cmd.Flags().StringSliceVar(&indexes, "indexes", nil, "measure columns only comparable through growth")
	cmd.Flags().StringVar(&originalName, "original", "", "archived vintage to compare against")
	return cmd
}

// addRevisionSection charts one revision dataset: per measure, a signed
// heatmap next to a magnitude heatmap, with a measure selector when
// there is more than one measure.
func addRevisionSection(page *chart.Page, tag, heading, unit string,
	rev *dataset.Dataset, measures []string, opts pageOpts) error {

	abs, err := growth.AbsValues(rev, measures)
	if err != nil {
		return err
	}

	var containers []string
	for i, m := range measures {
		signed, err := chart.Heatmap(rev, chart.HeatmapConfig{
			Config:    chart.Config{Title: m, Subtitle: unit},
			DateVar:   opts.date,
			By:        opts.by,
			Value:     m,
			Symmetric: true,
		})
		if err != nil {
			return err
		}
		magnitude, err := chart.Heatmap(abs, chart.HeatmapConfig{
			Config:  chart.Config{Title: m + " magnitude", Subtitle: "absolute " + unit},
			DateVar: opts.date,
			By:      opts.by,
			Value:   m,
		})
		if err != nil {
			return err
		}
		id := fmt.Sprintf("%s_%d", tag, i)
		containers = append(containers, id)
		page.AddHTML(chart.Section(id, heading, signed, magnitude))
	}

	if len(measures) > 1 {
		w := chart.NewSlideSelect(heading, measures)
		if err := w.LinkVisibility(containers); err != nil {
			return err
		}
		if err := page.AddWidget(w); err != nil {
			return err
		}
	}
	return nil
}
