// Package cli wires the xplorts subcommands: each chart family is one
// cobra command that reads a data file, derives growth statistics and
// writes a standalone HTML page.
package cli

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/econviz/xplorts/internal/chart"
)

var log = logrus.New()

// NewRootCmd builds the xplorts command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "xplorts",
		Short: "Explore time series datasets as standalone HTML charts",
		Long: `xplorts turns a CSV or XLSX file of time series data into a
standalone HTML page of interactive charts. The page works offline;
its select and slider widgets filter the data entirely client-side.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}

	root.PersistentFlags().String("assets", chart.DefaultAssetsHost,
		"base URL serving echarts.min.js")
	root.PersistentFlags().String("inline-js", "",
		"path to a local echarts.min.js to embed for fully offline pages")
	root.PersistentFlags().String("store", "xplorts-vintages.sqlite3",
		"path of the vintage archive database")
	root.PersistentFlags().BoolP("verbose", "v", false, "debug logging")

	viper.SetEnvPrefix("xplorts")
	viper.AutomaticEnv()
	for _, name := range []string{"assets", "store"} {
		if err := viper.BindPFlag(name, root.PersistentFlags().Lookup(name)); err != nil {
			log.WithError(err).Fatalf("binding %s flag", name)
		}
	}

	root.AddCommand(
		newLinesCmd(),
		newStacksCmd(),
		newScatterCmd(),
		newHeatmapCmd(),
		newSnapCompCmd(),
		newTSCompCmd(),
		newDblProdCmd(),
		newDiffCmd(),
		newVintageCmd(),
	)
	return root
}

// Execute runs the CLI, exiting non-zero on any failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
