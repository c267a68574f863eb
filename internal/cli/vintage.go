package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/econviz/xplorts/internal/vintage"
)

func newVintageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vintage",
		Short: "Archive dataset snapshots for revision charts",
		Long: `Keeps named snapshots of datasets in a local sqlite archive so that
"xplorts diff --original <name>" can chart revisions without the
earlier file. The archive path comes from --store or XPLORTS_STORE.`,
	}
	cmd.AddCommand(newVintageAddCmd(), newVintageListCmd(), newVintageExportCmd())
	return cmd
}

func openStore() (*vintage.Store, error) {
	return vintage.Open(viper.GetString("store"))
}

func newVintageAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <datafile>",
		Short: "Archive a dataset under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadData(args[1])
			if err != nil {
				return err
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Add(context.Background(), args[0], ds); err != nil {
				return err
			}
			log.WithFields(map[string]interface{}{
				"name": args[0],
				"rows": ds.Len(),
			}).Info("archived snapshot")
			return nil
		},
	}
}

func newVintageListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			infos, err := store.List(context.Background())
			if err != nil {
				return err
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d rows\n",
					info.Name, info.StoredAt.Format("2006-01-02 15:04"), info.Rows)
			}
			return nil
		},
	}
}

func newVintageExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <name>",
		Short: "Print an archived snapshot as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			csv, err := store.Export(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), csv)
			return nil
		},
	}
}
