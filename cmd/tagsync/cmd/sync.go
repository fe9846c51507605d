package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dataannex/tagsync/pkg/metadata"
	enginesync "github.com/dataannex/tagsync/pkg/sync"
)

func newSyncCmd() *cobra.Command {
	var (
		tables  []string
		dryRun  bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "sync <dataset>",
		Short: "Reconcile descriptions between both stores for a dataset",
		Long: `Sync reads every table in the dataset (or the tables given with --tables),
compares descriptions on both sides, and writes the missing or authoritative
value in the right direction.

The run is idempotent: running it twice against unchanged stores performs
zero writes on the second pass. A table that fails to read is reported and
skipped; the rest of the batch still runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			opts := []enginesync.RunOption{
				enginesync.WithDryRun(dryRun),
			}
			if len(tables) > 0 {
				opts = append(opts, enginesync.WithTables(tables...))
			}
			if workers == 0 {
				workers = config.Workers
			}
			if workers > 1 {
				opts = append(opts, enginesync.WithWorkers(workers))
			}

			report, err := client.Sync(cmd.Context(), metadata.DatasetRef(args[0]), opts...)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
			for i := range report.Tables {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+report.Tables[i].Summary())
			}

			if report.HasFailures() {
				return fmt.Errorf("sync completed with %d failures", len(report.Failures()))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tables, "tables", nil, "restrict the run to these table IDs")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be written without writing")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of tables to process concurrently")
	cmd.Flags().String("policy", "", "conflict policy: schema-authority (default) or tag-authority")

	return cmd
}
