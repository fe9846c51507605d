package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dataannex/tagsync/pkg/metadata"
)

func newUploadCmd() *cobra.Command {
	var syncAfter bool

	cmd := &cobra.Command{
		Use:   "upload <dataset> <file.xlsx>",
		Short: "Import an edited .xlsx workbook into the schema store",
		Long: `Upload reads descriptions from an edited workbook and applies them to the
schema store. Empty cells never clobber existing descriptions, and rows for
tables or fields no longer in the schema are skipped with a warning.

With --sync the dataset is reconciled immediately afterwards, propagating
the imported descriptions to the tag store.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			dataset := metadata.DatasetRef(args[0])
			result, err := client.Upload(cmd.Context(), dataset, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Summary())

			if !syncAfter {
				return nil
			}

			report, err := client.Sync(cmd.Context(), dataset)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Summary())
			if report.HasFailures() {
				return fmt.Errorf("sync completed with %d failures", len(report.Failures()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&syncAfter, "sync", false, "reconcile the dataset after the import")
	cmd.Flags().String("policy", "", "conflict policy: schema-authority (default) or tag-authority")

	return cmd
}
