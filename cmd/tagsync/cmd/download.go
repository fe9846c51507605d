package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dataannex/tagsync/pkg/metadata"
)

func newDownloadCmd() *cobra.Command {
	var tables []string

	cmd := &cobra.Command{
		Use:   "download <dataset> <file.xlsx>",
		Short: "Export a dataset's descriptions to an .xlsx workbook",
		Long: `Download writes the dataset's current schema-side descriptions to an
Excel workbook: an overview sheet listing every table and one sheet per
table listing its fields. Edit the workbook and feed it back with upload.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			if err := client.Download(cmd.Context(), metadata.DatasetRef(args[0]), args[1], tables...); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&tables, "tables", nil, "restrict the export to these table IDs")
	cmd.Flags().String("policy", "", "conflict policy: schema-authority (default) or tag-authority")

	return cmd
}
