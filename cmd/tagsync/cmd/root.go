// Package cmd implements the tagsync command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dataannex/tagsync"
	"github.com/dataannex/tagsync/pkg/errors"
	"github.com/dataannex/tagsync/pkg/logging"
	"github.com/dataannex/tagsync/pkg/reconciler"
	"github.com/dataannex/tagsync/pkg/stores"
	"github.com/dataannex/tagsync/pkg/stores/yamlstore"
)

var (
	cfgFile string
	config  *Config
)

// Execute parses arguments and runs the selected command.
func Execute(ctx context.Context, version, commit, date string) error {
	root := newRootCmd(version, commit, date)
	if err := root.ExecuteContext(ctx); err != nil {
		logging.Err(err).Msg("Command failed")
		return err
	}
	return nil
}

func newRootCmd(version, commit, date string) *cobra.Command {
	root := &cobra.Command{
		Use:   "tagsync",
		Short: "Synchronize descriptions between a schema store and a tag store",
		Long: `tagsync keeps table and field descriptions consistent between a
schema store and a tag store.

It reads both sides, computes the drift per entity, and pushes the missing
or authoritative value in the right direction. Tags are created on first
sync and updated in place thereafter; deletions are never propagated.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			config, err = LoadConfig(cfgFile)
			if err != nil {
				return err
			}
			setupLogging(cmd)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tagsync.yaml)")
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")
	root.PersistentFlags().Bool("quiet", false, "log warnings and errors only")
	root.PersistentFlags().String("store", "", "path to the YAML store file")
	root.PersistentFlags().String("table-template", "", "tag template ID for table-level tags")
	root.PersistentFlags().String("field-template", "", "tag template ID for field-level tags")

	root.AddCommand(newSyncCmd())
	root.AddCommand(newDownloadCmd())
	root.AddCommand(newUploadCmd())

	return root
}

func setupLogging(cmd *cobra.Command) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		config.Verbose = true
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		config.Quiet = true
	}

	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(config.LogLevel); err == nil {
		level = parsed
	}
	if config.Verbose {
		level = zerolog.DebugLevel
	}
	if config.Quiet {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.LogFormat == "json" {
		logging.SetDefault(logging.New(os.Stderr).Level(level))
		return
	}
	logging.SetDefault(logging.NewConsole().Level(level))
}

// newClient assembles a Tagsync instance from flags and config.
func newClient(cmd *cobra.Command) (tagsync.Tagsync, error) {
	storePath := config.StorePath
	if flag, _ := cmd.Flags().GetString("store"); flag != "" {
		storePath = flag
	}

	store, err := yamlstore.Open(storePath)
	if err != nil {
		return nil, err
	}

	templates := stores.Templates{
		Table: stores.TemplateID(config.TableTemplate),
		Field: stores.TemplateID(config.FieldTemplate),
	}
	if flag, _ := cmd.Flags().GetString("table-template"); flag != "" {
		templates.Table = stores.TemplateID(flag)
	}
	if flag, _ := cmd.Flags().GetString("field-template"); flag != "" {
		templates.Field = stores.TemplateID(flag)
	}

	policy, err := resolvePolicy(cmd)
	if err != nil {
		return nil, err
	}

	return tagsync.New(
		tagsync.WithStore(store),
		tagsync.WithTemplates(templates),
		tagsync.WithPolicy(policy),
	)
}

// resolvePolicy picks the conflict policy: the flag when set, the config
// otherwise, schema authority when neither says anything.
func resolvePolicy(cmd *cobra.Command) (reconciler.Policy, error) {
	name := config.Policy
	if flag, err := cmd.Flags().GetString("policy"); err == nil && flag != "" {
		name = flag
	}

	policy, ok := reconciler.PolicyFromType(reconciler.PolicyType(name))
	if !ok {
		return nil, &errors.ValidationError{
			Field:   "policy",
			Value:   name,
			Message: "must be schema-authority or tag-authority",
		}
	}
	return policy, nil
}
