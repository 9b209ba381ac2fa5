package cmd

import (
	"fmt"

	"github.com/blacktop/posterino/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the credentials file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the credentials file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := opts.store(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.Path())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a credentials template if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := opts.store(cmd)
			if err != nil {
				return err
			}
			created, err := store.Init()
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", store.Path())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", store.Path())
			}
			return nil
		},
	})

	return cmd
}

func (o *rootOptions) store(cmd *cobra.Command) (*config.Store, error) {
	settings, err := o.settings(cmd)
	if err != nil {
		return nil, err
	}
	return config.NewStore(settings.ConfigPath)
}
