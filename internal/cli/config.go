package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/treykane/pass-tui/internal/config"
)

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	cmd.AddCommand(newConfigPathCmd(opts), newConfigInitCmd(opts))
	return cmd
}

func configPath(opts *options) string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return config.ConfigPath()
}

func newConfigPathCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			writeLine(cmd.OutOrStdout(), configPath(opts))
		},
	}
}

func newConfigInitCmd(opts *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(opts)
			exists, err := config.Exists(path)
			if err != nil {
				return err
			}
			if exists && !force {
				return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
			}
			cfg := config.Default()
			if opts.storeDir != "" {
				cfg.StoreDir = opts.storeDir
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			writeLine(cmd.OutOrStdout(), "Wrote "+path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
