package main

import (
	"github.com/spf13/cobra"
)

func newBuildCmd(f *cliFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a table over the base set and report construction time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, progressWriter(cmd, f), cmd.OutOrStdout(), false)
		},
	}
	addDatasetFlags(cmd.Flags(), f)
	addTableFlags(cmd.Flags(), f)
	return cmd
}
