/*
PURPOSE:
  Defines the 'init' subcommand.
  Writes a config file holding the defaults, ready to edit.

ERROR HANDLING:
  - Refuses to overwrite an existing file unless --force is given.

USAGE:
  diabetes-check init
  diabetes-check init ./diabetes.yaml --force
*/

package cli

import (
	"github.com/spf13/cobra"

	"github.com/daryltucker/diabetes-check/internal/config"
	"github.com/daryltucker/diabetes-check/internal/output"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:               "init [path]",
	Short:             "Write a default configuration file",
	Args:              cobra.MaximumNArgs(1),
	// Defaults only; an existing config must not leak into the new file.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultFiles[0]
		if len(args) == 1 {
			path = args[0]
		}

		def := config.DefaultConfig()
		if baseURLOverride != "" {
			def.BaseURL = baseURLOverride
		}
		if err := config.Write(def, path, forceInit); err != nil {
			return err
		}
		output.Logger.Info("Configuration written", "path", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")
}
