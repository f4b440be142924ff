/*
PURPOSE:
  Defines the 'model-info' subcommand.
  Helps debug connectivity and shows which model the backend serves.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Client.ModelInfo()

ERROR HANDLING:
  - Prints error if the URL is incorrect.

USAGE:
  diabetes-check model-info --base-url http://localhost:8000
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/daryltucker/diabetes-check/internal/engine"
)

var modelInfoCmd = &cobra.Command{
	Use:   "model-info",
	Short: "Show metadata of the model served by the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := engine.New(cfg)

		fmt.Fprintf(cmd.ErrOrStderr(), "Querying %s...\n", c.BaseURL)
		info, err := c.ModelInfo(cmd.Context())
		if err != nil {
			return err
		}
		if len(info) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No model metadata published.")
			return nil
		}

		out, err := yaml.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to format model info: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(modelInfoCmd)
}
