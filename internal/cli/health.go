/*
PURPOSE:
  Defines the 'health' subcommand.

USAGE:
  diabetes-check health --base-url http://localhost:8000
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/diabetes-check/internal/engine"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the prediction backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := engine.New(cfg)
		st, err := c.CheckConnection(cmd.Context())
		if err != nil {
			return fmt.Errorf("backend %s unreachable: %w", c.BaseURL, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", c.BaseURL, st.Status)
		if st.Message != "" {
			fmt.Fprintln(cmd.OutOrStdout(), st.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
