/*
PURPOSE:
  Defines the 'batch' subcommand.
  Scores every profile of a YAML file against the backend.

REQUIREMENTS:
  User-specified:
  - Score many profiles without re-typing them.
  - Results saved to CSV and JSON Lines.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.RunBatch()
  - Uses: internal/config

ERROR HANDLING:
  - Per-profile failures are recorded in the results; the command fails
    only when the file cannot be read or the outputs cannot be written.

USAGE:
  diabetes-check batch profiles.yaml -o ./results
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/diabetes-check/internal/engine"
)

var batchOutputDir string

var batchCmd = &cobra.Command{
	Use:   "batch <profiles.yaml>",
	Short: "Score every profile in a YAML file",
	Long: `Reads a list of profiles and submits each one to /api/predict, one at a
time. Every profile goes through the same validation and normalization as
the interactive form. Failed profiles are logged and recorded, then the run
continues. Results are written to batch_results.csv and batch_results.jsonl.`,
	Example: `  # profiles.yaml
  # profiles:
  #   - name: patient-1
  #     fields: {age: 45, gender: Male, height: 1.70, weight: 82, ...}

  diabetes-check batch profiles.yaml -o ./results`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if batchOutputDir != "" {
			cfg.OutputDir = batchOutputDir
		}

		results, err := engine.RunBatch(cmd.Context(), cfg, args[0])
		if err != nil {
			return err
		}

		failed := 0
		for _, r := range results {
			if r.Error != "" {
				failed++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scored %d profiles (%d failed), results in %s\n",
			len(results), failed, cfg.OutputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", "", "Output directory for results (CSV/JSON)")
}
