/*
PURPOSE:
  Defines the 'logs' subcommand.
  Shows the backend's recent prediction history and optionally exports it.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Client.Logs()
  - Uses: internal/output (CSV / JSON Lines writers)

USAGE:
  diabetes-check logs --limit 10
  diabetes-check logs --csv history.csv --jsonl history.jsonl
*/

package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/daryltucker/diabetes-check/internal/engine"
	"github.com/daryltucker/diabetes-check/internal/output"
)

var (
	logsLimit int
	logsCSV   string
	logsJSONL string
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "List recent predictions recorded by the backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := engine.New(cfg)
		res, err := c.Logs(cmd.Context())
		if err != nil {
			return err
		}
		if !res.Success {
			return fmt.Errorf("backend refused logs: %s", res.Error)
		}

		if logsCSV != "" {
			if err := output.WriteLogs(logsCSV, res.Logs); err != nil {
				return fmt.Errorf("failed to write %s: %w", logsCSV, err)
			}
			output.Logger.Info("Logs exported", "path", logsCSV, "rows", len(res.Logs))
		}
		if logsJSONL != "" {
			if err := writeJSONLines(logsJSONL, res.Logs); err != nil {
				return fmt.Errorf("failed to write %s: %w", logsJSONL, err)
			}
			output.Logger.Info("Logs exported", "path", logsJSONL, "rows", len(res.Logs))
		}

		rows := res.Logs
		if logsLimit > 0 && len(rows) > logsLimit {
			rows = rows[:logsLimit]
		}
		if len(rows) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No predictions recorded yet.")
			return nil
		}

		header := output.LogHeader(rows)
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.ToUpper(strings.Join(header, "\t")))
		for _, row := range rows {
			fmt.Fprintln(tw, strings.Join(output.LogRecord(header, row), "\t"))
		}
		return tw.Flush()
	},
}

func writeJSONLines(path string, rows []map[string]interface{}) error {
	w, err := output.NewJSONWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", 20, "Maximum rows to print (0 for all)")
	logsCmd.Flags().StringVar(&logsCSV, "csv", "", "Export all rows to this CSV file")
	logsCmd.Flags().StringVar(&logsJSONL, "jsonl", "", "Export all rows to this JSON Lines file")
}
