/*
PURPOSE:
  Defines the root Cobra command for the diabetes-check CLI.
  Handles global flags, configuration loading and logger setup.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config and --base-url.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Failures already shown to the user must not be printed twice.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/diabetes-check/main.go
  - Calls: Child commands (predict, interactive, batch, health, logs, model-info, init)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands.

USAGE:
  Called by main.go.

RELATED FILES:
  - cmd/diabetes-check/main.go
*/

package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/diabetes-check/internal/config"
	"github.com/daryltucker/diabetes-check/internal/output"
)

// ErrReported marks a failure that was already alerted to the user.
var ErrReported = errors.New("action failed")

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile string

	baseURLOverride string
	verbose         bool
	noColor         bool

	// cfg is loaded once per invocation by PersistentPreRunE.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "diabetes-check",
		Short: "Terminal client for the diabetes risk prediction service",
		Long: `Collects a patient profile, derives BMI, asks the prediction backend for a
diabetes risk classification and downloads the PDF report.
Use 'predict --help' or 'interactive --help' to get started.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}
)

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./diabetes_check.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURLOverride, "base-url", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if baseURLOverride != "" {
		loaded.BaseURL = baseURLOverride
	}
	if verbose {
		loaded.LogLevel = "debug"
	}
	output.Configure(os.Stderr, loaded.LogLevel, loaded.LogFormat)
	output.Logger.Debug("Configuration loaded", "base_url", loaded.BaseURL, "timeout", loaded.RequestTimeout)

	cfg = loaded
	return nil
}
