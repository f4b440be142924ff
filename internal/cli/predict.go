/*
PURPOSE:
  Defines the 'predict' subcommand.
  Fills the form from flags and/or a profile file, submits it once and
  optionally downloads the PDF report.

ARCHITECTURE INTEGRATION:
  - Calls: internal/form.Controller
  - Uses: internal/engine.Client, internal/config

ERROR HANDLING:
  - Controller alerts are printed; the command then exits non-zero with ErrReported.

USAGE:
  diabetes-check predict --set age=45,gender=Male,height=1.7,weight=80 ...
  diabetes-check predict -f patient.yaml --report
*/

package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/daryltucker/diabetes-check/internal/engine"
	"github.com/daryltucker/diabetes-check/internal/form"
)

var (
	fieldValues map[string]string
	profileFile string
	withReport  bool
	saveReport  bool
	skipProbe   bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Submit one patient profile and show the risk classification",
	Long: `Builds the prediction payload from the given fields, posts it to
/api/predict and prints the result. Height is in metres and weight in kg;
BMI is always derived from them.

Fields: age, gender (Male|Female), pulse_rate, systolic_bp, diastolic_bp,
glucose, height, weight, family_diabetes, hypertensive, family_hypertension,
cardiovascular_disease, stroke (Yes|No).`,
	Example: `  # Fields on the command line
  diabetes-check predict --set age=45,gender=Male,pulse_rate=80,systolic_bp=130,diastolic_bp=85 \
    --set glucose=7.2,height=1.70,weight=82,family_diabetes=Yes,hypertensive=No \
    --set family_hypertension=No,cardiovascular_disease=No,stroke=No

  # Fields from a file, then fetch the PDF report
  diabetes-check predict -f patient.yaml --report`,
	RunE: func(cmd *cobra.Command, args []string) error {
		values := map[string]string{}
		if profileFile != "" {
			p, err := engine.LoadProfile(profileFile)
			if err != nil {
				return err
			}
			values = p.Values()
		}
		for k, v := range fieldValues {
			values[k] = v
		}

		client := engine.New(cfg)
		ui := newTerminal(cmd, client)
		ctrl := form.NewController(client, ui, cfg.ReviewFields)

		if cfg.ProbeOnStart && !skipProbe {
			ctrl.Start(cmd.Context())
		}

		ctrl.SetAll(values)
		if err := ctrl.Submit(cmd.Context()); err != nil {
			return ErrReported
		}

		if withReport {
			if _, err := ctrl.DownloadReport(cmd.Context()); err != nil {
				return ErrReported
			}
		}
		return nil
	},
}

func newTerminal(cmd *cobra.Command, client *engine.Client) *terminal {
	t := &terminal{
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		color:  !noColor && isTerminal(cmd.OutOrStdout()),
	}
	if saveReport {
		t.fetcher = client
		t.reportDir = cfg.ReportDir
		if !filepath.IsAbs(t.reportDir) {
			t.reportDir = filepath.Join(cfg.OutputDir, t.reportDir)
		}
	}
	return t
}

func isTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

func init() {
	rootCmd.AddCommand(predictCmd)

	predictCmd.Flags().StringToStringVar(&fieldValues, "set", nil, "Comma-separated field=value pairs (repeatable)")
	predictCmd.Flags().StringVarP(&profileFile, "file", "f", "", "YAML file with the profile fields")
	predictCmd.Flags().BoolVar(&withReport, "report", false, "Request the PDF report after a successful prediction")
	predictCmd.Flags().BoolVar(&saveReport, "save-report", true, "Download the report PDF into the report directory")
	predictCmd.Flags().BoolVar(&skipProbe, "no-probe", false, "Skip the startup /health probe")
}
