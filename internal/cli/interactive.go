/*
PURPOSE:
  Defines the 'interactive' subcommand (alias 'form').
  Prompts for each field, submits, then offers a pdf/new/edit/quit menu.

ERROR HANDLING:
  - Alerts are printed and the user gets the form back with its values.
  - EOF on stdin ends the session cleanly.
  - A cancelled context (Ctrl-C) ends the session with the context error.

USAGE:
  diabetes-check interactive
  diabetes-check form --no-probe
*/

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daryltucker/diabetes-check/internal/engine"
	"github.com/daryltucker/diabetes-check/internal/form"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"form"},
	Short:   "Fill in the prediction form field by field",
	Long: `Prompts for every field of the prediction form, submits it and shows the
result. Afterwards you can download the PDF report, start over with an empty
form, or quit. Press Enter to keep the value shown in brackets.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := engine.New(cfg)
		ui := newTerminal(cmd, client)
		ctrl := form.NewController(client, ui, cfg.ReviewFields)

		if cfg.ProbeOnStart && !skipProbe {
			ctrl.Start(cmd.Context())
		}

		s := &session{
			ctx:  cmd.Context(),
			in:   bufio.NewReader(cmd.InOrStdin()),
			out:  cmd.OutOrStdout(),
			ctrl: ctrl,
		}
		err := s.loop()
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	},
}

// session is one interactive run over a controller.
type session struct {
	ctx  context.Context
	in   *bufio.Reader
	out  io.Writer
	ctrl *form.Controller
}

func (s *session) loop() error {
	for {
		if err := s.fill(); err != nil {
			return err
		}
		if err := s.ctrl.Submit(s.ctx); err != nil {
			if cerr := s.ctx.Err(); cerr != nil {
				return cerr
			}
			// The form keeps its values; let the user fix them.
			continue
		}

		for done := false; !done; {
			choice, err := s.prompt("[p]df report, [n]ew form, [e]dit, [q]uit", "q")
			if err != nil {
				return err
			}
			switch strings.ToLower(choice) {
			case "p", "pdf":
				if _, err := s.ctrl.DownloadReport(s.ctx); err != nil && s.ctx.Err() != nil {
					return s.ctx.Err()
				}
			case "n", "new":
				s.ctrl.Reset()
				done = true
			case "e", "edit":
				done = true
			case "q", "quit":
				return nil
			default:
				fmt.Fprintf(s.out, "unknown choice %q\n", choice)
			}
		}
	}
}

// fill prompts for every editable field, keeping the current value on Enter.
func (s *session) fill() error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	for _, fd := range form.Fields {
		if fd.Kind == form.Derived {
			continue
		}
		label := fd.Label
		if len(fd.Options) > 0 {
			label = fmt.Sprintf("%s (%s)", label, strings.Join(fd.Options, "/"))
		}
		v, err := s.prompt(label, s.ctrl.Value(fd.Name))
		if err != nil {
			return err
		}
		s.ctrl.Set(fd.Name, v)
	}
	if bmi := s.ctrl.Value("bmi"); bmi != "" {
		fmt.Fprintf(s.out, "BMI: %s\n", bmi)
	}
	return nil
}

func (s *session) prompt(label, current string) (string, error) {
	if current != "" {
		fmt.Fprintf(s.out, "%s [%s]: ", label, current)
	} else {
		fmt.Fprintf(s.out, "%s: ", label)
	}
	line, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current, nil
	}
	return line, nil
}

func init() {
	rootCmd.AddCommand(interactiveCmd)

	interactiveCmd.Flags().BoolVar(&saveReport, "save-report", true, "Download report PDFs into the report directory")
	interactiveCmd.Flags().BoolVar(&skipProbe, "no-probe", false, "Skip the startup /health probe")
}
