/*
PURPOSE:
  Terminal presenter for the prediction form.
  Prints busy lines, the result card with factor bars and alerts, and
  hands report links to the user (printing them and saving the PDF).

ARCHITECTURE INTEGRATION:
  - Implements: internal/form.UI
  - Used by: predict.go, interactive.go
  - Uses: internal/output.SaveReport

IMPLEMENTATION RULES:
  - Results go to out, busy lines and alerts to errOut.
  - ANSI colors only when out is a terminal and --no-color is unset.

USAGE:
  ui := newTerminal(cmd, client)
  ctrl := form.NewController(client, ui, cfg.ReviewFields)
*/

package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/daryltucker/diabetes-check/internal/form"
	"github.com/daryltucker/diabetes-check/internal/output"
)

const (
	barWidth  = 20
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// terminal renders the form's results on a text stream.
type terminal struct {
	out, errOut io.Writer
	color       bool

	fetcher   output.Fetcher // nil disables saving reports
	reportDir string
}

var _ form.UI = (*terminal)(nil)

func (t *terminal) paint(code, s string) string {
	if !t.color {
		return s
	}
	return code + s + ansiReset
}

func (t *terminal) colorFor(v form.View) string {
	if v.Color == form.ColorAlert {
		return ansiRed
	}
	return ansiGreen
}

func (t *terminal) SetBusy(action form.State, busy bool) {
	if !busy {
		return
	}
	switch action {
	case form.Submitting:
		fmt.Fprintln(t.errOut, "⏳ Processing...")
	case form.Downloading:
		fmt.Fprintln(t.errOut, "⏳ Downloading...")
	}
}

func (t *terminal) ShowResult(v form.View) {
	c := t.colorFor(v)
	w := t.out

	fmt.Fprintln(w, strings.Repeat("─", 48))
	fmt.Fprintf(w, " %s\n", t.paint(ansiBold+c, v.Headline))
	fmt.Fprintf(w, " Risk level   %s\n", t.paint(c, v.RiskLevel))
	fmt.Fprintf(w, " Probability  %s\n", t.paint(c, v.Probability))
	if v.HasModel {
		fmt.Fprintf(w, " Model        %s (accuracy %s)\n", v.ModelName, v.ModelAcc)
	}

	if len(v.Review) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, " Submitted values")
		for _, item := range v.Review {
			fmt.Fprintf(w, "   %-14s %s\n", item.Name, item.Value)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, " Key factors")
	if v.Placeholder != "" {
		fmt.Fprintf(w, "   %s\n", v.Placeholder)
	}
	for _, f := range v.Features {
		fmt.Fprintf(w, "   %-24s %s %s%%\n", f.Name, t.paint(c, bar(f.Width)), trimFloat(f.Value))
	}
	fmt.Fprintln(w, strings.Repeat("─", 48))
}

// bar draws a barWidth-wide gauge filled to pct percent.
func bar(pct float64) string {
	filled := int(math.Round(pct / 100 * barWidth))
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func trimFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}

// HideResult is a no-op: printed output cannot be withdrawn, and the next
// result is printed below the previous one.
func (t *terminal) HideResult() {}

func (t *terminal) ScrollTop() {
	fmt.Fprintln(t.out)
}

func (t *terminal) Alert(msg string) {
	fmt.Fprintln(t.errOut, t.paint(ansiRed, "✖ "+msg))
}

func (t *terminal) Open(ctx context.Context, url string) error {
	fmt.Fprintf(t.out, "Report: %s\n", url)
	if t.fetcher == nil {
		return nil
	}
	path, err := output.SaveReport(ctx, t.fetcher, url, t.reportDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(t.out, "Saved to %s\n", path)
	return nil
}
