/*
PURPOSE:
  Drives the prediction form: validation, submission, result rendering,
  report download and reset.

REQUIREMENTS:
  User-specified:
  - BMI follows height/weight on every edit.
  - The submit and report controls are disabled while a call is in flight.
  - Failures become user-visible alerts; the form stays usable.

  Implementation-discovered:
  - The last prediction must survive until the report is requested.
  - Only one action may be in flight per controller.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/engine (through Predictor), internal/output (through UI)

ERROR HANDLING:
  - Every failure is alerted through the UI and also returned so the
    caller can pick an exit status.
  - No retries.

IMPLEMENTATION RULES:
  - Each action is one guarded transition out of Idle; the deferred
    restore always returns to Idle.
  - No package-level state.

RELATED FILES:
  - internal/form/view.go
  - internal/cli/terminal.go
*/

package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/daryltucker/diabetes-check/internal/model"
	"github.com/daryltucker/diabetes-check/internal/output"
)

// State is the controller's UI state.
type State int

const (
	Idle State = iota
	Submitting
	Downloading
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Downloading:
		return "downloading"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	// ErrBusy is returned when an action is triggered while another is in flight.
	ErrBusy = errors.New("another action is in progress")
	// ErrNoPrediction is returned when a report is requested before any successful prediction.
	ErrNoPrediction = errors.New("no prediction to report yet")
	// ErrRejected wraps a response with success=false.
	ErrRejected = errors.New("request rejected by server")
)

// Predictor is the subset of the API client the controller needs.
type Predictor interface {
	CheckConnection(ctx context.Context) (*model.Status, error)
	Predict(ctx context.Context, payload model.PredictionRequest) (*model.PredictionResponse, error)
	DownloadReport(ctx context.Context, req model.ReportRequest) (*model.ReportResponse, error)
	ResolveURL(ref string) (string, error)
}

// UI is the presentation side of the form.
type UI interface {
	// SetBusy toggles the control that belongs to action.
	SetBusy(action State, busy bool)
	ShowResult(v View)
	HideResult()
	ScrollTop()
	Alert(msg string)
	// Open hands a resolved report URL to the user (browser tab, file, ...).
	Open(ctx context.Context, url string) error
}

// Controller owns one form, its session and its UI state.
type Controller struct {
	api          Predictor
	ui           UI
	reviewFields []string

	mu      sync.Mutex
	form    *Form
	state   State
	session Session
}

// NewController creates a controller over a fresh form.
func NewController(api Predictor, ui UI, reviewFields []string) *Controller {
	return &Controller{
		api:          api,
		ui:           ui,
		reviewFields: reviewFields,
		form:         New(),
	}
}

// State returns the current UI state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Session returns a copy of the last prediction session.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Set edits one form field.
func (c *Controller) Set(name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Set(name, value)
}

// SetAll edits several form fields.
func (c *Controller) SetAll(values map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.SetAll(values)
}

// Value returns the raw value of a form field.
func (c *Controller) Value(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.Get(name)
}

// Start runs the startup connectivity probe. Failure is only logged.
func (c *Controller) Start(ctx context.Context) bool {
	output.Logger.Debug("Checking API connection...")
	st, err := c.api.CheckConnection(ctx)
	if err != nil {
		output.Logger.Warn("Initial connection check failed; predictions may still work", "error", err)
		return false
	}
	output.Logger.Info("API connected", "status", st.Status)
	return true
}

// begin moves Idle -> target and returns the transition back to Idle.
func (c *Controller) begin(target State) (func(), error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Idle {
		return nil, ErrBusy
	}
	c.state = target
	return func() {
		c.mu.Lock()
		c.state = Idle
		c.mu.Unlock()
	}, nil
}

// Submit validates the form, posts it and renders the result.
func (c *Controller) Submit(ctx context.Context) error {
	restore, err := c.begin(Submitting)
	if err != nil {
		return err
	}
	defer restore()

	c.mu.Lock()
	if err := c.form.Validate(); err != nil {
		c.mu.Unlock()
		c.ui.Alert(err.Error())
		return err
	}
	payload := Normalize(c.form)
	c.session = Session{Input: payload}
	c.mu.Unlock()

	c.ui.SetBusy(Submitting, true)
	defer c.ui.SetBusy(Submitting, false)
	c.ui.HideResult()

	res, err := c.api.Predict(ctx, payload)
	if err != nil {
		c.ui.Alert("Prediction failed: " + err.Error())
		return err
	}
	if !res.Success {
		msg := string(res.Error)
		if msg == "" {
			msg = "server error"
		}
		c.ui.Alert("Prediction failed: " + msg)
		return fmt.Errorf("%w: %s", ErrRejected, msg)
	}

	c.mu.Lock()
	c.session.Label = res.Label
	c.session.Probability = res.ProbabilityPercent
	c.mu.Unlock()

	c.ui.ShowResult(BuildView(res, payload, c.reviewFields))
	return nil
}

// DownloadReport requests a PDF for the last prediction and opens it.
// It returns the resolved download URL.
func (c *Controller) DownloadReport(ctx context.Context) (string, error) {
	restore, err := c.begin(Downloading)
	if err != nil {
		return "", err
	}
	defer restore()

	s := c.Session()
	if !s.Ready() {
		c.ui.Alert("Report failed: " + ErrNoPrediction.Error())
		return "", ErrNoPrediction
	}

	c.ui.SetBusy(Downloading, true)
	defer c.ui.SetBusy(Downloading, false)

	res, err := c.api.DownloadReport(ctx, s.ReportRequest())
	if err != nil {
		c.ui.Alert("Report failed: " + err.Error())
		return "", err
	}
	if !res.Success {
		msg := string(res.Error)
		if msg == "" {
			msg = "server error"
		}
		c.ui.Alert("Report failed: " + msg)
		return "", fmt.Errorf("%w: %s", ErrRejected, msg)
	}

	url, err := c.api.ResolveURL(res.DownloadURL)
	if err != nil {
		c.ui.Alert("Report failed: " + err.Error())
		return "", err
	}
	if err := c.ui.Open(ctx, url); err != nil {
		c.ui.Alert("Report failed: " + err.Error())
		return url, err
	}
	return url, nil
}

// Reset clears the form, hides the result and scrolls back to the top.
// The session is kept.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.form.Reset()
	c.mu.Unlock()

	c.ui.HideResult()
	c.ui.ScrollTop()
}
