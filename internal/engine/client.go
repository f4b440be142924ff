/*
PURPOSE:
  Core engine for interacting with the diabetes prediction backend.
  Single choke point for every outbound call: base URL resolution,
  default headers and error normalization live here and nowhere else.

REQUIREMENTS:
  User-specified:
  - Health probe, prediction, report generation, logs and model info.
  - Tolerate backends that answer 2xx with a non-JSON body.
  - Surface backend error messages ("error" / "message" fields).

  Implementation-discovered:
  - Needs http.Client with timeouts (the browser version had none).
  - Backend validation errors can be a list of strings.
  - Report links are relative to the backend origin.

ARCHITECTURE INTEGRATION:
  - Called by: internal/form, internal/engine/runner.go, internal/cli
  - Uses: internal/config, internal/model, internal/output

ERROR HANDLING:
  - Every failure is an *Error carrying one of ErrValidation, ErrNetwork,
    ErrServer, ErrParse.
  - No retries; the caller decides what to tell the user.

IMPLEMENTATION RULES:
  - Use net/http.
  - Every request carries an X-Request-ID and is logged.
  - Connected() mirrors the outcome of the last call.

USAGE:
  c := engine.New(cfg)
  res, err := c.Predict(ctx, payload)

SELF-HEALING INSTRUCTIONS:
  - If backend routes change, update the path constants below.

RELATED FILES:
  - internal/engine/errors.go
  - internal/model/types.go

MAINTENANCE:
  - Update for new backend endpoints.
*/

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/daryltucker/diabetes-check/internal/config"
	"github.com/daryltucker/diabetes-check/internal/model"
	"github.com/daryltucker/diabetes-check/internal/output"
)

const (
	PathHealth         = "/health"
	PathPredict        = "/api/predict"
	PathDownloadReport = "/api/download-report"
	PathLogs           = "/api/logs"
	PathModelInfo      = "/api/model-info"

	contentTypeJSON = "application/json"
)

// nonJSONStatus is returned in place of a 2xx body that is not JSON.
var nonJSONStatus = model.Status{Status: "ok", Message: "Non-JSON response received"}

// Options tunes a single Request. Zero values fall back to GET with JSON headers.
type Options struct {
	Method  string
	Body    interface{} // string and []byte are sent as-is, anything else is JSON-encoded
	Headers http.Header
}

// Client talks to the prediction backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	timeout   time.Duration
	connected atomic.Bool
}

// New creates a new Client.
func New(cfg *config.Config) *Client {
	return &Client{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		HTTP:    &http.Client{},
		timeout: cfg.RequestTimeout,
	}
}

// Connected reports whether the last call succeeded.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Request issues a call and returns the raw JSON body.
// A 2xx response that is not JSON yields the synthetic {"status":"ok"} body.
func (c *Client) Request(ctx context.Context, endpoint string, opts Options) (json.RawMessage, error) {
	data, err := c.request(ctx, endpoint, opts)
	if err != nil {
		c.connected.Store(false)
		output.Logger.Error("API Error", "method", methodOf(opts), "endpoint", endpoint, "error", err)
		return nil, err
	}
	c.connected.Store(true)
	return data, nil
}

func (c *Client) request(ctx context.Context, endpoint string, opts Options) (json.RawMessage, error) {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	target := c.BaseURL + endpoint
	method := methodOf(opts)

	body, err := encodeBody(opts.Body)
	if err != nil {
		return nil, err
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, validationError(fmt.Sprintf("failed to create API request: %v", err))
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)
	for k, vs := range opts.Headers {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	output.Logger.Debug("Sending request", "method", method, "url", target, "request_id", reqID)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	output.Logger.Info("Network: Response received",
		"method", method,
		"url", target,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start),
	)

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	if !strings.Contains(resp.Header.Get("Content-Type"), contentTypeJSON) {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		if ok {
			output.Logger.Warn("Received non-JSON response but status is OK", "url", target)
			return json.Marshal(nonJSONStatus)
		}
		return nil, serverError(resp.StatusCode,
			fmt.Sprintf("Server Error: Received non-JSON response (%d)", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(fmt.Errorf("failed to read response body: %w", err))
	}
	if !json.Valid(data) {
		return nil, parseError(resp.StatusCode, fmt.Errorf("body is not valid JSON (%d bytes)", len(data)))
	}

	if !ok {
		return nil, serverError(resp.StatusCode, errorMessage(data, resp.StatusCode))
	}
	return data, nil
}

// errorMessage picks the backend's "error", then "message", then a generic text.
func errorMessage(data []byte, status int) string {
	var body struct {
		Error   interface{} `json:"error"`
		Message interface{} `json:"message"`
	}
	// Non-object bodies simply have no message.
	_ = json.Unmarshal(data, &body)

	if msg := model.Stringify(body.Error); msg != "" {
		return msg
	}
	if msg := model.Stringify(body.Message); msg != "" {
		return msg
	}
	return fmt.Sprintf("HTTP Error %d", status)
}

func methodOf(opts Options) string {
	if opts.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(opts.Method)
}

func encodeBody(b interface{}) (io.Reader, error) {
	switch v := b.(type) {
	case nil:
		return nil, nil
	case string:
		return strings.NewReader(v), nil
	case []byte:
		return bytes.NewReader(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, validationError(fmt.Sprintf("failed to encode request body: %v", err))
		}
		return bytes.NewReader(data), nil
	}
}

// call runs Request and decodes the body into out.
func (c *Client) call(ctx context.Context, endpoint string, opts Options, out interface{}) error {
	data, err := c.Request(ctx, endpoint, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.connected.Store(false)
		return parseError(http.StatusOK, err)
	}
	return nil
}

// CheckConnection probes the health endpoint.
func (c *Client) CheckConnection(ctx context.Context) (*model.Status, error) {
	var st model.Status
	if err := c.call(ctx, PathHealth, Options{}, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Predict posts a normalized profile to the prediction endpoint.
// A nil payload fails before any network call.
func (c *Client) Predict(ctx context.Context, payload model.PredictionRequest) (*model.PredictionResponse, error) {
	if payload == nil {
		return nil, validationError("invalid input data: payload is empty")
	}
	var res model.PredictionResponse
	if err := c.call(ctx, PathPredict, Options{Method: http.MethodPost, Body: payload}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DownloadReport asks the backend to render a PDF report.
func (c *Client) DownloadReport(ctx context.Context, req model.ReportRequest) (*model.ReportResponse, error) {
	var res model.ReportResponse
	if err := c.call(ctx, PathDownloadReport, Options{Method: http.MethodPost, Body: req}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logs returns the most recent prediction log rows.
func (c *Client) Logs(ctx context.Context) (*model.LogsResponse, error) {
	var res model.LogsResponse
	if err := c.call(ctx, PathLogs, Options{}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ModelInfo returns the model metadata document.
func (c *Client) ModelInfo(ctx context.Context) (map[string]interface{}, error) {
	var res map[string]interface{}
	if err := c.call(ctx, PathModelInfo, Options{}, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// ResolveURL resolves ref (usually a download path) against the base URL.
func (c *Client) ResolveURL(ref string) (string, error) {
	base, err := url.Parse(c.BaseURL + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", ref, err)
	}
	return base.ResolveReference(u).String(), nil
}

// Fetch streams a binary resource (e.g. a PDF report) into w.
func (c *Client) Fetch(ctx context.Context, rawURL string, w io.Writer) (int64, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, validationError(fmt.Sprintf("failed to create download request: %v", err))
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, serverError(resp.StatusCode, fmt.Sprintf("HTTP Error %d", resp.StatusCode))
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, networkError(fmt.Errorf("download interrupted: %w", err))
	}
	output.Logger.Info("Downloaded", "url", rawURL, "bytes", n)
	return n, nil
}
