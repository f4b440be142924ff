/*
PURPOSE:
  Defines the wire types exchanged with the diabetes prediction backend.
  These models mirror the JSON bodies of /api/predict, /api/download-report,
  /api/logs and /api/model-info.

REQUIREMENTS:
  User-specified:
  - Prediction request is a flat field -> value map.
  - Prediction response carries label, risk level, probability, optional
    model info and ordered feature importance.

  Implementation-discovered:
  - Backend validation errors arrive either as a string or a list of strings.
  - Log rows and model metadata are free-form; keep them as maps.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/form, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - JSON tags must match the backend exactly.

USAGE:
  var res model.PredictionResponse
  json.Unmarshal(body, &res)

RELATED FILES:
  - internal/engine/client.go
  - internal/form/view.go

MAINTENANCE:
  - Update when the backend adds response fields.
*/

package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// LabelDiabetic is the positive classification returned by the backend.
const LabelDiabetic = "Diabetic"

// PredictionRequest is the normalized payload posted to /api/predict.
// Values are int, float64 or string depending on the field.
type PredictionRequest map[string]interface{}

// ModelInfo describes the model that produced a prediction.
type ModelInfo struct {
	Name     string      `json:"name"`
	Accuracy interface{} `json:"accuracy"` // number or preformatted string
}

// Feature is one entry of the feature importance ranking.
// Value is a percentage in the 0-100 range.
type Feature struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// PredictionResponse is the body returned by /api/predict.
type PredictionResponse struct {
	Success            bool                   `json:"success"`
	Label              string                 `json:"label"`
	RiskLevel          string                 `json:"risk_level"`
	ProbabilityPercent float64                `json:"probability_percent"`
	ModelInfo          *ModelInfo             `json:"model_info,omitempty"`
	FeatureImportance  []Feature              `json:"feature_importance,omitempty"`
	InputData          map[string]interface{} `json:"input_data,omitempty"`
	Error              ErrorMessage           `json:"error,omitempty"`
}

// IsDiabetic reports whether the label is the positive classification.
func (r PredictionResponse) IsDiabetic() bool {
	return r.Label == LabelDiabetic
}

// ReportRequest asks the backend to render a PDF for the last prediction.
type ReportRequest struct {
	InputData   PredictionRequest `json:"input_data"`
	Label       string            `json:"label"`
	Probability float64           `json:"probability"`
}

// ReportResponse is the body returned by /api/download-report.
type ReportResponse struct {
	Success     bool         `json:"success"`
	DownloadURL string       `json:"download_url"`
	Error       ErrorMessage `json:"error,omitempty"`
}

// LogsResponse is the body returned by /api/logs.
type LogsResponse struct {
	Success bool                     `json:"success"`
	Logs    []map[string]interface{} `json:"logs"`
	Error   ErrorMessage             `json:"error,omitempty"`
}

// Status is the body of /health, and the synthetic body produced for
// non-JSON success responses.
type Status struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ErrorMessage accepts either a string or a list of strings.
type ErrorMessage string

// UnmarshalJSON implements json.Unmarshaler.
func (m *ErrorMessage) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = ErrorMessage(Stringify(raw))
	return nil
}

// Stringify renders a loosely typed JSON error value as text.
// Lists are joined with ", ", the same way a browser coerces an array.
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, Stringify(p))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}

// BatchResult is one row of a batch scoring run.
type BatchResult struct {
	Profile            string            `json:"profile"`
	Timestamp          time.Time         `json:"timestamp"`
	Duration           time.Duration     `json:"duration"`
	Input              PredictionRequest `json:"input"`
	Label              string            `json:"label,omitempty"`
	RiskLevel          string            `json:"risk_level,omitempty"`
	ProbabilityPercent float64           `json:"probability_percent"`
	TopFeature         string            `json:"top_feature,omitempty"`
	Error              string            `json:"error,omitempty"` // If the prediction failed
}
