/*
PURPOSE:
  Turns raw form values into the prediction payload.
  Integer and float fields are coerced from their leading numeric prefix,
  anything unparsable becomes 0.

USAGE:
  payload := form.Normalize(f)
*/

package form

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/daryltucker/diabetes-check/internal/model"
)

var (
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*([eE][+-]?\d+)?|\.\d+([eE][+-]?\d+)?)`)
)

// parseInt reads the leading integer of s ("12abc" -> 12, "3.9" -> 3).
// Anything without a leading integer is 0.
func parseInt(s string) int {
	m := intPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// parseFloat reads the leading decimal number of s ("1.70m" -> 1.7).
// Anything without one, or a non-finite result, is 0.
func parseFloat(s string) float64 {
	m := floatPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Normalize converts the raw form into the prediction payload.
// Integer and float fields are parsed leniently with a 0 fallback, every
// other field is passed through verbatim, and bmi is always taken from the
// derived BMI field rather than any submitted value.
func Normalize(f *Form) model.PredictionRequest {
	payload := make(model.PredictionRequest, len(f.values))
	for _, kv := range f.Entries() {
		name, raw := kv[0], kv[1]
		if name == "bmi" {
			continue
		}
		fd, _ := Lookup(name)
		switch fd.Kind {
		case Int:
			payload[name] = parseInt(raw)
		case Float:
			payload[name] = parseFloat(raw)
		default:
			payload[name] = raw
		}
	}
	payload["bmi"] = parseFloat(f.Get("bmi"))
	return payload
}
