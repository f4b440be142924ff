/*
PURPOSE:
  Result view model: headline, color, review list and factor bars built
  from a prediction response. Presenters only format what is here.

RELATED FILES:
  - internal/cli/terminal.go
*/

package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/daryltucker/diabetes-check/internal/model"
)

const (
	ColorAlert   = "#ef4444"
	ColorSuccess = "#10b981"

	HeadlinePositive = "DIABETES INDICATED"
	HeadlineNegative = "NOT INDICATED"

	FeaturePlaceholder = "Factor data not available"
)

// DefaultReviewFields are echoed back under the result.
var DefaultReviewFields = []string{"age", "gender", "bmi", "glucose", "hypertensive"}

// ReviewItem is one submitted value echoed back to the user.
type ReviewItem struct {
	Name  string // upper-cased field name
	Value string
}

// FeatureBar is one feature importance entry with its bar width in percent.
type FeatureBar struct {
	Name  string
	Value float64
	Width float64 // 0-100
}

// View is everything the presenter needs to draw a result.
type View struct {
	Diabetic    bool
	Color       string
	Headline    string
	RiskLevel   string
	Probability string // e.g. "72.5%"
	ModelName   string
	ModelAcc    string
	HasModel    bool
	Review      []ReviewItem
	Features    []FeatureBar
	Placeholder string // set when there is no feature data
}

// BuildView turns a prediction response and the submitted payload into a View.
func BuildView(res *model.PredictionResponse, input model.PredictionRequest, reviewFields []string) View {
	if len(reviewFields) == 0 {
		reviewFields = DefaultReviewFields
	}

	v := View{
		Diabetic:    res.IsDiabetic(),
		Color:       ColorSuccess,
		Headline:    HeadlineNegative,
		RiskLevel:   res.RiskLevel,
		Probability: formatNumber(res.ProbabilityPercent) + "%",
	}
	if v.Diabetic {
		v.Color = ColorAlert
		v.Headline = HeadlinePositive
	}

	if res.ModelInfo != nil {
		v.HasModel = true
		v.ModelName = res.ModelInfo.Name
		v.ModelAcc = formatValue(res.ModelInfo.Accuracy)
	}

	for _, k := range reviewFields {
		val, ok := input[k]
		if !ok {
			continue
		}
		v.Review = append(v.Review, ReviewItem{Name: strings.ToUpper(k), Value: formatValue(val)})
	}

	for _, f := range res.FeatureImportance {
		v.Features = append(v.Features, FeatureBar{
			Name:  f.Name,
			Value: f.Value,
			Width: math.Max(0, math.Min(100, f.Value)),
		})
	}
	if len(v.Features) == 0 {
		v.Placeholder = FeaturePlaceholder
	}
	return v
}

// formatNumber prints a number the way a browser would: no trailing zeros.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return formatNumber(t)
	case float32:
		return formatNumber(float64(t))
	default:
		return fmt.Sprint(t)
	}
}
