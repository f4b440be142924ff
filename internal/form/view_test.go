package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/diabetes-check/internal/model"
)

func TestBuildViewDiabetic(t *testing.T) {
	res := &model.PredictionResponse{
		Success:            true,
		Label:              "Diabetic",
		RiskLevel:          "Tinggi",
		ProbabilityPercent: 72.5,
		ModelInfo:          &model.ModelInfo{Name: "Decision Tree", Accuracy: 0.91},
		FeatureImportance: []model.Feature{
			{Name: "glucose", Value: 150},
			{Name: "bmi", Value: 22.4},
			{Name: "age", Value: -3},
		},
	}
	input := model.PredictionRequest{"age": 45, "gender": "Male", "bmi": 28.37, "glucose": 7.2}

	v := BuildView(res, input, nil)

	assert.True(t, v.Diabetic)
	assert.Equal(t, ColorAlert, v.Color)
	assert.Equal(t, HeadlinePositive, v.Headline)
	assert.Equal(t, "Tinggi", v.RiskLevel)
	assert.Equal(t, "72.5%", v.Probability)

	assert.True(t, v.HasModel)
	assert.Equal(t, "Decision Tree", v.ModelName)
	assert.Equal(t, "0.91", v.ModelAcc)

	// hypertensive is absent from the input, so it is skipped.
	assert.Equal(t, []ReviewItem{
		{Name: "AGE", Value: "45"},
		{Name: "GENDER", Value: "Male"},
		{Name: "BMI", Value: "28.37"},
		{Name: "GLUCOSE", Value: "7.2"},
	}, v.Review)

	require.Len(t, v.Features, 3)
	assert.Equal(t, 100.0, v.Features[0].Width)
	assert.Equal(t, 22.4, v.Features[1].Width)
	assert.Equal(t, 0.0, v.Features[2].Width)
	assert.Empty(t, v.Placeholder)
}

func TestBuildViewNonDiabetic(t *testing.T) {
	res := &model.PredictionResponse{Success: true, Label: "Non-Diabetic", RiskLevel: "Rendah", ProbabilityPercent: 8}

	v := BuildView(res, model.PredictionRequest{"hypertensive": "No"}, []string{"hypertensive"})

	assert.False(t, v.Diabetic)
	assert.Equal(t, ColorSuccess, v.Color)
	assert.Equal(t, HeadlineNegative, v.Headline)
	assert.Equal(t, "8%", v.Probability)
	assert.False(t, v.HasModel)
	assert.Equal(t, []ReviewItem{{Name: "HYPERTENSIVE", Value: "No"}}, v.Review)
	assert.Empty(t, v.Features)
	assert.Equal(t, FeaturePlaceholder, v.Placeholder)
}
