package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validValues() map[string]string {
	return map[string]string{
		"age":                    "45",
		"gender":                 "Male",
		"pulse_rate":             "80",
		"systolic_bp":            "130",
		"diastolic_bp":           "85",
		"glucose":                "7.2",
		"height":                 "1.70",
		"weight":                 "82",
		"family_diabetes":        "Yes",
		"hypertensive":           "No",
		"family_hypertension":    "No",
		"cardiovascular_disease": "No",
		"stroke":                 "No",
	}
}

func TestComputeBMI(t *testing.T) {
	cases := []struct {
		height, weight, want string
	}{
		{"1.7", "70", "24.22"},
		{"1.75", "80", "26.12"},
		{"2", "100", "25.00"},
		{"1.70m", "82kg", "28.37"},
		{"0", "70", ""},
		{"1.7", "0", ""},
		{"-1.7", "70", ""},
		{"", "70", ""},
		{"1.7", "", ""},
		{"abc", "70", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ComputeBMI(tc.height, tc.weight), "height=%q weight=%q", tc.height, tc.weight)
	}
}

func TestSetRecomputesBMI(t *testing.T) {
	f := New()
	assert.Equal(t, "", f.Get("bmi"))

	f.Set("weight", "70")
	assert.Equal(t, "", f.Get("bmi"), "height still missing")

	f.Set("height", "1.7")
	assert.Equal(t, "24.22", f.Get("bmi"))

	f.Set("weight", "")
	assert.Equal(t, "", f.Get("bmi"))
}

func TestBMIIsReadOnly(t *testing.T) {
	f := New()
	f.Set("height", "2")
	f.Set("weight", "100")
	f.Set("bmi", "99.9")
	assert.Equal(t, "25.00", f.Get("bmi"))
}

func TestReset(t *testing.T) {
	f := New()
	f.SetAll(validValues())
	f.Set("note", "extra")
	require.NotEmpty(t, f.Get("bmi"))

	f.Reset()
	for _, kv := range f.Entries() {
		fd, _ := Lookup(kv[0])
		assert.Equal(t, fd.Default, kv[1], kv[0])
	}
	assert.Len(t, f.Entries(), len(Fields))
}

func TestEntriesOrder(t *testing.T) {
	f := New()
	f.Set("zeta", "1")
	f.Set("alpha", "2")

	entries := f.Entries()
	require.Len(t, entries, len(Fields)+2)
	assert.Equal(t, "age", entries[0][0])
	assert.Equal(t, "zeta", entries[len(Fields)][0])
	assert.Equal(t, "alpha", entries[len(Fields)+1][0])
}

func TestValidate(t *testing.T) {
	f := New()
	f.SetAll(validValues())
	assert.NoError(t, f.Validate())

	f.Set("age", "forty")
	f.Set("gender", "Other")
	f.Set("stroke", "")
	err := f.Validate()
	require.Error(t, err)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Problems, "age must be a number")
	assert.Contains(t, fe.Problems, "gender must be one of Male, Female")
	assert.Contains(t, fe.Problems, "stroke is required")
}

func TestValidateRejectsNonFiniteNumbers(t *testing.T) {
	for _, v := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity", "1e999"} {
		f := New()
		f.SetAll(validValues())
		f.Set("age", v)
		f.Set("glucose", v)

		err := f.Validate()
		var fe *FieldError
		require.ErrorAs(t, err, &fe, v)
		assert.Contains(t, fe.Problems, "age must be a number", v)
		assert.Contains(t, fe.Problems, "glucose must be a number", v)
	}
}

func TestValidateEmptyForm(t *testing.T) {
	err := New().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "age is required")
	assert.NotContains(t, err.Error(), "bmi")
}
