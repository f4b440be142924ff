/*
PURPOSE:
  The prediction form: field table, raw values, derived BMI and validation.
  Values are kept as the user typed them; Normalize turns them into the
  payload.

IMPLEMENTATION RULES:
  - bmi is derived from height and weight and cannot be set directly.
  - Validation rejects what a browser number/select input would reject,
    including NaN and Inf.

USAGE:
  f := form.New()
  f.SetAll(map[string]string{"height": "1.70", "weight": "82"})
  err := f.Validate()
*/

package form

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind controls how a raw field value is normalized into the payload.
type Kind int

const (
	Text Kind = iota
	Int
	Float
	Derived // computed locally, never taken from user input
)

// Field describes one input of the prediction form.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	Options  []string // allowed values for select inputs; empty means free text
	Default  string
}

// Fields is the prediction form, in display order.
var Fields = []Field{
	{Name: "age", Label: "Age (years)", Kind: Int, Required: true},
	{Name: "gender", Label: "Gender", Kind: Text, Required: true, Options: []string{"Male", "Female"}},
	{Name: "pulse_rate", Label: "Pulse rate (bpm)", Kind: Int, Required: true},
	{Name: "systolic_bp", Label: "Systolic blood pressure", Kind: Int, Required: true},
	{Name: "diastolic_bp", Label: "Diastolic blood pressure", Kind: Int, Required: true},
	{Name: "glucose", Label: "Blood glucose (mmol/L)", Kind: Float, Required: true},
	{Name: "height", Label: "Height (m)", Kind: Float, Required: true},
	{Name: "weight", Label: "Weight (kg)", Kind: Float, Required: true},
	{Name: "bmi", Label: "Body mass index", Kind: Derived},
	{Name: "family_diabetes", Label: "Family history of diabetes", Kind: Text, Required: true, Options: yesNo},
	{Name: "hypertensive", Label: "Hypertensive", Kind: Text, Required: true, Options: yesNo},
	{Name: "family_hypertension", Label: "Family history of hypertension", Kind: Text, Required: true, Options: yesNo},
	{Name: "cardiovascular_disease", Label: "Cardiovascular disease", Kind: Text, Required: true, Options: yesNo},
	{Name: "stroke", Label: "History of stroke", Kind: Text, Required: true, Options: yesNo},
}

var yesNo = []string{"Yes", "No"}

// Lookup returns the field definition for name.
func Lookup(name string) (Field, bool) {
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Form holds the current raw values of the prediction form.
// Values are strings, as typed by the user.
type Form struct {
	values map[string]string
	extra  []string // names set outside Fields, in insertion order
}

// New returns a form with every field at its default.
func New() *Form {
	f := &Form{}
	f.Reset()
	return f
}

// Reset restores every field to its default and drops extra fields.
func (f *Form) Reset() {
	f.values = make(map[string]string, len(Fields))
	f.extra = nil
	for _, fd := range Fields {
		f.values[fd.Name] = fd.Default
	}
}

// Get returns the raw value of name.
func (f *Form) Get(name string) string {
	return f.values[name]
}

// Set assigns a raw value. Editing height or weight recomputes BMI immediately.
// Derived fields are read-only and ignore Set.
func (f *Form) Set(name, value string) {
	if fd, ok := Lookup(name); ok && fd.Kind == Derived {
		return
	}
	if _, ok := f.values[name]; !ok {
		f.extra = append(f.extra, name)
	}
	f.values[name] = value
	if name == "height" || name == "weight" {
		f.updateBMI()
	}
}

// SetAll assigns every entry of values, in a stable order.
func (f *Form) SetAll(values map[string]string) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		f.Set(k, values[k])
	}
}

func (f *Form) updateBMI() {
	f.values["bmi"] = ComputeBMI(f.values["height"], f.values["weight"])
}

// Entries returns the form's name/value pairs: known fields first, in
// display order, then extra fields in the order they were set.
func (f *Form) Entries() [][2]string {
	out := make([][2]string, 0, len(f.values))
	for _, fd := range Fields {
		out = append(out, [2]string{fd.Name, f.values[fd.Name]})
	}
	for _, name := range f.extra {
		out = append(out, [2]string{name, f.values[name]})
	}
	return out
}

// ComputeBMI returns weight / height² rounded to two decimals, or "" unless
// both inputs are positive numbers. Height is in metres.
func ComputeBMI(height, weight string) string {
	h := parseFloat(height)
	w := parseFloat(weight)
	if h > 0 && w > 0 {
		return strconv.FormatFloat(w/(h*h), 'f', 2, 64)
	}
	return ""
}

// FieldError lists the fields that failed validation.
type FieldError struct {
	Problems []string
}

func (e *FieldError) Error() string {
	return "invalid form: " + strings.Join(e.Problems, "; ")
}

// Validate checks the form the way an HTML form checks its own constraints:
// required fields are filled, numeric fields hold numbers and select fields
// hold one of their options.
func (f *Form) Validate() error {
	var problems []string
	for _, fd := range Fields {
		if fd.Kind == Derived {
			continue
		}
		v := strings.TrimSpace(f.values[fd.Name])
		if v == "" {
			if fd.Required {
				problems = append(problems, fmt.Sprintf("%s is required", fd.Name))
			}
			continue
		}
		switch fd.Kind {
		case Int, Float:
			if n, err := strconv.ParseFloat(v, 64); err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				problems = append(problems, fmt.Sprintf("%s must be a number", fd.Name))
			}
		}
		if len(fd.Options) > 0 && !contains(fd.Options, v) {
			problems = append(problems, fmt.Sprintf("%s must be one of %s", fd.Name, strings.Join(fd.Options, ", ")))
		}
	}
	if len(problems) > 0 {
		return &FieldError{Problems: problems}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
