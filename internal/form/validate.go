package form

import (
	"math"
	"strconv"
	"strings"
)

// Field names match the prediction service's JSON request keys.
const (
	FieldAge       = "age"
	FieldDuration  = "duration"
	FieldHeartRate = "heart_rate"
	FieldBodyTemp  = "body_temp"
)

// fieldOrder is the display and validation order of the form fields.
var fieldOrder = []string{FieldAge, FieldDuration, FieldHeartRate, FieldBodyTemp}

// Fields returns the form's field names in display order.
func Fields() []string {
	out := make([]string, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// rule describes one field's display label and accepted numeric range.
type rule struct {
	label    string
	min, max float64
	rangeMsg string
}

var rules = map[string]rule{
	FieldAge:       {label: "Age", min: 1, max: 120, rangeMsg: "Enter age between 1 and 120"},
	FieldDuration:  {label: "Duration", min: 1, max: 500, rangeMsg: "Duration must be between 1 and 500 minutes"},
	FieldHeartRate: {label: "Heart rate", min: 20, max: 220, rangeMsg: "Heart rate must be between 20 and 220 bpm"},
	FieldBodyTemp:  {label: "Body temperature", min: 30, max: 45, rangeMsg: "Body temperature looks suspicious (30-45 °C typical)"},
}

// Label returns the human-readable name for a field, or the field name
// itself when unknown.
func Label(field string) string {
	if r, ok := rules[field]; ok {
		return r.label
	}
	return field
}

// Number converts a raw input string to a float the way a loosely typed
// form field does: empty (or all-whitespace) is zero, unparseable text
// is NaN.
func Number(value string) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

// Validate returns the validation message for one field, or "" when the
// value is acceptable. Unknown fields never report an error. The required
// check runs before the range check. Non-numeric text compares as NaN and
// fails the range check, so it reports the field's range message rather
// than a separate parse error.
func Validate(field, value string) string {
	r, ok := rules[field]
	if !ok {
		return ""
	}
	if value == "" {
		return r.label + " is required"
	}
	n := Number(value)
	if !(n >= r.min && n <= r.max) {
		return r.rangeMsg
	}
	return ""
}
