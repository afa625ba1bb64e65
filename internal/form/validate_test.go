package form

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequired(t *testing.T) {
	cases := map[string]string{
		FieldAge:       "Age is required",
		FieldDuration:  "Duration is required",
		FieldHeartRate: "Heart rate is required",
		FieldBodyTemp:  "Body temperature is required",
	}
	for field, want := range cases {
		t.Run(field, func(t *testing.T) {
			assert.Equal(t, want, Validate(field, ""))
		})
	}
}

func TestValidateRangeMessages(t *testing.T) {
	assert.Equal(t, "Enter age between 1 and 120", Validate(FieldAge, "121"))
	assert.Equal(t, "Duration must be between 1 and 500 minutes", Validate(FieldDuration, "501"))
	assert.Equal(t, "Heart rate must be between 20 and 220 bpm", Validate(FieldHeartRate, "10"))
	assert.Equal(t, "Body temperature looks suspicious (30-45 °C typical)", Validate(FieldBodyTemp, "50"))
}

func TestValidateBoundaries(t *testing.T) {
	tests := []struct {
		field   string
		value   string
		wantErr bool
	}{
		{FieldAge, "1", false},
		{FieldAge, "120", false},
		{FieldAge, "0", true},
		{FieldAge, "121", true},
		{FieldDuration, "1", false},
		{FieldDuration, "500", false},
		{FieldDuration, "0", true},
		{FieldDuration, "501", true},
		{FieldHeartRate, "20", false},
		{FieldHeartRate, "220", false},
		{FieldHeartRate, "19", true},
		{FieldHeartRate, "221", true},
		{FieldBodyTemp, "30", false},
		{FieldBodyTemp, "45", false},
		{FieldBodyTemp, "29.9", true},
		{FieldBodyTemp, "45.1", true},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			msg := Validate(tt.field, tt.value)
			if tt.wantErr {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestValidateNonNumericReportsRangeMessage(t *testing.T) {
	for _, f := range Fields() {
		t.Run(f, func(t *testing.T) {
			msg := Validate(f, "abc")
			assert.NotEmpty(t, msg)
			assert.NotContains(t, msg, "required")
		})
	}
}

func TestValidateUnknownFieldPassesThrough(t *testing.T) {
	assert.Empty(t, Validate("weight", "99999"))
	assert.Empty(t, Validate("weight", ""))
}

func TestNumber(t *testing.T) {
	assert.Equal(t, 0.0, Number(""))
	assert.Equal(t, 0.0, Number("   "))
	assert.Equal(t, 37.5, Number("37.5"))
	assert.Equal(t, 42.0, Number(" 42 "))
	assert.True(t, math.IsNaN(Number("abc")))
	assert.True(t, math.IsNaN(Number("12abc")))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Heart rate", Label(FieldHeartRate))
	assert.Equal(t, "weight", Label("weight"))
}
