package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		calories float64
		want     string
	}{
		{50, "Light activity"},
		{150, "Moderate activity"},
		{400, "Intense session!"},
		{100, "Moderate activity"},
		{300, "Intense session!"},
		{99.99, "Light activity"},
		{299.99, "Moderate activity"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.calories).Label(), "calories=%v", tt.calories)
	}
}

func TestTempHint(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"35", "Low"},
		{"37", "Normal"},
		{"39", "High"},
		{"36", "Normal"},
		{"38", "Normal"},
		{"35.9", "Low"},
		{"38.1", "High"},
		{"abc", "Normal"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TempHint(tt.value), "value=%q", tt.value)
	}
}
