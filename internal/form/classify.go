package form

// Classification buckets a calorie estimate for display.
type Classification int

const (
	LightActivity Classification = iota
	ModerateActivity
	IntenseSession
)

// Classify buckets a calorie estimate: below 100 is light, below 300
// moderate, everything else intense.
func Classify(calories float64) Classification {
	switch {
	case calories < 100:
		return LightActivity
	case calories < 300:
		return ModerateActivity
	default:
		return IntenseSession
	}
}

// Label returns the user-facing text for the tier.
func (c Classification) Label() string {
	switch c {
	case LightActivity:
		return "Light activity"
	case ModerateActivity:
		return "Moderate activity"
	default:
		return "Intense session!"
	}
}

// TempHint grades a raw body-temperature value for the informational
// Low/Normal/High hint. It is not a validation gate; unparseable text
// lands on "Normal" because NaN fails both threshold comparisons.
func TempHint(value string) string {
	n := Number(value)
	switch {
	case n < 36:
		return "Low"
	case n > 38:
		return "High"
	default:
		return "Normal"
	}
}
