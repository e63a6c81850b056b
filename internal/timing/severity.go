package timing

import "time"

// Severity is the urgency tier derived from an elapsed duration.
type Severity int

const (
	SeverityGreen Severity = iota
	SeverityYellow
	SeverityOrange
	SeverityRed
)

// Fixed urgency thresholds, inclusive at each boundary.
const (
	yellowThreshold = 10 * time.Minute
	orangeThreshold = 20 * time.Minute
	redThreshold    = 25 * time.Minute
)

// Classify maps an unsnapped elapsed duration onto an urgency tier.
func Classify(d time.Duration) Severity {
	switch {
	case d >= redThreshold:
		return SeverityRed
	case d >= orangeThreshold:
		return SeverityOrange
	case d >= yellowThreshold:
		return SeverityYellow
	default:
		return SeverityGreen
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityRed:
		return "red"
	case SeverityOrange:
		return "orange"
	case SeverityYellow:
		return "yellow"
	default:
		return "green"
	}
}

// Alertable reports whether the tier is loud enough to cue operators.
func (s Severity) Alertable() bool {
	return s >= SeverityOrange
}
