// Package risk compares an infrastructure graph before and after a change
// and classifies how dangerous the change is.
package risk

import "fmt"

// Level is the severity of a change risk factor.
type Level string

const (
	// LevelLow indicates a routine change.
	LevelLow Level = "low"

	// LevelMedium indicates a change worth confirming with the user.
	LevelMedium Level = "medium"

	// LevelHigh indicates a change that weakens the design.
	// Examples: removing a security control, breaking a mandatory dependency
	LevelHigh Level = "high"

	// LevelCritical indicates a change that must not be applied unreviewed.
	// Examples: wiping the topology, exposing a data store to the internet
	LevelCritical Level = "critical"
)

// levelWeights maps levels to numeric weights for comparison.
var levelWeights = map[Level]float64{
	LevelLow:      2.5,
	LevelMedium:   5.0,
	LevelHigh:     7.5,
	LevelCritical: 10.0,
}

// IsValid returns true if the level is one of the known values.
func (l Level) IsValid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh, LevelCritical:
		return true
	default:
		return false
	}
}

// Weight returns the numeric weight of the level, 0.0 for invalid levels.
func (l Level) Weight() float64 {
	if w, ok := levelWeights[l]; ok {
		return w
	}
	return 0.0
}

// String returns the string representation of the level.
func (l Level) String() string {
	return string(l)
}

// ParseLevel parses a string into a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.IsValid() {
		return "", fmt.Errorf("invalid risk level: %s", s)
	}
	return l, nil
}

// MaxLevel returns the more severe of two levels.
func MaxLevel(a, b Level) Level {
	if b.Weight() > a.Weight() {
		return b
	}
	return a
}

// Recommendation is the handling policy derived from an assessment level.
type Recommendation string

const (
	// RecommendAutoApply means the change can be applied without asking.
	RecommendAutoApply Recommendation = "auto-apply"

	// RecommendConfirm means the user should confirm before applying.
	RecommendConfirm Recommendation = "confirm"

	// RecommendReview means the change requires explicit review.
	RecommendReview Recommendation = "review-required"
)

// RecommendationFor maps a level to its handling policy. The mapping is a
// pure function of the level.
func RecommendationFor(l Level) Recommendation {
	switch l {
	case LevelLow:
		return RecommendAutoApply
	case LevelMedium:
		return RecommendConfirm
	default:
		return RecommendReview
	}
}
