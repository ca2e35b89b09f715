// Package reference holds the growth reference curves used for z-scores.
//
// A Store is built once at process start and never mutated afterwards, so it
// is safe for concurrent use without locks.
package reference

import "fmt"

// Indicator names an anthropometric index.
type Indicator string

// Supported indicators. The x axis is age in months for the *-for-age
// indicators and length/height in cm for weight-for-height.
const (
	WeightForAge    Indicator = "weight_for_age"
	HeightForAge    Indicator = "height_for_age"
	WeightForHeight Indicator = "weight_for_height"
	BMIForAge       Indicator = "bmi_for_age"
)

// Indicators returns every supported indicator in a stable order.
func Indicators() []Indicator {
	return []Indicator{WeightForAge, HeightForAge, WeightForHeight, BMIForAge}
}

// Valid reports whether i is a supported indicator.
func (i Indicator) Valid() bool {
	switch i {
	case WeightForAge, HeightForAge, WeightForHeight, BMIForAge:
		return true
	}
	return false
}

// Strategy selects how a curve is read between tabulated points.
type Strategy string

const (
	// Nearest returns the tabulated point closest to x. Ties go to the lower x.
	Nearest Strategy = "nearest"
	// Interpolate linearly interpolates median and SD between the two
	// bracketing points.
	Interpolate Strategy = "interpolate"
)

// ParseStrategy converts a configuration value to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case Nearest, Interpolate:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidReferenceData, s)
}

// DefaultStrategies lists the strategy used per indicator when no override is
// configured. All bundled tables are dense enough to interpolate.
func DefaultStrategies() map[Indicator]Strategy {
	return map[Indicator]Strategy{
		WeightForAge:    Interpolate,
		HeightForAge:    Interpolate,
		WeightForHeight: Interpolate,
		BMIForAge:       Interpolate,
	}
}
