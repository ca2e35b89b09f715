package classify

// PregnancyPolicy selects how MUAC between 23.0 and 25.0 cm is classified
// for pregnant women. There is no default.
type PregnancyPolicy int

const (
	PregnancyPolicyUnset PregnancyPolicy = iota
	// PregnancyMerged treats MUAC >= 23.0 as Normal.
	PregnancyMerged
	// PregnancySecondaryTier reports MUAC in [23.0, 25.0) as a Medium risk tier.
	PregnancySecondaryTier
)

// String implements fmt.Stringer.
func (p PregnancyPolicy) String() string {
	switch p {
	case PregnancyMerged:
		return "merged"
	case PregnancySecondaryTier:
		return "secondary_tier"
	default:
		return "unset"
	}
}

// PolicyFromFlag maps the pregnancy_secondary_threshold_enabled setting.
func PolicyFromFlag(secondary bool) PregnancyPolicy {
	if secondary {
		return PregnancySecondaryTier
	}
	return PregnancyMerged
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithPregnancyPolicy sets the pregnancy MUAC policy. Required.
func WithPregnancyPolicy(p PregnancyPolicy) Option {
	return func(c *Classifier) { c.policy = p }
}

// WithPregnancyMinAge sets the minimum age in years for the pregnancy tree.
func WithPregnancyMinAge(years int) Option {
	return func(c *Classifier) {
		if years >= 0 {
			c.pregnancyMinAge = years
		}
	}
}

// WithAdultBands replaces the adult BMI table.
func WithAdultBands(b Bands) Option {
	return func(c *Classifier) { c.adult = b }
}

// WithChildCutoffs replaces the child thresholds.
func WithChildCutoffs(cc ChildCutoffs) Option {
	return func(c *Classifier) { c.child = cc }
}

// WithPrecision sets the number of decimals z-scores and BMI are rounded to
// in the result.
func WithPrecision(places int) Option {
	return func(c *Classifier) { c.precision = places }
}
