package classify

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/nutriscreen/internal/domain/model"
	"github.com/okian/nutriscreen/internal/domain/reference"
	"github.com/okian/nutriscreen/internal/domain/zscore"
)

const (
	maxAgeYears   = 120
	adultAgeYears = 18
	// lengthAdjustCm is the WHO difference between recumbent length and
	// standing height.
	lengthAdjustCm   = 0.7
	lengthCutoverMon = 24
	bfaMinMonths     = 24
	wfaMaxMonths     = 120
)

// ZScorer computes a z-score against the reference curves.
type ZScorer interface {
	Compute(ind reference.Indicator, sex model.Sex, x, observed float64) (zscore.Result, error)
	// Covers reports whether x is inside the tabulated range of a curve.
	Covers(ind reference.Indicator, sex model.Sex, x float64) bool
}

// Classifier selects a decision tree for a subject and applies it. It holds
// no per-subject state and is safe for concurrent use.
type Classifier struct {
	z               ZScorer
	policy          PregnancyPolicy
	pregnancyMinAge int
	adult           Bands
	pregnant        Bands
	child           ChildCutoffs
	labels          indicatorLabels
	precision       int
}

// New builds a Classifier. A pregnancy policy must be supplied with
// WithPregnancyPolicy, otherwise ErrAmbiguousConfiguration is returned.
func New(z ZScorer, opts ...Option) (*Classifier, error) {
	c := &Classifier{
		z:               z,
		pregnancyMinAge: adultAgeYears,
		adult:           AdultBMIBands(),
		child:           DefaultChildCutoffs(),
		precision:       2,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.z == nil {
		return nil, fmt.Errorf("classify: nil z-score calculator")
	}
	if c.policy != PregnancyMerged && c.policy != PregnancySecondaryTier {
		return nil, fmt.Errorf("%w: pregnancy MUAC policy must be set explicitly", ErrAmbiguousConfiguration)
	}
	if err := c.adult.Validate(); err != nil {
		return nil, fmt.Errorf("adult bands: %w", err)
	}
	c.pregnant = PregnancyMUACBands(c.policy)
	labels, err := defaultIndicatorLabels()
	if err != nil {
		return nil, err
	}
	c.labels = labels
	return c, nil
}

// Policy returns the configured pregnancy policy.
func (c *Classifier) Policy() PregnancyPolicy { return c.policy }

// Classify classifies s measured at age. Invalid input yields a result with
// CategoryError, never an error. The error return is reserved for defects
// in the reference data.
func (c *Classifier) Classify(s model.Subject, age model.Age) (Result, error) {
	if reason := validate(s, age); reason != "" {
		return invalid(age, reason), nil
	}

	switch {
	case s.Sex == model.SexFemale && s.IsPregnant && age.Years >= c.pregnancyMinAge:
		return c.classifyPregnant(s, age), nil
	case age.Years < adultAgeYears:
		return c.classifyChild(s, age)
	default:
		return c.classifyAdult(s, age), nil
	}
}

func (c *Classifier) classifyPregnant(s model.Subject, age model.Age) Result {
	if !s.HasMUAC() {
		return invalid(age, "muac_cm is required for pregnant women")
	}
	muac := *s.MUACCm
	band, ok := c.pregnant.Find(muac)
	if !ok {
		return invalid(age, "muac_cm outside classification table")
	}
	return Result{
		Outcome:          band.Outcome,
		Group:            GroupPregnant,
		DecisionPath:     "pregnant/" + band.Key,
		MeasurementsUsed: "Mid-upper arm circumference",
		CutoffUsed:       band.cutoff("MUAC") + " cm",
		BMI:              zscore.Round(s.BMI(), c.precision),
		AgeMonths:        age.Months,
	}
}

func (c *Classifier) classifyAdult(s model.Subject, age model.Age) Result {
	bmi := s.BMI()
	band, ok := c.adult.Find(bmi)
	if !ok {
		return invalid(age, "bmi outside classification table")
	}
	return Result{
		Outcome:          band.Outcome,
		Group:            GroupAdult,
		DecisionPath:     "adult/bmi/" + band.Key,
		MeasurementsUsed: "Body Mass Index (BMI)",
		CutoffUsed:       band.cutoff("BMI"),
		BMI:              zscore.Round(bmi, c.precision),
		AgeMonths:        age.Months,
	}
}

func (c *Classifier) classifyChild(s model.Subject, age model.Age) (Result, error) {
	height := AdjustedHeight(s.HeightCm, s.Position, age.Months)
	m := height / 100
	bmi := s.WeightKg / (m * m)

	scores := make(map[reference.Indicator]zscore.Result, 4)
	labels := make(map[reference.Indicator]string, 4)
	compute := func(ind reference.Indicator, x, observed float64) (zscore.Result, error) {
		r, err := c.z.Compute(ind, s.Sex, x, observed)
		if err != nil {
			return zscore.Result{}, err
		}
		scores[ind] = r.Rounded(c.precision)
		if l := c.labels.of(ind, r.Z); l != "" {
			labels[ind] = l
		}
		return r, nil
	}

	// Weight-for-height is only tabulated for 45-120 cm. Taller children
	// are assessed for wasting by BMI-for-age instead of the clamped edge.
	byBMI := age.Months >= bfaMinMonths && !c.z.Covers(reference.WeightForHeight, s.Sex, height)

	months := float64(age.Months)
	var (
		wasting zscore.Result
		err     error
	)
	if !byBMI {
		if wasting, err = compute(reference.WeightForHeight, height, s.WeightKg); err != nil {
			return Result{}, err
		}
	}
	hfa, err := compute(reference.HeightForAge, months, height)
	if err != nil {
		return Result{}, err
	}
	if age.Months <= wfaMaxMonths {
		if _, err := compute(reference.WeightForAge, months, s.WeightKg); err != nil {
			return Result{}, err
		}
	}
	if age.Months >= bfaMinMonths {
		bfa, err := compute(reference.BMIForAge, months, bmi)
		if err != nil {
			return Result{}, err
		}
		if byBMI {
			wasting = bfa
		}
	}

	d := c.child.decide(childInput{
		months:  age.Months,
		wasting: wasting.Z,
		byBMI:   byBMI,
		hfa:     hfa.Z,
		muac:    s.MUACCm,
	})
	return Result{
		Outcome:          d.outcome,
		Group:            GroupChild,
		ZScores:          scores,
		Labels:           labels,
		DecisionPath:     d.path,
		MeasurementsUsed: d.used,
		CutoffUsed:       d.cutoff,
		BMI:              zscore.Round(bmi, c.precision),
		AgeMonths:        age.Months,
	}, nil
}

// AdjustedHeight converts between recumbent length and standing height so
// the value matches what the reference expects at this age: length below
// 24 months, height from 24 months.
func AdjustedHeight(cm float64, pos model.Position, months int) float64 {
	switch {
	case pos == model.PositionStanding && months < lengthCutoverMon:
		return cm + lengthAdjustCm
	case pos == model.PositionRecumbent && months >= lengthCutoverMon:
		return cm - lengthAdjustCm
	default:
		return cm
	}
}

func invalid(age model.Age, reason string) Result {
	return Result{
		Outcome: Outcome{
			Status:   StatusInvalidData,
			Category: CategoryError,
		},
		Group:        GroupInvalid,
		DecisionPath: "invalid",
		AgeMonths:    age.Months,
		Reason:       reason,
	}
}

// validate returns a description of every problem with s, or "".
func validate(s model.Subject, age model.Age) string {
	var problems []string
	add := func(p string) { problems = append(problems, p) }

	if !s.Sex.Valid() {
		add(fmt.Sprintf("unknown sex %q", s.Sex))
	}
	switch {
	case !age.Valid:
		add("measurement date is before birth date")
	case age.Years > maxAgeYears:
		add(fmt.Sprintf("age %d years is outside [0, %d]", age.Years, maxAgeYears))
	}
	switch {
	case !finite(s.WeightKg):
		add("weight_kg is not a finite number")
	case s.WeightKg <= 0:
		add("weight_kg must be positive")
	}
	switch {
	case !finite(s.HeightCm):
		add("height_cm is not a finite number")
	case s.HeightCm <= 0:
		add("height_cm must be positive")
	}
	if s.MUACCm != nil {
		switch {
		case !finite(*s.MUACCm):
			add("muac_cm is not a finite number")
		case *s.MUACCm <= 0:
			add("muac_cm must be positive")
		}
	}
	switch s.Position {
	case model.PositionUnspecified, model.PositionRecumbent, model.PositionStanding:
	default:
		add(fmt.Sprintf("unknown position %q", s.Position))
	}
	return strings.Join(problems, "; ")
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
