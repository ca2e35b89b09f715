package classify

import (
	"fmt"
	"math"
)

// Band maps the half-open interval [Lower, Upper) to an outcome. The last
// band of a table has Upper = +Inf.
type Band struct {
	Key   string
	Lower float64
	Upper float64
	Outcome
}

// Contains reports whether v falls in the band.
func (b Band) Contains(v float64) bool { return v >= b.Lower && v < b.Upper }

// Bands is an ordered, contiguous band table.
type Bands []Band

// Find returns the band containing v.
func (bs Bands) Find(v float64) (Band, bool) {
	for _, b := range bs {
		if b.Contains(v) {
			return b, true
		}
	}
	return Band{}, false
}

// Validate checks that the table starts at or below zero, has no gaps or
// overlaps, and is unbounded above.
func (bs Bands) Validate() error {
	if len(bs) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidBands)
	}
	if bs[0].Lower > 0 {
		return fmt.Errorf("%w: first band starts at %g", ErrInvalidBands, bs[0].Lower)
	}
	for i := 1; i < len(bs); i++ {
		if bs[i].Lower != bs[i-1].Upper {
			return fmt.Errorf("%w: %q ends at %g but %q starts at %g",
				ErrInvalidBands, bs[i-1].Key, bs[i-1].Upper, bs[i].Key, bs[i].Lower)
		}
		if bs[i].Upper <= bs[i].Lower {
			return fmt.Errorf("%w: %q is empty", ErrInvalidBands, bs[i].Key)
		}
	}
	if !math.IsInf(bs[len(bs)-1].Upper, 1) {
		return fmt.Errorf("%w: last band is bounded", ErrInvalidBands)
	}
	return nil
}

// cutoff renders the band bounds for display, e.g. "25.0 <= BMI < 30.0".
func (b Band) cutoff(measure string) string {
	switch {
	case b.Lower <= 0 && math.IsInf(b.Upper, 1):
		return "any " + measure
	case b.Lower <= 0:
		return fmt.Sprintf("%s < %.1f", measure, b.Upper)
	case math.IsInf(b.Upper, 1):
		return fmt.Sprintf("%s >= %.1f", measure, b.Lower)
	default:
		return fmt.Sprintf("%.1f <= %s < %.1f", b.Lower, measure, b.Upper)
	}
}

var inf = math.Inf(1)

// AdultBMIBands returns the adult BMI classification table.
func AdultBMIBands() Bands {
	return Bands{
		{Key: "severely_underweight", Lower: 0, Upper: 16.0, Outcome: Outcome{
			Status: "Severely Underweight", Risk: RiskHigh, Category: CategoryUndernutrition,
			Description:     "Severe thinness. Medical assessment is needed.",
			Recommendations: []string{"Consult healthcare provider", "Start therapeutic nutritional support", "Monitor weight weekly"},
		}},
		{Key: "moderate_underweight", Lower: 16.0, Upper: 17.0, Outcome: Outcome{
			Status: "Moderate Underweight", Risk: RiskHigh, Category: CategoryUndernutrition,
			Description:     "Moderate thinness. Nutritional improvement needed.",
			Recommendations: []string{"Increase caloric intake", "Focus on nutrient-dense foods", "Consult healthcare provider"},
		}},
		{Key: "mild_underweight", Lower: 17.0, Upper: 18.5, Outcome: Outcome{
			Status: "Mild Underweight", Risk: RiskMedium, Category: CategoryUndernutrition,
			Description:     "Mild thinness. Nutritional improvement recommended.",
			Recommendations: []string{"Increase caloric intake", "Focus on nutrient-dense foods", "Monitor weight gain"},
		}},
		{Key: "normal", Lower: 18.5, Upper: 25.0, Outcome: Outcome{
			Status: "Normal", Risk: RiskLow, Category: CategoryNormal,
			Description:     "Normal nutritional status. Maintain healthy lifestyle.",
			Recommendations: []string{"Maintain balanced diet", "Regular physical activity", "Continue healthy habits"},
		}},
		{Key: "overweight", Lower: 25.0, Upper: 30.0, Outcome: Outcome{
			Status: "Overweight", Risk: RiskMedium, Category: CategoryOvernutrition,
			Description:     "Overweight. Weight management recommended.",
			Recommendations: []string{"Reduce caloric intake", "Increase physical activity", "Focus on whole foods", "Monitor portion sizes"},
		}},
		{Key: "obesity_class_1", Lower: 30.0, Upper: 35.0, Outcome: Outcome{
			Status: "Obesity Class I", Risk: RiskHigh, Category: CategoryOvernutrition,
			Description:     "Obesity. Comprehensive weight management needed.",
			Recommendations: []string{"Consult healthcare provider", "Start structured weight loss program", "Increase physical activity"},
		}},
		{Key: "obesity_class_2", Lower: 35.0, Upper: 40.0, Outcome: Outcome{
			Status: "Obesity Class II", Risk: RiskHigh, Category: CategoryOvernutrition,
			Description:     "Severe obesity. Medical weight management needed.",
			Recommendations: []string{"Consult healthcare provider", "Screen for diabetes and hypertension", "Start structured weight loss program"},
		}},
		{Key: "obesity_class_3", Lower: 40.0, Upper: inf, Outcome: Outcome{
			Status: "Obesity Class III", Risk: RiskVeryHigh, Category: CategoryOvernutrition,
			Description:     "Very severe obesity. Specialist care needed.",
			Recommendations: []string{"Refer to specialist care", "Screen for obesity-related complications", "Focus on sustainable lifestyle changes"},
		}},
	}
}

var (
	maternalAtRisk = Outcome{
		Status: "Maternal Undernutrition (At-risk)", Risk: RiskHigh, Category: CategoryUndernutrition,
		Description:     "Pregnant woman is at risk of undernutrition. Immediate nutritional support needed.",
		Recommendations: []string{"Start nutritional supplementation", "Increase caloric intake", "Monitor pregnancy closely", "Consult healthcare provider"},
	}
	maternalBorderline = Outcome{
		Status: "Maternal Undernutrition Risk (Borderline)", Risk: RiskMedium, Category: CategoryUndernutrition,
		Description:     "Arm circumference is in the borderline range. Nutritional follow-up recommended.",
		Recommendations: []string{"Increase caloric intake", "Continue prenatal care", "Re-measure arm circumference at next visit"},
	}
	maternalNormal = Outcome{
		Status: "Normal", Risk: RiskLow, Category: CategoryNormal,
		Description:     "Pregnant woman has adequate nutritional status. Continue healthy pregnancy nutrition.",
		Recommendations: []string{"Maintain balanced pregnancy diet", "Continue prenatal care", "Monitor weight gain"},
	}
)

// PregnancyMUACBands returns the MUAC table for pregnant women under policy.
func PregnancyMUACBands(policy PregnancyPolicy) Bands {
	if policy == PregnancySecondaryTier {
		return Bands{
			{Key: "muac_below_23", Lower: 0, Upper: 23.0, Outcome: maternalAtRisk},
			{Key: "muac_23_to_25", Lower: 23.0, Upper: 25.0, Outcome: maternalBorderline},
			{Key: "muac_normal", Lower: 25.0, Upper: inf, Outcome: maternalNormal},
		}
	}
	return Bands{
		{Key: "muac_below_23", Lower: 0, Upper: 23.0, Outcome: maternalAtRisk},
		{Key: "muac_normal", Lower: 23.0, Upper: inf, Outcome: maternalNormal},
	}
}
