package risk

// Points is the additive point table. Every factor contributes its points
// independently; the sum is clamped to [0, MaxScore].
type Points struct {
	Underweight      int
	Overweight       int
	Obese            int
	UnderFive        int
	Elderly          int
	LowDiversity     int
	Diabetes         int
	Hypertension     int
	HeartDisease     int
	KidneyDisease    int
	Tuberculosis     int
	FamilyObesity    int
	FamilyMalnourish int
	Sedentary        int
	MissingVaccine   int
}

// DefaultPoints returns the screening point table.
func DefaultPoints() Points {
	return Points{
		Underweight:      25,
		Overweight:       15,
		Obese:            30,
		UnderFive:        10,
		Elderly:          8,
		LowDiversity:     15,
		Diabetes:         8,
		Hypertension:     6,
		HeartDisease:     10,
		KidneyDisease:    12,
		Tuberculosis:     7,
		FamilyObesity:    5,
		FamilyMalnourish: 15,
		Sedentary:        15,
		MissingVaccine:   2,
	}
}

// Thresholds used by the point model.
const (
	MaxScore = 100

	bmiUnderweight = 18.5
	bmiOverweight  = 25.0
	bmiObese       = 30.0

	underFiveYears    = 5
	elderlyYears      = 65
	immunizationYears = 12
	minFoodGroups     = 3

	interventionScore = 30
	urgentScore       = 80
)

// Factor names reported in Result.Factors.
const (
	FactorUnderweight      = "bmi_underweight"
	FactorOverweight       = "bmi_overweight"
	FactorObese            = "bmi_obese"
	FactorUnderFive        = "age_under_5"
	FactorElderly          = "age_over_65"
	FactorLowDiversity     = "low_dietary_diversity"
	FactorDiabetes         = "family_diabetes"
	FactorHypertension     = "family_hypertension"
	FactorHeartDisease     = "family_heart_disease"
	FactorKidneyDisease    = "family_kidney_disease"
	FactorTuberculosis     = "family_tuberculosis"
	FactorFamilyObesity    = "family_obesity"
	FactorFamilyMalnourish = "family_malnutrition"
	FactorSedentary        = "sedentary_lifestyle"
	FactorImmunizationGap  = "immunization_gap"
)
