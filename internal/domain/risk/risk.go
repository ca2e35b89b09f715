// Package risk computes the composite screening risk score.
package risk

import (
	"fmt"
	"strings"

	"github.com/okian/nutriscreen/internal/domain/model"
	"github.com/okian/nutriscreen/internal/domain/zscore"
)

// Level is the risk level derived from the clamped score.
type Level string

const (
	LevelLow      Level = "Low"
	LevelModerate Level = "Moderate"
	LevelHigh     Level = "High"
	LevelSevere   Level = "Severe"
)

// LevelFor maps a clamped score to its level.
func LevelFor(score int) Level {
	switch {
	case score < 20:
		return LevelLow
	case score < 50:
		return LevelModerate
	case score < urgentScore:
		return LevelHigh
	default:
		return LevelSevere
	}
}

// MalnutritionStatus is the coarse malnutrition grading reported next to
// the score.
type MalnutritionStatus string

const (
	MalnutritionSevere   MalnutritionStatus = "Severe"
	MalnutritionModerate MalnutritionStatus = "Moderate"
	MalnutritionMild     MalnutritionStatus = "Mild"
	MalnutritionNormal   MalnutritionStatus = "Normal"
)

// Recommendation templates, in the order they are emitted.
const (
	RecommendUrgent    = "URGENT: Immediate medical attention required for severe malnutrition risk."
	RecommendGain      = "Increase caloric intake with nutrient-dense foods."
	RecommendManage    = "Focus on weight management through balanced diet and exercise."
	RecommendDiversity = "Improve dietary diversity by including all food groups."
	RecommendActivity  = "Increase physical activity to at least 30 minutes daily."
)

// Factor is one contribution to the score.
type Factor struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Result is the composite risk assessment of one subject.
type Result struct {
	Score              int                `json:"numeric_score"`
	Level              Level              `json:"risk_level"`
	Factors            []Factor           `json:"contributing_factors"`
	Recommendations    []string           `json:"recommendations"`
	InterventionNeeded bool               `json:"intervention_needed"`
	DietaryDiversity   int                `json:"dietary_diversity"`
	MalnutritionStatus MalnutritionStatus `json:"malnutrition_status"`
	Summary            string             `json:"assessment_summary"`
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithPoints replaces the point table.
func WithPoints(p Points) Option {
	return func(a *Aggregator) { a.points = p }
}

// WithPrecision sets the decimals BMI is shown with in the summary.
func WithPrecision(places int) Option {
	return func(a *Aggregator) { a.precision = places }
}

// Aggregator scores subjects. It is stateless and safe for concurrent use.
type Aggregator struct {
	points    Points
	precision int
}

// New builds an Aggregator.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{points: DefaultPoints(), precision: 2}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Score computes the risk of s at age. Questionnaire factors are skipped
// when answers is nil; inside a supplied questionnaire an unset field
// counts as false.
func (a *Aggregator) Score(s model.Subject, age model.Age, answers *model.Answers) Result {
	p := a.points
	var factors []Factor
	add := func(name string, pts int) {
		if pts > 0 {
			factors = append(factors, Factor{Name: name, Points: pts})
		}
	}

	bmi := s.BMI()
	switch {
	case bmi < bmiUnderweight:
		add(FactorUnderweight, p.Underweight)
	case bmi >= bmiObese:
		add(FactorObese, p.Obese)
	case bmi >= bmiOverweight:
		add(FactorOverweight, p.Overweight)
	}

	switch {
	case age.Years < underFiveYears:
		add(FactorUnderFive, p.UnderFive)
	case age.Years > elderlyYears:
		add(FactorElderly, p.Elderly)
	}

	diversity := 0
	sedentary := false
	if answers != nil {
		diversity = answers.FoodGroups.Count()
		if diversity < minFoodGroups {
			add(FactorLowDiversity, p.LowDiversity)
		}

		fh := answers.FamilyHistory
		for _, f := range []struct {
			on   bool
			name string
			pts  int
		}{
			{fh.Diabetes, FactorDiabetes, p.Diabetes},
			{fh.Hypertension, FactorHypertension, p.Hypertension},
			{fh.HeartDisease, FactorHeartDisease, p.HeartDisease},
			{fh.KidneyDisease, FactorKidneyDisease, p.KidneyDisease},
			{fh.Tuberculosis, FactorTuberculosis, p.Tuberculosis},
			{fh.Obesity, FactorFamilyObesity, p.FamilyObesity},
			{fh.Malnutrition, FactorFamilyMalnourish, p.FamilyMalnourish},
		} {
			if f.on {
				add(f.name, f.pts)
			}
		}

		sedentary = strings.EqualFold(answers.Lifestyle, model.LifestyleSedentary)
		if sedentary {
			add(FactorSedentary, p.Sedentary)
		}

		if age.Years <= immunizationYears {
			add(FactorImmunizationGap, answers.Immunization.Missing()*p.MissingVaccine)
		}
	}

	total := 0
	for _, f := range factors {
		total += f.Points
	}
	score := clamp(total)
	level := LevelFor(score)

	var recs []string
	if score >= urgentScore {
		recs = append(recs, RecommendUrgent)
	}
	switch {
	case bmi < bmiUnderweight:
		recs = append(recs, RecommendGain)
	case bmi >= bmiOverweight:
		recs = append(recs, RecommendManage)
	}
	if answers != nil && diversity < minFoodGroups {
		recs = append(recs, RecommendDiversity)
	}
	if sedentary {
		recs = append(recs, RecommendActivity)
	}

	return Result{
		Score:              score,
		Level:              level,
		Factors:            factors,
		Recommendations:    recs,
		InterventionNeeded: score >= interventionScore,
		DietaryDiversity:   diversity,
		MalnutritionStatus: malnutrition(score, bmi),
		Summary: fmt.Sprintf("Comprehensive nutrition screening for %d-year-old %s. BMI: %s, Risk Score: %d/100 (%s risk).",
			age.Years, s.Sex, formatBMI(zscore.Round(bmi, a.precision), a.precision), score, level),
	}
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > MaxScore:
		return MaxScore
	default:
		return v
	}
}

func malnutrition(score int, bmi float64) MalnutritionStatus {
	switch {
	case score >= urgentScore || bmi < 16:
		return MalnutritionSevere
	case score >= 50 || bmi < 17:
		return MalnutritionModerate
	case score >= interventionScore || bmi < bmiUnderweight:
		return MalnutritionMild
	default:
		return MalnutritionNormal
	}
}

func formatBMI(v float64, places int) string {
	if places < 0 {
		places = 2
	}
	return fmt.Sprintf("%.*f", places, v)
}
