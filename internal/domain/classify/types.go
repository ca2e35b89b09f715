// Package classify turns measurements and z-scores into a nutritional status.
//
// A subject is classified by exactly one of three decision trees, selected
// in this order: pregnant adult women, children and adolescents under 18,
// everyone else. Cutoffs live in data (Bands, ChildCutoffs) so adjusting a
// clinical threshold does not touch the decision code.
package classify

import (
	"github.com/okian/nutriscreen/internal/domain/reference"
	"github.com/okian/nutriscreen/internal/domain/zscore"
)

// RiskLevel is the clinical risk tier attached to a classification.
type RiskLevel string

const (
	RiskLow       RiskLevel = "Low"
	RiskLowMedium RiskLevel = "Low-Medium"
	RiskMedium    RiskLevel = "Medium"
	RiskHigh      RiskLevel = "High"
	RiskVeryHigh  RiskLevel = "Very High"
)

// Category groups nutritional statuses.
type Category string

const (
	CategoryNormal         Category = "Normal"
	CategoryUndernutrition Category = "Undernutrition"
	CategoryOvernutrition  Category = "Overnutrition"
	CategoryError          Category = "Error"
)

// Group is the subject category that selected the decision tree.
type Group string

const (
	GroupPregnant Group = "pregnant"
	GroupChild    Group = "child"
	GroupAdult    Group = "adult"
	GroupInvalid  Group = "invalid"
)

// StatusInvalidData is the status reported for non-physical input.
const StatusInvalidData = "Invalid Data"

// Outcome is the clinical content of a terminal decision.
type Outcome struct {
	Status          string    `json:"nutritional_status"`
	Risk            RiskLevel `json:"risk_level"`
	Category        Category  `json:"category"`
	Description     string    `json:"description,omitempty"`
	Recommendations []string  `json:"recommendations,omitempty"`
}

// Result is the classification of one subject. It is built once per call
// and not modified afterwards.
type Result struct {
	Outcome
	Group            Group                                 `json:"group"`
	ZScores          map[reference.Indicator]zscore.Result `json:"contributing_z_scores,omitempty"`
	Labels           map[reference.Indicator]string        `json:"indicator_labels,omitempty"`
	DecisionPath     string                                `json:"decision_path"`
	MeasurementsUsed string                                `json:"measurements_used,omitempty"`
	CutoffUsed       string                                `json:"cutoff_used,omitempty"`
	BMI              float64                               `json:"bmi,omitempty"`
	AgeMonths        int                                   `json:"age_months"`
	Reason           string                                `json:"reason,omitempty"`
}

// Valid reports whether the subject could be classified.
func (r *Result) Valid() bool { return r.Category != CategoryError }
