package model

// Lifestyle categories recognised by the risk aggregator.
const (
	LifestyleSedentary = "Sedentary"
	LifestyleActive    = "Active"
)

// Answers carries the optional extended screening questionnaire. Every field
// defaults to absent/false.
type Answers struct {
	FoodGroups    FoodGroups    `json:"food_groups"`
	FamilyHistory FamilyHistory `json:"family_history"`
	Lifestyle     string        `json:"lifestyle,omitempty"`
	Immunization  Immunization  `json:"immunization"`
}

// FoodGroups records which food groups were eaten in the recall period.
type FoodGroups struct {
	Carbs         bool `json:"carbs"`
	Protein       bool `json:"protein"`
	VeggiesFruits bool `json:"veggies_fruits"`
	Dairy         bool `json:"dairy"`
}

// Count returns how many of the four groups are present.
func (f FoodGroups) Count() int {
	n := 0
	for _, ok := range []bool{f.Carbs, f.Protein, f.VeggiesFruits, f.Dairy} {
		if ok {
			n++
		}
	}
	return n
}

// FamilyHistory flags conditions present in the subject's family.
type FamilyHistory struct {
	Diabetes      bool `json:"diabetes"`
	Hypertension  bool `json:"hypertension"`
	HeartDisease  bool `json:"heart_disease"`
	KidneyDisease bool `json:"kidney_disease"`
	Tuberculosis  bool `json:"tuberculosis"`
	Obesity       bool `json:"obesity"`
	Malnutrition  bool `json:"malnutrition"`
}

// Immunization flags the tracked childhood vaccines received.
type Immunization struct {
	BCG       bool `json:"bcg"`
	DPT       bool `json:"dpt"`
	Polio     bool `json:"polio"`
	Measles   bool `json:"measles"`
	Hepatitis bool `json:"hepatitis"`
	VitaminA  bool `json:"vitamin_a"`
}

// Missing returns how many of the six tracked vaccines were not received.
func (im Immunization) Missing() int {
	n := 0
	for _, ok := range []bool{im.BCG, im.DPT, im.Polio, im.Measles, im.Hepatitis, im.VitaminA} {
		if !ok {
			n++
		}
	}
	return n
}
