package classify

// ChildCutoffs holds the thresholds of the child decision tree. MUAC rules
// only apply between MUACMinMonths and MUACMaxMonths inclusive.
type ChildCutoffs struct {
	SevereWFH     float64
	ModerateWFH   float64
	StuntingHFA   float64
	SevereMUAC    float64
	ModerateMUAC  float64
	MUACMinMonths int
	MUACMaxMonths int
}

// DefaultChildCutoffs returns the WHO thresholds.
func DefaultChildCutoffs() ChildCutoffs {
	return ChildCutoffs{
		SevereWFH:     -3,
		ModerateWFH:   -2,
		StuntingHFA:   -2,
		SevereMUAC:    11.5,
		ModerateMUAC:  12.5,
		MUACMinMonths: 6,
		MUACMaxMonths: 59,
	}
}

var (
	childSAM = Outcome{
		Status: "Severe Acute Malnutrition", Risk: RiskHigh, Category: CategoryUndernutrition,
		Description:     "Child has severe acute malnutrition. Immediate medical attention required.",
		Recommendations: []string{"Seek immediate medical care", "Start therapeutic feeding program", "Monitor closely for complications"},
	}
	childMAM = Outcome{
		Status: "Moderate Acute Malnutrition", Risk: RiskMedium, Category: CategoryUndernutrition,
		Description:     "Child has moderate acute malnutrition. Nutritional intervention needed.",
		Recommendations: []string{"Start supplementary feeding program", "Increase meal frequency", "Monitor weight weekly"},
	}
	childStunting = Outcome{
		Status: "Stunting (Chronic Malnutrition)", Risk: RiskMedium, Category: CategoryUndernutrition,
		Description:     "Child shows signs of chronic malnutrition affecting growth.",
		Recommendations: []string{"Improve dietary diversity", "Ensure adequate protein intake", "Regular growth monitoring"},
	}
	childNormal = Outcome{
		Status: "Normal", Risk: RiskLow, Category: CategoryNormal,
		Description:     "Child has normal nutritional status. Continue healthy feeding practices.",
		Recommendations: []string{"Continue balanced diet", "Regular growth monitoring", "Maintain good hygiene practices"},
	}
)

// childInput carries the values the child rules look at. wasting is the
// weight-for-height z-score, or BMI-for-age when byBMI is set.
type childInput struct {
	months  int
	wasting float64
	byBMI   bool
	hfa     float64
	muac    *float64
}

type childDecision struct {
	outcome Outcome
	path    string
	used    string
	cutoff  string
}

func (c ChildCutoffs) muacApplies(in childInput) bool {
	return in.muac != nil && in.months >= c.MUACMinMonths && in.months <= c.MUACMaxMonths
}

// decide runs the child rules in order; the first match wins.
func (c ChildCutoffs) decide(in childInput) childDecision {
	muac := c.muacApplies(in)
	name, key, used := "WFH", "wfh", "Weight-for-height z-score"
	if in.byBMI {
		name, key, used = "BFA", "bfa", "BMI-for-age z-score"
	}

	switch {
	case in.wasting < c.SevereWFH:
		return childDecision{childSAM, "child/sam/" + key, used,
			formatZ(name, "<", c.SevereWFH)}
	case muac && *in.muac < c.SevereMUAC:
		return childDecision{childSAM, "child/sam/muac", "Mid-upper arm circumference",
			formatCM("MUAC", "<", c.SevereMUAC)}
	case in.wasting < c.ModerateWFH:
		return childDecision{childMAM, "child/mam/" + key, used,
			formatZRange(name, c.SevereWFH, c.ModerateWFH)}
	case muac && *in.muac < c.ModerateMUAC:
		return childDecision{childMAM, "child/mam/muac", "Mid-upper arm circumference",
			formatCMRange("MUAC", c.SevereMUAC, c.ModerateMUAC)}
	case in.hfa < c.StuntingHFA:
		return childDecision{childStunting, "child/stunting/hfa", "Height-for-age z-score",
			formatZ("HFA", "<", c.StuntingHFA)}
	default:
		used := "Weight-for-height and height-for-age z-scores"
		if in.byBMI {
			used = "BMI-for-age and height-for-age z-scores"
		}
		if muac {
			used += ", mid-upper arm circumference"
		}
		path := "child/normal"
		if in.byBMI {
			path += "/bfa"
		}
		return childDecision{childNormal, path, used, "no cutoff met"}
	}
}
