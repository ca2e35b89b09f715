package loadgen

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/okian/nutriscreen/internal/domain/assessment"
	"github.com/okian/nutriscreen/internal/domain/model"
)

// Profile names the kind of subject a generator draws.
type Profile int

const (
	ProfileInfant Profile = iota
	ProfileSchoolChild
	ProfilePregnant
	ProfileAdult
	ProfileElderly
	ProfileInvalid
)

// profileWeights sets the share of each profile, in parts per hundred.
var profileWeights = []struct {
	profile Profile
	weight  int
}{
	{ProfileInfant, 30},
	{ProfileSchoolChild, 15},
	{ProfilePregnant, 15},
	{ProfileAdult, 30},
	{ProfileElderly, 8},
	{ProfileInvalid, 2},
}

// Generator draws random but plausible screenings. It is not safe for
// concurrent use.
type Generator struct {
	rnd *rand.Rand
	now time.Time
}

// NewGenerator returns a generator seeded with seed, measuring at now.
func NewGenerator(seed uint64, now time.Time) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now: now}
}

// Generate returns n screenings with fresh uuid screening and subject IDs.
func (g *Generator) Generate(n int) []Screening {
	out := make([]Screening, n)
	for i := range out {
		out[i] = Screening{ScreeningID: uuid.NewString(), Request: g.Request(g.pick())}
	}
	return out
}

// Request draws one request of profile p.
func (g *Generator) Request(p Profile) assessment.Request {
	var s model.Subject
	switch p {
	case ProfileInfant:
		s = g.infant()
	case ProfileSchoolChild:
		s = g.schoolChild()
	case ProfilePregnant:
		s = g.pregnant()
	case ProfileElderly:
		s = g.adult(65, 90)
	case ProfileInvalid:
		s = g.adult(20, 60)
		s.WeightKg = -s.WeightKg
	default:
		s = g.adult(18, 64)
	}
	s.ID = uuid.NewString()
	s.MeasurementDate = g.now

	req := assessment.Request{Subject: s}
	if g.rnd.IntN(2) == 0 {
		req.Answers = g.answers()
	}
	return req
}

func (g *Generator) pick() Profile {
	n := g.rnd.IntN(100)
	for _, pw := range profileWeights {
		if n < pw.weight {
			return pw.profile
		}
		n -= pw.weight
	}
	return ProfileAdult
}

func (g *Generator) sex() model.Sex {
	if g.rnd.IntN(2) == 0 {
		return model.SexMale
	}
	return model.SexFemale
}

func (g *Generator) between(lo, hi float64) float64 {
	return lo + g.rnd.Float64()*(hi-lo)
}

// normal draws from N(mean, sd) clamped to [lo, hi].
func (g *Generator) normal(mean, sd, lo, hi float64) float64 {
	return min(max(mean+g.rnd.NormFloat64()*sd, lo), hi)
}

func (g *Generator) born(months int) time.Time {
	return g.now.AddDate(0, -months, -g.rnd.IntN(28))
}

func (g *Generator) infant() model.Subject {
	months := g.rnd.IntN(60)
	// Rough median length and weight curves for the first five years.
	height := 50 + 25*min(float64(months), 12)/12 + 0.75*max(float64(months)-12, 0)
	weight := 3.3 + 6.3*min(float64(months), 12)/12 + 0.19*max(float64(months)-12, 0)

	s := model.Subject{
		Sex:       g.sex(),
		BirthDate: g.born(months),
		HeightCm:  round1(g.normal(height, height*0.04, 45, 120)),
		WeightKg:  round1(g.normal(weight, weight*0.15, 1.5, 30)),
		Position:  model.PositionStanding,
	}
	if months < 24 {
		s.Position = model.PositionRecumbent
	}
	if months >= 6 {
		muac := round1(g.normal(14, 1.4, 9.5, 19))
		s.MUACCm = &muac
	}
	return s
}

func (g *Generator) schoolChild() model.Subject {
	months := 60 + g.rnd.IntN(12*13)
	years := float64(months) / 12
	height := 110 + 6*(years-5)
	weight := 18 + 3*(years-5)
	return model.Subject{
		Sex:       g.sex(),
		BirthDate: g.born(months),
		HeightCm:  round1(g.normal(height, height*0.05, 95, 190)),
		WeightKg:  round1(g.normal(weight, weight*0.2, 12, 100)),
		Position:  model.PositionStanding,
	}
}

func (g *Generator) pregnant() model.Subject {
	years := 18 + g.rnd.IntN(25)
	muac := round1(g.normal(25.5, 2.5, 18, 35))
	return model.Subject{
		Sex:        model.SexFemale,
		BirthDate:  g.born(years * 12),
		HeightCm:   round1(g.normal(158, 7, 135, 185)),
		WeightKg:   round1(g.normal(62, 11, 38, 120)),
		MUACCm:     &muac,
		IsPregnant: true,
	}
}

func (g *Generator) adult(minYears, maxYears int) model.Subject {
	years := minYears + g.rnd.IntN(maxYears-minYears+1)
	height := g.normal(166, 9, 140, 200)
	bmi := g.normal(25, 5, 14, 48)
	return model.Subject{
		Sex:       g.sex(),
		BirthDate: g.born(years * 12),
		HeightCm:  round1(height),
		WeightKg:  round1(bmi * height * height / 10000),
	}
}

func (g *Generator) answers() *model.Answers {
	yes := func(pct int) bool { return g.rnd.IntN(100) < pct }
	a := &model.Answers{
		FoodGroups: model.FoodGroups{
			Carbs: yes(95), Protein: yes(70), VeggiesFruits: yes(60), Dairy: yes(45),
		},
		FamilyHistory: model.FamilyHistory{
			Diabetes: yes(15), Hypertension: yes(20), HeartDisease: yes(8), KidneyDisease: yes(4),
			Tuberculosis: yes(3), Obesity: yes(12), Malnutrition: yes(6),
		},
		Lifestyle: model.LifestyleActive,
		Immunization: model.Immunization{
			BCG: yes(90), DPT: yes(85), Polio: yes(88), Measles: yes(80), Hepatitis: yes(75), VitaminA: yes(70),
		},
	}
	if yes(35) {
		a.Lifestyle = model.LifestyleSedentary
	}
	return a
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
