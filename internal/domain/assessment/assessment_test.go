package assessment_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/nutriscreen/internal/domain/assessment"
	"github.com/okian/nutriscreen/internal/domain/classify"
	"github.com/okian/nutriscreen/internal/domain/model"
	"github.com/okian/nutriscreen/internal/domain/reference"
	"github.com/okian/nutriscreen/internal/domain/risk"
	. "github.com/smartystreets/goconvey/convey"
)

var measured = time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

func newAssessor(t *testing.T, opts ...assessment.Option) *assessment.Assessor {
	t.Helper()
	store, err := reference.Default()
	if err != nil {
		t.Fatalf("load reference: %v", err)
	}
	opts = append([]assessment.Option{
		assessment.WithPregnancyPolicy(classify.PregnancyMerged),
		assessment.WithClock(func() time.Time { return measured }),
	}, opts...)
	a, err := assessment.New(store, opts...)
	if err != nil {
		t.Fatalf("new assessor: %v", err)
	}
	return a
}

type zeroSDStore struct{}

func (zeroSDStore) Lookup(reference.Indicator, model.Sex, float64) (reference.Reference, error) {
	return reference.Reference{Median: 10, SD: 0}, nil
}

func TestNew(t *testing.T) {
	Convey("Given the bundled reference store", t, func() {
		store, err := reference.Default()
		So(err, ShouldBeNil)

		Convey("When the pregnancy policy is left unset", func() {
			_, err := assessment.New(store)

			Convey("Then construction fails as ambiguous", func() {
				So(errors.Is(err, assessment.ErrAmbiguousConfiguration), ShouldBeTrue)
			})
		})

		Convey("When no store is given", func() {
			_, err := assessment.New(nil, assessment.WithPregnancyPolicy(classify.PregnancyMerged))
			So(errors.Is(err, assessment.ErrInvalidReferenceData), ShouldBeTrue)
		})
	})
}

func TestAssess(t *testing.T) {
	Convey("Given an assessor", t, func() {
		a := newAssessor(t)

		Convey("When a 45 year old woman of 70 kg and 160 cm is assessed without answers", func() {
			s := model.Subject{
				ID: "w-45", Sex: model.SexFemale,
				BirthDate:       measured.AddDate(-45, 0, 0),
				MeasurementDate: measured,
				WeightKg:        70, HeightCm: 160,
			}
			r := a.Assess(s, nil)

			Convey("Then she is overweight with a moderate risk score of 15", func() {
				So(r.Success, ShouldBeTrue)
				So(r.AgeYears, ShouldEqual, 45)
				So(r.Classification.Status, ShouldEqual, "Overweight")
				So(r.Classification.Risk, ShouldEqual, classify.RiskMedium)
				So(r.Risk.Score, ShouldEqual, 15)
				So(r.Risk.Level, ShouldEqual, risk.LevelModerate)
				So(r.Err(), ShouldBeNil)
			})
		})

		Convey("When a 30 month boy has MUAC 11.0 cm", func() {
			m := 11.0
			s := model.Subject{
				Sex:             model.SexMale,
				BirthDate:       measured.AddDate(0, -30, 0),
				MeasurementDate: measured,
				WeightKg:        9.0, HeightCm: 85, MUACCm: &m,
			}
			r := a.Assess(s, nil)

			Convey("Then he has severe acute malnutrition", func() {
				So(r.Success, ShouldBeTrue)
				So(r.AgeMonths, ShouldEqual, 30)
				So(r.Classification.Status, ShouldEqual, "Severe Acute Malnutrition")
				So(r.Classification.DecisionPath, ShouldEqual, "child/sam/muac")
				So(r.Risk.Factors, ShouldContain, risk.Factor{Name: risk.FactorUnderFive, Points: 10})
			})
		})

		Convey("When the weight is negative", func() {
			s := model.Subject{
				Sex:             model.SexFemale,
				BirthDate:       measured.AddDate(-30, 0, 0),
				MeasurementDate: measured,
				WeightKg:        -5, HeightCm: 160,
			}
			r := a.Assess(s, nil)

			Convey("Then a failed result is returned instead of a panic", func() {
				So(r.Success, ShouldBeFalse)
				So(r.ErrorKind, ShouldEqual, assessment.KindInvalidSubjectData)
				So(r.Message, ShouldContainSubstring, "weight_kg")
				So(r.Classification, ShouldBeNil)
				So(r.Risk, ShouldBeNil)
				So(errors.Is(r.Err(), assessment.ErrInvalidSubjectData), ShouldBeTrue)
			})
		})

		Convey("When no measurement date is given", func() {
			s := model.Subject{
				Sex:       model.SexMale,
				BirthDate: measured.AddDate(-20, 0, 0),
				WeightKg:  70, HeightCm: 175,
			}
			r := a.Assess(s, nil)

			Convey("Then the clock supplies it", func() {
				So(r.Subject.MeasurementDate, ShouldEqual, measured)
				So(r.AgeYears, ShouldEqual, 20)
			})
		})

		Convey("When the same subject is assessed twice", func() {
			m := 12.0
			req := assessment.Request{
				Subject: model.Subject{
					ID: "child-1", Sex: model.SexFemale,
					BirthDate:       measured.AddDate(-3, 0, 0),
					MeasurementDate: measured,
					WeightKg:        12.1, HeightCm: 92, MUACCm: &m,
				},
				Answers: &model.Answers{
					FoodGroups:    model.FoodGroups{Carbs: true},
					FamilyHistory: model.FamilyHistory{Diabetes: true},
				},
			}
			first, err := json.Marshal(a.AssessRequest(req))
			So(err, ShouldBeNil)
			second, err := json.Marshal(a.AssessRequest(req))
			So(err, ShouldBeNil)

			Convey("Then the serialized results are identical", func() {
				So(string(second), ShouldEqual, string(first))
			})
		})
	})

	Convey("Given an assessor over a corrupt store", t, func() {
		a, err := assessment.New(zeroSDStore{}, assessment.WithPregnancyPolicy(classify.PregnancyMerged))
		So(err, ShouldBeNil)

		Convey("When a child is assessed", func() {
			r := a.Assess(model.Subject{
				Sex:             model.SexMale,
				BirthDate:       measured.AddDate(-2, 0, 0),
				MeasurementDate: measured,
				WeightKg:        12, HeightCm: 87,
			}, nil)

			Convey("Then the reference failure is reported in the result", func() {
				So(r.Success, ShouldBeFalse)
				So(r.ErrorKind, ShouldEqual, assessment.KindInvalidReferenceData)
			})
		})
	})
}
