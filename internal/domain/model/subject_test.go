package model_test

import (
	"math"
	"testing"
	"time"

	model "github.com/okian/nutriscreen/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAgeAt(t *testing.T) {
	convey.Convey("Given a birth date of 2020-03-15", t, func() {
		birth := date(2020, time.March, 15)

		convey.Convey("When measured the day before the 60th month is completed", func() {
			age := model.AgeAt(birth, date(2025, time.March, 14))

			convey.Convey("Then the age is 59 completed months", func() {
				convey.So(age.Valid, convey.ShouldBeTrue)
				convey.So(age.Months, convey.ShouldEqual, 59)
				convey.So(age.Years, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When measured on the 60th month anniversary", func() {
			age := model.AgeAt(birth, date(2025, time.March, 15))

			convey.Convey("Then the age is 60 months and 5 years", func() {
				convey.So(age.Months, convey.ShouldEqual, 60)
				convey.So(age.Years, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When measured on the birth date", func() {
			age := model.AgeAt(birth, birth)

			convey.Convey("Then the age is zero and valid", func() {
				convey.So(age.Valid, convey.ShouldBeTrue)
				convey.So(age.Months, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When the measurement predates the birth", func() {
			age := model.AgeAt(birth, date(2020, time.March, 14))

			convey.Convey("Then the age is invalid", func() {
				convey.So(age.Valid, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When born on the last day of a long month", func() {
			eom := date(2024, time.January, 31)

			convey.Convey("Then a shorter month does not complete early", func() {
				convey.So(model.AgeAt(eom, date(2024, time.February, 29)).Months, convey.ShouldEqual, 0)
				convey.So(model.AgeAt(eom, date(2024, time.March, 31)).Months, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the time of day differs", func() {
			age := model.AgeAt(birth.Add(20*time.Hour), date(2020, time.April, 15))

			convey.Convey("Then only the calendar date counts", func() {
				convey.So(age.Months, convey.ShouldEqual, 1)
			})
		})
	})
}

func TestSubject(t *testing.T) {
	convey.Convey("Given a subject of 70 kg and 160 cm", t, func() {
		s := model.Subject{WeightKg: 70, HeightCm: 160}

		convey.Convey("Then BMI is weight over height in metres squared", func() {
			convey.So(math.Abs(s.BMI()-27.34375), convey.ShouldBeLessThan, 1e-9)
		})

		convey.Convey("And no MUAC is reported", func() {
			convey.So(s.HasMUAC(), convey.ShouldBeFalse)
		})

		convey.Convey("When height is zero", func() {
			s.HeightCm = 0
			convey.So(s.BMI(), convey.ShouldEqual, 0)
		})
	})

	convey.Convey("Given free-form sex values", t, func() {
		convey.So(model.ParseSex("Male"), convey.ShouldEqual, model.SexMale)
		convey.So(model.ParseSex(" f "), convey.ShouldEqual, model.SexFemale)
		convey.So(model.ParseSex("other").Valid(), convey.ShouldBeFalse)
	})
}

func TestAnswers(t *testing.T) {
	convey.Convey("Given empty answers", t, func() {
		var a model.Answers

		convey.Convey("Then no food group is counted and every vaccine is missing", func() {
			convey.So(a.FoodGroups.Count(), convey.ShouldEqual, 0)
			convey.So(a.Immunization.Missing(), convey.ShouldEqual, 6)
		})
	})

	convey.Convey("Given three food groups and two vaccines", t, func() {
		a := model.Answers{
			FoodGroups:   model.FoodGroups{Carbs: true, Protein: true, Dairy: true},
			Immunization: model.Immunization{BCG: true, Polio: true},
		}
		convey.So(a.FoodGroups.Count(), convey.ShouldEqual, 3)
		convey.So(a.Immunization.Missing(), convey.ShouldEqual, 4)
	})
}
