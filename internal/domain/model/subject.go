// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// Sex of the measured person.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// Valid reports whether s is one of the supported values.
func (s Sex) Valid() bool { return s == SexMale || s == SexFemale }

// ParseSex normalises common spellings ("M", "Male", "f", ...) to a Sex.
// Unknown input is returned as-is so validation can reject it later.
func ParseSex(v string) Sex {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "m", "male", "boy":
		return SexMale
	case "f", "female", "girl":
		return SexFemale
	default:
		return Sex(v)
	}
}

// Position tells how the length/height was taken.
type Position string

const (
	// PositionUnspecified lets the engine assume the WHO default for the age:
	// recumbent under 24 months, standing from 24 months.
	PositionUnspecified Position = ""
	PositionRecumbent   Position = "recumbent"
	PositionStanding    Position = "standing"
)

// Subject is one measurement event for one person.
type Subject struct {
	ID              string    `json:"id,omitempty"`
	Sex             Sex       `json:"sex"`
	BirthDate       time.Time `json:"birth_date"`
	MeasurementDate time.Time `json:"measurement_date"`
	WeightKg        float64   `json:"weight_kg"`
	HeightCm        float64   `json:"height_cm"`
	Position        Position  `json:"position,omitempty"`
	MUACCm          *float64  `json:"muac_cm,omitempty"`
	IsPregnant      bool      `json:"is_pregnant"`
}

// HasMUAC reports whether a MUAC value was supplied.
func (s *Subject) HasMUAC() bool { return s.MUACCm != nil }

// BMI returns weight / height(m)^2, or 0 when height is not positive.
func (s *Subject) BMI() float64 {
	if s.HeightCm <= 0 {
		return 0
	}
	m := s.HeightCm / 100
	return s.WeightKg / (m * m)
}

// Age is the derived age of a subject at measurement time.
type Age struct {
	Months int // completed calendar months
	Years  int // completed years (Months / 12)
	Valid  bool
}

// AgeAt derives the age from birth and measurement dates using completed
// calendar months: a month counts only once its day-of-month has been reached.
// The result is invalid when the measurement predates the birth date.
func AgeAt(birth, measured time.Time) Age {
	by, bm, bd := birth.Date()
	my, mm, md := measured.Date()

	months := (my-by)*12 + int(mm-bm)
	if md < bd {
		months--
	}
	if months < 0 || dateOnly(measured).Before(dateOnly(birth)) {
		return Age{}
	}
	return Age{Months: months, Years: months / 12, Valid: true}
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
