package reference_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	model "github.com/okian/nutriscreen/internal/domain/model"
	"github.com/okian/nutriscreen/internal/domain/reference"
	. "github.com/smartystreets/goconvey/convey"
)

func fullTables(points []reference.Point) []reference.Table {
	var out []reference.Table
	for _, ind := range reference.Indicators() {
		for _, sex := range []model.Sex{model.SexMale, model.SexFemale} {
			out = append(out, reference.Table{Indicator: ind, Sex: sex, Points: points})
		}
	}
	return out
}

var threePoints = []reference.Point{
	{X: 10, Median: 100, SD: 10},
	{X: 20, Median: 200, SD: 20},
	{X: 30, Median: 300, SD: 30},
}

func TestStore_Interpolate(t *testing.T) {
	Convey("Given a store that interpolates", t, func() {
		store, err := reference.NewStore(fullTables(threePoints))
		So(err, ShouldBeNil)

		Convey("When x sits on a tabulated point", func() {
			ref, err := store.Lookup(reference.WeightForAge, model.SexMale, 20)
			So(err, ShouldBeNil)
			So(ref, ShouldResemble, reference.Reference{X: 20, Median: 200, SD: 20})
		})

		Convey("When x lies between two points", func() {
			ref, err := store.Lookup(reference.WeightForAge, model.SexFemale, 15)
			So(err, ShouldBeNil)

			Convey("Then median and SD are linearly interpolated", func() {
				So(ref.X, ShouldEqual, 15)
				So(ref.Median, ShouldAlmostEqual, 150, 1e-9)
				So(ref.SD, ShouldAlmostEqual, 15, 1e-9)
			})
		})

		Convey("When x is below the first point", func() {
			ref, _ := store.Lookup(reference.HeightForAge, model.SexMale, -5)
			So(ref, ShouldResemble, reference.Reference{X: 10, Median: 100, SD: 10})
		})

		Convey("When x is above the last point", func() {
			ref, _ := store.Lookup(reference.HeightForAge, model.SexMale, 1e6)
			So(ref, ShouldResemble, reference.Reference{X: 30, Median: 300, SD: 30})
		})

		Convey("When x is NaN", func() {
			_, err := store.Lookup(reference.HeightForAge, model.SexMale, math.NaN())
			So(errors.Is(err, reference.ErrInvalidLookup), ShouldBeTrue)
		})

		Convey("When sex is unknown", func() {
			_, err := store.Lookup(reference.HeightForAge, model.Sex("x"), 12)
			So(errors.Is(err, reference.ErrUnknownCurve), ShouldBeTrue)
		})
	})
}

func TestStore_Nearest(t *testing.T) {
	Convey("Given a store using nearest-neighbour for weight-for-height", t, func() {
		store, err := reference.NewStore(fullTables(threePoints),
			reference.WithStrategy(reference.WeightForHeight, reference.Nearest))
		So(err, ShouldBeNil)

		Convey("Then the curve records its strategy", func() {
			c, ok := store.Curve(reference.WeightForHeight, model.SexFemale)
			So(ok, ShouldBeTrue)
			So(c.Strategy(), ShouldEqual, reference.Nearest)
			other, _ := store.Curve(reference.WeightForAge, model.SexFemale)
			So(other.Strategy(), ShouldEqual, reference.Interpolate)
		})

		Convey("When x is closer to the upper point", func() {
			ref, _ := store.Lookup(reference.WeightForHeight, model.SexMale, 17)
			So(ref.X, ShouldEqual, 20)
			So(ref.Median, ShouldEqual, 200)
		})

		Convey("When x is exactly halfway", func() {
			ref, _ := store.Lookup(reference.WeightForHeight, model.SexMale, 15)

			Convey("Then the lower point wins", func() {
				So(ref.X, ShouldEqual, 10)
			})
		})
	})
}

func TestStore_Validation(t *testing.T) {
	Convey("Given malformed tables", t, func() {
		Convey("When a curve is missing", func() {
			tables := fullTables(threePoints)[1:]
			_, err := reference.NewStore(tables)
			So(errors.Is(err, reference.ErrInvalidReferenceData), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "missing curve")
		})

		Convey("When a SD is zero", func() {
			bad := []reference.Point{{X: 1, Median: 10, SD: 0}}
			_, err := reference.NewStore(fullTables(bad))
			So(errors.Is(err, reference.ErrInvalidReferenceData), ShouldBeTrue)
		})

		Convey("When x is not increasing", func() {
			bad := []reference.Point{{X: 2, Median: 10, SD: 1}, {X: 2, Median: 11, SD: 1}}
			_, err := reference.NewStore(fullTables(bad))
			So(errors.Is(err, reference.ErrInvalidReferenceData), ShouldBeTrue)
		})

		Convey("When a curve is duplicated", func() {
			tables := append(fullTables(threePoints), fullTables(threePoints)[0])
			_, err := reference.NewStore(tables)
			So(errors.Is(err, reference.ErrInvalidReferenceData), ShouldBeTrue)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given the bundled tables", t, func() {
		store, err := reference.Default()

		Convey("Then they load and cover every indicator for both sexes", func() {
			So(err, ShouldBeNil)
			So(store.Name(), ShouldEqual, "who-2006-abridged")
			for _, ind := range reference.Indicators() {
				for _, sex := range []model.Sex{model.SexMale, model.SexFemale} {
					c, ok := store.Curve(ind, sex)
					So(ok, ShouldBeTrue)
					So(c.Len(), ShouldBeGreaterThan, 10)
				}
			}
		})

		Convey("And weight-for-height spans 45 to 120 cm", func() {
			c, _ := store.Curve(reference.WeightForHeight, model.SexMale)
			lo, hi := c.Bounds()
			So(lo, ShouldEqual, 45)
			So(hi, ShouldEqual, 120)
		})
	})

	Convey("Given a YAML row with the wrong column count", t, func() {
		doc := `
curves:
  - indicator: weight_for_age
    sex: male
    points:
      - [0, 3.3]
`
		_, err := reference.Load(strings.NewReader(doc))
		So(errors.Is(err, reference.ErrInvalidReferenceData), ShouldBeTrue)
	})

	Convey("Given a YAML document with an unknown field", t, func() {
		_, err := reference.Load(strings.NewReader("colour: blue\n"))
		So(errors.Is(err, reference.ErrInvalidReferenceData), ShouldBeTrue)
	})

	Convey("Given a missing file", t, func() {
		_, err := reference.LoadFile("/non/existent/tables.yaml")
		So(err, ShouldNotBeNil)
	})
}
