package loadgen

import (
	"bytes"
	"errors"
	"testing"

	"github.com/okian/nutriscreen/internal/domain/assessment"
	"github.com/okian/nutriscreen/internal/domain/risk"
	"github.com/okian/nutriscreen/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func record(id string, score int) types.Record {
	return types.Record{ScreeningID: id, Result: assessment.Result{Success: true, Risk: &risk.Result{Score: score}}}
}

func TestVerifyTopRisk(t *testing.T) {
	Convey("Given top risk records", t, func() {
		Convey("When they are in descending order", func() {
			So(verifyTopRisk([]types.Record{record("a", 70), record("b", 70), record("c", 10)}), ShouldBeNil)
		})

		Convey("When a later record scores higher", func() {
			err := verifyTopRisk([]types.Record{record("a", 10), record("b", 70)})
			So(errors.Is(err, ErrUnsorted), ShouldBeTrue)
		})

		Convey("When a record has no risk result", func() {
			err := verifyTopRisk([]types.Record{{ScreeningID: "x"}})
			So(errors.Is(err, ErrUnsorted), ShouldBeTrue)
		})
	})
}

func TestWriteReport(t *testing.T) {
	Convey("Given run statistics", t, func() {
		s := newStats()
		s.Generated, s.Accepted, s.Completed = 4, 4, 4
		s.ByCategory["Normal"] = 3
		s.ByCategory["Undernutrition"] = 1

		Convey("Then the report shows shares sorted by key", func() {
			var buf bytes.Buffer
			So(WriteReport(&buf, s), ShouldBeNil)
			out := buf.String()
			So(out, ShouldContainSubstring, "75.0%")
			So(out, ShouldContainSubstring, "25.0%")
			So(bytes.Index(buf.Bytes(), []byte("Normal")), ShouldBeLessThan, bytes.Index(buf.Bytes(), []byte("Undernutrition")))
		})
	})
}
