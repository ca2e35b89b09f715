package loadgen_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/nutriscreen/internal/adapters/http/api"
	service "github.com/okian/nutriscreen/internal/app"
	"github.com/okian/nutriscreen/internal/domain/assessment"
	"github.com/okian/nutriscreen/internal/domain/classify"
	"github.com/okian/nutriscreen/internal/domain/reference"
	"github.com/okian/nutriscreen/internal/loadgen"
	"github.com/okian/nutriscreen/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(&bytes.Buffer{})); err != nil {
		panic(err)
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := reference.Default()
	if err != nil {
		t.Fatalf("reference: %v", err)
	}
	a, err := assessment.New(store, assessment.WithPregnancyPolicy(classify.PregnancyMerged))
	if err != nil {
		t.Fatalf("assessor: %v", err)
	}
	svc := service.New(a, service.WithWorkerCount(4), service.WithQueueSize(1024))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, 50).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		_ = svc.Stop(context.Background())
	})
	return srv
}

func TestRun(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}

	Convey("Given a running screening service", t, func() {
		srv := newTestServer(t)
		out := filepath.Join(t.TempDir(), "subjects.json")
		cfg := &loadgen.Config{
			BaseURL:      srv.URL,
			NumSubjects:  200,
			TopN:         5,
			Workers:      8,
			Timeout:      5 * time.Second,
			PollInterval: 10 * time.Millisecond,
			PollTimeout:  20 * time.Second,
			Seed:         7,
			OutputFile:   out,
		}

		Convey("When a load run completes", func() {
			stats, err := loadgen.Run(context.Background(), cfg)

			Convey("Then every screening is accepted and classified", func() {
				So(err, ShouldBeNil)
				So(stats.Generated, ShouldEqual, 200)
				So(stats.Accepted, ShouldEqual, 200)
				So(stats.Completed, ShouldEqual, 200)
				So(stats.Missing, ShouldEqual, 0)
				So(stats.TopRisk, ShouldEqual, 5)

				classified := 0
				for _, n := range stats.ByCategory {
					classified += n
				}
				So(classified+stats.Invalid, ShouldEqual, stats.Completed)
			})

			Convey("Then the generated requests are saved", func() {
				data, err := os.ReadFile(out)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"screening_id"`)
			})

			Convey("Then the report lists the distribution", func() {
				var buf bytes.Buffer
				So(loadgen.WriteReport(&buf, stats), ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "category")
				So(buf.String(), ShouldContainSubstring, "completed")
			})
		})
	})

	Convey("Given an unhealthy service", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		Convey("When a load run starts", func() {
			_, err := loadgen.Run(context.Background(), &loadgen.Config{BaseURL: srv.URL, NumSubjects: 1, Workers: 1, Timeout: time.Second})

			Convey("Then it fails on the health check", func() {
				So(errors.Is(err, loadgen.ErrStatus), ShouldBeTrue)
			})
		})
	})
}
