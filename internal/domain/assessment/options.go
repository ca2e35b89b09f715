package assessment

import (
	"time"

	"github.com/okian/nutriscreen/internal/domain/classify"
	"github.com/okian/nutriscreen/internal/domain/risk"
)

// Option configures an Assessor.
type Option func(*settings)

type settings struct {
	now        func() time.Time
	precision  int
	classifier []classify.Option
	risk       []risk.Option
}

// WithClock sets the clock used when a subject has no measurement date.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPregnancyPolicy sets the pregnancy MUAC policy. Required.
func WithPregnancyPolicy(p classify.PregnancyPolicy) Option {
	return func(s *settings) { s.classifier = append(s.classifier, classify.WithPregnancyPolicy(p)) }
}

// WithPregnancyMinAge sets the minimum age in years for the pregnancy rules.
func WithPregnancyMinAge(years int) Option {
	return func(s *settings) { s.classifier = append(s.classifier, classify.WithPregnancyMinAge(years)) }
}

// WithPrecision sets presentation rounding for z-scores and BMI.
func WithPrecision(places int) Option {
	return func(s *settings) { s.precision = places }
}

// WithClassifierOptions passes extra options to the classifier.
func WithClassifierOptions(opts ...classify.Option) Option {
	return func(s *settings) { s.classifier = append(s.classifier, opts...) }
}

// WithRiskOptions passes extra options to the risk aggregator.
func WithRiskOptions(opts ...risk.Option) Option {
	return func(s *settings) { s.risk = append(s.risk, opts...) }
}
