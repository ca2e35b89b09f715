// Package assessment is the single entry point of the screening engine. It
// runs the growth classifier and the risk aggregator for one subject and
// returns a single result, including for bad input.
package assessment

import (
	"fmt"
	"time"

	"github.com/okian/nutriscreen/internal/domain/classify"
	"github.com/okian/nutriscreen/internal/domain/model"
	"github.com/okian/nutriscreen/internal/domain/reference"
	"github.com/okian/nutriscreen/internal/domain/risk"
	"github.com/okian/nutriscreen/internal/domain/zscore"
)

// Request is one subject with its optional questionnaire.
type Request struct {
	Subject model.Subject  `json:"subject"`
	Answers *model.Answers `json:"answers,omitempty"`
}

// Result is the outcome of assessing one subject. On failure
// Classification and Risk are nil and ErrorKind and Message are set.
type Result struct {
	Subject        model.Subject    `json:"subject"`
	AgeMonths      int              `json:"age_months"`
	AgeYears       int              `json:"age_years"`
	Success        bool             `json:"success"`
	Classification *classify.Result `json:"classification,omitempty"`
	Risk           *risk.Result     `json:"risk,omitempty"`
	ErrorKind      ErrorKind        `json:"error_kind,omitempty"`
	Message        string           `json:"message,omitempty"`
}

// Err returns the failure as an error wrapping the kind's sentinel, or nil.
func (r *Result) Err() error {
	if r.Success {
		return nil
	}
	return fmt.Errorf("%w: %s", r.ErrorKind.Sentinel(), r.Message)
}

// Assessor orchestrates one assessment. It holds only immutable
// collaborators and is safe for concurrent use.
type Assessor struct {
	classifier *classify.Classifier
	risk       *risk.Aggregator
	now        func() time.Time
}

// New builds an Assessor over store. It fails when the configuration is
// ambiguous or invalid.
func New(store reference.Store, opts ...Option) (*Assessor, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: nil reference store", ErrInvalidReferenceData)
	}
	s := settings{now: time.Now, precision: 2}
	for _, opt := range opts {
		opt(&s)
	}

	copts := append([]classify.Option{classify.WithPrecision(s.precision)}, s.classifier...)
	c, err := classify.New(zscore.New(store), copts...)
	if err != nil {
		return nil, err
	}
	ropts := append([]risk.Option{risk.WithPrecision(s.precision)}, s.risk...)

	return &Assessor{
		classifier: c,
		risk:       risk.New(ropts...),
		now:        s.now,
	}, nil
}

// Assess assesses one subject. A missing measurement date is taken from
// the clock and echoed back in the result.
func (a *Assessor) Assess(subject model.Subject, answers *model.Answers) Result {
	if subject.MeasurementDate.IsZero() {
		subject.MeasurementDate = a.now()
	}
	age := model.AgeAt(subject.BirthDate, subject.MeasurementDate)
	res := Result{Subject: subject, AgeMonths: age.Months, AgeYears: age.Years}

	cls, err := a.classifier.Classify(subject, age)
	if err != nil {
		res.ErrorKind = KindInvalidReferenceData
		res.Message = err.Error()
		return res
	}
	if !cls.Valid() {
		res.ErrorKind = KindInvalidSubjectData
		res.Message = cls.Reason
		return res
	}

	score := a.risk.Score(subject, age, answers)
	res.Success = true
	res.Classification = &cls
	res.Risk = &score
	return res
}

// AssessRequest is Assess for a Request.
func (a *Assessor) AssessRequest(r Request) Result {
	return a.Assess(r.Subject, r.Answers)
}
