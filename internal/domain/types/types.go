// Package types contains the shapes shared by the screening pipeline.
package types

import (
	"time"

	"github.com/okian/nutriscreen/internal/domain/assessment"
)

// Screening is one asynchronous assessment request.
type Screening struct {
	ID          string             `json:"screening_id"`
	Request     assessment.Request `json:"request"`
	SubmittedAt time.Time          `json:"submitted_at"`
}

// Record is the stored outcome of a screening.
type Record struct {
	ScreeningID string            `json:"screening_id"`
	Result      assessment.Result `json:"result"`
	SubmittedAt time.Time         `json:"submitted_at"`
	AssessedAt  time.Time         `json:"assessed_at"`
}

// Stats summarizes the stored screenings.
type Stats struct {
	Total              int            `json:"total"`
	Successful         int            `json:"successful"`
	Failed             int            `json:"failed"`
	InterventionNeeded int            `json:"intervention_needed"`
	MeanRiskScore      float64        `json:"mean_risk_score"`
	ByStatus           map[string]int `json:"by_nutritional_status"`
	ByCategory         map[string]int `json:"by_category"`
	ByGroup            map[string]int `json:"by_group"`
	ByRiskLevel        map[string]int `json:"by_risk_level"`
	ByErrorKind        map[string]int `json:"by_error_kind"`
}

// NewStats returns empty statistics with allocated maps.
func NewStats() Stats {
	return Stats{
		ByStatus:    map[string]int{},
		ByCategory:  map[string]int{},
		ByGroup:     map[string]int{},
		ByRiskLevel: map[string]int{},
		ByErrorKind: map[string]int{},
	}
}

// Add folds one result into the statistics. MeanRiskScore covers
// successful results only.
func (s *Stats) Add(r *assessment.Result) {
	s.Total++
	if !r.Success {
		s.Failed++
		s.ByErrorKind[string(r.ErrorKind)]++
		return
	}
	sum := s.MeanRiskScore * float64(s.Successful)
	s.Successful++
	s.MeanRiskScore = (sum + float64(r.Risk.Score)) / float64(s.Successful)

	s.ByStatus[r.Classification.Status]++
	s.ByCategory[string(r.Classification.Category)]++
	s.ByGroup[string(r.Classification.Group)]++
	s.ByRiskLevel[string(r.Risk.Level)]++
	if r.Risk.InterventionNeeded {
		s.InterventionNeeded++
	}
}

// Submission is the receipt of an asynchronous screening.
type Submission struct {
	ScreeningID string `json:"screening_id"`
	Duplicate   bool   `json:"duplicate"`
}

// ServiceStats combines population statistics with pipeline state.
type ServiceStats struct {
	Started     bool  `json:"started"`
	Workers     int   `json:"workers"`
	QueueLength int   `json:"queue_length"`
	QueueSize   int   `json:"queue_size"`
	Remembered  int64 `json:"remembered_screenings"`
	Stored      int   `json:"stored_screenings"`
	Population  Stats `json:"population"`
}
