package loadgen

import (
	"time"

	"github.com/okian/nutriscreen/internal/domain/assessment"
	"github.com/okian/nutriscreen/internal/domain/types"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumSubjects  int           // Number of subjects to generate
	TopN         int           // Number of top risk screenings to fetch
	Workers      int           // Number of concurrent submitters and pollers
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Delay between result polls for one screening
	PollTimeout  time.Duration // Give up waiting for results after this long
	Seed         uint64        // Generator seed; zero picks one from the clock
	OutputFile   string        // Optional file receiving the generated requests
	Verbose      bool          // Log every rejected submission
}

// Screening is one generated submission.
type Screening struct {
	ScreeningID string `json:"screening_id"`
	assessment.Request
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Accepted   int
	Duplicate  int
	Rejected   int
	Completed  int
	Missing    int
	TopRisk    int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	ByCategory map[string]int
	ByGroup    map[string]int
	ByStatus   map[string]int
	Invalid    int
}

func newStats() *Stats {
	return &Stats{
		StartTime:  time.Now(),
		ByCategory: map[string]int{},
		ByGroup:    map[string]int{},
		ByStatus:   map[string]int{},
	}
}

func (s *Stats) add(rec *types.Record) {
	s.Completed++
	res := &rec.Result
	if !res.Success {
		s.Invalid++
		return
	}
	s.ByCategory[string(res.Classification.Category)]++
	s.ByGroup[string(res.Classification.Group)]++
	s.ByStatus[res.Classification.Status]++
}
