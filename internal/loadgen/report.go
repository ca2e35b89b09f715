package loadgen

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/okian/nutriscreen/internal/domain/types"
)

// ErrUnsorted is returned when top risk records are out of order.
var ErrUnsorted = errors.New("top risk not sorted")

const percent = 100

// verifyTopRisk checks that records are successful and ordered by
// descending risk score.
func verifyTopRisk(top []types.Record) error {
	for i := range top {
		if !top[i].Result.Success || top[i].Result.Risk == nil {
			return fmt.Errorf("%w: entry %d (%s) has no risk result", ErrUnsorted, i, top[i].ScreeningID)
		}
		if i > 0 && top[i].Result.Risk.Score > top[i-1].Result.Risk.Score {
			return fmt.Errorf("%w: entry %d scores above entry %d", ErrUnsorted, i, i-1)
		}
	}
	return nil
}

// WriteReport prints the run summary and the distributions of the
// completed screenings to w.
func WriteReport(w io.Writer, s *Stats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "generated\t%d\n", s.Generated)
	fmt.Fprintf(tw, "accepted\t%d\n", s.Accepted)
	fmt.Fprintf(tw, "duplicate\t%d\n", s.Duplicate)
	fmt.Fprintf(tw, "rejected\t%d\n", s.Rejected)
	fmt.Fprintf(tw, "completed\t%d\n", s.Completed)
	fmt.Fprintf(tw, "missing\t%d\n", s.Missing)
	fmt.Fprintf(tw, "invalid data\t%d\n", s.Invalid)
	if s.Duration > 0 {
		fmt.Fprintf(tw, "throughput\t%.1f/s\n", float64(s.Submitted)/s.Duration.Seconds())
	}

	writeDistribution(tw, "category", s.ByCategory, s.Completed)
	writeDistribution(tw, "group", s.ByGroup, s.Completed)
	writeDistribution(tw, "nutritional status", s.ByStatus, s.Completed)

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeDistribution(w io.Writer, title string, counts map[string]int, total int) {
	fmt.Fprintf(w, "\n%s\tcount\tshare\n", title)
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		share := 0.0
		if total > 0 {
			share = float64(counts[k]) / float64(total) * percent
		}
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", k, counts[k], share)
	}
}
