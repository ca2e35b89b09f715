// Package zscore computes standard scores against reference curves.
package zscore

import (
	"fmt"
	"math"

	"github.com/okian/nutriscreen/internal/domain/model"
	"github.com/okian/nutriscreen/internal/domain/reference"
)

// ErrInvalidReferenceData is returned when the reference SD is not positive.
// It is the same sentinel the reference package uses for malformed tables.
var ErrInvalidReferenceData = reference.ErrInvalidReferenceData

// Result is one computed z-score with the reference values behind it.
type Result struct {
	Indicator  reference.Indicator `json:"indicator"`
	Observed   float64             `json:"observed_value"`
	ReferenceX float64             `json:"reference_x"`
	Median     float64             `json:"median"`
	SD         float64             `json:"sd"`
	Z          float64             `json:"z_score"`
}

// Rounded returns a copy with every number rounded to places decimals.
// Classification never compares rounded values.
func (r Result) Rounded(places int) Result {
	r.Observed = Round(r.Observed, places)
	r.ReferenceX = Round(r.ReferenceX, places)
	r.Median = Round(r.Median, places)
	r.SD = Round(r.SD, places)
	r.Z = Round(r.Z, places)
	return r
}

// Calculator computes z-scores from a reference store. It has no state of
// its own and is safe for concurrent use.
type Calculator struct {
	store reference.Store
}

// New creates a Calculator reading from store.
func New(store reference.Store) *Calculator {
	return &Calculator{store: store}
}

// Compute returns (observed - median) / sd for the reference point selected
// at x.
func (c *Calculator) Compute(ind reference.Indicator, sex model.Sex, x, observed float64) (Result, error) {
	ref, err := c.store.Lookup(ind, sex, x)
	if err != nil {
		return Result{}, fmt.Errorf("lookup %s: %w", ind, err)
	}
	if ref.SD <= 0 || math.IsNaN(ref.SD) {
		return Result{}, fmt.Errorf("%w: %s/%s sd=%v at x=%v", ErrInvalidReferenceData, ind, sex, ref.SD, ref.X)
	}
	return Result{
		Indicator:  ind,
		Observed:   observed,
		ReferenceX: ref.X,
		Median:     ref.Median,
		SD:         ref.SD,
		Z:          (observed - ref.Median) / ref.SD,
	}, nil
}

// curveSource is implemented by stores that expose their curves.
type curveSource interface {
	Curve(ind reference.Indicator, sex model.Sex) (*reference.Curve, bool)
}

// Covers reports whether x lies within the tabulated range of the curve for
// (ind, sex). Stores that do not expose curves are assumed to cover every x.
func (c *Calculator) Covers(ind reference.Indicator, sex model.Sex, x float64) bool {
	src, ok := c.store.(curveSource)
	if !ok {
		return true
	}
	curve, ok := src.Curve(ind, sex)
	if !ok {
		return false
	}
	lo, hi := curve.Bounds()
	return x >= lo && x <= hi
}

// Round rounds v half away from zero to places decimals. A negative places
// leaves v unchanged.
func Round(v float64, places int) float64 {
	if places < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
