package reference

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/nutriscreen/internal/domain/model"
)

// Point is one tabulated row of a curve.
type Point struct {
	X      float64
	Median float64
	SD     float64
}

// Reference is the outcome of a lookup: the x actually used (after clamping
// or nearest-neighbour selection) and the reference median and SD there.
type Reference struct {
	X      float64
	Median float64
	SD     float64
}

// Curve is an immutable ordered reference curve for one (indicator, sex).
type Curve struct {
	indicator Indicator
	sex       model.Sex
	strategy  Strategy
	points    []Point
}

// newCurve validates and copies points. Points must be strictly increasing
// in X with positive median and SD.
func newCurve(ind Indicator, sex model.Sex, strategy Strategy, points []Point) (*Curve, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: %s/%s has no points", ErrInvalidReferenceData, ind, sex)
	}
	cp := make([]Point, len(points))
	copy(cp, points)
	for i, p := range cp {
		if !finite(p.X) || !finite(p.Median) || !finite(p.SD) {
			return nil, fmt.Errorf("%w: %s/%s row %d is not finite", ErrInvalidReferenceData, ind, sex, i)
		}
		if p.SD <= 0 || p.Median <= 0 {
			return nil, fmt.Errorf("%w: %s/%s row %d has non-positive median or sd", ErrInvalidReferenceData, ind, sex, i)
		}
		if i > 0 && p.X <= cp[i-1].X {
			return nil, fmt.Errorf("%w: %s/%s rows not strictly increasing at x=%g", ErrInvalidReferenceData, ind, sex, p.X)
		}
	}
	return &Curve{indicator: ind, sex: sex, strategy: strategy, points: cp}, nil
}

// Indicator returns the curve's indicator.
func (c *Curve) Indicator() Indicator { return c.indicator }

// Sex returns the curve's sex.
func (c *Curve) Sex() model.Sex { return c.sex }

// Strategy returns the lookup strategy fixed for this curve.
func (c *Curve) Strategy() Strategy { return c.strategy }

// Len returns the number of tabulated points.
func (c *Curve) Len() int { return len(c.points) }

// Bounds returns the first and last tabulated x.
func (c *Curve) Bounds() (lo, hi float64) {
	return c.points[0].X, c.points[len(c.points)-1].X
}

// Lookup reads the curve at x. Values outside the tabulated range clamp to
// the edge point.
func (c *Curve) Lookup(x float64) Reference {
	pts := c.points
	first, last := pts[0], pts[len(pts)-1]
	if x <= first.X {
		return Reference(first)
	}
	if x >= last.X {
		return Reference(last)
	}

	// i is the first point with X >= x; 0 < i < len(pts) here.
	i := sort.Search(len(pts), func(i int) bool { return pts[i].X >= x })
	hi := pts[i]
	if hi.X == x {
		return Reference(hi)
	}
	lo := pts[i-1]

	if c.strategy == Nearest {
		if x-lo.X <= hi.X-x {
			return Reference(lo)
		}
		return Reference(hi)
	}

	t := (x - lo.X) / (hi.X - lo.X)
	return Reference{
		X:      x,
		Median: lo.Median + t*(hi.Median-lo.Median),
		SD:     lo.SD + t*(hi.SD-lo.SD),
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
