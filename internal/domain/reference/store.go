package reference

import (
	"fmt"
	"math"

	"github.com/okian/nutriscreen/internal/domain/model"
)

// Store is the lookup capability the z-score calculator depends on.
type Store interface {
	// Lookup returns the reference median and SD for indicator and sex at x.
	Lookup(ind Indicator, sex model.Sex, x float64) (Reference, error)
}

type curveKey struct {
	indicator Indicator
	sex       model.Sex
}

// Table is the raw input to NewStore: one entry per (indicator, sex).
type Table struct {
	Indicator Indicator
	Sex       model.Sex
	Points    []Point
}

// MemoryStore is an immutable in-memory Store.
type MemoryStore struct {
	name       string
	strategies map[Indicator]Strategy
	curves     map[curveKey]*Curve
}

// NewStore validates tables and freezes them into a MemoryStore. Every
// supported indicator must have a curve for both sexes.
func NewStore(tables []Table, opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{
		name:       "custom",
		strategies: DefaultStrategies(),
		curves:     make(map[curveKey]*Curve, len(tables)),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, t := range tables {
		if !t.Indicator.Valid() {
			return nil, fmt.Errorf("%w: unknown indicator %q", ErrInvalidReferenceData, t.Indicator)
		}
		if !t.Sex.Valid() {
			return nil, fmt.Errorf("%w: unknown sex %q for %s", ErrInvalidReferenceData, t.Sex, t.Indicator)
		}
		key := curveKey{t.Indicator, t.Sex}
		if _, dup := s.curves[key]; dup {
			return nil, fmt.Errorf("%w: duplicate curve %s/%s", ErrInvalidReferenceData, t.Indicator, t.Sex)
		}
		c, err := newCurve(t.Indicator, t.Sex, s.strategies[t.Indicator], t.Points)
		if err != nil {
			return nil, err
		}
		s.curves[key] = c
	}

	for _, ind := range Indicators() {
		for _, sex := range []model.Sex{model.SexMale, model.SexFemale} {
			if _, ok := s.curves[curveKey{ind, sex}]; !ok {
				return nil, fmt.Errorf("%w: missing curve %s/%s", ErrInvalidReferenceData, ind, sex)
			}
		}
	}
	return s, nil
}

// Name identifies the loaded reference set.
func (s *MemoryStore) Name() string { return s.name }

// Curve returns the curve for (indicator, sex).
func (s *MemoryStore) Curve(ind Indicator, sex model.Sex) (*Curve, bool) {
	c, ok := s.curves[curveKey{ind, sex}]
	return c, ok
}

// Lookup implements Store.
func (s *MemoryStore) Lookup(ind Indicator, sex model.Sex, x float64) (Reference, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Reference{}, fmt.Errorf("%w: %s x=%v", ErrInvalidLookup, ind, x)
	}
	c, ok := s.curves[curveKey{ind, sex}]
	if !ok {
		return Reference{}, fmt.Errorf("%w: %s/%s", ErrUnknownCurve, ind, sex)
	}
	return c.Lookup(x), nil
}
