package reference

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrInvalidReferenceData marks a malformed or incomplete table. It is a
	// configuration-time defect and must abort startup.
	ErrInvalidReferenceData = errors.New("invalid reference data")
	// ErrUnknownCurve is returned for an (indicator, sex) pair with no curve.
	ErrUnknownCurve = errors.New("unknown reference curve")
	// ErrInvalidLookup is returned when the lookup coordinate is not a number.
	ErrInvalidLookup = errors.New("invalid lookup coordinate")
)
