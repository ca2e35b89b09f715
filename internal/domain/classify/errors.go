package classify

import "errors"

// Sentinel error kinds for this package.
var (
	// ErrAmbiguousConfiguration is returned by New when a choice the clinical
	// sources disagree on has not been made explicitly.
	ErrAmbiguousConfiguration = errors.New("ambiguous configuration")
	// ErrInvalidBands is returned when a band table has gaps or overlaps.
	ErrInvalidBands = errors.New("invalid band table")
)
