package assessment

import (
	"errors"

	"github.com/okian/nutriscreen/internal/domain/classify"
	"github.com/okian/nutriscreen/internal/domain/reference"
)

// ErrorKind names the class of a failed assessment.
type ErrorKind string

const (
	KindInvalidSubjectData     ErrorKind = "InvalidSubjectData"
	KindInvalidReferenceData   ErrorKind = "InvalidReferenceData"
	KindAmbiguousConfiguration ErrorKind = "AmbiguousConfiguration"
)

// Sentinel errors matching each ErrorKind.
var (
	ErrInvalidSubjectData     = errors.New("invalid subject data")
	ErrInvalidReferenceData   = reference.ErrInvalidReferenceData
	ErrAmbiguousConfiguration = classify.ErrAmbiguousConfiguration
)

// Sentinel returns the sentinel error for k, or nil.
func (k ErrorKind) Sentinel() error {
	switch k {
	case KindInvalidSubjectData:
		return ErrInvalidSubjectData
	case KindInvalidReferenceData:
		return ErrInvalidReferenceData
	case KindAmbiguousConfiguration:
		return ErrAmbiguousConfiguration
	default:
		return nil
	}
}
