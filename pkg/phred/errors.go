package phred

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidInput matches every *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDomain matches every *DomainError.
	ErrDomain = errors.New("quality score undefined")
)

// InvalidInputError reports an input sequence the transform cannot accept.
type InvalidInputError struct {
	Length int
	Want   int
	// Index of the offending element, -1 when the sequence as a whole is rejected.
	Index  int
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%v: element %d: %s", ErrInvalidInput, e.Index, e.Reason)
	}
	return fmt.Sprintf("%v: %s", ErrInvalidInput, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// DomainKind tells why a quality score could not be produced.
type DomainKind int

const (
	// Saturated means the max posterior left no complement, log10(0).
	Saturated DomainKind = iota
	// Overflow means the exponent sum was not a finite positive number.
	Overflow
)

func (k DomainKind) String() string {
	if k == Overflow {
		return "overflow"
	}
	return "saturated"
}

// DomainError reports a computation that left the domain of -10*log10(1-p).
type DomainError struct {
	Kind         DomainKind
	MaxPosterior float64
}

func (e *DomainError) Error() string {
	if e.Kind == Overflow {
		return fmt.Sprintf("%v: exponent sum overflowed the working precision", ErrDomain)
	}
	return fmt.Sprintf("%v: max posterior %g leaves no complement", ErrDomain, e.MaxPosterior)
}

func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// Outcome classifies a single computation.
type Outcome string

const (
	OutcomeValid     Outcome = "valid"
	OutcomeSaturated Outcome = "saturated"
	OutcomeOverflow  Outcome = "overflow"
	OutcomeInvalid   Outcome = "invalid"
)

// Classify maps a computed score and its error to an Outcome.
// An infinite score without error (PolicyInf) counts as saturated.
func Classify(score float64, err error) Outcome {
	var de *DomainError
	switch {
	case err == nil && math.IsInf(score, 1):
		return OutcomeSaturated
	case err == nil:
		return OutcomeValid
	case errors.As(err, &de) && de.Kind == Overflow:
		return OutcomeOverflow
	case errors.As(err, &de):
		return OutcomeSaturated
	}
	return OutcomeInvalid
}
