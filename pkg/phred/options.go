package phred

import (
	"strings"

	"github.com/pkg/errors"
)

// DefaultCategories is the genotype triple (hom-ref, het, hom-alt).
const DefaultCategories = 3

// Float is the working precision of a computation.
type Float interface {
	~float32 | ~float64
}

// Precision selects a Float at runtime.
type Precision int

const (
	Float64 Precision = iota
	Float32
)

// Shift is the uniform offset applied to the inputs before exponentiation.
type Shift int

const (
	// ShiftNone exponentiates the raw inputs.
	ShiftNone Shift = iota
	// ShiftMin subtracts the smallest input.
	ShiftMin
	// ShiftMax subtracts the largest input so no exponent exceeds 0.
	ShiftMax
)

// Policy decides what a saturated max posterior (no complement left) yields.
type Policy int

const (
	// PolicyError returns a *DomainError.
	PolicyError Policy = iota
	// PolicyClamp clamps the complement to the smallest positive value of the precision.
	PolicyClamp
	// PolicyInf returns +Inf.
	PolicyInf
)

var (
	precisionNames = map[Precision]string{Float64: "float64", Float32: "float32"}
	shiftNames     = map[Shift]string{ShiftNone: "none", ShiftMin: "min", ShiftMax: "max"}
	policyNames    = map[Policy]string{PolicyError: "error", PolicyClamp: "clamp", PolicyInf: "inf"}
)

// Options configures a computation.
type Options struct {
	Shift  Shift
	Policy Policy
	// Categories is the required input length, 0 accepts any non-empty input.
	Categories int
}

// DefaultOptions returns the min-shift stabilized transform over three categories.
func DefaultOptions() Options {
	return Options{
		Shift:      ShiftMin,
		Policy:     PolicyError,
		Categories: DefaultCategories,
	}
}

func (p Precision) String() string { return nameOf(precisionNames, p) }
func (s Shift) String() string     { return nameOf(shiftNames, s) }
func (p Policy) String() string    { return nameOf(policyNames, p) }

// ParsePrecision parses "float64" or "float32" ("double" and "single" are accepted too).
func ParsePrecision(s string) (Precision, error) {
	switch canonical(s) {
	case "double", "f64":
		return Float64, nil
	case "single", "f32":
		return Float32, nil
	}
	return parseName(precisionNames, s, "precision")
}

// ParseShift parses "none", "min" or "max". "naive" is an alias of "none".
func ParseShift(s string) (Shift, error) {
	if canonical(s) == "naive" {
		return ShiftNone, nil
	}
	return parseName(shiftNames, s, "shift")
}

// ParsePolicy parses "error", "clamp" or "inf".
func ParsePolicy(s string) (Policy, error) {
	return parseName(policyNames, s, "saturation policy")
}

func nameOf[K comparable](names map[K]string, k K) string {
	if n, ok := names[k]; ok {
		return n
	}
	return "unknown"
}

func parseName[K comparable](names map[K]string, s, what string) (K, error) {
	v := canonical(s)
	for k, n := range names {
		if n == v {
			return k, nil
		}
	}
	var zero K
	return zero, errors.Errorf("unknown %s: %q", what, s)
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
