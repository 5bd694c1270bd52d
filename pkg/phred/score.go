package phred

import (
	"log/slog"
	"math"
)

// Result holds everything derived from one input sequence.
type Result[T Float] struct {
	Posteriors   []T  `json:"posteriors" yaml:"posteriors"`
	MaxIndex     int  `json:"max_index" yaml:"max_index"`
	MaxPosterior T    `json:"max_posterior" yaml:"max_posterior"`
	Phred        T    `json:"phred" yaml:"phred"`
	Clamped      bool `json:"clamped,omitempty" yaml:"clamped,omitempty"`
}

// Compute runs the full transform: shift, exponentiate, normalize, take the
// max posterior and map it to -10*log10(1-pmax).
//
// The complement 1-pmax is summed from the remaining categories rather than
// subtracted from one, so it stays representable well past the point where
// pmax itself rounds to 1.
func Compute[T Float](x []T, opts Options) (*Result[T], error) {
	if err := validate(x, opts.Categories); err != nil {
		return nil, err
	}

	e, sum, err := exponentiate(x, opts.Shift)
	if err != nil {
		return nil, err
	}

	p := normalize(e, sum)
	k, pmax := ArgMax(p)

	var rest T
	for i, v := range e {
		if i != k {
			rest += v
		}
	}

	score, clamped, err := fromComplement(rest/sum, pmax, opts.Policy)
	if err != nil {
		return nil, err
	}

	slog.Debug("phred computed",
		"n", len(x), "shift", opts.Shift, "max_index", k, "max_posterior", float64(pmax), "phred", float64(score))

	return &Result[T]{
		Posteriors:   p,
		MaxIndex:     k,
		MaxPosterior: pmax,
		Phred:        score,
		Clamped:      clamped,
	}, nil
}

// Score returns only the quality score of x.
func Score[T Float](x []T, opts Options) (T, error) {
	r, err := Compute(x, opts)
	if err != nil {
		return 0, err
	}
	return r.Phred, nil
}

// FromProbability maps a probability in [0, 1] to -10*log10(1-p).
// The bool reports whether the policy clamped the result.
func FromProbability[T Float](p T, policy Policy) (T, bool, error) {
	if !finite(p) || p < 0 || p > 1 {
		return 0, false, &InvalidInputError{Index: -1, Reason: "probability outside [0, 1]"}
	}
	return fromComplement(1-p, p, policy)
}

// ComputeAs runs Compute at the given precision and widens the result to float64.
func ComputeAs(prec Precision, x []float64, opts Options) (*Result[float64], error) {
	if prec != Float32 {
		return Compute(x, opts)
	}

	r, err := Compute(convert[float64, float32](x), opts)
	if err != nil {
		return nil, err
	}
	return &Result[float64]{
		Posteriors:   convert[float32, float64](r.Posteriors),
		MaxIndex:     r.MaxIndex,
		MaxPosterior: float64(r.MaxPosterior),
		Phred:        float64(r.Phred),
		Clamped:      r.Clamped,
	}, nil
}

func fromComplement[T Float](tail, pmax T, policy Policy) (T, bool, error) {
	if tail > 0 {
		return T(-10 * math.Log10(float64(tail))), false, nil
	}

	switch policy {
	case PolicyClamp:
		return T(-10 * math.Log10(float64(smallestPositive[T]()))), true, nil
	case PolicyInf:
		return T(math.Inf(1)), false, nil
	default:
		return 0, false, &DomainError{Kind: Saturated, MaxPosterior: float64(pmax)}
	}
}

// smallestPositive is the smallest non-zero value representable in T.
func smallestPositive[T Float]() T {
	tiny := math.SmallestNonzeroFloat64
	if v := T(tiny); v > 0 {
		return v
	}
	return T(math.SmallestNonzeroFloat32)
}

func convert[F, T Float](x []F) []T {
	out := make([]T, len(x))
	for i, v := range x {
		out[i] = T(v)
	}
	return out
}
