package phred

import (
	"fmt"
	"math"
)

// Softmax returns the posterior distribution of x after the given shift.
// The input is not modified.
func Softmax[T Float](x []T, shift Shift) ([]T, error) {
	if err := validate(x, 0); err != nil {
		return nil, err
	}
	e, sum, err := exponentiate(x, shift)
	if err != nil {
		return nil, err
	}
	return normalize(e, sum), nil
}

// ArgMax returns the index and value of the largest element, the first one on ties.
// The running maximum starts at p[0]. It returns -1 for an empty slice.
func ArgMax[T Float](p []T) (int, T) {
	if len(p) == 0 {
		return -1, 0
	}
	k, top := 0, p[0]
	for i := 1; i < len(p); i++ {
		if p[i] > top {
			k, top = i, p[i]
		}
	}
	return k, top
}

// exponentiate returns exp of the shifted inputs and their sum.
func exponentiate[T Float](x []T, shift Shift) ([]T, T, error) {
	var ref T
	switch shift {
	case ShiftMin:
		ref = minOf(x)
	case ShiftMax:
		_, ref = ArgMax(x)
	}

	e := make([]T, len(x))
	var sum T
	for i, v := range x {
		e[i] = T(math.Exp(float64(v - ref)))
		sum += e[i]
	}

	if !finite(sum) || sum <= 0 {
		return nil, 0, &DomainError{Kind: Overflow, MaxPosterior: math.NaN()}
	}
	return e, sum, nil
}

func normalize[T Float](e []T, sum T) []T {
	p := make([]T, len(e))
	for i, v := range e {
		p[i] = v / sum
	}
	return p
}

func minOf[T Float](x []T) T {
	m := x[0]
	for _, v := range x[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func finite[T Float](v T) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func validate[T Float](x []T, want int) error {
	if len(x) == 0 {
		return &InvalidInputError{Index: -1, Want: want, Reason: "empty sequence"}
	}
	if want > 0 && len(x) != want {
		return &InvalidInputError{
			Length: len(x),
			Want:   want,
			Index:  -1,
			Reason: fmt.Sprintf("expected %d values, got %d", want, len(x)),
		}
	}
	for i, v := range x {
		if !finite(v) {
			return &InvalidInputError{Length: len(x), Want: want, Index: i, Reason: "value is not finite"}
		}
	}
	return nil
}
