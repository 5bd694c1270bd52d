package phred

import (
	"math"
)

// PhredScaledLikelihoods converts natural-log likelihoods to normalized
// Phred-scaled likelihoods: -10 * (log10(L) - max(log10(L))).
// The most likely category maps to 0 and every other one is positive.
func PhredScaledLikelihoods[T Float](ll []T) ([]T, error) {
	if err := validate(ll, 0); err != nil {
		return nil, err
	}

	ln10 := T(math.Ln10)
	_, top := ArgMax(ll)
	top /= ln10

	out := make([]T, len(ll))
	for i, v := range ll {
		q := -10 * (v/ln10 - top)
		if q == 0 {
			q = 0 // no negative zero
		}
		out[i] = q
	}
	return out, nil
}

// PhredScaledLikelihoodsAs runs PhredScaledLikelihoods at the given precision.
func PhredScaledLikelihoodsAs(prec Precision, ll []float64) ([]float64, error) {
	if prec != Float32 {
		return PhredScaledLikelihoods(ll)
	}
	out, err := PhredScaledLikelihoods(convert[float64, float32](ll))
	if err != nil {
		return nil, err
	}
	return convert[float32, float64](out), nil
}
