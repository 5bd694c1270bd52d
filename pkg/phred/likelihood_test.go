package phred

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhredScaledLikelihoods(t *testing.T) {
	pl, err := PhredScaledLikelihoods([]float64{-10, -1, -3.5})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{39.08650337129266, 0, 10.857362047581296}, pl, 1e-9)
	assert.False(t, math.Signbit(pl[1]), "best category must be +0")
}

func TestPhredScaledLikelihoods_ShiftInvariant(t *testing.T) {
	a, err := PhredScaledLikelihoods([]float64{-10, -1, -3.5})
	require.NoError(t, err)
	b, err := PhredScaledLikelihoods([]float64{-110, -101, -103.5})
	require.NoError(t, err)
	assert.InDeltaSlice(t, a, b, 1e-9)
}

func TestPhredScaledLikelihoods_Invalid(t *testing.T) {
	_, err := PhredScaledLikelihoods([]float64{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = PhredScaledLikelihoods([]float64{1, math.NaN()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPhredScaledLikelihoodsAs(t *testing.T) {
	in := []float64{-10, -1, -3.5}
	p64, err := PhredScaledLikelihoodsAs(Float64, in)
	require.NoError(t, err)
	p32, err := PhredScaledLikelihoodsAs(Float32, in)
	require.NoError(t, err)
	assert.InDeltaSlice(t, p64, p32, 1e-4)
}
