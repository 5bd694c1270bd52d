package phred

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftmax_SumsToOne(t *testing.T) {
	inputs := [][]float64{
		{0.5, 1.45, 3.23521},
		{-4, 0, 4, 8},
		{100, 100.5},
		{7},
	}
	for _, x := range inputs {
		for _, shift := range []Shift{ShiftNone, ShiftMin, ShiftMax} {
			p, err := Softmax(x, shift)
			require.NoError(t, err)
			var sum float64
			for _, v := range p {
				assert.GreaterOrEqual(t, v, 0.0)
				sum += v
			}
			assert.InDelta(t, 1.0, sum, 1e-12, "input %v shift %s", x, shift)
		}
	}
}

func TestSoftmax_ReturnsNewSlice(t *testing.T) {
	x := []float64{1, 2, 3}
	p, err := Softmax(x, ShiftMin)
	require.NoError(t, err)
	p[0] = 99
	assert.Equal(t, []float64{1, 2, 3}, x)
}

func TestSoftmax_Errors(t *testing.T) {
	_, err := Softmax([]float64{}, ShiftMin)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Softmax([]float64{0, 800}, ShiftNone)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestArgMax(t *testing.T) {
	tests := []struct {
		name  string
		p     []float64
		index int
		value float64
	}{
		{"empty", nil, -1, 0},
		{"single", []float64{0.4}, 0, 0.4},
		{"last", []float64{0.1, 0.2, 0.7}, 2, 0.7},
		{"first on tie", []float64{0.4, 0.2, 0.4}, 0, 0.4},
		{"all negative", []float64{-3, -1, -2}, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, v := ArgMax(tt.p)
			assert.Equal(t, tt.index, i)
			assert.Equal(t, tt.value, v)
		})
	}
}
