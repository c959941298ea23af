package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {

	type test struct {
		input  float64
		output string
	}

	tests := map[string]test{
		"0": {
			input:  0,
			output: "0.00",
		},
		"-1": {
			input:  -1,
			output: "-1.00",
		},
		"+1": {
			input:  1,
			output: "1.00",
		},
		"5": {
			input:  1.5555,
			output: "1.56",
		},
		"4": {
			input:  1.4444,
			output: "1.44",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := Format(tt.input)
			assert.Equal(t, tt.output, s)
		})
	}

}

func TestPercent(t *testing.T) {
	assert.Equal(t, "25.0%", Percent(0.25))
	assert.Equal(t, "33.3%", Percent(1.0/3))
	assert.Equal(t, "100.0%", Percent(1))
}

func TestQuantile(t *testing.T) {

	type test struct {
		values []float64
		q      float64
		output float64
	}

	tests := map[string]test{
		"median-odd": {
			values: []float64{5, 1, 3},
			q:      0.5,
			output: 3,
		},
		"median-even": {
			values: []float64{4, 1, 3, 2},
			q:      0.5,
			output: 2.5,
		},
		"first-quartile": {
			values: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			q:      0.25,
			output: 3.25,
		},
		"third-quartile": {
			values: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			q:      0.75,
			output: 7.75,
		},
		"min": {
			values: []float64{3, -2, 8},
			q:      0,
			output: -2,
		},
		"max": {
			values: []float64{3, -2, 8},
			q:      1,
			output: 8,
		},
		"single": {
			values: []float64{42},
			q:      0.3,
			output: 42,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			v, err := Quantile(tt.values, tt.q)
			require.NoError(t, err)
			assert.InDelta(t, tt.output, v, 1e-12)
		})
	}

	_, err := Quantile(nil, 0.5)
	assert.Error(t, err)
	_, err = Quantile([]float64{1}, 1.5)
	assert.Error(t, err)
}

func TestTukeyFences(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 100}

	fences, err := TukeyFences(values, 1.5)
	require.NoError(t, err)

	assert.Equal(t, 3.5, fences.Q1)
	assert.Equal(t, 8.5, fences.Q3)
	assert.Equal(t, 5.0, fences.IQR)
	assert.Equal(t, -4.0, fences.Lower)
	assert.Equal(t, 16.0, fences.Upper)

	assert.True(t, fences.Outside(100))
	assert.False(t, fences.Outside(16))
	assert.True(t, fences.Outside(-4.5))

	// values are not reordered
	assert.Equal(t, 100.0, values[10])

	_, err = TukeyFences(values, -1)
	assert.Error(t, err)
	_, err = TukeyFences(nil, 1.5)
	assert.Error(t, err)
}
