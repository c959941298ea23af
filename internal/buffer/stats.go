package buffer

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Moments tracks the count, mean and spread of a stream of feature vectors,
// one running mean and sum of squared deviations per dimension.
type Moments struct {
	count    int
	mean     []float64
	m2       []float64
	min, max []float64
}

// NewMoments creates an empty accumulator for vectors of the given dimension.
func NewMoments(dim int) *Moments {
	m := &Moments{
		mean: make([]float64, dim),
		m2:   make([]float64, dim),
		min:  make([]float64, dim),
		max:  make([]float64, dim),
	}
	for i := 0; i < dim; i++ {
		m.min[i] = math.Inf(1)
		m.max[i] = math.Inf(-1)
	}
	return m
}

// Push adds another vector.
// It panics if the vector does not match the dimension of the accumulator.
func (m *Moments) Push(v ...float64) {
	if len(v) != len(m.mean) {
		panic(fmt.Sprintf("inconsistent dimensions %d vs %d", len(v), len(m.mean)))
	}
	m.count++
	n := float64(m.count)
	for i, x := range v {
		delta := x - m.mean[i]
		m.mean[i] += delta / n
		m.m2[i] += delta * (x - m.mean[i])
		m.min[i] = math.Min(m.min[i], x)
		m.max[i] = math.Max(m.max[i], x)
	}
}

// Count returns the number of vectors pushed.
func (m *Moments) Count() int {
	return m.count
}

// Mean returns the per dimension average.
func (m *Moments) Mean() []float64 {
	return append([]float64{}, m.mean...)
}

// Variance returns the per dimension population variance, zero for an empty stream.
func (m *Moments) Variance() []float64 {
	v := make([]float64, len(m.m2))
	if m.count == 0 {
		return v
	}
	copy(v, m.m2)
	floats.Scale(1/float64(m.count), v)
	return v
}

// StDev returns the per dimension population standard deviation.
func (m *Moments) StDev() []float64 {
	v := m.Variance()
	for i := range v {
		v[i] = math.Sqrt(v[i])
	}
	return v
}

// Min returns the per dimension smallest value, +Inf for an empty stream.
func (m *Moments) Min() []float64 {
	return append([]float64{}, m.min...)
}

// Max returns the per dimension largest value, -Inf for an empty stream.
func (m *Moments) Max() []float64 {
	return append([]float64{}, m.max...)
}
