package math

import (
	"fmt"
	"math"
	"sort"
)

// Quantile returns the q-th quantile of the values, interpolating linearly
// between the closest order statistics (numpy's default method).
func Quantile(values []float64, q float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("no values")
	}
	if q < 0 || q > 1 || math.IsNaN(q) {
		return 0, fmt.Errorf("quantile %v out of [0,1]", q)
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	return quantile(sorted, q), nil
}

func quantile(sorted []float64, q float64) float64 {
	rank := q * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	w := rank - float64(lower)
	return sorted[lower]*(1-w) + sorted[upper]*w
}

// Fences are the tukey fences of a sample.
type Fences struct {
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	IQR   float64 `json:"iqr"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Outside reports if the value falls strictly outside the fences.
func (f Fences) Outside(v float64) bool {
	return v < f.Lower || v > f.Upper
}

// TukeyFences computes the interquartile range of the values and the fences
// lying whisker times the range below the first and above the third quartile.
func TukeyFences(values []float64, whisker float64) (Fences, error) {
	if whisker < 0 || math.IsNaN(whisker) {
		return Fences{}, fmt.Errorf("invalid whisker width %v", whisker)
	}
	if len(values) == 0 {
		return Fences{}, fmt.Errorf("no values")
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	return Fences{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - whisker*iqr,
		Upper: q3 + whisker*iqr,
	}, nil
}
