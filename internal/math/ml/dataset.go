package ml

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDataset is returned for ragged or non-finite data sets.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is an ordered collection of fixed-dimension numeric feature vectors.
type Dataset [][]float64

// Rows returns the number of vectors in the data set.
func (d Dataset) Rows() int {
	return len(d)
}

// Dim returns the number of features of each vector.
func (d Dataset) Dim() int {
	if len(d) == 0 {
		return 0
	}
	return len(d[0])
}

// Column extracts the values of the j-th feature.
func (d Dataset) Column(j int) []float64 {
	col := make([]float64, len(d))
	for i, row := range d {
		col[i] = row[j]
	}
	return col
}

func (d Dataset) validate() error {
	dim := d.Dim()
	if dim == 0 {
		return fmt.Errorf("zero dimensional rows: %w", ErrInvalidDataset)
	}
	for i, row := range d {
		if len(row) != dim {
			return fmt.Errorf("row %d has %d features instead of %d: %w", i, len(row), dim, ErrInvalidDataset)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("non-finite value at [%d,%d]: %w", i, j, ErrInvalidDataset)
			}
		}
	}
	return nil
}

// Cluster summarises the members of one cluster.
type Cluster struct {
	Index int       `json:"index"`
	Size  int       `json:"size"`
	Mean  []float64 `json:"mean"`
	StDev []float64 `json:"stdev"`
	Min   []float64 `json:"min"`
	Max   []float64 `json:"max"`
}
