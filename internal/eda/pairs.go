package eda

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Panel is one cell of a pair grid.
// Diagonal panels have X == Y and carry the values for a histogram.
type Panel struct {
	X           string    `json:"x"`
	Y           string    `json:"y"`
	Xs          []float64 `json:"xs"`
	Ys          []float64 `json:"ys"`
	Correlation float64   `json:"correlation"`
}

// Diagonal reports if the panel plots a column against itself.
func (p Panel) Diagonal() bool {
	return p.X == p.Y
}

// PairGrid holds the pairwise panels of a set of numeric columns.
type PairGrid struct {
	Columns []string   `json:"columns"`
	Hue     string     `json:"hue,omitempty"`
	Groups  []string   `json:"groups,omitempty"`
	Panels  [][]*Panel `json:"panels"`
}

// Pairs builds the pairwise grid of the columns, optionally grouped by a hue column.
// With corner set only the lower triangle and the diagonal are populated.
func Pairs(f *Frame, columns []string, hue string, corner bool) (PairGrid, error) {
	if len(columns) == 0 {
		return PairGrid{}, fmt.Errorf("no columns selected")
	}
	values := make([][]float64, len(columns))
	for i, c := range columns {
		v, err := f.Floats(c)
		if err != nil {
			return PairGrid{}, err
		}
		values[i] = v
	}

	grid := PairGrid{
		Columns: columns,
		Hue:     hue,
		Panels:  make([][]*Panel, len(columns)),
	}
	if hue != "" {
		groups, err := f.Labels(hue)
		if err != nil {
			return PairGrid{}, err
		}
		grid.Groups = groups
	}

	for i := range columns {
		grid.Panels[i] = make([]*Panel, len(columns))
		for j := range columns {
			if corner && j > i {
				continue
			}
			grid.Panels[i][j] = &Panel{
				X:           columns[j],
				Y:           columns[i],
				Xs:          values[j],
				Ys:          values[i],
				Correlation: stat.Correlation(values[j], values[i], nil),
			}
		}
	}
	return grid, nil
}
