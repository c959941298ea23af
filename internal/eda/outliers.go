package eda

import (
	"fmt"

	"github.com/drakos74/free-cluster/internal/math"
)

// DefaultWhisker is the conventional whisker width of a box plot.
const DefaultWhisker = 1.5

// OutlierReport lists the rows of a column lying outside its tukey fences.
type OutlierReport struct {
	Column string `json:"column"`
	math.Fences
	Rows   []int     `json:"rows"`
	Values []float64 `json:"values"`
}

// InspectOutliers finds the rows whose value in the column is below
// Q1 - whisker*IQR or above Q3 + whisker*IQR.
func InspectOutliers(f *Frame, column string, whisker float64) (OutlierReport, error) {
	values, err := f.Floats(column)
	if err != nil {
		return OutlierReport{}, err
	}
	fences, err := math.TukeyFences(values, whisker)
	if err != nil {
		return OutlierReport{}, fmt.Errorf("could not compute fences for '%s': %w", column, err)
	}
	report := OutlierReport{
		Column: column,
		Fences: fences,
		Rows:   make([]int, 0),
		Values: make([]float64, 0),
	}
	for i, v := range values {
		if fences.Outside(v) {
			report.Rows = append(report.Rows, i)
			report.Values = append(report.Values, v)
		}
	}
	return report, nil
}
