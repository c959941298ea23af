package eda

import (
	"context"
	"fmt"
	"io"

	"github.com/drakos74/free-cluster/internal/math/ml"
	dataframe "github.com/rocketlaunchr/dataframe-go"
	"github.com/rocketlaunchr/dataframe-go/imports"
	"github.com/rs/zerolog/log"
)

// Frame is a columnar table of observations.
type Frame struct {
	df *dataframe.DataFrame
}

// NewFrame wraps the given data frame.
func NewFrame(df *dataframe.DataFrame) *Frame {
	return &Frame{df: df}
}

// Load reads a csv table with a header row, inferring the column types.
func Load(ctx context.Context, r io.ReadSeeker) (*Frame, error) {
	df, err := imports.LoadFromCSV(ctx, r, imports.CSVLoadOptions{
		InferDataTypes: true,
	})
	if err != nil {
		return nil, fmt.Errorf("could not load csv: %w", err)
	}
	log.Debug().
		Int("rows", df.NRows()).
		Strs("columns", df.Names()).
		Msg("loaded frame")
	return NewFrame(df), nil
}

// Rows returns the number of observations.
func (f *Frame) Rows() int {
	return f.df.NRows()
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return f.df.Names()
}

func (f *Frame) series(column string) (dataframe.Series, error) {
	idx, err := f.df.NameToColumn(column)
	if err != nil {
		return nil, fmt.Errorf("unknown column '%s': %w", column, err)
	}
	return f.df.Series[idx], nil
}

// Floats returns the values of a numeric column.
func (f *Frame) Floats(column string) ([]float64, error) {
	s, err := f.series(column)
	if err != nil {
		return nil, err
	}
	values := make([]float64, s.NRows())
	for i := range values {
		switch v := s.Value(i).(type) {
		case float64:
			values[i] = v
		case int64:
			values[i] = float64(v)
		case nil:
			return nil, fmt.Errorf("missing value in column '%s' at row %d", column, i)
		default:
			return nil, fmt.Errorf("non-numeric value '%v' in column '%s' at row %d", v, column, i)
		}
	}
	return values, nil
}

// Labels returns the values of a column as categories.
func (f *Frame) Labels(column string) ([]string, error) {
	s, err := f.series(column)
	if err != nil {
		return nil, err
	}
	labels := make([]string, s.NRows())
	for i := range labels {
		v := s.Value(i)
		if v == nil {
			return nil, fmt.Errorf("missing value in column '%s' at row %d", column, i)
		}
		labels[i] = fmt.Sprint(v)
	}
	return labels, nil
}

// Dataset assembles the given numeric columns into a row oriented data set.
func (f *Frame) Dataset(columns ...string) (ml.Dataset, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("no columns selected")
	}
	x := make(ml.Dataset, f.Rows())
	for i := range x {
		x[i] = make([]float64, len(columns))
	}
	for j, column := range columns {
		values, err := f.Floats(column)
		if err != nil {
			return nil, err
		}
		for i, v := range values {
			x[i][j] = v
		}
	}
	return x, nil
}
