package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/drakos74/free-cluster/internal/eda"
	"github.com/drakos74/free-cluster/internal/math"
	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(f float64) *float64 {
	return &f
}

func TestTerminal_Sweep(t *testing.T) {
	var buf bytes.Buffer

	result := &ml.SweepResult{
		Range: ml.Range{Min: 2, Max: 5},
		Entries: []ml.Entry{
			{K: 2, Inertia: 900, Silhouette: score(0.61)},
			{K: 3, Inertia: 120, Silhouette: score(0.83)},
			{K: 4, Inertia: 100, Silhouette: score(0.52)},
		},
	}

	err := NewTerminal(&buf).Height(5).Sweep(result)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, "Elbow Method"))
	assert.True(t, strings.Contains(out, "Silhouette Method"))
	assert.True(t, strings.Contains(out, "0.8300"))
	assert.True(t, strings.Contains(out, "900.00"))
	assert.True(t, strings.Contains(strings.ToLower(out), "best k = 3"))
}

func TestTerminal_SweepSinglePoint(t *testing.T) {
	var buf bytes.Buffer

	result := &ml.SweepResult{
		Range:   ml.Range{Min: 2, Max: 3},
		Entries: []ml.Entry{{K: 2, Inertia: 10, Silhouette: score(0.5)}},
	}

	err := NewTerminal(&buf).Sweep(result)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "not enough points"))
}

func TestTerminal_Outliers(t *testing.T) {
	var buf bytes.Buffer

	report := eda.OutlierReport{
		Column: "income",
		Fences: math.Fences{Q1: 16, Q3: 19, IQR: 3, Lower: 11.5, Upper: 23.5},
		Rows:   []int{11},
		Values: []float64{120},
	}

	err := NewTerminal(&buf).Outliers(report)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, "23.50"))
	assert.True(t, strings.Contains(out, "120.00"))
}

func TestTerminal_Percent(t *testing.T) {
	var buf bytes.Buffer

	tables := []eda.PercentTable{{
		Column:   "colour",
		Groups:   []string{"0", "1"},
		Segments: []string{"blue", "red"},
		Counts:   [][]int{{1, 3}, {2, 0}},
		Share:    [][]float64{{0.25, 0.75}, {1, 0}},
	}}

	err := NewTerminal(&buf).Percent(tables)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.Contains(out, "25.0%"))
	assert.True(t, strings.Contains(out, "100.0%"))
}

func TestTerminal_ClustersAndPairs(t *testing.T) {
	var buf bytes.Buffer

	plot := eda.ClusterPlot{
		X:         "income",
		Y:         "score",
		Centroids: [][2]float64{{20, 30}, {80, 70}},
		Points:    []eda.Point{{X: 1, Y: 2, Cluster: 0}, {X: 90, Y: 70, Cluster: 1}, {X: 85, Y: 75, Cluster: 1}},
	}
	err := NewTerminal(&buf).Clusters(plot, nil)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "80.00"))
	assert.False(t, strings.Contains(buf.String(), "RANGE"))

	buf.Reset()
	profile := []ml.Cluster{
		{Index: 0, Size: 1, Min: []float64{1, 2}, Max: []float64{1, 2}},
		{Index: 1, Size: 2, Min: []float64{85, 70}, Max: []float64{90, 75}},
	}
	err = NewTerminal(&buf).Clusters(plot, profile)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "INCOME RANGE"))
	assert.True(t, strings.Contains(buf.String(), "85.00 .. 90.00"))
	assert.True(t, strings.Contains(buf.String(), "70.00 .. 75.00"))

	buf.Reset()
	grid := eda.PairGrid{
		Columns: []string{"a", "b"},
		Panels: [][]*eda.Panel{
			{{X: "a", Y: "a", Correlation: 1}, nil},
			{{X: "a", Y: "b", Correlation: -0.5}, {X: "b", Y: "b", Correlation: 1}},
		},
	}
	err = NewTerminal(&buf).Pairs(grid)
	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "-0.50"))
}

func TestTerminal_Importance(t *testing.T) {
	var buf bytes.Buffer

	err := NewTerminal(&buf).Importance([]string{"age", "income"}, []float64{0.1, 0.9})
	require.NoError(t, err)
	out := buf.String()
	assert.Less(t, strings.Index(out, "income"), strings.Index(out, "age"))

	err = NewTerminal(&buf).Importance([]string{"age"}, []float64{0.1, 0.9})
	assert.Error(t, err)
}

var _ Renderer = (*Terminal)(nil)
