package render

import (
	"github.com/drakos74/free-cluster/internal/eda"
	"github.com/drakos74/free-cluster/internal/math/ml"
)

// Renderer displays the numeric series produced by the analysis helpers.
type Renderer interface {
	Sweep(result *ml.SweepResult) error
	Outliers(report eda.OutlierReport) error
	Pairs(grid eda.PairGrid) error
	Clusters(plot eda.ClusterPlot, profile []ml.Cluster) error
	Percent(tables []eda.PercentTable) error
	Importance(columns []string, importance []float64) error
}
