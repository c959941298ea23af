package eda

import (
	"fmt"

	"github.com/drakos74/free-cluster/internal/math/ml"
)

// Point is a labelled observation of a cluster plot.
type Point struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Cluster int     `json:"cluster"`
}

// ClusterPlot is a two dimensional view of a clustering.
type ClusterPlot struct {
	X         string       `json:"x"`
	Y         string       `json:"y"`
	Centroids [][2]float64 `json:"centroids,omitempty"`
	Points    []Point      `json:"points,omitempty"`
}

// Scatter projects the clustering onto two columns of the frame.
// The model must have been fitted on exactly those two columns.
func Scatter(f *Frame, columns []string, model *ml.Model, showCentroids, showPoints bool) (ClusterPlot, error) {
	if len(columns) != 2 {
		return ClusterPlot{}, fmt.Errorf("a cluster plot needs 2 columns but got %d", len(columns))
	}
	if model == nil {
		return ClusterPlot{}, fmt.Errorf("no model to plot for %v", columns)
	}
	plot := ClusterPlot{
		X: columns[0],
		Y: columns[1],
	}
	if showCentroids {
		plot.Centroids = make([][2]float64, len(model.Centroids))
		for i, c := range model.Centroids {
			if len(c) != 2 {
				return ClusterPlot{}, fmt.Errorf("centroid %d has %d dimensions", i, len(c))
			}
			plot.Centroids[i] = [2]float64{c[0], c[1]}
		}
	}
	if showPoints {
		x, err := f.Dataset(columns...)
		if err != nil {
			return ClusterPlot{}, err
		}
		if len(model.Labels) != len(x) {
			return ClusterPlot{}, fmt.Errorf("model has %d labels for %d rows", len(model.Labels), len(x))
		}
		plot.Points = make([]Point, len(x))
		for i, row := range x {
			plot.Points[i] = Point{X: row[0], Y: row[1], Cluster: model.Labels[i]}
		}
	}
	return plot, nil
}
