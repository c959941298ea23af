package ml

import (
	"fmt"

	randomforest "github.com/malaschitz/randomForest"
	"github.com/rs/zerolog/log"
)

// DefaultTrees is the forest size used to rank the cluster features.
const DefaultTrees = 100

// Importance trains a random forest to predict the cluster labels from the rows
// and returns the importance of every column in separating the clusters.
func Importance(x Dataset, labels []int, trees int) ([]float64, error) {
	if err := x.validate(); err != nil {
		return nil, err
	}
	if len(labels) != x.Rows() {
		return nil, fmt.Errorf("got %d labels for %d rows", len(labels), x.Rows())
	}
	if trees <= 0 {
		trees = DefaultTrees
	}

	rows := make([][]float64, x.Rows())
	for i, row := range x {
		rows[i] = append([]float64{}, row...)
	}
	forest := &randomforest.Forest{}
	forest.Data = randomforest.ForestData{X: rows, Class: append([]int{}, labels...)}
	forest.Train(trees)

	importance := make([]float64, x.Dim())
	copy(importance, forest.FeatureImportance)
	log.Debug().
		Int("trees", trees).
		Floats64("importance", importance).
		Msg("trained cluster forest")
	return importance, nil
}
