package ml

import (
	"fmt"
	"math"

	"github.com/cdipaolo/goml/cluster"
	"github.com/rs/zerolog/log"
)

// Export persists the centroids of the model in the goml k-means format.
func Export(m *Model, path string) error {
	if m == nil || len(m.Centroids) == 0 {
		return fmt.Errorf("no model to export")
	}
	centroids := make([][]float64, len(m.Centroids))
	for i, c := range m.Centroids {
		centroids[i] = append([]float64{}, c...)
	}
	km := cluster.NewKMeans(m.K, 0, centroids)
	km.Centroids = centroids
	if err := km.PersistToFile(path); err != nil {
		return fmt.Errorf("could not persist model to '%s': %w", path, err)
	}
	log.Info().Str("path", path).Int("k", m.K).Msg("exported model")
	return nil
}

// Assigner labels new rows with the clusters of a restored model.
type Assigner struct {
	model *cluster.KMeans
	dim   int
}

// Restore loads a model exported with Export.
func Restore(path string) (*Assigner, error) {
	km := cluster.NewKMeans(1, 0, [][]float64{{0}})
	if err := km.RestoreFromFile(path); err != nil {
		return nil, fmt.Errorf("could not restore model from '%s': %w", path, err)
	}
	if len(km.Centroids) == 0 || len(km.Centroids[0]) == 0 {
		return nil, fmt.Errorf("no centroids in '%s'", path)
	}
	return &Assigner{
		model: km,
		dim:   len(km.Centroids[0]),
	}, nil
}

// K returns the number of clusters of the restored model.
func (a *Assigner) K() int {
	return len(a.model.Centroids)
}

// Assign returns the cluster of the given row.
func (a *Assigner) Assign(row []float64) (int, error) {
	if len(row) != a.dim {
		return 0, fmt.Errorf("row has %d features but the model expects %d", len(row), a.dim)
	}
	guess, err := a.model.Predict(row)
	if err != nil {
		return 0, fmt.Errorf("could not predict: %w", err)
	}
	return int(math.Round(guess[0])), nil
}

// AssignAll labels every row of the data set.
func (a *Assigner) AssignAll(x Dataset) ([]int, error) {
	labels := make([]int, len(x))
	for i, row := range x {
		l, err := a.Assign(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		labels[i] = l
	}
	return labels, nil
}
