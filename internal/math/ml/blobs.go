package ml

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Blobs draws n rows from isotropic gaussian blobs around the given centers.
// Rows are dealt to the centers in turn, the returned labels hold the center of each row.
func Blobs(centers [][]float64, n int, std float64, seed uint64) (Dataset, []int) {
	normal := distuv.Normal{
		Mu:    0,
		Sigma: std,
		Src:   rand.NewSource(seed),
	}
	x := make(Dataset, n)
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		c := i % len(centers)
		row := make([]float64, len(centers[c]))
		for j, v := range centers[c] {
			row[j] = v + normal.Rand()
		}
		x[i] = row
		labels[i] = c
	}
	return x, labels
}
