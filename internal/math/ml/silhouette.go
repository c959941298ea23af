package ml

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrUndefinedSilhouette is returned when the labelling has fewer than 2
// or more than rows-1 distinct clusters.
var ErrUndefinedSilhouette = errors.New("undefined silhouette")

// Silhouette computes the mean silhouette coefficient over all rows,
// using euclidean distances. Rows in singleton clusters score 0.
func Silhouette(x Dataset, labels []int) (float64, error) {
	n := len(x)
	if len(labels) != n {
		return 0, fmt.Errorf("got %d labels for %d rows", len(labels), n)
	}

	// dense cluster indices in order of first appearance
	index := make(map[int]int)
	counts := make([]int, 0)
	dense := make([]int, n)
	for i, l := range labels {
		c, ok := index[l]
		if !ok {
			c = len(counts)
			index[l] = c
			counts = append(counts, 0)
		}
		counts[c]++
		dense[i] = c
	}

	clusters := len(counts)
	if clusters < 2 || clusters > n-1 {
		return 0, fmt.Errorf("%d clusters over %d rows: %w", clusters, n, ErrUndefinedSilhouette)
	}

	sum := 0.0
	dist := make([]float64, clusters)
	for i, row := range x {
		for c := range dist {
			dist[c] = 0
		}
		for j, other := range x {
			if i == j {
				continue
			}
			dist[dense[j]] += floats.Distance(row, other, 2)
		}
		own := dense[i]
		if counts[own] == 1 {
			continue
		}
		a := dist[own] / float64(counts[own]-1)
		b := math.Inf(1)
		for c, d := range dist {
			if c == own {
				continue
			}
			b = math.Min(b, d/float64(counts[c]))
		}
		if m := math.Max(a, b); m > 0 {
			sum += (b - a) / m
		}
	}
	return sum / float64(n), nil
}
