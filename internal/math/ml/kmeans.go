package ml

import (
	"fmt"
	"math"

	"github.com/drakos74/free-cluster/internal/buffer"
	"github.com/drakos74/free-cluster/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MinRestarts is the least number of initialisations a fit goes through.
const MinRestarts = 10

// Config parametrises the k-means fits.
type Config struct {
	// Restarts is the number of k-means++ initialisations per fit.
	Restarts int `json:"restarts" mapstructure:"restarts"`
	// MaxIterations caps the Lloyd iterations of a single initialisation.
	MaxIterations int `json:"max_iterations" mapstructure:"max_iterations"`
	// Tolerance is the centroid shift, relative to the mean feature variance, below which a fit has converged.
	Tolerance float64 `json:"tolerance" mapstructure:"tolerance"`
	// Workers is the number of fits running in parallel during a sweep.
	Workers int `json:"workers" mapstructure:"workers"`
}

// DefaultConfig returns the default k-means configuration.
func DefaultConfig() Config {
	return Config{
		Restarts:      MinRestarts,
		MaxIterations: 300,
		Tolerance:     1e-4,
		Workers:       1,
	}
}

func (c Config) normalise() Config {
	def := DefaultConfig()
	if c.Restarts < MinRestarts {
		if c.Restarts != 0 {
			log.Warn().
				Int("restarts", c.Restarts).
				Int("min", MinRestarts).
				Msg("too few restarts for a stable fit")
		}
		c.Restarts = MinRestarts
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = def.MaxIterations
	}
	if c.Tolerance < 0 {
		c.Tolerance = def.Tolerance
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c
}

// KMeans fits partitional clusterings with a fixed number of clusters.
type KMeans struct {
	k   int
	cfg Config
}

// NewKMeans creates a new k-means estimator for k clusters.
func NewKMeans(k int, cfg Config) *KMeans {
	return &KMeans{
		k:   k,
		cfg: cfg.normalise(),
	}
}

// Model is a fitted k-means clustering.
type Model struct {
	K          int         `json:"k"`
	Centroids  [][]float64 `json:"centroids"`
	Labels     []int       `json:"labels"`
	Sizes      []int       `json:"sizes"`
	Inertia    float64     `json:"inertia"`
	Iterations int         `json:"iterations"`
}

// Fit runs the configured number of seeded k-means++ initialisations
// and keeps the one with the lowest inertia.
// Fits that leave clusters empty only win if no initialisation avoids it.
func (km *KMeans) Fit(x Dataset, seed int64) (*Model, error) {
	if err := km.check(x); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(uint64(seed)))
	tol := km.tolerance(x)

	var best *Model
	for r := 0; r < km.cfg.Restarts; r++ {
		m := km.lloyd(x, seedCentroids(x, km.k, rng), tol)
		log.Debug().
			Int("k", km.k).
			Int("restart", r).
			Int("iterations", m.Iterations).
			Float64("inertia", m.Inertia).
			Msg("k-means restart")
		if better(m, best) {
			best = m
		}
	}
	metrics.Observer.Fit(km.k, km.cfg.Restarts)
	if best.Degenerate() {
		metrics.Observer.Degenerate(km.k)
	}
	return best, nil
}

// FitFrom runs a single fit starting from the given centroids.
func (km *KMeans) FitFrom(x Dataset, centroids [][]float64) (*Model, error) {
	if err := km.check(x); err != nil {
		return nil, err
	}
	if len(centroids) != km.k {
		return nil, fmt.Errorf("expected %d initial centroids but got %d", km.k, len(centroids))
	}
	init := make([][]float64, km.k)
	for i, c := range centroids {
		if len(c) != x.Dim() {
			return nil, fmt.Errorf("centroid %d has %d features instead of %d", i, len(c), x.Dim())
		}
		init[i] = append([]float64{}, c...)
	}
	m := km.lloyd(x, init, km.tolerance(x))
	metrics.Observer.Fit(km.k, 1)
	return m, nil
}

func (km *KMeans) check(x Dataset) error {
	if err := x.validate(); err != nil {
		return err
	}
	if km.k < 1 || km.k > x.Rows() {
		return fmt.Errorf("cannot fit %d clusters on %d rows", km.k, x.Rows())
	}
	return nil
}

// tolerance scales the relative tolerance by the mean feature variance.
func (km *KMeans) tolerance(x Dataset) float64 {
	if x.Rows() < 2 {
		return 0
	}
	v := 0.0
	for j := 0; j < x.Dim(); j++ {
		v += stat.Variance(x.Column(j), nil)
	}
	return km.cfg.Tolerance * v / float64(x.Dim())
}

func (km *KMeans) lloyd(x Dataset, centroids [][]float64, tol float64) *Model {
	labels := make([]int, len(x))
	for i := range labels {
		labels[i] = -1
	}
	iterations := 0
	for iterations < km.cfg.MaxIterations {
		iterations++
		if !assign(x, centroids, labels) {
			break
		}
		if update(x, centroids, labels) <= tol {
			break
		}
	}
	// the final labels are always the nearest centroids of the final model
	assign(x, centroids, labels)
	return newModel(x, centroids, labels, iterations)
}

func newModel(x Dataset, centroids [][]float64, labels []int, iterations int) *Model {
	sizes := make([]int, len(centroids))
	inertia := 0.0
	for i, row := range x {
		c := labels[i]
		sizes[c]++
		inertia += squared(row, centroids[c])
	}
	return &Model{
		K:          len(centroids),
		Centroids:  centroids,
		Labels:     labels,
		Sizes:      sizes,
		Inertia:    inertia,
		Iterations: iterations,
	}
}

// Predict returns the index of the nearest centroid.
func (m *Model) Predict(row []float64) int {
	return nearest(row, m.Centroids)
}

// Clusters returns the number of non-empty clusters.
func (m *Model) Clusters() int {
	n := 0
	for _, s := range m.Sizes {
		if s > 0 {
			n++
		}
	}
	return n
}

// Degenerate reports if any cluster ended up empty.
func (m *Model) Degenerate() bool {
	return m.Clusters() < m.K
}

// Profile summarises the members of each cluster.
func (m *Model) Profile(x Dataset) []Cluster {
	moments := make([]*buffer.Moments, m.K)
	for c := range moments {
		moments[c] = buffer.NewMoments(x.Dim())
	}
	for i, row := range x {
		moments[m.Labels[i]].Push(row...)
	}
	clusters := make([]Cluster, m.K)
	for c, mm := range moments {
		clusters[c] = Cluster{
			Index: c,
			Size:  mm.Count(),
			Mean:  mm.Mean(),
			StDev: mm.StDev(),
			Min:   mm.Min(),
			Max:   mm.Max(),
		}
	}
	return clusters
}

func better(m, best *Model) bool {
	if best == nil {
		return true
	}
	if m.Degenerate() != best.Degenerate() {
		return !m.Degenerate()
	}
	return m.Inertia < best.Inertia
}

// seedCentroids picks k initial centroids with the k-means++ heuristic.
func seedCentroids(x Dataset, k int, rng *rand.Rand) [][]float64 {
	n := len(x)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64{}, x[rng.Intn(n)]...))

	d2 := make([]float64, n)
	for i, row := range x {
		d2[i] = squared(row, centroids[0])
	}

	for len(centroids) < k {
		idx := -1
		total := floats.Sum(d2)
		if total > 0 {
			r := rng.Float64() * total
			cumulative := 0.0
			for i, d := range d2 {
				cumulative += d
				if d > 0 && cumulative >= r {
					idx = i
					break
				}
			}
			if idx < 0 {
				// rounding left r beyond the cumulative sum
				for i := n - 1; i >= 0; i-- {
					if d2[i] > 0 {
						idx = i
						break
					}
				}
			}
		} else {
			// every row sits on a centroid already
			idx = rng.Intn(n)
		}
		c := append([]float64{}, x[idx]...)
		centroids = append(centroids, c)
		for i, row := range x {
			d2[i] = math.Min(d2[i], squared(row, c))
		}
	}
	return centroids
}

// assign labels each row with its nearest centroid and reports if any label changed.
func assign(x Dataset, centroids [][]float64, labels []int) bool {
	changed := false
	for i, row := range x {
		c := nearest(row, centroids)
		if labels[i] != c {
			changed = true
			labels[i] = c
		}
	}
	return changed
}

// update moves each centroid to the mean of its members and returns the total squared shift.
// Centroids of empty clusters stay where they are.
func update(x Dataset, centroids [][]float64, labels []int) float64 {
	dim := x.Dim()
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, row := range x {
		c := labels[i]
		floats.Add(sums[c], row)
		counts[c]++
	}
	shift := 0.0
	for c, sum := range sums {
		if counts[c] == 0 {
			continue
		}
		floats.Scale(1/float64(counts[c]), sum)
		shift += squared(sum, centroids[c])
		copy(centroids[c], sum)
	}
	return shift
}

func nearest(row []float64, centroids [][]float64) int {
	best, bestD := -1, math.Inf(1)
	for c, centroid := range centroids {
		d := squared(row, centroid)
		if best < 0 || d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func squared(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
