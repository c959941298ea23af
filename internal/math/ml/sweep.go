package ml

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/drakos74/free-cluster/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Entry holds the goodness of fit metrics for one cluster count.
// A nil Silhouette means the score is undefined for the fit.
type Entry struct {
	K          int      `json:"k"`
	Inertia    float64  `json:"inertia"`
	Silhouette *float64 `json:"silhouette"`
}

// SweepResult is the outcome of evaluating a range of cluster counts.
type SweepResult struct {
	Range   Range   `json:"range"`
	Seed    int64   `json:"seed"`
	Entries []Entry `json:"entries"`
}

// Elbow returns the aligned cluster counts and inertia values.
func (r SweepResult) Elbow() ([]int, []float64) {
	ks := make([]int, len(r.Entries))
	inertia := make([]float64, len(r.Entries))
	for i, e := range r.Entries {
		ks[i] = e.K
		inertia[i] = e.Inertia
	}
	return ks, inertia
}

// Silhouettes returns the aligned cluster counts and silhouette scores.
// Entries without a score are skipped.
func (r SweepResult) Silhouettes() ([]int, []float64) {
	ks := make([]int, 0, len(r.Entries))
	scores := make([]float64, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Silhouette == nil {
			continue
		}
		ks = append(ks, e.K)
		scores = append(scores, *e.Silhouette)
	}
	return ks, scores
}

// Best returns the entry with the highest silhouette score.
func (r SweepResult) Best() (Entry, bool) {
	var best Entry
	found := false
	for _, e := range r.Entries {
		if e.Silhouette == nil {
			continue
		}
		if !found || *e.Silhouette > *best.Silhouette {
			best = e
			found = true
		}
	}
	return best, found
}

// Knee returns the entry farthest from the chord joining the first and last
// points of the normalised inertia curve.
func (r SweepResult) Knee() (Entry, bool) {
	n := len(r.Entries)
	if n < 3 {
		return Entry{}, false
	}
	first, last := r.Entries[0], r.Entries[n-1]
	dk := float64(last.K - first.K)
	di := first.Inertia - last.Inertia
	if di <= 0 {
		return Entry{}, false
	}
	best, bestD := -1, 0.0
	for i, e := range r.Entries {
		x := float64(e.K-first.K) / dk
		y := (e.Inertia - last.Inertia) / di
		// distance below the chord from (0,1) to (1,0)
		d := (1 - x - y) / math.Sqrt2
		if d > bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return Entry{}, false
	}
	return r.Entries[best], true
}

// Evaluator compares k-means fits over a range of cluster counts.
type Evaluator struct {
	cfg Config
}

// NewEvaluator creates a new sweep evaluator.
func NewEvaluator(cfg Config) *Evaluator {
	return &Evaluator{cfg: cfg.normalise()}
}

// Config returns the effective configuration.
func (e *Evaluator) Config() Config {
	return e.cfg
}

// Evaluate fits a k-means model for every k in the range and reports inertia and
// mean silhouette per k in ascending order.
// Every fit uses the same seed, so the result only depends on the inputs.
func (e *Evaluator) Evaluate(ctx context.Context, x Dataset, r Range, seed int64) (*SweepResult, error) {
	start := time.Now()
	if err := r.Validate(); err != nil {
		return nil, &InsufficientDataError{Rows: x.Rows(), Range: r, Reason: err.Error()}
	}
	if x.Rows() == 0 {
		return nil, &InsufficientDataError{Rows: 0, Range: r, Reason: "empty dataset"}
	}
	if err := x.validate(); err != nil {
		return nil, &InsufficientDataError{Rows: x.Rows(), Range: r, Reason: err.Error(), Err: err}
	}
	if x.Rows() < r.Max {
		return nil, &InsufficientDataError{
			Rows:   x.Rows(),
			Range:  r,
			Reason: fmt.Sprintf("need at least %d rows to score %d clusters", r.Max, r.Max-1),
		}
	}

	ks := r.Ks()
	models := make([]*Model, len(ks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, k := range ks {
		i, k := i, k
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := NewKMeans(k, e.cfg).Fit(x, seed)
			if err != nil {
				return fmt.Errorf("could not fit k-means for k = %d: %w", k, err)
			}
			models[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := e.enforceElbow(x, models); err != nil {
		return nil, err
	}

	entries := make([]Entry, len(ks))
	for i, m := range models {
		entries[i] = Entry{K: ks[i], Inertia: m.Inertia}
		if m.Degenerate() {
			log.Error().
				Int("k", ks[i]).
				Int("clusters", m.Clusters()).
				Msg("degenerate k-means fit")
			return nil, &DegenerateClusterError{Entry: entries[i], Clusters: m.Clusters()}
		}
	}

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i := range models {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := Silhouette(x, models[i].Labels)
			if err != nil {
				return fmt.Errorf("could not score k = %d: %w", ks[i], err)
			}
			entries[i].Silhouette = &s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, entry := range entries {
		metrics.Observer.Silhouette(entry.K, *entry.Silhouette)
		log.Info().
			Int("k", entry.K).
			Float64("inertia", entry.Inertia).
			Float64("silhouette", *entry.Silhouette).
			Msg("evaluated k-means")
	}
	metrics.Observer.Sweep(time.Since(start))

	return &SweepResult{
		Range:   r,
		Seed:    seed,
		Entries: entries,
	}, nil
}

// enforceElbow refits any k whose inertia exceeds the one of k-1,
// starting from the k-1 centroids plus the row farthest from its centroid.
// Lloyd iterations never increase inertia, so the warm start is at least as good as the k-1 fit
// unless it empties a cluster.
func (e *Evaluator) enforceElbow(x Dataset, models []*Model) error {
	for i := 1; i < len(models); i++ {
		prev, curr := models[i-1], models[i]
		if prev.Degenerate() {
			continue
		}
		if !curr.Degenerate() && curr.Inertia <= prev.Inertia {
			continue
		}
		init := append(append([][]float64{}, prev.Centroids...), x[farthest(x, prev)])
		warm, err := NewKMeans(curr.K, e.cfg).FitFrom(x, init)
		if err != nil {
			return fmt.Errorf("could not refit k = %d: %w", curr.K, err)
		}
		m, ok := elbow(prev, curr, warm)
		if m != curr {
			log.Debug().
				Int("k", curr.K).
				Float64("inertia", curr.Inertia).
				Float64("warm", warm.Inertia).
				Msg("replaced fit with warm start")
			models[i] = m
		}
		if !ok && !m.Degenerate() {
			log.Warn().
				Int("k", m.K).
				Float64("inertia", m.Inertia).
				Float64("previous", prev.Inertia).
				Bool("warm-degenerate", warm.Degenerate()).
				Msg("inertia increases with k")
		}
	}
	return nil
}

// elbow picks between the independent fit and the warm start for k.
// A degenerate warm start is never kept.
// It reports whether the chosen fit has no more inertia than the k-1 fit.
func elbow(prev, curr, warm *Model) (*Model, bool) {
	m := curr
	if !warm.Degenerate() && (curr.Degenerate() || warm.Inertia < curr.Inertia) {
		m = warm
	}
	return m, m.Inertia <= prev.Inertia
}

func farthest(x Dataset, m *Model) int {
	idx, far := 0, -1.0
	for i, row := range x {
		if d := squared(row, m.Centroids[m.Labels[i]]); d > far {
			idx, far = i, d
		}
	}
	return idx
}
