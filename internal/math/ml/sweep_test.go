package ml

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeBlobs() Dataset {
	x, _ := Blobs([][]float64{{-10, -10}, {0, 10}, {10, -10}}, 100, 1, 42)
	return x
}

func line(n int) Dataset {
	x := make(Dataset, n)
	for i := range x {
		x[i] = []float64{float64(i * i), float64(i % 3)}
	}
	return x
}

func TestEvaluator_Evaluate(t *testing.T) {

	type test struct {
		r Range
	}

	tests := map[string]test{
		"single":  {r: Range{Min: 2, Max: 3}},
		"short":   {r: Range{Min: 2, Max: 5}},
		"offset":  {r: Range{Min: 4, Max: 9}},
		"default": {r: DefaultRange},
	}

	x := threeBlobs()
	evaluator := NewEvaluator(DefaultConfig())

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := evaluator.Evaluate(context.Background(), x, tt.r, 42)
			require.NoError(t, err)
			require.Len(t, result.Entries, tt.r.Max-tt.r.Min)

			for i, e := range result.Entries {
				assert.Equal(t, tt.r.Min+i, e.K)
				assert.GreaterOrEqual(t, e.Inertia, 0.0)
				require.NotNil(t, e.Silhouette)
				assert.GreaterOrEqual(t, *e.Silhouette, -1.0)
				assert.LessOrEqual(t, *e.Silhouette, 1.0)
				if i > 0 {
					assert.LessOrEqual(t, e.Inertia, result.Entries[i-1].Inertia, fmt.Sprintf("inertia increased at k = %d", e.K))
				}
			}

			ks, inertia := result.Elbow()
			assert.Equal(t, tt.r.Ks(), ks)
			assert.Len(t, inertia, len(ks))
			sks, scores := result.Silhouettes()
			assert.Equal(t, ks, sks)
			assert.Len(t, scores, len(ks))
		})
	}
}

func TestEvaluator_ElbowAndSilhouettePeakAtThree(t *testing.T) {
	x := threeBlobs()

	result, err := NewEvaluator(DefaultConfig()).Evaluate(context.Background(), x, Range{Min: 2, Max: 8}, 42)
	require.NoError(t, err)

	best, ok := result.Best()
	require.True(t, ok)
	assert.Equal(t, 3, best.K)

	knee, ok := result.Knee()
	require.True(t, ok)
	assert.Equal(t, 3, knee.K)

	// the drop from 2 to 3 dominates every later drop
	e := result.Entries
	assert.Greater(t, e[0].Inertia-e[1].Inertia, 10*(e[1].Inertia-e[2].Inertia))
	assert.Greater(t, *e[1].Silhouette, *e[0].Silhouette)
	assert.Greater(t, *e[1].Silhouette, *e[2].Silhouette)
}

func TestEvaluator_Deterministic(t *testing.T) {
	x, _ := Blobs([][]float64{{0, 0}, {4, 4}, {0, 4}, {4, 0}, {2, 2}}, 120, 1.2, 11)
	r := Range{Min: 2, Max: 9}

	sequential := DefaultConfig()
	parallel := DefaultConfig()
	parallel.Workers = 4

	r1, err := NewEvaluator(sequential).Evaluate(context.Background(), x, r, 42)
	require.NoError(t, err)
	r2, err := NewEvaluator(sequential).Evaluate(context.Background(), x, r, 42)
	require.NoError(t, err)
	r3, err := NewEvaluator(parallel).Evaluate(context.Background(), x, r, 42)
	require.NoError(t, err)

	assert.Equal(t, r1, r2)
	assert.Equal(t, r1, r3)

	for i := 1; i < len(r1.Entries); i++ {
		assert.LessOrEqual(t, r1.Entries[i].Inertia, r1.Entries[i-1].Inertia)
	}
}

func TestEvaluator_InsufficientData(t *testing.T) {

	type test struct {
		x   Dataset
		r   Range
		err bool
	}

	tests := map[string]test{
		"rows-equal-to-largest-k": {
			x:   line(5),
			r:   Range{Min: 2, Max: 6},
			err: true,
		},
		"rows-below-largest-k": {
			x:   line(4),
			r:   Range{Min: 2, Max: 6},
			err: true,
		},
		"rows-above-largest-k": {
			x:   line(6),
			r:   Range{Min: 2, Max: 6},
			err: false,
		},
		"empty": {
			x:   Dataset{},
			r:   Range{Min: 2, Max: 4},
			err: true,
		},
		"lower-bound-below-two": {
			x:   line(10),
			r:   Range{Min: 1, Max: 4},
			err: true,
		},
		"empty-range": {
			x:   line(10),
			r:   Range{Min: 4, Max: 4},
			err: true,
		},
		"inverted-range": {
			x:   line(10),
			r:   Range{Min: 5, Max: 3},
			err: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := NewEvaluator(DefaultConfig()).Evaluate(context.Background(), tt.x, tt.r, 42)
			if tt.err {
				var insufficient *InsufficientDataError
				require.True(t, errors.As(err, &insufficient), fmt.Sprintf("unexpected error %v", err))
				assert.Equal(t, tt.r, insufficient.Range)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Len(t, result.Entries, tt.r.Len())
			}
		})
	}
}

func TestEvaluator_InvalidDataset(t *testing.T) {

	type test struct {
		x Dataset
	}

	tests := map[string]test{
		"ragged": {
			x: Dataset{{1, 2}, {3}, {4, 5}, {6, 7}},
		},
		"not-a-number": {
			x: Dataset{{1, 2}, {3, math.NaN()}, {4, 5}, {6, 7}},
		},
		"infinite": {
			x: Dataset{{1, 2}, {3, 4}, {math.Inf(-1), 5}, {6, 7}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := NewEvaluator(DefaultConfig()).Evaluate(context.Background(), tt.x, Range{Min: 2, Max: 3}, 42)
			assert.Nil(t, result)

			var insufficient *InsufficientDataError
			require.True(t, errors.As(err, &insufficient))
			assert.Equal(t, 4, insufficient.Rows)
			assert.Equal(t, Range{Min: 2, Max: 3}, insufficient.Range)
			assert.ErrorIs(t, err, ErrInvalidDataset)
		})
	}
}

func TestEvaluator_Degenerate(t *testing.T) {
	x := Dataset{{0, 0}, {0, 0}, {0, 0}, {5, 5}, {5, 5}, {5, 5}}

	result, err := NewEvaluator(DefaultConfig()).Evaluate(context.Background(), x, Range{Min: 2, Max: 4}, 42)
	assert.Nil(t, result)

	var degenerate *DegenerateClusterError
	require.True(t, errors.As(err, &degenerate))
	assert.Equal(t, 3, degenerate.Entry.K)
	assert.Equal(t, 2, degenerate.Clusters)
	assert.Nil(t, degenerate.Entry.Silhouette)
}

func TestEvaluator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEvaluator(DefaultConfig()).Evaluate(ctx, threeBlobs(), Range{Min: 2, Max: 5}, 42)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSweepResult_Selection(t *testing.T) {
	score := func(f float64) *float64 { return &f }

	result := SweepResult{
		Range: Range{Min: 2, Max: 7},
		Entries: []Entry{
			{K: 2, Inertia: 1000, Silhouette: score(0.5)},
			{K: 3, Inertia: 200, Silhouette: score(0.7)},
			{K: 4, Inertia: 150, Silhouette: score(0.6)},
			{K: 5, Inertia: 120, Silhouette: score(0.4)},
			{K: 6, Inertia: 100, Silhouette: score(0.3)},
		},
	}

	best, ok := result.Best()
	require.True(t, ok)
	assert.Equal(t, 3, best.K)

	knee, ok := result.Knee()
	require.True(t, ok)
	assert.Equal(t, 3, knee.K)

	_, ok = SweepResult{Entries: result.Entries[:2]}.Knee()
	assert.False(t, ok)

	_, ok = SweepResult{Entries: []Entry{{K: 2, Inertia: 1}}}.Best()
	assert.False(t, ok)
}

func TestDefaultRange(t *testing.T) {
	require.NoError(t, DefaultRange.Validate())
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8, 9, 10}, DefaultRange.Ks())
}

func TestElbow(t *testing.T) {

	fit := func(inertia float64, sizes ...int) *Model {
		return &Model{K: len(sizes), Sizes: sizes, Inertia: inertia}
	}

	prev := fit(10, 5, 5)

	type test struct {
		curr     *Model
		warm     *Model
		keepWarm bool
		ok       bool
	}

	tests := map[string]test{
		"independent-fit-holds": {
			curr: fit(8, 4, 3, 3),
			warm: fit(9, 4, 3, 3),
			ok:   true,
		},
		"warm-start-lower": {
			curr:     fit(12, 4, 3, 3),
			warm:     fit(9, 4, 3, 3),
			keepWarm: true,
			ok:       true,
		},
		"independent-fit-degenerate": {
			curr:     fit(20, 5, 5, 0),
			warm:     fit(9, 4, 3, 3),
			keepWarm: true,
			ok:       true,
		},
		"warm-start-degenerate": {
			curr: fit(12, 4, 3, 3),
			warm: fit(9, 5, 5, 0),
			ok:   false,
		},
		"both-above-previous": {
			curr:     fit(12, 4, 3, 3),
			warm:     fit(11, 4, 3, 3),
			keepWarm: true,
			ok:       false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m, ok := elbow(prev, tt.curr, tt.warm)
			assert.Equal(t, tt.ok, ok)
			if tt.keepWarm {
				assert.Same(t, tt.warm, m)
			} else {
				assert.Same(t, tt.curr, m)
			}
		})
	}
}
