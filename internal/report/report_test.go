package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/storage"
	"github.com/drakos74/free-cluster/internal/storage/file/json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result() ml.SweepResult {
	s := 0.75
	return ml.SweepResult{
		Range: ml.Range{Min: 2, Max: 4},
		Seed:  42,
		Entries: []ml.Entry{
			{K: 2, Inertia: 100, Silhouette: &s},
			{K: 3, Inertia: 20},
		},
	}
}

func TestArchive(t *testing.T) {
	type test struct {
		shard storage.Shard
	}

	tests := map[string]test{
		"mock": {
			shard: storage.MockShard(storage.NewMockStorage()),
		},
		"json": {
			shard: json.BlobShard(t.TempDir(), storage.SweepTable),
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			archive := NewArchive(tt.shard)

			s := NewSweep("blobs", []string{"x", "y"}, ml.DefaultConfig(), result())
			assert.NotEqual(t, uuid.Nil, s.ID)
			require.NoError(t, archive.Save(s))

			loaded, err := archive.Load("blobs", s.ID.String())
			require.NoError(t, err)
			assert.Equal(t, s.ID, loaded.ID)
			assert.Equal(t, s.Columns, loaded.Columns)
			assert.Equal(t, s.Config, loaded.Config)
			assert.True(t, s.CreatedAt.Equal(loaded.CreatedAt))
			assert.Equal(t, s.Result, loaded.Result)

			_, err = archive.Load("blobs", uuid.New().String())
			assert.ErrorIs(t, err, storage.NotFoundErr)

			_, err = archive.Load("blobs", "not-a-uuid")
			assert.ErrorIs(t, err, storage.InvalidNameErr)
		})
	}
}

func TestSweep_Key(t *testing.T) {
	id := uuid.MustParse("7b3c9a52-0f61-4f3e-9a8e-2d5b7c1e4f00")
	k := Key("customers", id)
	assert.Equal(t, "customers_7b3c9a52-0f61-4f3e-9a8e-2d5b7c1e4f00_sweep", k.Path())
}

func TestArchive_InvalidDataset(t *testing.T) {
	root := t.TempDir()
	archive := NewArchive(json.BlobShard(filepath.Join(root, "store"), storage.SweepTable))

	for _, dataset := range []string{"../../escaped", "a/b", "..", ""} {
		t.Run(dataset, func(t *testing.T) {
			s := NewSweep(dataset, []string{"x"}, ml.DefaultConfig(), result())
			assert.ErrorIs(t, archive.Save(s), storage.InvalidNameErr)

			_, err := archive.Load(dataset, s.ID.String())
			assert.ErrorIs(t, err, storage.InvalidNameErr)
		})
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
