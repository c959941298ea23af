package report

import (
	"fmt"
	"time"

	"github.com/drakos74/free-cluster/internal/math/ml"
	"github.com/drakos74/free-cluster/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const sweepLabel = "sweep"

// Sweep is a persisted sweep result with the context it was computed in.
type Sweep struct {
	ID        uuid.UUID      `json:"id"`
	Dataset   string         `json:"dataset"`
	Columns   []string       `json:"columns"`
	Config    ml.Config      `json:"config"`
	CreatedAt time.Time      `json:"created_at"`
	Result    ml.SweepResult `json:"result"`
}

// NewSweep wraps the result into a report with a fresh id.
func NewSweep(dataset string, columns []string, cfg ml.Config, result ml.SweepResult) Sweep {
	return Sweep{
		ID:        uuid.New(),
		Dataset:   dataset,
		Columns:   columns,
		Config:    cfg,
		CreatedAt: time.Now().UTC(),
		Result:    result,
	}
}

// Key is the storage key of the report.
func (s Sweep) Key() storage.Key {
	return Key(s.Dataset, s.ID)
}

// Key builds the storage key of a sweep report.
func Key(dataset string, id uuid.UUID) storage.Key {
	return storage.Key{
		ID:      id.String(),
		Dataset: dataset,
		Label:   sweepLabel,
	}
}

// Archive stores sweep reports, one shard per dataset.
type Archive struct {
	shard storage.Shard
}

// NewArchive creates an archive on top of the given shard factory.
func NewArchive(shard storage.Shard) *Archive {
	return &Archive{shard: shard}
}

// Save persists the report.
func (a *Archive) Save(s Sweep) error {
	if err := storage.ValidName(s.Dataset); err != nil {
		return fmt.Errorf("invalid dataset name: %w", err)
	}
	store, err := a.shard(s.Dataset)
	if err != nil {
		return fmt.Errorf("could not open shard '%s': %w", s.Dataset, err)
	}
	if err := store.Store(s.Key(), s); err != nil {
		return fmt.Errorf("could not store report '%s': %w", s.ID, err)
	}
	log.Info().
		Str("dataset", s.Dataset).
		Str("id", s.ID.String()).
		Msg("saved sweep report")
	return nil
}

// Load retrieves the report for the given dataset and id.
func (a *Archive) Load(dataset string, id string) (Sweep, error) {
	var s Sweep
	uid, err := uuid.Parse(id)
	if err != nil {
		return s, fmt.Errorf("invalid report id '%s': %v: %w", id, err, storage.InvalidNameErr)
	}
	if err := storage.ValidName(dataset); err != nil {
		return s, fmt.Errorf("invalid dataset name: %w", err)
	}
	store, err := a.shard(dataset)
	if err != nil {
		return s, fmt.Errorf("could not open shard '%s': %w", dataset, err)
	}
	if err := store.Load(Key(dataset, uid), &s); err != nil {
		return s, err
	}
	return s, nil
}
