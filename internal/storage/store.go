package storage

import (
	"errors"
	"fmt"
	"strings"
)

const SweepTable = "sweep"

var (
	// DefaultDir is the root directory of the file based storage.
	DefaultDir = "file-storage"
)

// Shard creates a new storage implementation for the given shard.
type Shard func(shard string) (Persistence, error)

var (
	NotFoundErr     = errors.New("not found")
	CouldNotLoadErr = errors.New("could not load")
	InvalidNameErr  = errors.New("invalid name")
)

// ValidName checks that the name can be used as a single path element.
func ValidName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("'%s' is reserved: %w", name, InvalidNameErr)
	case strings.ContainsAny(name, `/\`+"\x00"):
		return fmt.Errorf("'%s' contains a path separator: %w", name, InvalidNameErr)
	}
	return nil
}

// Key is the storage key for an analysis artifact.
type Key struct {
	ID      string `json:"id"`
	Dataset string `json:"dataset"`
	Label   string `json:"label"`
}

// Path is the file name the key is stored under.
func (k Key) Path() string {
	return fmt.Sprintf("%s_%s_%s", k.Dataset, k.ID, k.Label)
}

// Validate checks that every part of the key is a valid name.
func (k Key) Validate() error {
	for _, part := range []string{k.Dataset, k.ID, k.Label} {
		if err := ValidName(part); err != nil {
			return fmt.Errorf("invalid key %+v: %w", k, err)
		}
	}
	return nil
}

// Persistence stores and loads values by key.
type Persistence interface {
	Store(k Key, value interface{}) error
	Load(k Key, value interface{}) error
}
