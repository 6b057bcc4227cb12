package repository

import (
	"context"
	"fmt"

	"github.com/bassista/go_notes/internal/logger"
)

const (
	StoreTypeFile     = "file"
	StoreTypePostgres = "postgres"
)

// StoreOptions carries the inputs of the store selection.
type StoreOptions struct {
	DatabaseURL string
	NotesPath   string
	MaxConns    int32
}

// StoreType reports which backend the options select.
// A database URL wins; without it notes live in the JSON file.
func (o StoreOptions) StoreType() string {
	if o.DatabaseURL != "" {
		return StoreTypePostgres
	}
	return StoreTypeFile
}

// NewNoteStoreFromConfig creates the NoteStore selected by opts.
func NewNoteStoreFromConfig(ctx context.Context, opts StoreOptions) (NoteStore, error) {
	switch opts.StoreType() {
	case StoreTypePostgres:
		pool, err := NewPostgresPool(ctx, opts.DatabaseURL, opts.MaxConns)
		if err != nil {
			return nil, err
		}
		repo, err := NewPostgresRepository(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.WithComponent("store").Info("using postgres note store")
		return repo, nil
	case StoreTypeFile:
		repo, err := NewJSONRepository(opts.NotesPath)
		if err != nil {
			return nil, err
		}
		logger.WithComponent("store").Infof("using json note store: %s", repo.Path())
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store type: %s (supported: %s, %s)", opts.StoreType(), StoreTypeFile, StoreTypePostgres)
	}
}
