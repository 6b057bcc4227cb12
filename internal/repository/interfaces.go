package repository

import (
	"context"
	"errors"
)

// ErrNoteNotFound is returned by Get when no note carries the requested id.
var ErrNoteNotFound = errors.New("note not found")

// NoteStore persists notes.
// JSONRepository and PostgresRepository implement this interface.
type NoteStore interface {
	List(ctx context.Context) ([]Note, error)
	Get(ctx context.Context, id string) (*Note, error)
	// Save inserts the note, or fully replaces the stored note with the same id.
	// A note without id gets a freshly generated one.
	Save(ctx context.Context, note Note) (Note, error)
	Close() error
}

// Watcher is implemented by stores that can observe their backing storage
// for changes made outside this process.
type Watcher interface {
	StartWatcher(ctx context.Context) error
}
