package metrics

import (
	"context"
	"errors"

	"github.com/bassista/go_notes/internal/repository"
)

const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultError    = "error"
)

// InstrumentedStore counts the operations of the wrapped NoteStore.
type InstrumentedStore struct {
	repository.NoteStore
	m *Manager
}

var _ repository.NoteStore = (*InstrumentedStore)(nil)

// InstrumentStore wraps store; a nil manager returns store unchanged.
func InstrumentStore(store repository.NoteStore, m *Manager) repository.NoteStore {
	if m == nil || store == nil {
		return store
	}
	return &InstrumentedStore{NoteStore: store, m: m}
}

// Unwrap returns the wrapped store.
func (s *InstrumentedStore) Unwrap() repository.NoteStore {
	return s.NoteStore
}

func (s *InstrumentedStore) List(ctx context.Context) ([]repository.Note, error) {
	notes, err := s.NoteStore.List(ctx)
	s.observe("list", err)
	return notes, err
}

func (s *InstrumentedStore) Get(ctx context.Context, id string) (*repository.Note, error) {
	note, err := s.NoteStore.Get(ctx, id)
	s.observe("get", err)
	return note, err
}

func (s *InstrumentedStore) Save(ctx context.Context, note repository.Note) (repository.Note, error) {
	saved, err := s.NoteStore.Save(ctx, note)
	s.observe("save", err)
	if err == nil {
		s.m.CounterNotesSaved.Inc()
	}
	return saved, err
}

func (s *InstrumentedStore) observe(op string, err error) {
	result := resultOK
	switch {
	case errors.Is(err, repository.ErrNoteNotFound):
		result = resultNotFound
	case err != nil:
		result = resultError
	}
	s.m.CounterStoreOps.WithLabelValues(op, result).Inc()
}
