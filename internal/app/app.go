package app

import (
	"context"
	"errors"

	"github.com/bassista/go_notes/internal/config"
	"github.com/bassista/go_notes/internal/logger"
	"github.com/bassista/go_notes/internal/metrics"
	"github.com/bassista/go_notes/internal/repository"
)

// App is the application container (immutable dependencies + lifecycle context).
// It is not a request context; handlers should still use gin's request context.
type App struct {
	Config  *config.Config
	Store   repository.NoteStore
	Metrics *metrics.Manager

	BaseCtx context.Context
	Cancel  context.CancelFunc
}

// New builds the container. A non-nil metrics manager wraps the store with
// operation counters.
func New(cfg *config.Config, store repository.NoteStore, m *metrics.Manager) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if store == nil {
		return nil, errors.New("note store is nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:  cfg,
		Store:   metrics.InstrumentStore(store, m),
		Metrics: m,
		BaseCtx: ctx,
		Cancel:  cancel,
	}, nil
}

// Shutdown cancels the lifecycle context and releases the store.
func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.Cancel()
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			logger.WithComponent("app").Errorf("close note store: %v", err)
		}
	}
}

// StartWatchers starts the background watchers of the active store, if it has any.
func (a *App) StartWatchers() error {
	w, ok := watcherOf(a.Store)
	if !ok {
		logger.WithComponent("app").Debug("note store has no watcher")
		return nil
	}
	return w.StartWatcher(a.BaseCtx)
}

type unwrapper interface {
	Unwrap() repository.NoteStore
}

func watcherOf(s repository.NoteStore) (repository.Watcher, bool) {
	for s != nil {
		if w, ok := s.(repository.Watcher); ok {
			return w, true
		}
		u, ok := s.(unwrapper)
		if !ok {
			return nil, false
		}
		s = u.Unwrap()
	}
	return nil, false
}
