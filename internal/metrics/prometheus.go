package metrics

import (
	"github.com/IBM/pgxpoolprometheus"
	"github.com/bassista/go_notes/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
)

// NewManagerForStore builds the registry and manager for the given store.
// A postgres store additionally exports its connection pool statistics.
func NewManagerForStore(store repository.NoteStore) *Manager {
	var extra []prometheus.Collector
	if pg, ok := store.(*repository.PostgresRepository); ok {
		extra = append(extra, pgxpoolprometheus.NewCollector(
			pg.Pool(),
			map[string]string{"db_name": pg.Pool().Config().ConnConfig.Database},
		))
	}
	return NewManager(Namespace, Subsystem, SetupPrometheus(extra...))
}
