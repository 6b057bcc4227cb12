package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreOptions_StoreType(t *testing.T) {
	assert.Equal(t, StoreTypeFile, StoreOptions{NotesPath: "x.json"}.StoreType())
	assert.Equal(t, StoreTypePostgres, StoreOptions{DatabaseURL: "postgres://localhost/db", NotesPath: "x.json"}.StoreType())
}

func TestNewNoteStoreFromConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")

	store, err := NewNoteStoreFromConfig(context.Background(), StoreOptions{NotesPath: path})
	require.NoError(t, err)
	defer store.Close()

	repo, ok := store.(*JSONRepository)
	require.True(t, ok, "expected *JSONRepository, got %T", store)
	assert.Equal(t, path, repo.Path())
}

func TestNewNoteStoreFromConfig_FileEmptyPath(t *testing.T) {
	_, err := NewNoteStoreFromConfig(context.Background(), StoreOptions{})
	assert.Error(t, err)
}

func TestNewNoteStoreFromConfig_PostgresInvalidURL(t *testing.T) {
	_, err := NewNoteStoreFromConfig(context.Background(), StoreOptions{
		DatabaseURL: "postgres://user@localhost:notaport/db",
	})
	assert.Error(t, err)
}
