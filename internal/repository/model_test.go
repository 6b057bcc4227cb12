package repository

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNote_ApplyDefaults(t *testing.T) {
	n := Note{Title: "t"}
	n.ApplyDefaults()
	require.NotNil(t, n.SideNotes)
	assert.Empty(t, n.SideNotes)

	n = Note{Title: "t", SideNotes: []string{"a"}}
	n.ApplyDefaults()
	assert.Equal(t, []string{"a"}, n.SideNotes)
}

func TestNote_EnsureID(t *testing.T) {
	n := Note{}
	assert.True(t, n.ensureID())
	assert.NotEmpty(t, n.ID)

	first := n.ID
	assert.False(t, n.ensureID())
	assert.Equal(t, first, n.ID)

	other := Note{}
	other.ensureID()
	assert.NotEqual(t, first, other.ID, "generated ids must be unique")
}

func TestNote_Clone(t *testing.T) {
	orig := Note{ID: "1", Title: "t", SideNotes: []string{"a", "b"}}
	c := orig.Clone()
	c.SideNotes[0] = "x"
	assert.Equal(t, "a", orig.SideNotes[0])

	var empty Note
	assert.Nil(t, empty.Clone().SideNotes)
}

func TestNote_Validation(t *testing.T) {
	v := validator.New()
	assert.Error(t, v.Struct(Note{Content: "c"}), "empty title must be rejected")
	assert.NoError(t, v.Struct(Note{Title: "t"}), "empty content is allowed")
}

func TestApplyDefaults_NilSlice(t *testing.T) {
	notes := applyDefaults(nil)
	require.NotNil(t, notes)
	assert.Empty(t, notes)
}
