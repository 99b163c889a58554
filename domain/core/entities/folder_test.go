package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pebblevault/domain/core/valueobjects"
	pkgerrors "pebblevault/pkg/errors"
)

func TestNewFolderDefaults(t *testing.T) {
	f, err := NewFolder("user-1", "", valueobjects.FolderID{})
	require.NoError(t, err)
	assert.Equal(t, "New Collection", f.Name())
	assert.True(t, f.ParentID().IsZero())
	assert.False(t, f.ID().IsTemp())

	_, err = NewFolder("", "Biology", valueobjects.FolderID{})
	assert.Error(t, err)
}

func TestNewProvisionalFolder(t *testing.T) {
	f, err := NewProvisionalFolder("user-1", "Biology", valueobjects.FolderID{})
	require.NoError(t, err)
	assert.True(t, f.ID().IsTemp())

	serverID := valueobjects.NewFolderID()
	require.NoError(t, f.AdoptServerID(serverID))
	assert.True(t, f.ID().Equals(serverID))

	// A second adoption is rejected
	assert.Error(t, f.AdoptServerID(valueobjects.NewFolderID()))
}

func TestFolderRename(t *testing.T) {
	f, err := NewFolder("user-1", "Biology", valueobjects.FolderID{})
	require.NoError(t, err)
	v := f.Version()

	require.NoError(t, f.Rename("Plant Biology"))
	assert.Equal(t, "Plant Biology", f.Name())
	assert.Equal(t, v+1, f.Version())

	// Blank rename is a no-op
	require.NoError(t, f.Rename("  "))
	assert.Equal(t, "Plant Biology", f.Name())
	assert.Equal(t, v+1, f.Version())
}

func TestFolderReparent(t *testing.T) {
	parent, err := NewFolder("user-1", "Science", valueobjects.FolderID{})
	require.NoError(t, err)
	child, err := NewFolder("user-1", "Biology", valueobjects.FolderID{})
	require.NoError(t, err)

	require.NoError(t, child.ReparentTo(parent.ID()))
	assert.True(t, child.ParentID().Equals(parent.ID()))

	assert.ErrorIs(t, child.ReparentTo(child.ID()), pkgerrors.ErrFolderCycle)
}
