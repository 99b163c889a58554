package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pebblevault/domain/core/valueobjects"
	pkgerrors "pebblevault/pkg/errors"
)

func newTestPebble(t *testing.T) *Pebble {
	t.Helper()

	content, err := valueobjects.NewPebbleContent(map[valueobjects.CognitiveLevel]valueobjects.LevelContent{
		valueobjects.LevelELI5: {
			Title:   "Photosynthesis",
			Summary: "How plants make food from light",
			MainContent: []valueobjects.MainBlock{
				{Type: valueobjects.BlockText, Body: "Plants use sunlight to make sugar."},
			},
		},
	}, []string{"What would happen without sunlight?"})
	require.NoError(t, err)

	p, err := NewPebble("user-1", "Photosynthesis", content)
	require.NoError(t, err)
	return p
}

func TestNewPebbleValidation(t *testing.T) {
	content := valueobjects.PebbleContent{}

	_, err := NewPebble("", "topic", content)
	assert.Error(t, err)

	_, err = NewPebble("user-1", "   ", content)
	assert.Error(t, err)

	p, err := NewPebble("user-1", "  Photosynthesis  ", content)
	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis", p.Topic())
	assert.Equal(t, PebbleActive, p.Status())
	assert.Equal(t, 1, p.Version())
	assert.True(t, p.FolderID().IsZero())
}

func TestPebbleRename(t *testing.T) {
	p := newTestPebble(t)
	v := p.Version()

	require.NoError(t, p.Rename("Cellular Respiration"))
	assert.Equal(t, "Cellular Respiration", p.Topic())
	assert.Equal(t, v+1, p.Version())

	// Blank rename is a no-op, not an error
	require.NoError(t, p.Rename("   "))
	assert.Equal(t, "Cellular Respiration", p.Topic())
	assert.Equal(t, v+1, p.Version())

	// Renaming to the current topic is a no-op too
	require.NoError(t, p.Rename("Cellular Respiration"))
	assert.Equal(t, v+1, p.Version())
}

func TestPebbleMoveToFolder(t *testing.T) {
	p := newTestPebble(t)
	folderID := valueobjects.NewFolderID()

	require.NoError(t, p.MoveToFolder(folderID))
	assert.True(t, p.FolderID().Equals(folderID))

	// Moving back to root clears the folder
	require.NoError(t, p.MoveToFolder(valueobjects.FolderID{}))
	assert.True(t, p.FolderID().IsZero())
}

func TestPebbleSoftDeleteAndRestore(t *testing.T) {
	p := newTestPebble(t)
	folderID := valueobjects.NewFolderID()
	require.NoError(t, p.MoveToFolder(folderID))

	require.NoError(t, p.SoftDelete())
	assert.True(t, p.IsDeleted())
	assert.False(t, p.DeletedAt().IsZero())

	// Deleted pebbles reject further mutation until restored
	assert.ErrorIs(t, p.Rename("new topic"), pkgerrors.ErrPebbleDeleted)
	assert.ErrorIs(t, p.MoveToFolder(valueobjects.FolderID{}), pkgerrors.ErrPebbleDeleted)
	assert.ErrorIs(t, p.SoftDelete(), pkgerrors.ErrPebbleDeleted)

	require.NoError(t, p.Restore())
	assert.False(t, p.IsDeleted())
	assert.True(t, p.DeletedAt().IsZero())

	// Folder placement survives the delete/restore round trip
	assert.True(t, p.FolderID().Equals(folderID))

	assert.ErrorIs(t, p.Restore(), pkgerrors.ErrPebbleNotDeleted)
}

func TestSetVerified(t *testing.T) {
	p, err := NewPebble("user-1", "Photosynthesis", valueobjects.PebbleContent{})
	require.NoError(t, err)
	require.False(t, p.IsVerified())

	require.NoError(t, p.SetVerified(true))
	assert.True(t, p.IsVerified())

	version := p.Version()
	require.NoError(t, p.SetVerified(true))
	assert.Equal(t, version, p.Version())

	// Replacing content withdraws the mark
	require.NoError(t, p.SetContent(valueobjects.PebbleContent{}))
	assert.False(t, p.IsVerified())

	require.NoError(t, p.SoftDelete())
	assert.ErrorIs(t, p.SetVerified(true), pkgerrors.ErrPebbleDeleted)
}

func TestReconstructPebble(t *testing.T) {
	created := time.Now().Add(-48 * time.Hour)
	updated := time.Now().Add(-time.Hour)

	p, err := ReconstructPebble(
		valueobjects.NewPebbleID(),
		"user-1",
		"Photosynthesis",
		valueobjects.FolderID{},
		valueobjects.PebbleContent{},
		created, updated, time.Time{},
		3,
		PebbleActive,
		true,
	)
	require.NoError(t, err)
	assert.Equal(t, created, p.CreatedAt())
	assert.Equal(t, updated, p.UpdatedAt())
	assert.Equal(t, 3, p.Version())
	assert.True(t, p.IsVerified())

	_, err = ReconstructPebble(
		valueobjects.PebbleID{},
		"user-1", "topic",
		valueobjects.FolderID{}, valueobjects.PebbleContent{},
		created, updated, time.Time{}, 1, PebbleActive, false,
	)
	assert.Error(t, err)
}
