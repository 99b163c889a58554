package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCopyOnWrite(t *testing.T) {
	s := New()
	s.AppendPebble(Pebble{ID: "p1", Topic: "Gravity"})

	snapshot := s.Pebbles()
	s.ReplacePebble("p1", func(p *Pebble) {
		p.Topic = "General Relativity"
	})

	// The earlier snapshot is untouched
	assert.Equal(t, "Gravity", snapshot[0].Topic)

	p, ok := s.PebbleByID("p1")
	require.True(t, ok)
	assert.Equal(t, "General Relativity", p.Topic)
}

func TestStoreVersionBumps(t *testing.T) {
	s := New()
	v0 := s.Version()

	s.AppendFolder(Folder{ID: "f1", Name: "Physics"})
	assert.Greater(t, s.Version(), v0)

	v1 := s.Version()
	s.ReplaceFolder("f1", func(f *Folder) { f.Name = "Maths" })
	assert.Greater(t, s.Version(), v1)

	// Missed lookups do not bump
	v2 := s.Version()
	assert.False(t, s.ReplaceFolder("missing", func(f *Folder) {}))
	assert.Equal(t, v2, s.Version())
}

func TestStoreRemoveFolder(t *testing.T) {
	s := New()
	s.AppendFolder(Folder{ID: "f1"})
	s.AppendFolder(Folder{ID: "f2"})

	require.True(t, s.RemoveFolder("f1"))
	assert.False(t, s.RemoveFolder("f1"))

	folders := s.Folders()
	require.Len(t, folders, 1)
	assert.Equal(t, "f2", folders[0].ID)
}

func TestStoreReplaceAll(t *testing.T) {
	s := New()
	s.AppendPebble(Pebble{ID: "old"})

	s.ReplaceAll(
		[]Pebble{{ID: "p1"}, {ID: "p2"}},
		[]Folder{{ID: "f1"}},
	)

	assert.Len(t, s.Pebbles(), 2)
	assert.Len(t, s.Folders(), 1)
	_, ok := s.PebbleByID("old")
	assert.False(t, ok)
}
