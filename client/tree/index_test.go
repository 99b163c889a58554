package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pebblevault/client/store"
)

func seedStore() *store.Store {
	s := store.New()
	s.AppendFolder(store.Folder{ID: "physics", Name: "Physics", CreatedAt: 100})
	s.AppendFolder(store.Folder{ID: "quantum", Name: "Quantum", ParentID: "physics", CreatedAt: 200})
	s.AppendFolder(store.Folder{ID: "history", Name: "History", CreatedAt: 300})
	s.AppendPebble(store.Pebble{ID: "p1", Topic: "Gravity", FolderID: "physics", Timestamp: 10})
	s.AppendPebble(store.Pebble{ID: "p2", Topic: "Relativity", FolderID: "physics", Timestamp: 20})
	s.AppendPebble(store.Pebble{ID: "p3", Topic: "Rome", Timestamp: 30})
	return s
}

func TestChildrenOf(t *testing.T) {
	ix := NewIndex(seedStore())

	root := ix.ChildrenOf("")
	require.Len(t, root.Folders, 2)
	assert.Equal(t, "physics", root.Folders[0].ID)
	require.Len(t, root.Pebbles, 1)
	assert.Equal(t, "p3", root.Pebbles[0].ID)

	physics := ix.ChildrenOf("physics")
	require.Len(t, physics.Folders, 1)
	require.Len(t, physics.Pebbles, 2)
	// Newest first
	assert.Equal(t, "p2", physics.Pebbles[0].ID)
}

func TestChildrenOfExcludesDeleted(t *testing.T) {
	s := seedStore()
	s.ReplacePebble("p1", func(p *store.Pebble) { p.IsDeleted = true })
	ix := NewIndex(s)

	physics := ix.ChildrenOf("physics")
	require.Len(t, physics.Pebbles, 1)
	assert.Equal(t, "p2", physics.Pebbles[0].ID)
}

func TestDanglingFolderReferenceFallsBackToRoot(t *testing.T) {
	s := store.New()
	s.AppendPebble(store.Pebble{ID: "p1", Topic: "Orphan", FolderID: "ghost", Timestamp: 10})
	ix := NewIndex(s)

	root := ix.ChildrenOf("")
	require.Len(t, root.Pebbles, 1)
	assert.Equal(t, "p1", root.Pebbles[0].ID)
	assert.Empty(t, ix.ChildrenOf("ghost").Pebbles)
}

func TestDanglingParentFolderFallsBackToRoot(t *testing.T) {
	s := seedStore()
	s.ReplaceFolder("quantum", func(f *store.Folder) { f.ParentID = "ghost" })
	ix := NewIndex(s)

	root := ix.ChildrenOf("")
	ids := make([]string, 0, len(root.Folders))
	for _, f := range root.Folders {
		ids = append(ids, f.ID)
	}
	assert.Contains(t, ids, "quantum")
}

func TestCacheInvalidatesOnWrite(t *testing.T) {
	s := seedStore()
	ix := NewIndex(s)

	assert.Len(t, ix.ChildrenOf("").Pebbles, 1)
	s.AppendPebble(store.Pebble{ID: "p4", Topic: "Cells", Timestamp: 40})
	assert.Len(t, ix.ChildrenOf("").Pebbles, 2)
}

func TestBreadcrumbs(t *testing.T) {
	ix := NewIndex(seedStore())

	crumbs := ix.Breadcrumbs("quantum")
	require.Len(t, crumbs, 2)
	assert.Equal(t, "physics", crumbs[0].ID)
	assert.Equal(t, "quantum", crumbs[1].ID)

	assert.Empty(t, ix.Breadcrumbs("missing"))
}

func TestBreadcrumbsTerminatesOnCycle(t *testing.T) {
	s := seedStore()
	// Corrupt the data into a cycle
	s.ReplaceFolder("physics", func(f *store.Folder) { f.ParentID = "quantum" })
	ix := NewIndex(s)

	crumbs := ix.Breadcrumbs("quantum")
	assert.LessOrEqual(t, len(crumbs), len(s.Folders()))
}

func TestIsDescendant(t *testing.T) {
	ix := NewIndex(seedStore())

	assert.True(t, ix.IsDescendant("quantum", "physics"))
	assert.False(t, ix.IsDescendant("physics", "quantum"))
	assert.False(t, ix.IsDescendant("history", "physics"))
	// Never its own descendant
	assert.False(t, ix.IsDescendant("physics", "physics"))
}

func TestSearch(t *testing.T) {
	s := seedStore()
	s.ReplacePebble("p3", func(p *store.Pebble) { p.IsDeleted = true })
	ix := NewIndex(s)

	hits := ix.Search("RaVi")
	require.Len(t, hits, 1)
	assert.Equal(t, "p1", hits[0].ID)

	assert.Empty(t, ix.Search("rome"))
	assert.Empty(t, ix.Search("  "))
}
