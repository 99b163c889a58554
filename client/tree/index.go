// Package tree derives the folder forest from the entity store.
package tree

import (
	"sort"
	"strings"
	"sync"

	"pebblevault/client/store"
)

// Children is the direct content of one folder (or the root)
type Children struct {
	Folders []store.Folder
	Pebbles []store.Pebble
}

// Index computes derived views over the store. Results are cached per
// store version; the data set is small so a full rebuild is a linear
// scan.
type Index struct {
	store *store.Store

	mu       sync.Mutex
	cachedAt uint64
	children map[string]*Children
}

// NewIndex creates an index over a store
func NewIndex(s *store.Store) *Index {
	return &Index{store: s}
}

// ChildrenOf returns the folders and non-deleted pebbles directly
// under parentID. The empty string is the root.
func (ix *Index) ChildrenOf(parentID string) Children {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.rebuildLocked()

	if c, ok := ix.children[parentID]; ok {
		return *c
	}
	return Children{}
}

// Breadcrumbs returns the ancestor chain from the root down to
// folderID inclusive. The walk is capped at the total folder count so
// it terminates even on accidentally cyclic or dangling data.
func (ix *Index) Breadcrumbs(folderID string) []store.Folder {
	folders := ix.store.Folders()
	byID := make(map[string]store.Folder, len(folders))
	for _, f := range folders {
		byID[f.ID] = f
	}

	var chain []store.Folder
	current := folderID
	for range folders {
		f, ok := byID[current]
		if !ok {
			break
		}
		chain = append(chain, f)
		if f.ParentID == "" {
			break
		}
		current = f.ParentID
	}

	// Collected leaf-first, reverse to root-first
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// IsDescendant reports whether candidateID sits somewhere below
// ancestorID. A folder is never its own descendant.
func (ix *Index) IsDescendant(candidateID, ancestorID string) bool {
	if candidateID == ancestorID {
		return false
	}

	folders := ix.store.Folders()
	parents := make(map[string]string, len(folders))
	for _, f := range folders {
		parents[f.ID] = f.ParentID
	}

	current := candidateID
	for range folders {
		parent, ok := parents[current]
		if !ok || parent == "" {
			return false
		}
		if parent == ancestorID {
			return true
		}
		current = parent
	}
	return false
}

// Search returns non-deleted pebbles whose topic contains the term,
// case-insensitive, across the whole forest.
func (ix *Index) Search(term string) []store.Pebble {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	var out []store.Pebble
	for _, p := range ix.store.Pebbles() {
		if p.IsDeleted {
			continue
		}
		if strings.Contains(strings.ToLower(p.Topic), term) {
			out = append(out, p)
		}
	}
	return out
}

// rebuildLocked refreshes the per-parent child lists when the store
// has moved past the cached version
func (ix *Index) rebuildLocked() {
	version := ix.store.Version()
	if ix.children != nil && ix.cachedAt == version {
		return
	}

	children := make(map[string]*Children)
	get := func(parentID string) *Children {
		c, ok := children[parentID]
		if !ok {
			c = &Children{}
			children[parentID] = c
		}
		return c
	}

	folders := ix.store.Folders()
	known := make(map[string]bool, len(folders))
	for _, f := range folders {
		known[f.ID] = true
	}
	// A parent reference to a folder that no longer exists files the
	// entity under the root instead of under an unreachable bucket.
	resolve := func(parentID string) string {
		if parentID != "" && !known[parentID] {
			return ""
		}
		return parentID
	}

	for _, f := range folders {
		parent := resolve(f.ParentID)
		get(parent).Folders = append(get(parent).Folders, f)
	}
	for _, p := range ix.store.Pebbles() {
		if p.IsDeleted {
			continue
		}
		parent := resolve(p.FolderID)
		get(parent).Pebbles = append(get(parent).Pebbles, p)
	}

	for _, c := range children {
		sort.SliceStable(c.Folders, func(i, j int) bool {
			if c.Folders[i].CreatedAt != c.Folders[j].CreatedAt {
				return c.Folders[i].CreatedAt < c.Folders[j].CreatedAt
			}
			return c.Folders[i].Name < c.Folders[j].Name
		})
		sort.SliceStable(c.Pebbles, func(i, j int) bool {
			return c.Pebbles[i].Timestamp > c.Pebbles[j].Timestamp
		})
	}

	ix.children = children
	ix.cachedAt = version
}
