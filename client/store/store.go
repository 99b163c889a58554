// Package store holds the client-side entity collections, the single
// source of truth for the archive tree.
package store

import (
	"encoding/json"
	"sync"
)

// Pebble is the client-side view of a knowledge card. Content is
// opaque here, only the organizational fields drive the archive.
type Pebble struct {
	ID         string          `json:"id"`
	Topic      string          `json:"topic"`
	FolderID   string          `json:"folderId,omitempty"`
	Timestamp  int64           `json:"timestamp"`
	IsVerified bool            `json:"isVerified,omitempty"`
	IsDeleted  bool            `json:"isDeleted,omitempty"`
	Content    json.RawMessage `json:"content,omitempty"`
}

// Folder is the client-side view of a folder
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ParentID  string `json:"parentId,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// Store keeps the canonical pebble and folder collections. Writes are
// whole-entity replacements so readers never observe a half-updated
// entity. Every write bumps a version counter that derived views use
// for cache invalidation.
type Store struct {
	mu      sync.RWMutex
	pebbles []Pebble
	folders []Folder
	version uint64
}

// New creates an empty store
func New() *Store {
	return &Store{}
}

// Version returns the current write counter
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Pebbles returns a copy of all pebbles in insertion order
func (s *Store) Pebbles() []Pebble {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Pebble, len(s.pebbles))
	copy(out, s.pebbles)
	return out
}

// Folders returns a copy of all folders in insertion order
func (s *Store) Folders() []Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

// PebbleByID looks up one pebble
func (s *Store) PebbleByID(id string) (Pebble, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pebbles {
		if p.ID == id {
			return p, true
		}
	}
	return Pebble{}, false
}

// FolderByID looks up one folder
func (s *Store) FolderByID(id string) (Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.folders {
		if f.ID == id {
			return f, true
		}
	}
	return Folder{}, false
}

// AppendPebble adds a pebble to the collection
func (s *Store) AppendPebble(p Pebble) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pebbles = append(s.pebbles, p)
	s.version++
}

// AppendFolder adds a folder to the collection
func (s *Store) AppendFolder(f Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = append(s.folders, f)
	s.version++
}

// ReplacePebble swaps in an updated copy of a pebble. The updater
// receives a copy; it can never mutate the stored entity in place.
func (s *Store) ReplacePebble(id string, update func(*Pebble)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.pebbles {
		if p.ID == id {
			updated := p
			update(&updated)
			s.pebbles[i] = updated
			s.version++
			return true
		}
	}
	return false
}

// ReplaceFolder swaps in an updated copy of a folder
func (s *Store) ReplaceFolder(id string, update func(*Folder)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.folders {
		if f.ID == id {
			updated := f
			update(&updated)
			s.folders[i] = updated
			s.version++
			return true
		}
	}
	return false
}

// RemoveFolder drops a folder from the collection. Pebbles are never
// removed here, deletion is a soft flag on the entity.
func (s *Store) RemoveFolder(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.folders {
		if f.ID == id {
			s.folders = append(s.folders[:i:i], s.folders[i+1:]...)
			s.version++
			return true
		}
	}
	return false
}

// ReplaceAll swaps both collections in one transition, used for the
// initial load, reload-on-failure, and batched structural mutations.
func (s *Store) ReplaceAll(pebbles []Pebble, folders []Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pebbles = make([]Pebble, len(pebbles))
	copy(s.pebbles, pebbles)
	s.folders = make([]Folder, len(folders))
	copy(s.folders, folders)
	s.version++
}
