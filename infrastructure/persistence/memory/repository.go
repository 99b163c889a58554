// Package memory provides in-memory repository implementations for
// tests and local development.
package memory

import (
	"context"
	"sync"

	"pebblevault/application/ports"
	"pebblevault/domain/core/entities"
	"pebblevault/domain/core/valueobjects"
	pkgerrors "pebblevault/pkg/errors"
)

// PebbleRepository is an in-memory ports.PebbleRepository
type PebbleRepository struct {
	mu      sync.RWMutex
	pebbles map[string]map[string]*entities.Pebble // userID -> pebbleID -> pebble
}

// NewPebbleRepository creates an empty in-memory pebble repository
func NewPebbleRepository() *PebbleRepository {
	return &PebbleRepository{
		pebbles: make(map[string]map[string]*entities.Pebble),
	}
}

var _ ports.PebbleRepository = (*PebbleRepository)(nil)

// Save persists a pebble
func (r *PebbleRepository) Save(ctx context.Context, pebble *entities.Pebble) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userPebbles, ok := r.pebbles[pebble.UserID()]
	if !ok {
		userPebbles = make(map[string]*entities.Pebble)
		r.pebbles[pebble.UserID()] = userPebbles
	}
	userPebbles[pebble.ID().String()] = pebble
	return nil
}

// GetByID retrieves a pebble by its ID
func (r *PebbleRepository) GetByID(ctx context.Context, userID string, id valueobjects.PebbleID) (*entities.Pebble, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pebble, ok := r.pebbles[userID][id.String()]
	if !ok {
		return nil, pkgerrors.ErrPebbleNotFound
	}
	return pebble, nil
}

// GetByUserID retrieves all pebbles for a user
func (r *PebbleRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Pebble, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Pebble, 0, len(r.pebbles[userID]))
	for _, pebble := range r.pebbles[userID] {
		out = append(out, pebble)
	}
	return out, nil
}

// GetByFolderID retrieves the pebbles sitting directly in a folder
func (r *PebbleRepository) GetByFolderID(ctx context.Context, userID string, folderID valueobjects.FolderID) ([]*entities.Pebble, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Pebble, 0)
	for _, pebble := range r.pebbles[userID] {
		if pebble.FolderID().Equals(folderID) {
			out = append(out, pebble)
		}
	}
	return out, nil
}

// Delete removes a pebble permanently
func (r *PebbleRepository) Delete(ctx context.Context, userID string, id valueobjects.PebbleID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pebbles[userID][id.String()]; !ok {
		return pkgerrors.ErrPebbleNotFound
	}
	delete(r.pebbles[userID], id.String())
	return nil
}

// BulkSave saves multiple pebbles
func (r *PebbleRepository) BulkSave(ctx context.Context, pebbles []*entities.Pebble) error {
	for _, pebble := range pebbles {
		if err := r.Save(ctx, pebble); err != nil {
			return err
		}
	}
	return nil
}

// CountByUserID returns the number of pebbles a user owns
func (r *PebbleRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.pebbles[userID]), nil
}

// FolderRepository is an in-memory ports.FolderRepository
type FolderRepository struct {
	mu      sync.RWMutex
	folders map[string]map[string]*entities.Folder // userID -> folderID -> folder
}

// NewFolderRepository creates an empty in-memory folder repository
func NewFolderRepository() *FolderRepository {
	return &FolderRepository{
		folders: make(map[string]map[string]*entities.Folder),
	}
}

var _ ports.FolderRepository = (*FolderRepository)(nil)

// Save persists a folder
func (r *FolderRepository) Save(ctx context.Context, folder *entities.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	userFolders, ok := r.folders[folder.UserID()]
	if !ok {
		userFolders = make(map[string]*entities.Folder)
		r.folders[folder.UserID()] = userFolders
	}
	userFolders[folder.ID().String()] = folder
	return nil
}

// GetByID retrieves a folder by its ID
func (r *FolderRepository) GetByID(ctx context.Context, userID string, id valueobjects.FolderID) (*entities.Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	folder, ok := r.folders[userID][id.String()]
	if !ok {
		return nil, pkgerrors.ErrFolderNotFound
	}
	return folder, nil
}

// GetByUserID retrieves all folders for a user
func (r *FolderRepository) GetByUserID(ctx context.Context, userID string) ([]*entities.Folder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Folder, 0, len(r.folders[userID]))
	for _, folder := range r.folders[userID] {
		out = append(out, folder)
	}
	return out, nil
}

// Delete removes a folder
func (r *FolderRepository) Delete(ctx context.Context, userID string, id valueobjects.FolderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.folders[userID][id.String()]; !ok {
		return pkgerrors.ErrFolderNotFound
	}
	delete(r.folders[userID], id.String())
	return nil
}
