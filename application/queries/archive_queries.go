package queries

import (
	"errors"

	"pebblevault/domain/core/entities"
)

// GetPebbleQuery fetches a single pebble by ID
type GetPebbleQuery struct {
	UserID   string `json:"user_id" validate:"required"`
	PebbleID string `json:"pebble_id" validate:"required"`
}

// Validate validates the query
func (q GetPebbleQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.PebbleID == "" {
		return errors.New("pebble ID is required")
	}
	return nil
}

// ListPebblesQuery fetches a user's pebbles, optionally scoped to one
// folder. FolderID distinguishes "unset" (all pebbles) from "" (root).
type ListPebblesQuery struct {
	UserID         string  `json:"user_id" validate:"required"`
	FolderID       *string `json:"folder_id,omitempty"`
	IncludeDeleted bool    `json:"include_deleted,omitempty"`
	Page           int     `json:"page,omitempty"`
	PageSize       int     `json:"page_size,omitempty"`
}

// Validate validates the query
func (q ListPebblesQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	if q.Page < 0 || q.PageSize < 0 {
		return errors.New("pagination values cannot be negative")
	}
	return nil
}

// ListFoldersQuery fetches all folders for a user
type ListFoldersQuery struct {
	UserID string `json:"user_id" validate:"required"`
}

// Validate validates the query
func (q ListFoldersQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// GetArchiveQuery fetches a user's complete archive in one shot, the
// payload a client uses for its initial load or a full reload.
type GetArchiveQuery struct {
	UserID string `json:"user_id" validate:"required"`
}

// Validate validates the query
func (q GetArchiveQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// PebblePage is the result of a ListPebblesQuery
type PebblePage struct {
	Pebbles []*entities.Pebble
	Total   int
}

// ArchiveResult is the result of a GetArchiveQuery
type ArchiveResult struct {
	Pebbles []*entities.Pebble
	Folders []*entities.Folder
}
