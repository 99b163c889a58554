package commands

import "errors"

// CreateFolderCommand creates a folder, optionally pulling an initial
// set of pebbles into it in the same operation.
type CreateFolderCommand struct {
	UserID    string   `json:"user_id" validate:"required"`
	Name      string   `json:"name"`
	ParentID  string   `json:"parent_id,omitempty"`
	PebbleIDs []string `json:"pebble_ids,omitempty"`
}

// Validate validates the command
func (cmd CreateFolderCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	return nil
}

// RenameFolderCommand changes a folder's display name
type RenameFolderCommand struct {
	UserID   string `json:"user_id" validate:"required"`
	FolderID string `json:"folder_id" validate:"required"`
	Name     string `json:"name"`
}

// Validate validates the command
func (cmd RenameFolderCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.FolderID == "" {
		return errors.New("folder ID is required")
	}
	return nil
}

// MoveFolderCommand moves a folder under a new parent.
// An empty ParentID moves it to the archive root.
type MoveFolderCommand struct {
	UserID   string `json:"user_id" validate:"required"`
	FolderID string `json:"folder_id" validate:"required"`
	ParentID string `json:"parent_id,omitempty"`
}

// Validate validates the command
func (cmd MoveFolderCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.FolderID == "" {
		return errors.New("folder ID is required")
	}
	if cmd.FolderID == cmd.ParentID {
		return errors.New("folder cannot be its own parent")
	}
	return nil
}

// UngroupFolderCommand dissolves a folder: its pebbles and child
// folders are lifted into the folder's parent, then the folder itself
// is removed.
type UngroupFolderCommand struct {
	UserID   string `json:"user_id" validate:"required"`
	FolderID string `json:"folder_id" validate:"required"`
}

// Validate validates the command
func (cmd UngroupFolderCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.FolderID == "" {
		return errors.New("folder ID is required")
	}
	return nil
}
