package commands

import (
	"errors"

	"pebblevault/domain/core/valueobjects"
)

// CreatePebbleCommand represents the command to create a new pebble.
// Content may be supplied inline or left empty for later generation.
type CreatePebbleCommand struct {
	UserID            string                                                    `json:"user_id" validate:"required"`
	Topic             string                                                    `json:"topic" validate:"required,min=1,max=255"`
	FolderID          string                                                    `json:"folder_id,omitempty"`
	Levels            map[valueobjects.CognitiveLevel]valueobjects.LevelContent `json:"levels,omitempty"`
	SocraticQuestions []string                                                  `json:"socratic_questions,omitempty"`
	GenerateContent   bool                                                      `json:"generate_content,omitempty"`
	ContextPebbleIDs  []string                                                  `json:"context_pebble_ids,omitempty"`
}

// Validate validates the command
func (cmd CreatePebbleCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.Topic == "" {
		return errors.New("topic is required")
	}
	return nil
}

// RenamePebbleCommand changes a pebble's topic
type RenamePebbleCommand struct {
	UserID   string `json:"user_id" validate:"required"`
	PebbleID string `json:"pebble_id" validate:"required"`
	Topic    string `json:"topic"`
}

// Validate validates the command
func (cmd RenamePebbleCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.PebbleID == "" {
		return errors.New("pebble ID is required")
	}
	return nil
}

// MovePebblesCommand places one or more pebbles into a folder.
// An empty FolderID moves them to the archive root.
type MovePebblesCommand struct {
	UserID    string   `json:"user_id" validate:"required"`
	PebbleIDs []string `json:"pebble_ids" validate:"required,min=1"`
	FolderID  string   `json:"folder_id,omitempty"`
}

// Validate validates the command
func (cmd MovePebblesCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if len(cmd.PebbleIDs) == 0 {
		return errors.New("at least one pebble ID is required")
	}
	return nil
}

// DeletePebblesCommand soft-deletes one or more pebbles
type DeletePebblesCommand struct {
	UserID    string   `json:"user_id" validate:"required"`
	PebbleIDs []string `json:"pebble_ids" validate:"required,min=1"`
}

// Validate validates the command
func (cmd DeletePebblesCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if len(cmd.PebbleIDs) == 0 {
		return errors.New("at least one pebble ID is required")
	}
	return nil
}

// RestorePebblesCommand reverses a soft delete
type RestorePebblesCommand struct {
	UserID    string   `json:"user_id" validate:"required"`
	PebbleIDs []string `json:"pebble_ids" validate:"required,min=1"`
}

// Validate validates the command
func (cmd RestorePebblesCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if len(cmd.PebbleIDs) == 0 {
		return errors.New("at least one pebble ID is required")
	}
	return nil
}

// ReplacePebbleContentCommand swaps a pebble's content for an edited
// version. The whole document travels at once.
type ReplacePebbleContentCommand struct {
	UserID            string                                                    `json:"user_id" validate:"required"`
	PebbleID          string                                                    `json:"pebble_id" validate:"required"`
	Levels            map[valueobjects.CognitiveLevel]valueobjects.LevelContent `json:"levels" validate:"required,min=1"`
	SocraticQuestions []string                                                  `json:"socratic_questions,omitempty"`
}

// Validate validates the command
func (cmd ReplacePebbleContentCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.PebbleID == "" {
		return errors.New("pebble ID is required")
	}
	if len(cmd.Levels) == 0 {
		return errors.New("at least one content level is required")
	}
	return nil
}

// VerifyPebbleCommand marks a pebble's content as reviewed by its
// owner, or withdraws the mark
type VerifyPebbleCommand struct {
	UserID   string `json:"user_id" validate:"required"`
	PebbleID string `json:"pebble_id" validate:"required"`
	Verified bool   `json:"verified"`
}

// Validate validates the command
func (cmd VerifyPebbleCommand) Validate() error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.PebbleID == "" {
		return errors.New("pebble ID is required")
	}
	return nil
}
