// Package v1 defines the wire types of the public API. Timestamps
// travel as epoch milliseconds.
package v1

import (
	"pebblevault/domain/core/entities"
	"pebblevault/domain/core/valueobjects"
)

// Pebble is the wire representation of a pebble
type Pebble struct {
	ID                string                                                    `json:"id"`
	Topic             string                                                    `json:"topic"`
	FolderID          string                                                    `json:"folderId,omitempty"`
	Levels            map[valueobjects.CognitiveLevel]valueobjects.LevelContent `json:"levels,omitempty"`
	SocraticQuestions []string                                                  `json:"socraticQuestions,omitempty"`
	Status            string                                                    `json:"status"`
	IsVerified        bool                                                      `json:"isVerified"`
	CreatedAt         int64                                                     `json:"createdAt"`
	UpdatedAt         int64                                                     `json:"updatedAt"`
	DeletedAt         int64                                                     `json:"deletedAt,omitempty"`
	Version           int                                                       `json:"version"`
}

// Folder is the wire representation of a folder
type Folder struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ParentID  string `json:"parentId,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	Version   int    `json:"version"`
}

// Archive is the full state of a user's collection
type Archive struct {
	Pebbles []Pebble `json:"pebbles"`
	Folders []Folder `json:"folders"`
}

// CreatePebbleRequest is the body of POST /pebbles
type CreatePebbleRequest struct {
	Topic             string                                                    `json:"topic" validate:"required,min=1,max=255"`
	FolderID          string                                                    `json:"folderId,omitempty"`
	Levels            map[valueobjects.CognitiveLevel]valueobjects.LevelContent `json:"levels,omitempty"`
	SocraticQuestions []string                                                  `json:"socraticQuestions,omitempty"`
	Generate          bool                                                      `json:"generate,omitempty"`
	ContextPebbleIDs  []string                                                  `json:"contextPebbleIds,omitempty"`
}

// UpdatePebbleRequest is the body of PATCH /pebbles/{pebbleID}.
// Pointer fields distinguish "absent" from "set to zero value".
// Content replaces all levels at once; clients send the full edited
// document, not a block diff.
type UpdatePebbleRequest struct {
	Topic      *string              `json:"topic,omitempty" validate:"omitempty,max=255"`
	FolderID   *string              `json:"folderId,omitempty"`
	IsVerified *bool                `json:"isVerified,omitempty"`
	Content    *PebbleContentUpdate `json:"content,omitempty"`
}

// PebbleContentUpdate carries replacement content for a pebble
type PebbleContentUpdate struct {
	Levels            map[valueobjects.CognitiveLevel]valueobjects.LevelContent `json:"levels" validate:"required,min=1"`
	SocraticQuestions []string                                                  `json:"socraticQuestions,omitempty"`
}

// MovePebblesRequest is the body of POST /pebbles/move
type MovePebblesRequest struct {
	PebbleIDs []string `json:"pebbleIds" validate:"required,min=1"`
	FolderID  string   `json:"folderId,omitempty"`
}

// PebbleIDsRequest carries a batch of pebble IDs for delete and restore
type PebbleIDsRequest struct {
	PebbleIDs []string `json:"pebbleIds" validate:"required,min=1"`
}

// CreateFolderRequest is the body of POST /folders
type CreateFolderRequest struct {
	Name      string   `json:"name,omitempty" validate:"omitempty,max=120"`
	ParentID  string   `json:"parentId,omitempty"`
	PebbleIDs []string `json:"pebbleIds,omitempty"`
	// ClientID is the provisional ID the caller assigned before the
	// server confirmed; it is echoed back unchanged so the caller can
	// reconcile.
	ClientID string `json:"clientId,omitempty"`
}

// CreateFolderResponse confirms a folder creation
type CreateFolderResponse struct {
	Folder   Folder `json:"folder"`
	ClientID string `json:"clientId,omitempty"`
}

// UpdateFolderRequest is the body of PATCH /folders/{folderID}
type UpdateFolderRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=120"`
	ParentID *string `json:"parentId,omitempty"`
}

// GenerateRequest is the body of POST /generate. Context pebble IDs
// name cards the reader already holds, their summaries ground the new
// one.
type GenerateRequest struct {
	Topic            string   `json:"topic" validate:"required,min=1,max=255"`
	ContextPebbleIDs []string `json:"contextPebbleIds,omitempty"`
}

// GenerateResponse carries a generation preview
type GenerateResponse struct {
	Topic             string                                                    `json:"topic"`
	Levels            map[valueobjects.CognitiveLevel]valueobjects.LevelContent `json:"levels"`
	SocraticQuestions []string                                                  `json:"socraticQuestions,omitempty"`
}

// PebbleFromEntity maps a domain pebble to its wire form
func PebbleFromEntity(p *entities.Pebble) Pebble {
	out := Pebble{
		ID:                p.ID().String(),
		Topic:             p.Topic(),
		Levels:            p.Content().LevelMap(),
		SocraticQuestions: p.Content().SocraticQuestions(),
		Status:            string(p.Status()),
		IsVerified:        p.IsVerified(),
		CreatedAt:         p.CreatedAt().UnixMilli(),
		UpdatedAt:         p.UpdatedAt().UnixMilli(),
		Version:           p.Version(),
	}
	if !p.FolderID().IsZero() {
		out.FolderID = p.FolderID().String()
	}
	if p.IsDeleted() {
		out.DeletedAt = p.DeletedAt().UnixMilli()
	}
	return out
}

// PebblesFromEntities maps a slice of domain pebbles
func PebblesFromEntities(pebbles []*entities.Pebble) []Pebble {
	out := make([]Pebble, 0, len(pebbles))
	for _, p := range pebbles {
		out = append(out, PebbleFromEntity(p))
	}
	return out
}

// FolderFromEntity maps a domain folder to its wire form
func FolderFromEntity(f *entities.Folder) Folder {
	out := Folder{
		ID:        f.ID().String(),
		Name:      f.Name(),
		CreatedAt: f.CreatedAt().UnixMilli(),
		UpdatedAt: f.UpdatedAt().UnixMilli(),
		Version:   f.Version(),
	}
	if !f.ParentID().IsZero() {
		out.ParentID = f.ParentID().String()
	}
	return out
}

// FoldersFromEntities maps a slice of domain folders
func FoldersFromEntities(folders []*entities.Folder) []Folder {
	out := make([]Folder, 0, len(folders))
	for _, f := range folders {
		out = append(out, FolderFromEntity(f))
	}
	return out
}
