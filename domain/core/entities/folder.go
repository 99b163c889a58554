package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"pebblevault/domain/config"
	"pebblevault/domain/core/valueobjects"
	pkgerrors "pebblevault/pkg/errors"
)

// Folder is a named container in the archive tree. Folders nest through
// parentID; a zero parent means the folder sits at the archive root.
type Folder struct {
	id        valueobjects.FolderID
	userID    string
	name      string
	parentID  valueobjects.FolderID
	createdAt time.Time
	updatedAt time.Time
	version   int
}

// NewFolder creates a new folder with full business rule validation
func NewFolder(userID, name string, parentID valueobjects.FolderID) (*Folder, error) {
	return NewFolderWithConfig(userID, name, parentID, config.DefaultDomainConfig())
}

// NewFolderWithConfig creates a new folder with validation and configuration
func NewFolderWithConfig(userID, name string, parentID valueobjects.FolderID, cfg *config.DomainConfig) (*Folder, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = cfg.DefaultFolderName
	}
	if utf8.RuneCountInString(name) > cfg.MaxFolderNameLength {
		return nil, pkgerrors.ErrFolderNameTooLong
	}

	now := time.Now()
	return &Folder{
		id:        valueobjects.NewFolderID(),
		userID:    userID,
		name:      name,
		parentID:  parentID,
		createdAt: now,
		updatedAt: now,
		version:   1,
	}, nil
}

// NewProvisionalFolder creates a folder with a client-assigned temp ID,
// for optimistic creation ahead of server confirmation.
func NewProvisionalFolder(userID, name string, parentID valueobjects.FolderID) (*Folder, error) {
	f, err := NewFolder(userID, name, parentID)
	if err != nil {
		return nil, err
	}
	f.id = valueobjects.NewTempFolderID()
	return f, nil
}

// ReconstructFolder reconstructs a folder from repository data with preserved timestamps
func ReconstructFolder(
	id valueobjects.FolderID,
	userID string,
	name string,
	parentID valueobjects.FolderID,
	createdAt, updatedAt time.Time,
	version int,
) (*Folder, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("folder ID cannot be empty")
	}
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if name == "" {
		return nil, pkgerrors.NewValidationError("folder name cannot be empty")
	}
	if version < 1 {
		version = 1
	}

	return &Folder{
		id:        id,
		userID:    userID,
		name:      name,
		parentID:  parentID,
		createdAt: createdAt,
		updatedAt: updatedAt,
		version:   version,
	}, nil
}

// ID returns the folder's unique identifier
func (f *Folder) ID() valueobjects.FolderID {
	return f.id
}

// UserID returns the owner's ID
func (f *Folder) UserID() string {
	return f.userID
}

// Name returns the folder's display name
func (f *Folder) Name() string {
	return f.name
}

// ParentID returns the parent folder's ID; zero means the archive root
func (f *Folder) ParentID() valueobjects.FolderID {
	return f.parentID
}

// Version returns the folder's version for optimistic locking
func (f *Folder) Version() int {
	return f.version
}

// CreatedAt returns when the folder was created
func (f *Folder) CreatedAt() time.Time {
	return f.createdAt
}

// UpdatedAt returns when the folder was last updated
func (f *Folder) UpdatedAt() time.Time {
	return f.updatedAt
}

// Rename changes the folder's display name. A blank new name leaves
// the folder unchanged rather than failing.
func (f *Folder) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if utf8.RuneCountInString(name) > config.DefaultDomainConfig().MaxFolderNameLength {
		return pkgerrors.ErrFolderNameTooLong
	}
	if name == f.name {
		return nil
	}

	f.name = name
	f.touch()
	return nil
}

// ReparentTo moves the folder under a new parent. Cycle detection is
// the tree index's job; the entity only rejects self-parenting.
func (f *Folder) ReparentTo(parentID valueobjects.FolderID) error {
	if f.id.Equals(parentID) {
		return pkgerrors.ErrFolderCycle
	}
	if f.parentID.Equals(parentID) {
		return nil
	}

	f.parentID = parentID
	f.touch()
	return nil
}

// AdoptServerID swaps a provisional client-assigned ID for the
// server-assigned one after a create is confirmed.
func (f *Folder) AdoptServerID(id valueobjects.FolderID) error {
	if id.IsZero() {
		return pkgerrors.NewValidationError("server folder ID cannot be empty")
	}
	if !f.id.IsTemp() {
		return pkgerrors.NewValidationError("folder already has a server-assigned ID")
	}

	f.id = id
	f.touch()
	return nil
}

func (f *Folder) touch() {
	f.updatedAt = time.Now()
	f.version++
}
