package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"pebblevault/domain/config"
	"pebblevault/domain/core/valueobjects"
	pkgerrors "pebblevault/pkg/errors"
)

// PebbleStatus represents the lifecycle state of a pebble
type PebbleStatus string

const (
	PebbleActive  PebbleStatus = "active"
	PebbleDeleted PebbleStatus = "deleted"
)

// Pebble is the main entity representing one studied topic.
// This is a rich domain model with encapsulated business logic.
type Pebble struct {
	// Private fields ensure encapsulation
	id        valueobjects.PebbleID
	userID    string
	topic     string
	folderID  valueobjects.FolderID // zero value means the pebble sits at the archive root
	content   valueobjects.PebbleContent
	createdAt time.Time
	updatedAt time.Time
	deletedAt time.Time
	version   int
	status    PebbleStatus
	verified  bool
}

// NewPebble creates a new pebble with full business rule validation
func NewPebble(userID, topic string, content valueobjects.PebbleContent) (*Pebble, error) {
	return NewPebbleWithConfig(userID, topic, content, config.DefaultDomainConfig())
}

// NewPebbleWithConfig creates a new pebble with validation and configuration
func NewPebbleWithConfig(userID, topic string, content valueobjects.PebbleContent, cfg *config.DomainConfig) (*Pebble, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}

	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}

	topic = strings.TrimSpace(topic)
	if utf8.RuneCountInString(topic) < cfg.MinTopicLength {
		return nil, pkgerrors.NewValidationError("topic cannot be empty")
	}
	if utf8.RuneCountInString(topic) > cfg.MaxTopicLength {
		return nil, pkgerrors.NewValidationError("topic exceeds maximum length")
	}

	now := time.Now()
	return &Pebble{
		id:        valueobjects.NewPebbleID(),
		userID:    userID,
		topic:     topic,
		content:   content,
		createdAt: now,
		updatedAt: now,
		version:   1,
		status:    PebbleActive,
	}, nil
}

// ReconstructPebble reconstructs a pebble from repository data with preserved timestamps
func ReconstructPebble(
	id valueobjects.PebbleID,
	userID string,
	topic string,
	folderID valueobjects.FolderID,
	content valueobjects.PebbleContent,
	createdAt, updatedAt, deletedAt time.Time,
	version int,
	status PebbleStatus,
	verified bool,
) (*Pebble, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("pebble ID cannot be empty")
	}
	if userID == "" {
		return nil, pkgerrors.NewValidationError("userID cannot be empty")
	}
	if topic == "" {
		return nil, pkgerrors.NewValidationError("topic cannot be empty")
	}
	if version < 1 {
		version = 1
	}
	if status == "" {
		status = PebbleActive
	}

	return &Pebble{
		id:        id,
		userID:    userID,
		topic:     topic,
		folderID:  folderID,
		content:   content,
		createdAt: createdAt,
		updatedAt: updatedAt,
		deletedAt: deletedAt,
		version:   version,
		status:    status,
		verified:  verified,
	}, nil
}

// ID returns the pebble's unique identifier
func (p *Pebble) ID() valueobjects.PebbleID {
	return p.id
}

// UserID returns the owner's ID
func (p *Pebble) UserID() string {
	return p.userID
}

// Topic returns the studied topic
func (p *Pebble) Topic() string {
	return p.topic
}

// FolderID returns the containing folder's ID; zero means the archive root
func (p *Pebble) FolderID() valueobjects.FolderID {
	return p.folderID
}

// Content returns the pebble's generated content
func (p *Pebble) Content() valueobjects.PebbleContent {
	return p.content
}

// Status returns the pebble's lifecycle state
func (p *Pebble) Status() PebbleStatus {
	return p.status
}

// IsDeleted reports whether the pebble is soft-deleted
func (p *Pebble) IsDeleted() bool {
	return p.status == PebbleDeleted
}

// IsVerified reports whether the owner has reviewed the content
func (p *Pebble) IsVerified() bool {
	return p.verified
}

// Version returns the pebble's version for optimistic locking
func (p *Pebble) Version() int {
	return p.version
}

// CreatedAt returns when the pebble was created
func (p *Pebble) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns when the pebble was last updated
func (p *Pebble) UpdatedAt() time.Time {
	return p.updatedAt
}

// DeletedAt returns when the pebble was soft-deleted, or zero
func (p *Pebble) DeletedAt() time.Time {
	return p.deletedAt
}

// Rename changes the pebble's topic. A blank new topic leaves the
// pebble unchanged rather than failing.
func (p *Pebble) Rename(topic string) error {
	if p.status == PebbleDeleted {
		return pkgerrors.ErrPebbleDeleted
	}

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil
	}
	if utf8.RuneCountInString(topic) > config.DefaultDomainConfig().MaxTopicLength {
		return pkgerrors.ErrPebbleTopicTooLong
	}
	if topic == p.topic {
		return nil
	}

	p.topic = topic
	p.touch()
	return nil
}

// MoveToFolder places the pebble into a folder. A zero folder ID moves
// the pebble to the archive root.
func (p *Pebble) MoveToFolder(folderID valueobjects.FolderID) error {
	if p.status == PebbleDeleted {
		return pkgerrors.ErrPebbleDeleted
	}
	if p.folderID.Equals(folderID) {
		return nil
	}

	p.folderID = folderID
	p.touch()
	return nil
}

// SoftDelete marks the pebble as deleted. Its folder placement is kept
// so a later restore returns it to where it was.
func (p *Pebble) SoftDelete() error {
	if p.status == PebbleDeleted {
		return pkgerrors.ErrPebbleDeleted
	}

	p.status = PebbleDeleted
	p.deletedAt = time.Now()
	p.touch()
	return nil
}

// Restore reverses a soft delete
func (p *Pebble) Restore() error {
	if p.status != PebbleDeleted {
		return pkgerrors.ErrPebbleNotDeleted
	}

	p.status = PebbleActive
	p.deletedAt = time.Time{}
	p.touch()
	return nil
}

// SetContent replaces the pebble's generated content and clears the
// verified mark, edited content needs review again
func (p *Pebble) SetContent(content valueobjects.PebbleContent) error {
	if p.status == PebbleDeleted {
		return pkgerrors.ErrPebbleDeleted
	}

	p.content = content
	p.verified = false
	p.touch()
	return nil
}

// SetVerified marks the pebble's content as reviewed, or withdraws the
// mark
func (p *Pebble) SetVerified(verified bool) error {
	if p.status == PebbleDeleted {
		return pkgerrors.ErrPebbleDeleted
	}
	if p.verified == verified {
		return nil
	}

	p.verified = verified
	p.touch()
	return nil
}

func (p *Pebble) touch() {
	p.updatedAt = time.Now()
	p.version++
}
