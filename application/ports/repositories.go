package ports

import (
	"context"

	"pebblevault/domain/core/entities"
	"pebblevault/domain/core/valueobjects"
)

// PebbleRepository defines the interface for pebble persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type PebbleRepository interface {
	// Save persists a pebble (create or update)
	Save(ctx context.Context, pebble *entities.Pebble) error

	// GetByID retrieves a pebble by its ID
	GetByID(ctx context.Context, userID string, id valueobjects.PebbleID) (*entities.Pebble, error)

	// GetByUserID retrieves all pebbles for a user, deleted ones included
	GetByUserID(ctx context.Context, userID string) ([]*entities.Pebble, error)

	// GetByFolderID retrieves the pebbles sitting directly in a folder
	GetByFolderID(ctx context.Context, userID string, folderID valueobjects.FolderID) ([]*entities.Pebble, error)

	// Delete removes a pebble permanently
	Delete(ctx context.Context, userID string, id valueobjects.PebbleID) error

	// BulkSave saves multiple pebbles in a batch
	BulkSave(ctx context.Context, pebbles []*entities.Pebble) error

	// CountByUserID returns the number of pebbles a user owns
	CountByUserID(ctx context.Context, userID string) (int, error)
}

// FolderRepository defines the interface for folder persistence
type FolderRepository interface {
	// Save persists a folder (create or update)
	Save(ctx context.Context, folder *entities.Folder) error

	// GetByID retrieves a folder by its ID
	GetByID(ctx context.Context, userID string, id valueobjects.FolderID) (*entities.Folder, error)

	// GetByUserID retrieves all folders for a user
	GetByUserID(ctx context.Context, userID string) ([]*entities.Folder, error)

	// Delete removes a folder. Contained pebbles and child folders are
	// the caller's responsibility.
	Delete(ctx context.Context, userID string, id valueobjects.FolderID) error
}

// ContextPebble is an existing pebble handed to the generator as
// grounding context for a new topic
type ContextPebble struct {
	Topic   string
	Summary string
}

// ContextFromPebble reduces a pebble to its generator context, the
// topic plus the simplest summary it carries
func ContextFromPebble(p *entities.Pebble) ContextPebble {
	var summary string
	if lc, ok := p.Content().Level(valueobjects.LevelELI5); ok && lc.Summary != "" {
		summary = lc.Summary
	} else if lc, ok := p.Content().Level(valueobjects.LevelAcademic); ok {
		summary = lc.Summary
	}
	return ContextPebble{Topic: p.Topic(), Summary: summary}
}

// Generator defines the interface for producing pebble content from a topic
type Generator interface {
	// Generate produces leveled content and socratic questions for a
	// topic, grounded in the caller's context pebbles when given
	Generate(ctx context.Context, topic string, contextPebbles []ContextPebble) (valueobjects.PebbleContent, error)
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache with TTL in seconds
	Set(ctx context.Context, key string, value interface{}, ttl int) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
