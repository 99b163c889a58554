package config

import (
	"fmt"
	"time"
)

// DomainConfig holds all configurable business rules and constraints
type DomainConfig struct {
	// Archive constraints
	MaxPebblesPerUser int
	MaxFoldersPerUser int
	MaxFolderDepth    int

	// Pebble constraints
	MaxTopicLength       int
	MinTopicLength       int
	MaxSummaryLength     int
	MaxBlocksPerLevel    int
	MaxSocraticQuestions int

	// Folder constraints
	MaxFolderNameLength int
	DefaultFolderName   string

	// Time constraints
	UndoWindow        time.Duration
	SessionTimeout    time.Duration
	ConnectionTimeout time.Duration

	// Validation settings
	AllowEmptyFolders bool

	// Feature flags
	EnableGeneration bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		// Archive constraints
		MaxPebblesPerUser: 10000,
		MaxFoldersPerUser: 2000,
		MaxFolderDepth:    32,

		// Pebble constraints
		MaxTopicLength:       255,
		MinTopicLength:       1,
		MaxSummaryLength:     2000,
		MaxBlocksPerLevel:    50,
		MaxSocraticQuestions: 10,

		// Folder constraints
		MaxFolderNameLength: 120,
		DefaultFolderName:   "New Collection",

		// Time constraints
		UndoWindow:        5 * time.Second,
		SessionTimeout:    24 * time.Hour,
		ConnectionTimeout: 30 * time.Second,

		// Validation settings
		AllowEmptyFolders: true,

		// Feature flags
		EnableGeneration: true,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// More restrictive limits for production
	config.MaxPebblesPerUser = 5000
	config.MaxFoldersPerUser = 1000

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// More permissive for development
	config.MaxPebblesPerUser = 100000
	config.MaxFoldersPerUser = 20000

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.MaxFolderDepth < 1 {
		return fmt.Errorf("MaxFolderDepth must be positive, got %d", c.MaxFolderDepth)
	}
	if c.MaxTopicLength < c.MinTopicLength {
		return fmt.Errorf("MaxTopicLength %d is below MinTopicLength %d", c.MaxTopicLength, c.MinTopicLength)
	}
	if c.UndoWindow < 0 {
		return fmt.Errorf("UndoWindow cannot be negative")
	}
	return nil
}
