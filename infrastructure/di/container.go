package di

import (
	"go.uber.org/zap"

	"pebblevault/application/commands/bus"
	commandhandlers "pebblevault/application/commands/handlers"
	"pebblevault/application/ports"
	querybus "pebblevault/application/queries/bus"
	"pebblevault/application/services"
	domaincfg "pebblevault/domain/config"
	"pebblevault/infrastructure/config"
	"pebblevault/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	DomainConfig *domaincfg.DomainConfig
	Logger       *zap.Logger
	PebbleRepo   ports.PebbleRepository
	FolderRepo   ports.FolderRepository
	Generator    ports.Generator
	Cache        ports.Cache
	Metrics      *observability.MetricsRecorder

	CommandBus *bus.CommandBus
	QueryBus   *querybus.QueryBus

	// Typed handlers for operations whose results the HTTP layer
	// returns in the response body
	CreatePebbleHandler *commandhandlers.CreatePebbleHandler
	UpdatePebbleHandler *commandhandlers.UpdatePebbleHandler
	CreateFolderHandler *commandhandlers.CreateFolderHandler
	UpdateFolderHandler *commandhandlers.UpdateFolderHandler

	GenerationService *services.GenerationService
}

// Close flushes and releases container resources
func (c *Container) Close() {
	if c.Metrics != nil {
		c.Metrics.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
