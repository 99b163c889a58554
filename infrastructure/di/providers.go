package di

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"pebblevault/application/commands"
	"pebblevault/application/commands/bus"
	commandhandlers "pebblevault/application/commands/handlers"
	"pebblevault/application/ports"
	"pebblevault/application/queries"
	querybus "pebblevault/application/queries/bus"
	queryhandlers "pebblevault/application/queries/handlers"
	"pebblevault/application/services"
	domaincfg "pebblevault/domain/config"
	"pebblevault/infrastructure/config"
	"pebblevault/infrastructure/generation/gemini"
	"pebblevault/infrastructure/persistence/dynamodb"
	"pebblevault/infrastructure/persistence/memory"
	"pebblevault/pkg/observability"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideDomainConfig creates the domain configuration for the environment
func ProvideDomainConfig(cfg *config.Config) *domaincfg.DomainConfig {
	dc := domaincfg.LoadDomainConfig(cfg.Environment)
	dc.EnableGeneration = cfg.EnableGeneration && cfg.GeminiAPIKey != ""
	return dc
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideMetrics creates the metrics recorder
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.MetricsRecorder {
	if !cfg.EnableMetrics {
		return observability.NoopMetrics()
	}
	namespace := fmt.Sprintf("PebbleVault/%s", cfg.Environment)
	return observability.NewMetricsRecorder(client, namespace, logger)
}

// ProvidePebbleRepository creates a pebble repository for the configured backend
func ProvidePebbleRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.PebbleRepository {
	if cfg.StorageBackend == "memory" {
		return memory.NewPebbleRepository()
	}
	return dynamodb.NewPebbleRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideFolderRepository creates a folder repository for the configured backend
func ProvideFolderRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.FolderRepository {
	if cfg.StorageBackend == "memory" {
		return memory.NewFolderRepository()
	}
	return dynamodb.NewFolderRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideGenerator creates the Gemini content generator.
// Returns nil when generation is disabled, the handlers treat that
// as "generation unavailable".
func ProvideGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.Generator, error) {
	if !cfg.EnableGeneration || cfg.GeminiAPIKey == "" {
		return nil, nil
	}
	return gemini.NewGenerator(ctx, gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GenerationTimeout,
	}, logger)
}

// ProvideInMemoryCache creates a simple in-memory cache.
// In production this would be Redis or similar.
func ProvideInMemoryCache() ports.Cache {
	return NewInMemoryCache()
}

// ProvideGenerationService creates the generation service
func ProvideGenerationService(
	generator ports.Generator,
	domainCfg *domaincfg.DomainConfig,
	cache ports.Cache,
	metrics *observability.MetricsRecorder,
	logger *zap.Logger,
) *services.GenerationService {
	return services.NewGenerationService(generator, domainCfg, cache, metrics, logger)
}

// ProvideCreatePebbleHandler creates the create pebble handler
func ProvideCreatePebbleHandler(
	pebbleRepo ports.PebbleRepository,
	folderRepo ports.FolderRepository,
	generator ports.Generator,
	domainCfg *domaincfg.DomainConfig,
	logger *zap.Logger,
) *commandhandlers.CreatePebbleHandler {
	return commandhandlers.NewCreatePebbleHandler(pebbleRepo, folderRepo, generator, domainCfg, logger)
}

// ProvideUpdatePebbleHandler creates the update pebble handler
func ProvideUpdatePebbleHandler(
	pebbleRepo ports.PebbleRepository,
	folderRepo ports.FolderRepository,
	domainCfg *domaincfg.DomainConfig,
	logger *zap.Logger,
) *commandhandlers.UpdatePebbleHandler {
	return commandhandlers.NewUpdatePebbleHandler(pebbleRepo, folderRepo, domainCfg, logger)
}

// ProvideBulkDeletePebblesHandler creates the delete/restore handler
func ProvideBulkDeletePebblesHandler(
	pebbleRepo ports.PebbleRepository,
	logger *zap.Logger,
) *commandhandlers.BulkDeletePebblesHandler {
	return commandhandlers.NewBulkDeletePebblesHandler(pebbleRepo, logger)
}

// ProvideCreateFolderHandler creates the create folder handler
func ProvideCreateFolderHandler(
	folderRepo ports.FolderRepository,
	pebbleRepo ports.PebbleRepository,
	domainCfg *domaincfg.DomainConfig,
	logger *zap.Logger,
) *commandhandlers.CreateFolderHandler {
	return commandhandlers.NewCreateFolderHandler(folderRepo, pebbleRepo, domainCfg, logger)
}

// ProvideUpdateFolderHandler creates the rename/move folder handler
func ProvideUpdateFolderHandler(
	folderRepo ports.FolderRepository,
	domainCfg *domaincfg.DomainConfig,
	logger *zap.Logger,
) *commandhandlers.UpdateFolderHandler {
	return commandhandlers.NewUpdateFolderHandler(folderRepo, domainCfg, logger)
}

// ProvideUngroupFolderHandler creates the ungroup folder handler
func ProvideUngroupFolderHandler(
	folderRepo ports.FolderRepository,
	pebbleRepo ports.PebbleRepository,
	logger *zap.Logger,
) *commandhandlers.UngroupFolderHandler {
	return commandhandlers.NewUngroupFolderHandler(folderRepo, pebbleRepo, logger)
}

// ProvideArchiveQueryHandler creates the archive query handler
func ProvideArchiveQueryHandler(
	pebbleRepo ports.PebbleRepository,
	folderRepo ports.FolderRepository,
	logger *zap.Logger,
) *queryhandlers.ArchiveQueryHandler {
	return queryhandlers.NewArchiveQueryHandler(pebbleRepo, folderRepo, logger)
}

// ProvideCommandBus creates a command bus with every mutation registered
func ProvideCommandBus(
	createPebble *commandhandlers.CreatePebbleHandler,
	updatePebble *commandhandlers.UpdatePebbleHandler,
	bulkDelete *commandhandlers.BulkDeletePebblesHandler,
	createFolder *commandhandlers.CreateFolderHandler,
	updateFolder *commandhandlers.UpdateFolderHandler,
	ungroupFolder *commandhandlers.UngroupFolderHandler,
	metrics *observability.MetricsRecorder,
	logger *zap.Logger,
) *bus.CommandBus {
	commandBus := bus.NewCommandBus()
	pipeline := bus.NewPipeline(
		bus.LoggingMiddleware(&zapLoggerAdapter{logger}),
		bus.ValidationMiddleware(),
		bus.MetricsMiddleware(metrics),
	)

	register := func(cmdType bus.Command, handler bus.CommandHandlerFunc) {
		_ = commandBus.Register(cmdType, pipeline.Execute(handler))
	}

	register(commands.CreatePebbleCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.CreatePebbleCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		_, err := createPebble.Handle(ctx, c)
		return err
	})

	register(commands.RenamePebbleCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.RenamePebbleCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		_, err := updatePebble.HandleRename(ctx, c)
		return err
	})

	register(commands.VerifyPebbleCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.VerifyPebbleCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		_, err := updatePebble.HandleVerify(ctx, c)
		return err
	})

	register(commands.ReplacePebbleContentCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.ReplacePebbleContentCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		_, err := updatePebble.HandleContent(ctx, c)
		return err
	})

	register(commands.MovePebblesCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.MovePebblesCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return updatePebble.HandleMove(ctx, c)
	})

	register(commands.DeletePebblesCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.DeletePebblesCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return bulkDelete.HandleDelete(ctx, c)
	})

	register(commands.RestorePebblesCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.RestorePebblesCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return bulkDelete.HandleRestore(ctx, c)
	})

	register(commands.CreateFolderCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.CreateFolderCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		_, err := createFolder.Handle(ctx, c)
		return err
	})

	register(commands.RenameFolderCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.RenameFolderCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		_, err := updateFolder.HandleRename(ctx, c)
		return err
	})

	register(commands.MoveFolderCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.MoveFolderCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return updateFolder.HandleMove(ctx, c)
	})

	register(commands.UngroupFolderCommand{}, func(ctx context.Context, cmd bus.Command) error {
		c, ok := cmd.(commands.UngroupFolderCommand)
		if !ok {
			return fmt.Errorf("invalid command type %T", cmd)
		}
		return ungroupFolder.Handle(ctx, c)
	})

	return commandBus
}

// ProvideQueryBus creates a query bus with every read registered
func ProvideQueryBus(archive *queryhandlers.ArchiveQueryHandler, metrics *observability.MetricsRecorder) *querybus.QueryBus {
	queryBus := querybus.NewQueryBus()
	instrument := querybus.NewMetricsMiddleware(metrics)

	_ = queryBus.Register(queries.GetPebbleQuery{}, instrument.Wrap(querybus.QueryHandlerFunc(
		func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetPebbleQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return archive.HandleGetPebble(ctx, q)
		})))

	_ = queryBus.Register(queries.ListPebblesQuery{}, instrument.Wrap(querybus.QueryHandlerFunc(
		func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.ListPebblesQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return archive.HandleListPebbles(ctx, q)
		})))

	_ = queryBus.Register(queries.ListFoldersQuery{}, instrument.Wrap(querybus.QueryHandlerFunc(
		func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.ListFoldersQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return archive.HandleListFolders(ctx, q)
		})))

	_ = queryBus.Register(queries.GetArchiveQuery{}, instrument.Wrap(querybus.QueryHandlerFunc(
		func(ctx context.Context, query querybus.Query) (interface{}, error) {
			q, ok := query.(queries.GetArchiveQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type %T", query)
			}
			return archive.HandleGetArchive(ctx, q)
		})))

	return queryBus
}

// zapLoggerAdapter adapts zap.Logger to the bus.Logger interface
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, a.fieldsToZap(keysAndValues...)...)
}

func (a *zapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, a.fieldsToZap(keysAndValues...)...)
}

func (a *zapLoggerAdapter) fieldsToZap(fields ...interface{}) []zap.Field {
	var zapFields []zap.Field
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		zapFields = append(zapFields, zap.Any(key, fields[i+1]))
	}
	return zapFields
}
