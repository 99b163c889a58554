package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pebblevault/application/commands"
	"pebblevault/application/ports"
	"pebblevault/domain/config"
	"pebblevault/domain/core/entities"
	"pebblevault/domain/core/valueobjects"
	pkgerrors "pebblevault/pkg/errors"
)

// CreatePebbleHandler handles pebble creation commands
type CreatePebbleHandler struct {
	pebbleRepo ports.PebbleRepository
	folderRepo ports.FolderRepository
	generator  ports.Generator
	domainCfg  *config.DomainConfig
	logger     *zap.Logger
}

// NewCreatePebbleHandler creates a new create pebble handler
func NewCreatePebbleHandler(
	pebbleRepo ports.PebbleRepository,
	folderRepo ports.FolderRepository,
	generator ports.Generator,
	domainCfg *config.DomainConfig,
	logger *zap.Logger,
) *CreatePebbleHandler {
	return &CreatePebbleHandler{
		pebbleRepo: pebbleRepo,
		folderRepo: folderRepo,
		generator:  generator,
		domainCfg:  domainCfg,
		logger:     logger,
	}
}

// Handle executes the create pebble command
func (h *CreatePebbleHandler) Handle(ctx context.Context, cmd commands.CreatePebbleCommand) (*entities.Pebble, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	count, err := h.pebbleRepo.CountByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count pebbles: %w", err)
	}
	if count >= h.domainCfg.MaxPebblesPerUser {
		return nil, pkgerrors.NewValidationError("pebble limit reached for user")
	}

	content, err := h.resolveContent(ctx, cmd)
	if err != nil {
		return nil, err
	}

	pebble, err := entities.NewPebbleWithConfig(cmd.UserID, cmd.Topic, content, h.domainCfg)
	if err != nil {
		return nil, err
	}

	if cmd.FolderID != "" {
		folderID, err := valueobjects.NewFolderIDFromString(cmd.FolderID)
		if err != nil {
			return nil, pkgerrors.NewValidationError("invalid folder ID")
		}
		// The target folder must exist and belong to the user
		if _, err := h.folderRepo.GetByID(ctx, cmd.UserID, folderID); err != nil {
			return nil, err
		}
		if err := pebble.MoveToFolder(folderID); err != nil {
			return nil, err
		}
	}

	if err := h.pebbleRepo.Save(ctx, pebble); err != nil {
		return nil, fmt.Errorf("failed to save pebble: %w", err)
	}

	h.logger.Info("Pebble created",
		zap.String("pebbleID", pebble.ID().String()),
		zap.String("userID", cmd.UserID),
		zap.String("topic", pebble.Topic()),
	)

	return pebble, nil
}

func (h *CreatePebbleHandler) resolveContent(ctx context.Context, cmd commands.CreatePebbleCommand) (valueobjects.PebbleContent, error) {
	if cmd.GenerateContent {
		if h.generator == nil || !h.domainCfg.EnableGeneration {
			return valueobjects.PebbleContent{}, pkgerrors.NewUnavailableError("content generation")
		}
		content, err := h.generator.Generate(ctx, cmd.Topic, h.resolveContext(ctx, cmd))
		if err != nil {
			return valueobjects.PebbleContent{}, pkgerrors.ErrGenerationFailed.WithCause(err)
		}
		return content, nil
	}

	return valueobjects.NewPebbleContentWithConfig(cmd.Levels, cmd.SocraticQuestions, h.domainCfg)
}

// resolveContext loads the command's context pebbles. IDs that do not
// resolve to an owned pebble are skipped, stale context is not worth
// failing a generation over.
func (h *CreatePebbleHandler) resolveContext(ctx context.Context, cmd commands.CreatePebbleCommand) []ports.ContextPebble {
	out := make([]ports.ContextPebble, 0, len(cmd.ContextPebbleIDs))
	for _, id := range cmd.ContextPebbleIDs {
		pebbleID, err := valueobjects.NewPebbleIDFromString(id)
		if err != nil {
			continue
		}
		pebble, err := h.pebbleRepo.GetByID(ctx, cmd.UserID, pebbleID)
		if err != nil {
			continue
		}
		out = append(out, ports.ContextFromPebble(pebble))
	}
	return out
}
