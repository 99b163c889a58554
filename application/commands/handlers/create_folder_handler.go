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

// CreateFolderHandler handles folder creation commands
type CreateFolderHandler struct {
	folderRepo ports.FolderRepository
	pebbleRepo ports.PebbleRepository
	domainCfg  *config.DomainConfig
	logger     *zap.Logger
}

// NewCreateFolderHandler creates a new create folder handler
func NewCreateFolderHandler(
	folderRepo ports.FolderRepository,
	pebbleRepo ports.PebbleRepository,
	domainCfg *config.DomainConfig,
	logger *zap.Logger,
) *CreateFolderHandler {
	return &CreateFolderHandler{
		folderRepo: folderRepo,
		pebbleRepo: pebbleRepo,
		domainCfg:  domainCfg,
		logger:     logger,
	}
}

// Handle executes the create folder command. The server assigns the
// folder ID; any provisional client ID is discarded here and mapped
// back by the client on confirmation.
func (h *CreateFolderHandler) Handle(ctx context.Context, cmd commands.CreateFolderCommand) (*entities.Folder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	var parentID valueobjects.FolderID
	if cmd.ParentID != "" {
		var err error
		parentID, err = valueobjects.NewFolderIDFromString(cmd.ParentID)
		if err != nil {
			return nil, pkgerrors.NewValidationError("invalid parent folder ID")
		}
		if _, err := h.folderRepo.GetByID(ctx, cmd.UserID, parentID); err != nil {
			return nil, err
		}
	}

	folder, err := entities.NewFolderWithConfig(cmd.UserID, cmd.Name, parentID, h.domainCfg)
	if err != nil {
		return nil, err
	}

	if err := h.folderRepo.Save(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to save folder: %w", err)
	}

	// Pull the initial pebbles into the new folder
	if len(cmd.PebbleIDs) > 0 {
		pebbles := make([]*entities.Pebble, 0, len(cmd.PebbleIDs))
		for _, id := range cmd.PebbleIDs {
			pebbleID, err := valueobjects.NewPebbleIDFromString(id)
			if err != nil {
				return nil, pkgerrors.NewValidationError("invalid pebble ID")
			}
			pebble, err := h.pebbleRepo.GetByID(ctx, cmd.UserID, pebbleID)
			if err != nil {
				return nil, err
			}
			if err := pebble.MoveToFolder(folder.ID()); err != nil {
				return nil, err
			}
			pebbles = append(pebbles, pebble)
		}
		if err := h.pebbleRepo.BulkSave(ctx, pebbles); err != nil {
			return nil, fmt.Errorf("failed to move pebbles into folder: %w", err)
		}
	}

	h.logger.Info("Folder created",
		zap.String("folderID", folder.ID().String()),
		zap.String("userID", cmd.UserID),
		zap.Int("initialPebbles", len(cmd.PebbleIDs)),
	)

	return folder, nil
}
