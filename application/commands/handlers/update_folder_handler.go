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

// UpdateFolderHandler handles folder rename and move commands
type UpdateFolderHandler struct {
	folderRepo ports.FolderRepository
	domainCfg  *config.DomainConfig
	logger     *zap.Logger
}

// NewUpdateFolderHandler creates a new update folder handler
func NewUpdateFolderHandler(
	folderRepo ports.FolderRepository,
	domainCfg *config.DomainConfig,
	logger *zap.Logger,
) *UpdateFolderHandler {
	return &UpdateFolderHandler{
		folderRepo: folderRepo,
		domainCfg:  domainCfg,
		logger:     logger,
	}
}

// HandleRename executes the rename folder command
func (h *UpdateFolderHandler) HandleRename(ctx context.Context, cmd commands.RenameFolderCommand) (*entities.Folder, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	folderID, err := valueobjects.NewFolderIDFromString(cmd.FolderID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid folder ID")
	}

	folder, err := h.folderRepo.GetByID(ctx, cmd.UserID, folderID)
	if err != nil {
		return nil, err
	}

	before := folder.Version()
	if err := folder.Rename(cmd.Name); err != nil {
		return nil, err
	}
	if folder.Version() == before {
		// Blank or identical name, nothing to persist
		return folder, nil
	}

	if err := h.folderRepo.Save(ctx, folder); err != nil {
		return nil, fmt.Errorf("failed to save folder: %w", err)
	}

	h.logger.Info("Folder renamed",
		zap.String("folderID", cmd.FolderID),
		zap.String("userID", cmd.UserID),
	)

	return folder, nil
}

// HandleMove executes the move folder command. The move is rejected if
// the destination sits inside the folder's own subtree.
func (h *UpdateFolderHandler) HandleMove(ctx context.Context, cmd commands.MoveFolderCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	folderID, err := valueobjects.NewFolderIDFromString(cmd.FolderID)
	if err != nil {
		return pkgerrors.NewValidationError("invalid folder ID")
	}

	folder, err := h.folderRepo.GetByID(ctx, cmd.UserID, folderID)
	if err != nil {
		return err
	}

	var parentID valueobjects.FolderID
	if cmd.ParentID != "" {
		parentID, err = valueobjects.NewFolderIDFromString(cmd.ParentID)
		if err != nil {
			return pkgerrors.NewValidationError("invalid parent folder ID")
		}
		if err := h.checkNoCycle(ctx, cmd.UserID, folderID, parentID); err != nil {
			return err
		}
	}

	if err := folder.ReparentTo(parentID); err != nil {
		return err
	}

	if err := h.folderRepo.Save(ctx, folder); err != nil {
		return fmt.Errorf("failed to save folder: %w", err)
	}

	h.logger.Info("Folder moved",
		zap.String("folderID", cmd.FolderID),
		zap.String("parentID", cmd.ParentID),
		zap.String("userID", cmd.UserID),
	)

	return nil
}

// checkNoCycle walks from the destination up to the root. Hitting the
// moved folder on the way means the destination is inside its subtree.
// The walk is capped at the configured depth to survive corrupt parent
// chains.
func (h *UpdateFolderHandler) checkNoCycle(ctx context.Context, userID string, moved, dest valueobjects.FolderID) error {
	current := dest
	for depth := 0; depth < h.domainCfg.MaxFolderDepth; depth++ {
		if current.IsZero() {
			return nil
		}
		if current.Equals(moved) {
			return pkgerrors.ErrFolderCycle
		}
		folder, err := h.folderRepo.GetByID(ctx, userID, current)
		if err != nil {
			return err
		}
		current = folder.ParentID()
	}
	return pkgerrors.ErrFolderDepthExceeded
}
