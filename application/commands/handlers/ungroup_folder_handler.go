package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"pebblevault/application/commands"
	"pebblevault/application/ports"
	"pebblevault/domain/core/entities"
	"pebblevault/domain/core/valueobjects"
	pkgerrors "pebblevault/pkg/errors"
)

// UngroupFolderHandler dissolves folders
type UngroupFolderHandler struct {
	folderRepo ports.FolderRepository
	pebbleRepo ports.PebbleRepository
	logger     *zap.Logger
}

// NewUngroupFolderHandler creates a new ungroup folder handler
func NewUngroupFolderHandler(
	folderRepo ports.FolderRepository,
	pebbleRepo ports.PebbleRepository,
	logger *zap.Logger,
) *UngroupFolderHandler {
	return &UngroupFolderHandler{
		folderRepo: folderRepo,
		pebbleRepo: pebbleRepo,
		logger:     logger,
	}
}

// Handle executes the ungroup folder command. Contained pebbles and
// child folders are lifted into the folder's parent before the folder
// is removed, so nothing is orphaned.
func (h *UngroupFolderHandler) Handle(ctx context.Context, cmd commands.UngroupFolderCommand) error {
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
	parentID := folder.ParentID()

	// Lift contained pebbles
	pebbles, err := h.pebbleRepo.GetByFolderID(ctx, cmd.UserID, folderID)
	if err != nil {
		return fmt.Errorf("failed to load folder pebbles: %w", err)
	}
	moved := make([]*entities.Pebble, 0, len(pebbles))
	for _, pebble := range pebbles {
		if err := pebble.MoveToFolder(parentID); err != nil {
			return err
		}
		moved = append(moved, pebble)
	}
	if len(moved) > 0 {
		if err := h.pebbleRepo.BulkSave(ctx, moved); err != nil {
			return fmt.Errorf("failed to move pebbles out of folder: %w", err)
		}
	}

	// Lift child folders
	folders, err := h.folderRepo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return fmt.Errorf("failed to load folders: %w", err)
	}
	for _, child := range folders {
		if !child.ParentID().Equals(folderID) {
			continue
		}
		if err := child.ReparentTo(parentID); err != nil {
			return err
		}
		if err := h.folderRepo.Save(ctx, child); err != nil {
			return fmt.Errorf("failed to reparent child folder: %w", err)
		}
	}

	if err := h.folderRepo.Delete(ctx, cmd.UserID, folderID); err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	h.logger.Info("Folder ungrouped",
		zap.String("folderID", cmd.FolderID),
		zap.String("userID", cmd.UserID),
		zap.Int("liftedPebbles", len(moved)),
	)

	return nil
}
