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

// BulkDeletePebblesHandler handles soft deletion and restoration of pebbles
type BulkDeletePebblesHandler struct {
	pebbleRepo ports.PebbleRepository
	logger     *zap.Logger
}

// NewBulkDeletePebblesHandler creates a new bulk delete handler
func NewBulkDeletePebblesHandler(pebbleRepo ports.PebbleRepository, logger *zap.Logger) *BulkDeletePebblesHandler {
	return &BulkDeletePebblesHandler{
		pebbleRepo: pebbleRepo,
		logger:     logger,
	}
}

// HandleDelete executes the delete pebbles command. Deletion is soft:
// the pebbles keep their folder placement and can be restored.
func (h *BulkDeletePebblesHandler) HandleDelete(ctx context.Context, cmd commands.DeletePebblesCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	pebbles, err := h.collect(ctx, cmd.UserID, cmd.PebbleIDs)
	if err != nil {
		return err
	}

	// Pebbles already in the trash stay as they are
	changed := make([]*entities.Pebble, 0, len(pebbles))
	for _, pebble := range pebbles {
		if pebble.IsDeleted() {
			continue
		}
		if err := pebble.SoftDelete(); err != nil {
			return err
		}
		changed = append(changed, pebble)
	}

	if err := h.pebbleRepo.BulkSave(ctx, changed); err != nil {
		return fmt.Errorf("failed to save pebbles: %w", err)
	}

	h.logger.Info("Pebbles deleted",
		zap.Int("count", len(changed)),
		zap.String("userID", cmd.UserID),
	)

	return nil
}

// HandleRestore executes the restore pebbles command
func (h *BulkDeletePebblesHandler) HandleRestore(ctx context.Context, cmd commands.RestorePebblesCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	pebbles, err := h.collect(ctx, cmd.UserID, cmd.PebbleIDs)
	if err != nil {
		return err
	}

	// A pebble that was never deleted counts as restored already
	changed := make([]*entities.Pebble, 0, len(pebbles))
	for _, pebble := range pebbles {
		if !pebble.IsDeleted() {
			continue
		}
		if err := pebble.Restore(); err != nil {
			return err
		}
		changed = append(changed, pebble)
	}

	if err := h.pebbleRepo.BulkSave(ctx, changed); err != nil {
		return fmt.Errorf("failed to save pebbles: %w", err)
	}

	h.logger.Info("Pebbles restored",
		zap.Int("count", len(changed)),
		zap.String("userID", cmd.UserID),
	)

	return nil
}

func (h *BulkDeletePebblesHandler) collect(ctx context.Context, userID string, ids []string) ([]*entities.Pebble, error) {
	pebbles := make([]*entities.Pebble, 0, len(ids))
	for _, id := range ids {
		pebbleID, err := valueobjects.NewPebbleIDFromString(id)
		if err != nil {
			return nil, pkgerrors.NewValidationError("invalid pebble ID")
		}
		pebble, err := h.pebbleRepo.GetByID(ctx, userID, pebbleID)
		if err != nil {
			return nil, err
		}
		pebbles = append(pebbles, pebble)
	}
	return pebbles, nil
}
