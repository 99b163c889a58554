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

// UpdatePebbleHandler handles pebble rename, move, verify and content
// commands
type UpdatePebbleHandler struct {
	pebbleRepo ports.PebbleRepository
	folderRepo ports.FolderRepository
	domainCfg  *config.DomainConfig
	logger     *zap.Logger
}

// NewUpdatePebbleHandler creates a new update pebble handler
func NewUpdatePebbleHandler(
	pebbleRepo ports.PebbleRepository,
	folderRepo ports.FolderRepository,
	domainCfg *config.DomainConfig,
	logger *zap.Logger,
) *UpdatePebbleHandler {
	return &UpdatePebbleHandler{
		pebbleRepo: pebbleRepo,
		folderRepo: folderRepo,
		domainCfg:  domainCfg,
		logger:     logger,
	}
}

// HandleRename executes the rename pebble command
func (h *UpdatePebbleHandler) HandleRename(ctx context.Context, cmd commands.RenamePebbleCommand) (*entities.Pebble, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	pebble, err := h.getOwnedPebble(ctx, cmd.UserID, cmd.PebbleID)
	if err != nil {
		return nil, err
	}

	before := pebble.Version()
	if err := pebble.Rename(cmd.Topic); err != nil {
		return nil, err
	}
	if pebble.Version() == before {
		// Blank or identical topic, nothing to persist
		return pebble, nil
	}

	if err := h.pebbleRepo.Save(ctx, pebble); err != nil {
		return nil, fmt.Errorf("failed to save pebble: %w", err)
	}

	h.logger.Info("Pebble renamed",
		zap.String("pebbleID", cmd.PebbleID),
		zap.String("userID", cmd.UserID),
	)

	return pebble, nil
}

// HandleVerify executes the verify pebble command
func (h *UpdatePebbleHandler) HandleVerify(ctx context.Context, cmd commands.VerifyPebbleCommand) (*entities.Pebble, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	pebble, err := h.getOwnedPebble(ctx, cmd.UserID, cmd.PebbleID)
	if err != nil {
		return nil, err
	}

	before := pebble.Version()
	if err := pebble.SetVerified(cmd.Verified); err != nil {
		return nil, err
	}
	if pebble.Version() == before {
		return pebble, nil
	}

	if err := h.pebbleRepo.Save(ctx, pebble); err != nil {
		return nil, fmt.Errorf("failed to save pebble: %w", err)
	}

	h.logger.Info("Pebble verification changed",
		zap.String("pebbleID", cmd.PebbleID),
		zap.String("userID", cmd.UserID),
		zap.Bool("verified", cmd.Verified),
	)

	return pebble, nil
}

// HandleContent executes the replace content command. The verified
// mark falls away with the old content.
func (h *UpdatePebbleHandler) HandleContent(ctx context.Context, cmd commands.ReplacePebbleContentCommand) (*entities.Pebble, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	pebble, err := h.getOwnedPebble(ctx, cmd.UserID, cmd.PebbleID)
	if err != nil {
		return nil, err
	}

	content, err := valueobjects.NewPebbleContentWithConfig(cmd.Levels, cmd.SocraticQuestions, h.domainCfg)
	if err != nil {
		return nil, err
	}

	if err := pebble.SetContent(content); err != nil {
		return nil, err
	}

	if err := h.pebbleRepo.Save(ctx, pebble); err != nil {
		return nil, fmt.Errorf("failed to save pebble: %w", err)
	}

	h.logger.Info("Pebble content replaced",
		zap.String("pebbleID", cmd.PebbleID),
		zap.String("userID", cmd.UserID),
		zap.Int("levels", len(cmd.Levels)),
	)

	return pebble, nil
}

// HandleMove executes the move pebbles command
func (h *UpdatePebbleHandler) HandleMove(ctx context.Context, cmd commands.MovePebblesCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invalid command: %w", err)
	}

	var folderID valueobjects.FolderID
	if cmd.FolderID != "" {
		var err error
		folderID, err = valueobjects.NewFolderIDFromString(cmd.FolderID)
		if err != nil {
			return pkgerrors.NewValidationError("invalid folder ID")
		}
		if _, err := h.folderRepo.GetByID(ctx, cmd.UserID, folderID); err != nil {
			return err
		}
	}

	pebbles := make([]*entities.Pebble, 0, len(cmd.PebbleIDs))
	for _, id := range cmd.PebbleIDs {
		pebble, err := h.getOwnedPebble(ctx, cmd.UserID, id)
		if err != nil {
			return err
		}
		if err := pebble.MoveToFolder(folderID); err != nil {
			return err
		}
		pebbles = append(pebbles, pebble)
	}

	if err := h.pebbleRepo.BulkSave(ctx, pebbles); err != nil {
		return fmt.Errorf("failed to save pebbles: %w", err)
	}

	h.logger.Info("Pebbles moved",
		zap.Int("count", len(pebbles)),
		zap.String("folderID", cmd.FolderID),
		zap.String("userID", cmd.UserID),
	)

	return nil
}

func (h *UpdatePebbleHandler) getOwnedPebble(ctx context.Context, userID, id string) (*entities.Pebble, error) {
	pebbleID, err := valueobjects.NewPebbleIDFromString(id)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid pebble ID")
	}

	pebble, err := h.pebbleRepo.GetByID(ctx, userID, pebbleID)
	if err != nil {
		return nil, err
	}
	return pebble, nil
}
