package handlers

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"pebblevault/application/ports"
	"pebblevault/application/queries"
	"pebblevault/domain/core/entities"
	"pebblevault/domain/core/valueobjects"
	pkgerrors "pebblevault/pkg/errors"
)

// ArchiveQueryHandler serves read queries over a user's archive
type ArchiveQueryHandler struct {
	pebbleRepo ports.PebbleRepository
	folderRepo ports.FolderRepository
	logger     *zap.Logger
}

// NewArchiveQueryHandler creates a new archive query handler
func NewArchiveQueryHandler(
	pebbleRepo ports.PebbleRepository,
	folderRepo ports.FolderRepository,
	logger *zap.Logger,
) *ArchiveQueryHandler {
	return &ArchiveQueryHandler{
		pebbleRepo: pebbleRepo,
		folderRepo: folderRepo,
		logger:     logger,
	}
}

// HandleGetPebble executes a GetPebbleQuery
func (h *ArchiveQueryHandler) HandleGetPebble(ctx context.Context, q queries.GetPebbleQuery) (*entities.Pebble, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	pebbleID, err := valueobjects.NewPebbleIDFromString(q.PebbleID)
	if err != nil {
		return nil, pkgerrors.NewValidationError("invalid pebble ID")
	}

	return h.pebbleRepo.GetByID(ctx, q.UserID, pebbleID)
}

// HandleListPebbles executes a ListPebblesQuery. Results are newest
// first; soft-deleted pebbles are filtered out unless asked for.
func (h *ArchiveQueryHandler) HandleListPebbles(ctx context.Context, q queries.ListPebblesQuery) (*queries.PebblePage, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	var pebbles []*entities.Pebble
	var err error

	if q.FolderID != nil {
		var folderID valueobjects.FolderID
		if *q.FolderID != "" {
			folderID, err = valueobjects.NewFolderIDFromString(*q.FolderID)
			if err != nil {
				return nil, pkgerrors.NewValidationError("invalid folder ID")
			}
		}
		pebbles, err = h.pebbleRepo.GetByFolderID(ctx, q.UserID, folderID)
	} else {
		pebbles, err = h.pebbleRepo.GetByUserID(ctx, q.UserID)
	}
	if err != nil {
		return nil, err
	}

	filtered := pebbles[:0:0]
	for _, p := range pebbles {
		if p.IsDeleted() && !q.IncludeDeleted {
			continue
		}
		filtered = append(filtered, p)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt().After(filtered[j].CreatedAt())
	})

	total := len(filtered)
	if q.PageSize > 0 {
		page := q.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * q.PageSize
		if start > total {
			start = total
		}
		end := start + q.PageSize
		if end > total {
			end = total
		}
		filtered = filtered[start:end]
	}

	return &queries.PebblePage{Pebbles: filtered, Total: total}, nil
}

// HandleListFolders executes a ListFoldersQuery
func (h *ArchiveQueryHandler) HandleListFolders(ctx context.Context, q queries.ListFoldersQuery) ([]*entities.Folder, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	folders, err := h.folderRepo.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	sort.Slice(folders, func(i, j int) bool {
		return folders[i].Name() < folders[j].Name()
	})

	return folders, nil
}

// HandleGetArchive executes a GetArchiveQuery
func (h *ArchiveQueryHandler) HandleGetArchive(ctx context.Context, q queries.GetArchiveQuery) (*queries.ArchiveResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	pebbles, err := h.pebbleRepo.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	folders, err := h.folderRepo.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	sort.Slice(pebbles, func(i, j int) bool {
		return pebbles[i].CreatedAt().After(pebbles[j].CreatedAt())
	})
	sort.Slice(folders, func(i, j int) bool {
		return folders[i].Name() < folders[j].Name()
	})

	h.logger.Debug("Archive loaded",
		zap.String("userID", q.UserID),
		zap.Int("pebbles", len(pebbles)),
		zap.Int("folders", len(folders)),
	)

	return &queries.ArchiveResult{Pebbles: pebbles, Folders: folders}, nil
}
