package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pebblevault/application/commands"
	"pebblevault/application/commands/bus"
	commandhandlers "pebblevault/application/commands/handlers"
	"pebblevault/application/queries"
	querybus "pebblevault/application/queries/bus"
	"pebblevault/domain/core/entities"
	v1 "pebblevault/interfaces/http/rest/v1"
	"pebblevault/pkg/common"
	"pebblevault/pkg/utils"
)

// FolderHandler handles folder-related HTTP requests
type FolderHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	createFolder *commandhandlers.CreateFolderHandler
	updateFolder *commandhandlers.UpdateFolderHandler
	logger       *zap.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	createFolder *commandhandlers.CreateFolderHandler,
	updateFolder *commandhandlers.UpdateFolderHandler,
	logger *zap.Logger,
) *FolderHandler {
	return &FolderHandler{
		commandBus:   commandBus,
		queryBus:     queryBus,
		createFolder: createFolder,
		updateFolder: updateFolder,
		logger:       logger,
	}
}

// Create handles POST /folders. The response echoes the caller's
// provisional clientId so optimistic UIs can swap in the server ID.
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req v1.CreateFolderRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	folder, err := h.createFolder.Handle(r.Context(), commands.CreateFolderCommand{
		UserID:    userCtx.UserID,
		Name:      req.Name,
		ParentID:  req.ParentID,
		PebbleIDs: req.PebbleIDs,
	})
	if err != nil {
		h.logger.Error("Failed to create folder",
			zap.String("userID", userCtx.UserID),
			zap.Error(err))
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, v1.CreateFolderResponse{
		Folder:   v1.FolderFromEntity(folder),
		ClientID: req.ClientID,
	})
}

// List handles GET /folders
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListFoldersQuery{UserID: userCtx.UserID})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	folders, ok := result.([]*entities.Folder)
	if !ok {
		common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "Unexpected result")
		return
	}

	common.RespondJSON(w, http.StatusOK, v1.FoldersFromEntities(folders))
}

// Update handles PATCH /folders/{folderID}, covering rename and move.
// A blank name is a no-op rename, not an error.
func (h *FolderHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := requireUser(w, r)
	if !ok {
		return
	}

	folderID := chi.URLParam(r, "folderID")
	if folderID == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Folder ID is required")
		return
	}

	var req v1.UpdateFolderRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	if req.ParentID != nil {
		err := h.commandBus.Send(r.Context(), commands.MoveFolderCommand{
			UserID:   userCtx.UserID,
			FolderID: folderID,
			ParentID: *req.ParentID,
		})
		if err != nil {
			respondAppError(w, h.logger, err)
			return
		}
	}

	if req.Name != nil {
		folder, err := h.updateFolder.HandleRename(r.Context(), commands.RenameFolderCommand{
			UserID:   userCtx.UserID,
			FolderID: folderID,
			Name:     *req.Name,
		})
		if err != nil {
			respondAppError(w, h.logger, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, v1.FolderFromEntity(folder))
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"updated": folderID,
	})
}

// Ungroup handles POST /folders/{folderID}/ungroup. Contents are
// lifted into the parent and the folder disappears.
func (h *FolderHandler) Ungroup(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := requireUser(w, r)
	if !ok {
		return
	}

	folderID := chi.URLParam(r, "folderID")
	if folderID == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Folder ID is required")
		return
	}

	err := h.commandBus.Send(r.Context(), commands.UngroupFolderCommand{
		UserID:   userCtx.UserID,
		FolderID: folderID,
	})
	if err != nil {
		h.logger.Error("Failed to ungroup folder",
			zap.String("folderID", folderID),
			zap.String("userID", userCtx.UserID),
			zap.Error(err))
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"ungrouped": folderID,
	})
}
