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

// PebbleHandler handles pebble-related HTTP requests
type PebbleHandler struct {
	commandBus   *bus.CommandBus
	queryBus     *querybus.QueryBus
	createPebble *commandhandlers.CreatePebbleHandler
	updatePebble *commandhandlers.UpdatePebbleHandler
	logger       *zap.Logger
}

// NewPebbleHandler creates a new pebble handler
func NewPebbleHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	createPebble *commandhandlers.CreatePebbleHandler,
	updatePebble *commandhandlers.UpdatePebbleHandler,
	logger *zap.Logger,
) *PebbleHandler {
	return &PebbleHandler{
		commandBus:   commandBus,
		queryBus:     queryBus,
		createPebble: createPebble,
		updatePebble: updatePebble,
		logger:       logger,
	}
}

// Create handles POST /pebbles
func (h *PebbleHandler) Create(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req v1.CreatePebbleRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	cmd := commands.CreatePebbleCommand{
		UserID:            userCtx.UserID,
		Topic:             req.Topic,
		FolderID:          req.FolderID,
		Levels:            req.Levels,
		SocraticQuestions: req.SocraticQuestions,
		GenerateContent:   req.Generate,
		ContextPebbleIDs:  req.ContextPebbleIDs,
	}

	pebble, err := h.createPebble.Handle(r.Context(), cmd)
	if err != nil {
		h.logger.Error("Failed to create pebble",
			zap.String("userID", userCtx.UserID),
			zap.Error(err))
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, v1.PebbleFromEntity(pebble))
}

// Get handles GET /pebbles/{pebbleID}
func (h *PebbleHandler) Get(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := requireUser(w, r)
	if !ok {
		return
	}

	pebbleID := chi.URLParam(r, "pebbleID")
	if pebbleID == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Pebble ID is required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetPebbleQuery{
		UserID:   userCtx.UserID,
		PebbleID: pebbleID,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	pebble, ok := result.(*entities.Pebble)
	if !ok {
		h.logger.Error("Unexpected query result type", zap.String("pebbleID", pebbleID))
		common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "Unexpected result")
		return
	}

	common.RespondJSON(w, http.StatusOK, v1.PebbleFromEntity(pebble))
}

// List handles GET /pebbles
func (h *PebbleHandler) List(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := requireUser(w, r)
	if !ok {
		return
	}

	params := common.ExtractPaginationParams(r)

	query := queries.ListPebblesQuery{
		UserID:         userCtx.UserID,
		IncludeDeleted: r.URL.Query().Get("includeDeleted") == "true",
		Page:           params.Page,
		PageSize:       params.PageSize,
	}
	if r.URL.Query().Has("folderId") {
		folderID := r.URL.Query().Get("folderId")
		query.FolderID = &folderID
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	page, ok := result.(*queries.PebblePage)
	if !ok {
		common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "Unexpected result")
		return
	}

	common.RespondWithMeta(w, http.StatusOK, v1.PebblesFromEntities(page.Pebbles), &common.MetaInfo{
		Pagination: common.BuildPaginationMeta(params.Page, params.PageSize, page.Total),
	})
}

// Update handles PATCH /pebbles/{pebbleID}. Absent fields are left
// untouched, a blank topic is a no-op rename.
func (h *PebbleHandler) Update(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := requireUser(w, r)
	if !ok {
		return
	}

	pebbleID := chi.URLParam(r, "pebbleID")
	if pebbleID == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Pebble ID is required")
		return
	}

	var req v1.UpdatePebbleRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	if req.FolderID != nil {
		err := h.commandBus.Send(r.Context(), commands.MovePebblesCommand{
			UserID:    userCtx.UserID,
			PebbleIDs: []string{pebbleID},
			FolderID:  *req.FolderID,
		})
		if err != nil {
			respondAppError(w, h.logger, err)
			return
		}
	}

	if req.Content != nil {
		_, err := h.updatePebble.HandleContent(r.Context(), commands.ReplacePebbleContentCommand{
			UserID:            userCtx.UserID,
			PebbleID:          pebbleID,
			Levels:            req.Content.Levels,
			SocraticQuestions: req.Content.SocraticQuestions,
		})
		if err != nil {
			respondAppError(w, h.logger, err)
			return
		}
	}

	if req.IsVerified != nil {
		_, err := h.updatePebble.HandleVerify(r.Context(), commands.VerifyPebbleCommand{
			UserID:   userCtx.UserID,
			PebbleID: pebbleID,
			Verified: *req.IsVerified,
		})
		if err != nil {
			respondAppError(w, h.logger, err)
			return
		}
	}

	if req.Topic != nil {
		pebble, err := h.updatePebble.HandleRename(r.Context(), commands.RenamePebbleCommand{
			UserID:   userCtx.UserID,
			PebbleID: pebbleID,
			Topic:    *req.Topic,
		})
		if err != nil {
			respondAppError(w, h.logger, err)
			return
		}
		common.RespondJSON(w, http.StatusOK, v1.PebbleFromEntity(pebble))
		return
	}

	// No rename in the request, return the fresh state
	result, err := h.queryBus.Ask(r.Context(), queries.GetPebbleQuery{
		UserID:   userCtx.UserID,
		PebbleID: pebbleID,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}
	if pebble, ok := result.(*entities.Pebble); ok {
		common.RespondJSON(w, http.StatusOK, v1.PebbleFromEntity(pebble))
		return
	}
	common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "Unexpected result")
}

// Move handles POST /pebbles/move
func (h *PebbleHandler) Move(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req v1.MovePebblesRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	err := h.commandBus.Send(r.Context(), commands.MovePebblesCommand{
		UserID:    userCtx.UserID,
		PebbleIDs: req.PebbleIDs,
		FolderID:  req.FolderID,
	})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"moved": len(req.PebbleIDs),
	})
}

// Delete handles POST /pebbles/delete, a soft delete of a batch
func (h *PebbleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.batch(w, r, func(userID string, ids []string) bus.Command {
		return commands.DeletePebblesCommand{UserID: userID, PebbleIDs: ids}
	}, "deleted")
}

// Restore handles POST /pebbles/restore, undoing a soft delete
func (h *PebbleHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.batch(w, r, func(userID string, ids []string) bus.Command {
		return commands.RestorePebblesCommand{UserID: userID, PebbleIDs: ids}
	}, "restored")
}

func (h *PebbleHandler) batch(w http.ResponseWriter, r *http.Request, build func(string, []string) bus.Command, verb string) {
	userCtx, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req v1.PebbleIDsRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	if err := h.commandBus.Send(r.Context(), build(userCtx.UserID, req.PebbleIDs)); err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		verb: len(req.PebbleIDs),
	})
}
