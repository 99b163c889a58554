package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"pebblevault/application/ports"
	"pebblevault/application/queries"
	querybus "pebblevault/application/queries/bus"
	"pebblevault/application/services"
	"pebblevault/domain/core/entities"
	v1 "pebblevault/interfaces/http/rest/v1"
	"pebblevault/pkg/common"
	"pebblevault/pkg/utils"
)

// ArchiveHandler serves the full-archive read and generation preview
type ArchiveHandler struct {
	queryBus   *querybus.QueryBus
	generation *services.GenerationService
	logger     *zap.Logger
}

// NewArchiveHandler creates a new archive handler
func NewArchiveHandler(
	queryBus *querybus.QueryBus,
	generation *services.GenerationService,
	logger *zap.Logger,
) *ArchiveHandler {
	return &ArchiveHandler{
		queryBus:   queryBus,
		generation: generation,
		logger:     logger,
	}
}

// GetArchive handles GET /archive, the full-state load clients use on
// startup and after a failed optimistic batch.
func (h *ArchiveHandler) GetArchive(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := requireUser(w, r)
	if !ok {
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetArchiveQuery{UserID: userCtx.UserID})
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	archive, ok := result.(*queries.ArchiveResult)
	if !ok {
		common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "Unexpected result")
		return
	}

	common.RespondJSON(w, http.StatusOK, v1.Archive{
		Pebbles: v1.PebblesFromEntities(archive.Pebbles),
		Folders: v1.FoldersFromEntities(archive.Folders),
	})
}

// Generate handles POST /generate, a content preview without creating
// a pebble
func (h *ArchiveHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req v1.GenerateRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	// Context IDs that no longer resolve are dropped rather than
	// failing the preview
	contextPebbles := make([]ports.ContextPebble, 0, len(req.ContextPebbleIDs))
	for _, id := range req.ContextPebbleIDs {
		result, err := h.queryBus.Ask(r.Context(), queries.GetPebbleQuery{UserID: userCtx.UserID, PebbleID: id})
		if err != nil {
			continue
		}
		if pebble, ok := result.(*entities.Pebble); ok {
			contextPebbles = append(contextPebbles, ports.ContextFromPebble(pebble))
		}
	}

	content, err := h.generation.Generate(r.Context(), req.Topic, contextPebbles)
	if err != nil {
		respondAppError(w, h.logger, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, v1.GenerateResponse{
		Topic:             req.Topic,
		Levels:            content.LevelMap(),
		SocraticQuestions: content.SocraticQuestions(),
	})
}
