// Package handlers contains the HTTP handlers of the public API.
package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"pebblevault/pkg/auth"
	"pebblevault/pkg/common"
	pkgerrors "pebblevault/pkg/errors"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// requireUser extracts the authenticated user or writes a 401
func requireUser(w http.ResponseWriter, r *http.Request) (*auth.UserContext, bool) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return nil, false
	}
	return userCtx, true
}

// respondAppError maps domain and application errors onto HTTP responses
func respondAppError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var domainErr *pkgerrors.DomainError
	if errors.As(err, &domainErr) {
		status := domainErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		common.RespondError(w, status, domainErr.Code, domainErr.Message)
		return
	}

	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		common.RespondError(w, status, appErr.Code, appErr.Message)
		return
	}

	logger.Error("Unhandled error", zap.Error(err))
	common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "An internal error occurred")
}
