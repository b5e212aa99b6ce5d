package transport

import (
	"errors"
	"net/http"

	"storefront/internal/blobstore"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"go.uber.org/zap"
)

// respondServiceError maps typed service failures onto HTTP status codes:
// validation 400, not-found 404, storage outage 503, payload transfer 500.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case service.IsValidation(err):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	case service.IsNotFound(err):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, blobstore.ErrStorageUnavailable):
		logger.Error("Blob store unavailable", zap.Error(err))
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "image storage unavailable")
	case errors.Is(err, blobstore.ErrIOFailure):
		logger.Error("Blob transfer failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to transfer image")
	default:
		logger.Error("Unhandled service error", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
