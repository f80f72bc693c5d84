package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/BradenHooton/roster/internal/models"
	"github.com/BradenHooton/roster/internal/query"
	pkghttp "github.com/BradenHooton/roster/pkg/http"
)

// writeServiceError maps service errors onto HTTP responses.
func writeServiceError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, query.ErrInvalidPageRequest):
		pkghttp.WriteErrorWithDetails(w, http.StatusBadRequest, "invalid_page_request", "Invalid page request", err.Error())
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, resource+" not found")
	case errors.Is(err, models.ErrOrderAlreadyCancelled):
		pkghttp.WriteError(w, http.StatusConflict, "order_already_cancelled", "Order is already cancelled")
	case errors.Is(err, models.ErrNotEnoughStock):
		pkghttp.WriteError(w, http.StatusConflict, "not_enough_stock", "Not enough stock for the requested count")
	case errors.Is(err, models.ErrConflict):
		pkghttp.WriteConflict(w, resource+" already exists")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, "Request references a missing or invalid resource")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
