package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arolitec/taskboard-api/internal/api/middleware"
	"github.com/arolitec/taskboard-api/internal/api/shared"
	"github.com/arolitec/taskboard-api/internal/domain"
	"github.com/arolitec/taskboard-api/internal/store"
)

// Default paging applied when the query string leaves page or limit unset.
const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// requireUserID extracts the authenticated user's ID from the request
// context, writing a 401 response when it is missing.
func requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// parseListingQuery reads page, limit, status and search from the query
// string. An invalid status is rejected; malformed numbers fall back to
// the defaults rather than failing the request.
func parseListingQuery(r *http.Request) (page, limit int, filter store.ListFilter, err error) {
	q := r.URL.Query()

	page = defaultPage
	if raw := q.Get("page"); raw != "" {
		if n, convErr := strconv.Atoi(raw); convErr == nil && n > 0 {
			page = n
		}
	}

	limit = defaultLimit
	if raw := q.Get("limit"); raw != "" {
		if n, convErr := strconv.Atoi(raw); convErr == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if raw := q.Get("status"); raw != "" {
		status := domain.TaskStatus(raw)
		if !status.IsValid() {
			return 0, 0, store.ListFilter{}, domain.ErrInvalidStatus
		}
		filter.Status = &status
	}

	if raw := q.Get("search"); raw != "" {
		filter.Search = &raw
	}

	return page, limit, filter, nil
}
