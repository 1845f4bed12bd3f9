package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/recall-app/recall-api/internal/api/shared"
)

// Pagination defaults and bounds for history endpoints.
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var validate = validator.New()

// getAccountIDFromContext extracts the authenticated account's UUID from the
// request context, where the auth middleware placed it. Writes a 401 and
// returns false when absent.
func getAccountIDFromContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	accountID, ok := r.Context().Value(shared.AccountIDContextKey).(uuid.UUID)
	if !ok || accountID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Account ID not found or invalid")
		return uuid.Nil, false
	}
	return accountID, true
}

// getPathUUID extracts and parses a UUID path parameter. Writes a 400 and
// returns false on a missing or malformed value.
func getPathUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing "+paramName+" parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+paramName+" format")
		return uuid.Nil, false
	}
	return id, true
}

// decodeAndValidate decodes the JSON request body into dst and runs struct
// validation. Writes a 400 and returns false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return false
	}
	return true
}

// getPagination reads page and page_size query parameters, applying defaults
// and clamping the size. Writes a 400 and returns false on malformed values.
func getPagination(w http.ResponseWriter, r *http.Request) (page, pageSize int, ok bool) {
	page, ok = queryInt(w, r, "page", 1)
	if !ok {
		return 0, 0, false
	}
	pageSize, ok = queryInt(w, r, "page_size", defaultPageSize)
	if !ok {
		return 0, 0, false
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize, true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return value, true
}
