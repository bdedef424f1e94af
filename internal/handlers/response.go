package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/campuslink/campuslink/internal/models"
	"github.com/campuslink/campuslink/internal/services"
	"github.com/campuslink/campuslink/pkg/logger"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// listResponse is the envelope every list endpoint returns.
type listResponse struct {
	Items      interface{}       `json:"items"`
	Pagination models.Pagination `json:"pagination"`
}

func writeList(w http.ResponseWriter, items interface{}, page, limit int, total int64) {
	writeJSON(w, http.StatusOK, listResponse{
		Items:      items,
		Pagination: models.NewPagination(page, limit, total),
	})
}

// respondError maps service errors onto the HTTP taxonomy. Unexpected
// failures are logged server-side and come back generic.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrForbidden):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	default:
		logger.Log.Errorf("Unexpected error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Something went wrong")
	}
}

// decodeAndValidate decodes the JSON body into dst and runs the struct
// validation tags. It writes the 400 response itself on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	defer r.Body.Close()

	if err := validate.Struct(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// parsePage reads page/limit query params with sane defaults.
func parsePage(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
