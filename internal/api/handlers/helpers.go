package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/apexcoatings/backoffice/internal/api/dto"
	"github.com/apexcoatings/backoffice/internal/shop"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}

func writeValidationErrors(w http.ResponseWriter, details map[string]string) {
	writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Validation failed",
		Details: details,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func urlParamUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// dateFormats accepted in request payloads, tried in order.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// writeShopError maps shop service errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body.
func writeShopError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shop.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, shop.ErrUnknownService):
		writeError(w, http.StatusBadRequest, "Unknown service in selection")
	case errors.Is(err, shop.ErrUnknownItem):
		writeError(w, http.StatusBadRequest, "Unknown inventory item in selection")
	case errors.Is(err, shop.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "Invalid status transition")
	case errors.Is(err, shop.ErrInvalidEstimateStatus):
		writeError(w, http.StatusBadRequest, "Invalid estimate status")
	case errors.Is(err, shop.ErrAlreadyConverted):
		writeError(w, http.StatusConflict, "Estimate has already been converted")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func uuidPtrString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
