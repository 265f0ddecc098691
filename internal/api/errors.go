package api

import (
	"errors"
	"net/http"

	"tenanthub/internal/database"
	"tenanthub/internal/service"
)

// respondError maps storage and service errors onto HTTP status codes. Errors
// without a mapping surface as 500 with a generic message.
func respondError(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		writeError(w, http.StatusBadRequest, vErr.Error())
		return
	}

	switch {
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, database.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, "start date must precede end date")
	case errors.Is(err, database.ErrInvalidGuests):
		writeError(w, http.StatusBadRequest, "guests must be at least 1")
	case errors.Is(err, database.ErrBookingConflict):
		writeError(w, http.StatusConflict, "dates are no longer available")
	case errors.Is(err, database.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "status transition is not allowed")
	case errors.Is(err, database.ErrConcurrentModification):
		writeError(w, http.StatusConflict, "booking was modified concurrently")
	case errors.Is(err, database.ErrListingInactive):
		writeError(w, http.StatusUnprocessableEntity, "listing is not active")
	case errors.Is(err, database.ErrDuplicate):
		writeError(w, http.StatusConflict, "duplicate record")
	case errors.Is(err, database.ErrNotParticipant):
		writeError(w, http.StatusForbidden, "not a thread participant")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
