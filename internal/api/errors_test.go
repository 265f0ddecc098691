package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tenanthub/internal/database"
	"tenanthub/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{database.ErrNotFound, http.StatusNotFound},
		{database.ErrInvalidRange, http.StatusBadRequest},
		{database.ErrInvalidGuests, http.StatusBadRequest},
		{database.ErrBookingConflict, http.StatusConflict},
		{database.ErrInvalidTransition, http.StatusConflict},
		{database.ErrConcurrentModification, http.StatusConflict},
		{database.ErrListingInactive, http.StatusUnprocessableEntity},
		{database.ErrDuplicate, http.StatusConflict},
		{database.ErrNotParticipant, http.StatusForbidden},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{&service.ValidationError{}, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", database.ErrNotFound), http.StatusNotFound},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		respondError(rec, tt.err)
		assert.Equal(t, tt.want, rec.Code, tt.err.Error())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}
