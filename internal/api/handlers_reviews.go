package api

import (
	"net/http"
	"strconv"
	"strings"

	"tenanthub/internal/models"
)

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var review models.Review
	if err := decodeJSON(r, &review); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.reviews.CreateReview(r.Context(), &review); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID    int64 `json:"user_id"`
		ListingID int64 `json:"listing_id"`
	}

	switch r.Method {
	case http.MethodPost:
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.reviews.AddFavorite(r.Context(), body.UserID, body.ListingID); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "favorited"})
	case http.MethodDelete:
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.reviews.RemoveFavorite(r.Context(), body.UserID, body.ListingID); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleInquiries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var inquiry models.Inquiry
	if err := decodeJSON(r, &inquiry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.reviews.CreateInquiry(r.Context(), &inquiry); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inquiry)
}

// handleInquiryByID serves POST /api/v1/inquiries/{id}/respond.
func (s *Server) handleInquiryByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/inquiries/")
	idStr, found := strings.CutSuffix(rest, "/respond")
	if !found {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid inquiry id")
		return
	}
	if err := s.reviews.MarkInquiryResponded(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "responded"})
}
