package api

import (
	"net/http"
	"strconv"
	"strings"

	"tenanthub/internal/models"
)

func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if raw := r.URL.Query().Get("owner_id"); raw != "" {
			ownerID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid owner_id")
				return
			}
			listings, err := s.listings.GetListingsByOwner(r.Context(), ownerID)
			if err != nil {
				respondError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"listings": listings})
			return
		}

		listings, err := s.listings.GetActiveListings(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"listings": listings})

	case http.MethodPost:
		var listing models.Listing
		if err := decodeJSON(r, &listing); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.listings.CreateListing(r.Context(), &listing); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, listing)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleListingByID serves /api/v1/listings/{id} plus the amenities, reviews,
// rating, activate and deactivate subroutes.
func (s *Server) handleListingByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/listings/")
	parts := strings.SplitN(rest, "/", 2)

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid listing id")
		return
	}

	if len(parts) == 2 {
		s.handleListingSubroute(w, r, id, parts[1])
		return
	}

	switch r.Method {
	case http.MethodGet:
		listing, err := s.listings.GetListing(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listing)
	case http.MethodPut:
		var listing models.Listing
		if err := decodeJSON(r, &listing); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		listing.ID = id
		if err := s.listings.UpdateListing(r.Context(), &listing); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listing)
	case http.MethodDelete:
		if err := s.listings.DeactivateListing(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleListingSubroute(w http.ResponseWriter, r *http.Request, id int64, sub string) {
	switch sub {
	case "amenities":
		switch r.Method {
		case http.MethodGet:
			amenities, err := s.listings.GetListingAmenities(r.Context(), id)
			if err != nil {
				respondError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"amenities": amenities})
		case http.MethodPost:
			var body struct {
				AmenityID int64 `json:"amenity_id"`
			}
			if err := decodeJSON(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			if err := s.listings.AttachAmenity(r.Context(), id, body.AmenityID); err != nil {
				respondError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "attached"})
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}

	case "reviews":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		reviews, err := s.reviews.GetReviewsForListing(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})

	case "rating":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		rating, hasReviews, err := s.listings.AverageRating(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"rating": rating, "has_reviews": hasReviews})

	case "inquiries":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		inquiries, err := s.reviews.GetInquiriesForListing(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"inquiries": inquiries})

	case "activate":
		s.setListingActive(w, r, id, true)
	case "deactivate":
		s.setListingActive(w, r, id, false)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) setListingActive(w http.ResponseWriter, r *http.Request, id int64, active bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var err error
	if active {
		err = s.listings.ActivateListing(r.Context(), id)
	} else {
		err = s.listings.DeactivateListing(r.Context(), id)
	}
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_active": active})
}

func (s *Server) handleAmenities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		amenities, err := s.listings.GetAllAmenities(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"amenities": amenities})
	case http.MethodPost:
		var amenity models.Amenity
		if err := decodeJSON(r, &amenity); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.listings.CreateAmenity(r.Context(), &amenity); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, amenity)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
