package api

import (
	"net/http"
	"strconv"
	"strings"

	"tenanthub/internal/models"
)

func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var (
			services []*models.Service
			err      error
		)
		switch r.URL.Query().Get("view") {
		case "", "active":
			services, err = s.catalog.Active(r.Context())
		case "all":
			services, err = s.catalog.IncludingDeleted(r.Context())
		case "deleted":
			services, err = s.catalog.Deleted(r.Context())
		default:
			writeError(w, http.StatusBadRequest, "view must be active, all, or deleted")
			return
		}
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"services": services})

	case http.MethodPost:
		var svc models.Service
		if err := decodeJSON(r, &svc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.catalog.CreateService(r.Context(), &svc); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, svc)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleServiceByID serves /api/v1/services/{id} and the restore, activate
// and deactivate subroutes. DELETE is a soft delete.
func (s *Server) handleServiceByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/services/")
	parts := strings.SplitN(rest, "/", 2)

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service id")
		return
	}

	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		switch parts[1] {
		case "restore":
			err = s.catalog.Restore(r.Context(), id)
		case "activate":
			err = s.catalog.Activate(r.Context(), id)
		case "deactivate":
			err = s.catalog.Deactivate(r.Context(), id)
		default:
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": parts[1]})
		return
	}

	switch r.Method {
	case http.MethodGet:
		svc, err := s.catalog.GetService(r.Context(), id)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
	case http.MethodDelete:
		if err := s.catalog.SoftDelete(r.Context(), id); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
