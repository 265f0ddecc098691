package api

import (
	"net/http"
	"strconv"
	"strings"
)

// handleAdminEntities lists the browsable entity declarations.
func (s *Server) handleAdminEntities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	entities := make([]map[string]any, 0)
	for _, name := range s.registry.Names() {
		e, _ := s.registry.Lookup(name)
		entities = append(entities, map[string]any{
			"name":   e.Name,
			"fields": e.Fields,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entities": entities})
}

// handleAdminEntity serves /admin/v1/{entity} and /admin/v1/{entity}/{id}.
func (s *Server) handleAdminEntity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/admin/v1/")
	parts := strings.SplitN(rest, "/", 2)

	entity, ok := s.registry.Lookup(parts[0])
	if !ok {
		writeError(w, http.StatusNotFound, "unknown entity")
		return
	}

	if len(parts) == 1 {
		rows, err := entity.List(r.Context())
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
		return
	}

	if entity.Get == nil {
		writeError(w, http.StatusNotFound, "entity has no detail view")
		return
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	row, err := entity.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}
