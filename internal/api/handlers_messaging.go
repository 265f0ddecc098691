package api

import (
	"net/http"
	"strconv"
	"strings"
)

func (s *Server) handleThreads(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Participants []int64 `json:"participants"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	thread, err := s.messaging.StartThread(r.Context(), body.Participants)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, thread)
}

// handleThreadByID serves /api/v1/threads/{id} and its messages, participants
// and unread subroutes. The acting user comes from the user_id query
// parameter or body field; participation is enforced in the service.
func (s *Server) handleThreadByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/threads/")
	parts := strings.SplitN(rest, "/", 2)

	threadID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid thread id")
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		userID, ok := queryUserID(w, r)
		if !ok {
			return
		}
		thread, err := s.messaging.GetThread(r.Context(), threadID, userID)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, thread)
		return
	}

	switch parts[1] {
	case "messages":
		s.handleThreadMessages(w, r, threadID)
	case "participants":
		s.handleThreadParticipants(w, r, threadID)
	case "unread":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		userID, ok := queryUserID(w, r)
		if !ok {
			return
		}
		count, err := s.messaging.UnreadCount(r.Context(), threadID, userID)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"unread": count})
	case "last":
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		userID, ok := queryUserID(w, r)
		if !ok {
			return
		}
		msg, err := s.messaging.LastMessage(r.Context(), threadID, userID)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, msg)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) handleThreadMessages(w http.ResponseWriter, r *http.Request, threadID int64) {
	switch r.Method {
	case http.MethodGet:
		userID, ok := queryUserID(w, r)
		if !ok {
			return
		}
		messages, err := s.messaging.GetThreadMessages(r.Context(), threadID, userID)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"messages": messages})

	case http.MethodPost:
		var body struct {
			SenderID int64  `json:"sender_id"`
			Content  string `json:"content"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		msg, err := s.messaging.SendMessage(r.Context(), threadID, body.SenderID, body.Content)
		if err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleThreadParticipants(w http.ResponseWriter, r *http.Request, threadID int64) {
	var body struct {
		UserID   int64 `json:"user_id"`
		ByUserID int64 `json:"by_user_id"`
	}

	switch r.Method {
	case http.MethodPost:
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.messaging.AddParticipant(r.Context(), threadID, body.ByUserID, body.UserID); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
	case http.MethodDelete:
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.messaging.LeaveThread(r.Context(), threadID, body.UserID); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleMessageByID serves POST /api/v1/messages/{id}/read and
// DELETE /api/v1/messages/{id}.
func (s *Server) handleMessageByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/messages/")

	if idStr, found := strings.CutSuffix(rest, "/read"); found {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid message id")
			return
		}
		var body struct {
			UserID int64 `json:"user_id"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.messaging.MarkRead(r.Context(), id, body.UserID); err != nil {
			respondError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
		return
	}

	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return
	}
	userID, ok := queryUserID(w, r)
	if !ok {
		return
	}
	if err := s.messaging.DeleteMessage(r.Context(), id, userID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func queryUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return 0, false
	}
	return id, true
}
