package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/peakform/internal/server/middleware"
	"github.com/jonathan/peakform/internal/types"
)

// streamPollInterval controls how often the SSE stream checks for new rows
const streamPollInterval = 3 * time.Second

// handleListNotifications lists the authenticated user's notifications
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit := parseQueryInt(r, "limit", 50, 200)

	notifications, err := s.db.ListNotifications(r.Context(), userID, unreadOnly, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// handleNotificationStream streams new notifications to the authenticated
// user over SSE until the client disconnects.
func (s *Server) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	since := time.Now().UTC()
	ticker := time.NewTicker(streamPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			notifications, err := s.db.ListNotificationsSince(r.Context(), userID, since)
			if err != nil {
				sse.WriteError("failed to poll notifications")
				return
			}
			if len(notifications) == 0 {
				if err := sse.WriteComment("keepalive"); err != nil {
					return
				}
				continue
			}
			for _, n := range notifications {
				if err := sse.WriteEvent("notification", n); err != nil {
					return
				}
				since = n.CreatedAt
			}
		}
	}
}

// handleMarkNotificationRead flags one of the user's notifications as read
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	notificationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	if err := s.db.MarkNotificationRead(r.Context(), notificationID, userID); err != nil {
		s.errorResponse(w, http.StatusNotFound, "Notification not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "read"})
}

// handleListPreferences lists the authenticated user's stored notification
// preferences. Kinds without a row default to enabled.
func (s *Server) handleListPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	prefs, err := s.db.ListNotificationPreferences(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"preferences": prefs,
		"count":       len(prefs),
	})
}

// handleUpdatePreference sets the user's delivery toggle for one kind
func (s *Server) handleUpdatePreference(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.UpdatePreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if err := s.db.UpsertNotificationPreference(r.Context(), userID, req.Kind, req.Enabled); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"kind":    req.Kind,
		"enabled": req.Enabled,
	})
}
