package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/peakform/internal/audit"
	"github.com/jonathan/peakform/internal/okr"
	"github.com/jonathan/peakform/internal/server/middleware"
	"github.com/jonathan/peakform/internal/types"
)

// handleCreateKeyResult adds a key result to an objective. The key result
// inherits the objective's type and starts at its start value.
func (s *Server) handleCreateKeyResult(w http.ResponseWriter, r *http.Request) {
	objectiveID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid objective ID")
		return
	}

	var req types.CreateKeyResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	kr, err := s.db.CreateKeyResult(r.Context(), objectiveID, req.Title,
		okr.MetricType(req.MetricType), req.StartValue, req.TargetValue, req.Unit, req.OwnerID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, kr)
}

// handleListKeyResults lists an objective's key results with their progress
func (s *Server) handleListKeyResults(w http.ResponseWriter, r *http.Request) {
	objectiveID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid objective ID")
		return
	}

	keyResults, err := s.db.ListKeyResultsByObjective(r.Context(), objectiveID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	items := make([]map[string]any, 0, len(keyResults))
	for _, kr := range keyResults {
		items = append(items, map[string]any{
			"key_result":      kr,
			"progress":        okr.ComputeProgress(kr),
			"formatted_value": okr.FormatValue(kr.MetricType, kr.CurrentValue, kr.Unit),
		})
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"key_results": items,
		"count":       len(items),
	})
}

// handleGetKeyResult retrieves a key result with computed progress and the
// display rendering of its current value
func (s *Server) handleGetKeyResult(w http.ResponseWriter, r *http.Request) {
	keyResultID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid key result ID")
		return
	}

	kr, err := s.db.GetKeyResult(r.Context(), keyResultID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if kr == nil {
		s.errorResponse(w, http.StatusNotFound, "Key result not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"key_result":      kr,
		"progress":        okr.ComputeProgress(*kr),
		"formatted_value": okr.FormatValue(kr.MetricType, kr.CurrentValue, kr.Unit),
	})
}

// handleUpdateKeyResult updates a key result's metadata. The current value
// is not updatable here: it only changes through progress submissions.
func (s *Server) handleUpdateKeyResult(w http.ResponseWriter, r *http.Request) {
	keyResultID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid key result ID")
		return
	}

	var req types.UpdateKeyResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	kr, err := s.db.UpdateKeyResult(r.Context(), keyResultID, req.Title, req.TargetValue, req.Unit, req.OwnerID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if kr == nil {
		s.errorResponse(w, http.StatusNotFound, "Key result not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, kr)
}

// handleSubmitProgress records a new observed value for a key result. The
// raw value is validated before any mutation; the history append and current
// value update happen in one transaction.
func (s *Server) handleSubmitProgress(w http.ResponseWriter, r *http.Request) {
	keyResultID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid key result ID")
		return
	}

	actor, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.SubmitProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	kr, err := s.db.GetKeyResult(r.Context(), keyResultID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if kr == nil {
		s.errorResponse(w, http.StatusNotFound, "Key result not found")
		return
	}
	previousConfidence := kr.ConfidenceScore

	update, err := okr.NewProgressUpdate(*kr, req.Value, req.ConfidenceScore, req.Notes, actor)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	updated, err := s.db.SubmitProgressUpdate(r.Context(), update)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	if s.metrics != nil {
		s.metrics.progressUpdates.Inc()
	}
	s.notifyProgress(r, updated, update, previousConfidence, actor)

	s.jsonResponse(w, http.StatusOK, types.SubmitProgressResponse{
		Update:    update,
		KeyResult: updated,
		Progress:  okr.ComputeProgress(*updated),
		Affected: okr.AffectedAggregate{
			KeyResultID:   updated.ID,
			ObjectiveID:   updated.ObjectiveID,
			KeyResultType: updated.Type,
		},
	})
}

// notifyProgress delivers progress and confidence-drop notifications to the
// key result's owner. Failures are logged; the update itself is committed.
func (s *Server) notifyProgress(r *http.Request, kr *okr.KeyResult, update *okr.ProgressUpdate, previousConfidence *int, actor uuid.UUID) {
	if kr.OwnerID == nil || *kr.OwnerID == actor {
		return
	}
	owner := *kr.OwnerID
	ctx := r.Context()

	summary := audit.DescribeUpdate(*update, kr.MetricType, kr.Unit)

	enabled, err := s.db.GetNotificationPreference(ctx, owner, types.NotificationProgress)
	if err != nil {
		log.Printf("failed to check notification preference: %v", err)
	} else if enabled {
		subject := fmt.Sprintf("Progress on %q", kr.Title)
		if _, err := s.db.CreateNotification(ctx, owner, types.NotificationProgress, subject, summary); err != nil {
			log.Printf("failed to create progress notification: %v", err)
		}
	}

	// Confidence drop alert when the score moved down
	if update.ConfidenceScore == nil || previousConfidence == nil || *update.ConfidenceScore >= *previousConfidence {
		return
	}
	enabled, err = s.db.GetNotificationPreference(ctx, owner, types.NotificationConfidence)
	if err != nil {
		log.Printf("failed to check notification preference: %v", err)
		return
	}
	if !enabled {
		return
	}
	subject := fmt.Sprintf("Confidence dropped on %q", kr.Title)
	body := fmt.Sprintf("Confidence fell from %d to %d. %s", *previousConfidence, *update.ConfidenceScore, summary)
	if _, err := s.db.CreateNotification(ctx, owner, types.NotificationConfidence, subject, body); err != nil {
		log.Printf("failed to create confidence notification: %v", err)
	}
}

// handleListProgressUpdates returns a key result's history, newest first
func (s *Server) handleListProgressUpdates(w http.ResponseWriter, r *http.Request) {
	keyResultID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid key result ID")
		return
	}

	limit := parseQueryInt(r, "limit", 50, 200)
	updates, err := s.db.ListProgressUpdates(r.Context(), keyResultID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"updates": updates,
		"count":   len(updates),
	})
}
