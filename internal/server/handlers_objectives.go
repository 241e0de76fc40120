package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/peakform/internal/db"
	"github.com/jonathan/peakform/internal/okr"
	"github.com/jonathan/peakform/internal/types"
)

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// handleCreateObjective creates a company or team objective
func (s *Server) handleCreateObjective(w http.ResponseWriter, r *http.Request) {
	var req types.CreateObjectiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if req.Type == string(okr.KeyResultTeam) && req.TeamName == "" {
		s.errorResponse(w, http.StatusBadRequest, "team_name is required for team objectives")
		return
	}

	objective, err := s.db.CreateObjective(r.Context(), req.Title, req.Description, req.Type, req.TeamName, req.Period, req.OwnerID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, objective)
}

// handleListObjectives lists objectives with optional type/status/team filters
func (s *Server) handleListObjectives(w http.ResponseWriter, r *http.Request) {
	filters := db.ObjectiveFilters{
		Type:     r.URL.Query().Get("type"),
		Status:   r.URL.Query().Get("status"),
		TeamName: r.URL.Query().Get("team"),
		Period:   r.URL.Query().Get("period"),
		Limit:    parseQueryInt(r, "limit", 50, 200),
		Offset:   parseQueryInt(r, "offset", 0, 0),
	}

	objectives, err := s.db.ListObjectives(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"objectives": objectives,
		"count":      len(objectives),
		"limit":      filters.Limit,
		"offset":     filters.Offset,
	})
}

// handleGetObjective retrieves an objective with its key results and
// aggregate progress
func (s *Server) handleGetObjective(w http.ResponseWriter, r *http.Request) {
	objectiveID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid objective ID")
		return
	}

	objective, err := s.db.GetObjective(r.Context(), objectiveID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if objective == nil {
		s.errorResponse(w, http.StatusNotFound, "Objective not found")
		return
	}

	keyResults, err := s.db.ListKeyResultsByObjective(r.Context(), objectiveID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	// Objective progress is the mean of its key results' progress
	progress := 0.0
	for _, kr := range keyResults {
		progress += okr.ComputeProgress(kr)
	}
	if len(keyResults) > 0 {
		progress /= float64(len(keyResults))
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"objective":   objective,
		"key_results": keyResults,
		"progress":    progress,
	})
}

// handleUpdateObjective updates an objective's title, description, or status
func (s *Server) handleUpdateObjective(w http.ResponseWriter, r *http.Request) {
	objectiveID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid objective ID")
		return
	}

	var req types.UpdateObjectiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	objective, err := s.db.UpdateObjective(r.Context(), objectiveID, req.Title, req.Description, req.Status)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if objective == nil {
		s.errorResponse(w, http.StatusNotFound, "Objective not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, objective)
}
