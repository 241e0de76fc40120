package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/peakform/internal/ingest"
	"github.com/jonathan/peakform/internal/scheduling"
	"github.com/jonathan/peakform/internal/server/middleware"
	"github.com/jonathan/peakform/internal/types"
)

// handleCreateLearningPath creates a learning path
func (s *Server) handleCreateLearningPath(w http.ResponseWriter, r *http.Request) {
	var req types.CreateLearningPathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	path, err := s.db.CreateLearningPath(r.Context(), req.Title, req.Description)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, path)
}

// handleListLearningPaths lists all learning paths
func (s *Server) handleListLearningPaths(w http.ResponseWriter, r *http.Request) {
	paths, err := s.db.ListLearningPaths(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"paths": paths,
		"count": len(paths),
	})
}

// handleGetLearningPath retrieves a learning path with its ordered resources
func (s *Server) handleGetLearningPath(w http.ResponseWriter, r *http.Request) {
	pathID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid learning path ID")
		return
	}

	path, err := s.db.GetLearningPath(r.Context(), pathID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if path == nil {
		s.errorResponse(w, http.StatusNotFound, "Learning path not found")
		return
	}

	resources, err := s.db.ListLearningResources(r.Context(), pathID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"path":      path,
		"resources": resources,
	})
}

// handleAddResource appends a resource to a learning path. If no title was
// supplied, the page is fetched and its metadata fills in the title,
// description, and kind.
func (s *Server) handleAddResource(w http.ResponseWriter, r *http.Request) {
	pathID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid learning path ID")
		return
	}

	var req types.AddResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	title := req.Title
	description := ""
	kind := req.Kind
	if title == "" {
		html, err := ingest.FetchPage(r.Context(), req.URL, nil)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "Failed to fetch resource page: "+err.Error())
			return
		}
		meta, err := ingest.ExtractMetadata(html)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "Failed to extract page metadata: "+err.Error())
			return
		}
		title = meta.Title
		description = meta.Description
		if meta.Kind != "" {
			kind = meta.Kind
		}
	}

	resource, err := s.db.AddLearningResource(r.Context(), pathID, title, description, req.URL, kind)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, resource)
}

// handleCreateAssignmentRule creates a recurring learning-path assignment
func (s *Server) handleCreateAssignmentRule(w http.ResponseWriter, r *http.Request) {
	creator, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.CreateAssignmentRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if _, err := scheduling.ParseRecurrence(req.Recurrence); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	path, err := s.db.GetLearningPath(r.Context(), req.PathID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if path == nil {
		s.errorResponse(w, http.StatusNotFound, "Learning path not found")
		return
	}

	rule, err := s.db.CreateAssignmentRule(r.Context(), req.PathID, req.Recurrence, creator, req.AssigneeIDs)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"rule":        rule,
		"description": scheduling.Describe(rule.Recurrence),
	})
}

// handleListAssignmentRules lists all assignment rules with their assignees
func (s *Server) handleListAssignmentRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.db.ListAssignmentRules(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"rules": rules,
		"count": len(rules),
	})
}

// handleListAssignments lists a user's learning-path assignments
func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	assignments, err := s.db.ListAssignmentsForUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"assignments": assignments,
		"count":       len(assignments),
	})
}

// handleCompleteAssignment marks an assignment completed
func (s *Server) handleCompleteAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid assignment ID")
		return
	}

	var req types.CompleteAssignmentRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	assignment, err := s.db.CompleteAssignment(r.Context(), assignmentID, req.Notes)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if assignment == nil {
		s.errorResponse(w, http.StatusNotFound, "Assignment not found")
		return
	}

	log.Printf("assignment %s completed by user %s", assignment.ID, assignment.UserID)
	s.jsonResponse(w, http.StatusOK, assignment)
}
