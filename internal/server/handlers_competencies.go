package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/peakform/internal/types"
)

// handleCreateCompetency defines a competency in the framework
func (s *Server) handleCreateCompetency(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCompetencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	competency, err := s.db.CreateCompetency(r.Context(), req.Name, req.Category, req.Description, req.ExpectedLevel)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, competency)
}

// handleListCompetencies lists competencies, optionally filtered by category
func (s *Server) handleListCompetencies(w http.ResponseWriter, r *http.Request) {
	competencies, err := s.db.ListCompetencies(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"competencies": competencies,
		"count":        len(competencies),
	})
}

// handleGetCompetency retrieves a competency by ID
func (s *Server) handleGetCompetency(w http.ResponseWriter, r *http.Request) {
	competencyID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid competency ID")
		return
	}

	competency, err := s.db.GetCompetency(r.Context(), competencyID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if competency == nil {
		s.errorResponse(w, http.StatusNotFound, "Competency not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, competency)
}

// handleAssessSkill records a skill assessment for a user. Repeated
// assessments against the same competency overwrite the submitted level and
// keep the other.
func (s *Server) handleAssessSkill(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req types.AssessSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if req.SelfLevel == nil && req.ManagerLevel == nil {
		s.errorResponse(w, http.StatusBadRequest, "at least one of self_level or manager_level is required")
		return
	}

	assessment, err := s.db.UpsertSkillAssessment(r.Context(), userID, req.CompetencyID, req.SelfLevel, req.ManagerLevel)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, assessment)
}

// handleListAssessments lists a user's skill assessments
func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	assessments, err := s.db.ListSkillAssessments(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"assessments": assessments,
		"count":       len(assessments),
	})
}
