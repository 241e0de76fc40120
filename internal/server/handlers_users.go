package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/peakform/internal/types"
)

// UpdateRoleRequest changes a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin manager member"`
}

// handleListUsers lists users
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50, 200)
	offset := parseQueryInt(r, "offset", 0, 0)

	users, err := s.db.ListUsers(r.Context(), limit, offset)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	result := make([]*types.User, 0, len(users))
	for i := range users {
		result = append(result, convertDBUserToTypesUser(&users[i]))
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"users":  result,
		"count":  len(result),
		"limit":  limit,
		"offset": offset,
	})
}

// handleGetUser retrieves a user by ID
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := s.db.GetUser(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if user == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, convertDBUserToTypesUser(user))
}

// handleUpdateUserRole changes a user's role
func (s *Server) handleUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := validator.New().Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if err := s.db.UpdateUserRole(r.Context(), userID, req.Role); err != nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"id":   userID.String(),
		"role": req.Role,
	})
}

// handleDeleteUser deletes a user
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := s.db.DeleteUser(r.Context(), userID); err != nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
