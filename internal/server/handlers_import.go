package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/jonathan/peakform/internal/db"
	"github.com/jonathan/peakform/internal/schemas"
)

// maxImportBytes caps the size of a bulk import document
const maxImportBytes = 4 << 20

// importDocument is the wire shape of a bulk OKR import
type importDocument struct {
	Objectives []db.ImportObjective `json:"objectives"`
}

// handleImportOKRs validates a bulk import document against the JSON schema
// and inserts it atomically. Any invalid entry rejects the whole document.
func (s *Server) handleImportOKRs(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	if err := schemas.ValidateOKRImport(body); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var doc importDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := s.db.ImportOKRs(r.Context(), doc.Objectives)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, result)
}
