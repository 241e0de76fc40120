package server

import (
	"net/http"
)

// handleComplianceReport generates the OKR compliance report
func (s *Server) handleComplianceReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reportGen.Generate(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to generate report: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}
