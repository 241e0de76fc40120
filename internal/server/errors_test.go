package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/peakform/internal/okr"
	"github.com/jonathan/peakform/internal/schemas"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "email conflict", err: &ErrEmailAlreadyExists{Email: "a@b.com"}, want: http.StatusConflict},
		{name: "invalid credentials", err: &ErrInvalidCredentials{}, want: http.StatusUnauthorized},
		{name: "password mismatch", err: &ErrPasswordMismatch{}, want: http.StatusUnauthorized},
		{name: "user not found", err: &ErrUserNotFound{UserID: uuid.New()}, want: http.StatusNotFound},
		{name: "resource not found", err: &ErrNotFound{Resource: "key result", ID: uuid.New()}, want: http.StatusNotFound},
		{name: "validation", err: &ErrValidation{Field: "email", Message: "required"}, want: http.StatusBadRequest},
		{name: "invalid metric value", err: &okr.ErrInvalidValue{Raw: "abc"}, want: http.StatusBadRequest},
		{name: "confidence out of range", err: &okr.ErrConfidenceOutOfRange{Score: 11}, want: http.StatusBadRequest},
		{name: "schema validation", err: &schemas.ValidationError{}, want: http.StatusBadRequest},
		{name: "malformed document", err: &schemas.SchemaLoadError{Message: "invalid JSON"}, want: http.StatusBadRequest},
		{name: "wrapped domain error", err: fmt.Errorf("rejected: %w", &okr.ErrConfidenceOutOfRange{Score: 0}), want: http.StatusBadRequest},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
