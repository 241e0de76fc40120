package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEWriter_Headers(t *testing.T) {
	rec := httptest.NewRecorder()

	_, err := NewSSEWriter(rec)
	require.NoError(t, err)

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
}

func TestSSEWriter_WriteEvent(t *testing.T) {
	rec := httptest.NewRecorder()
	writer, err := NewSSEWriter(rec)
	require.NoError(t, err)

	err = writer.WriteEvent("notification", map[string]string{"subject": "Progress updated"})
	require.NoError(t, err)

	body := rec.Body.String()
	assert.Contains(t, body, "event: notification\n")
	assert.Contains(t, body, `data: {"subject":"Progress updated"}`)
	assert.True(t, rec.Flushed)
}

func TestSSEWriter_WriteComment(t *testing.T) {
	rec := httptest.NewRecorder()
	writer, err := NewSSEWriter(rec)
	require.NoError(t, err)

	err = writer.WriteComment("keepalive")
	require.NoError(t, err)

	assert.Equal(t, ": keepalive\n\n", rec.Body.String())
}

func TestSSEWriter_WriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writer, err := NewSSEWriter(rec)
	require.NoError(t, err)

	writer.WriteError("stream closed")

	body := rec.Body.String()
	assert.Contains(t, body, "event: error\n")
	assert.Contains(t, body, `"error":"stream closed"`)
}
