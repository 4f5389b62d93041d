package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedHandler(buf *bytes.Buffer) *Handler {
	return NewHandler(&service.Services{}, config.Server{}, &logger.Logger{Logger: zerolog.New(buf)})
}

// lastEntry decodes the last JSON line written to buf.
func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestWithLogging(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantLevel string
		wantCode  float64
	}{
		{name: "implicit 200", body: "ok", wantLevel: "info", wantCode: 200},
		{name: "created", status: http.StatusCreated, wantLevel: "info", wantCode: 201},
		{name: "client error", status: http.StatusNotFound, wantLevel: "warn", wantCode: 404},
		{name: "server error", status: http.StatusInternalServerError, wantLevel: "error", wantCode: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := newBufferedHandler(&buf)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			})

			req := httptest.NewRequest(http.MethodGet, "/api/lists?limit=5", nil)
			rec := httptest.NewRecorder()
			h.withTraceID(h.withLogging(next)).ServeHTTP(rec, req)

			entry := lastEntry(t, &buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.wantCode, entry["status"])
			assert.Equal(t, "/api/lists?limit=5", entry["uri"])
			assert.Equal(t, http.MethodGet, entry["method"])
			assert.Equal(t, float64(len(tt.body)), entry["size"])
			assert.NotEmpty(t, entry["trace_id"])
		})
	}
}

func TestResponseWriter_WriteHeaderOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec}

	w.WriteHeader(http.StatusAccepted)
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte("abc"))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, http.StatusAccepted, w.status)
	assert.Equal(t, 3, w.size)
	assert.Same(t, rec, w.Unwrap())
}
