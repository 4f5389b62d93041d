package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTraceID(t *testing.T) {
	t.Run("incoming id is reused", func(t *testing.T) {
		var buf bytes.Buffer
		h := newBufferedHandler(&buf)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.FromRequest(r).Info().Msg("inside")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(traceIDHeader, "trace-1")
		rec := httptest.NewRecorder()
		h.withTraceID(next).ServeHTTP(rec, req)

		assert.Equal(t, "trace-1", rec.Header().Get(traceIDHeader))
		assert.Equal(t, "trace-1", lastEntry(t, &buf)["trace_id"])
	})

	t.Run("new id is generated", func(t *testing.T) {
		var buf bytes.Buffer
		h := newBufferedHandler(&buf)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		h.withTraceID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rec, req)

		_, err := uuid.Parse(rec.Header().Get(traceIDHeader))
		require.NoError(t, err)
	})
}
