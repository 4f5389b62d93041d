package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-list-feed/internal/app"
	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/assert"
)

func TestResponseFromError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"invalid data", service.ErrInvalidDataProvided, http.StatusBadRequest, app.MsgInvalidDataProvided},
		{"invalid query", models.ErrInvalidQuery, http.StatusBadRequest, app.MsgInvalidQuery},
		{"empty comment", service.ErrEmptyComment, http.StatusBadRequest, app.MsgEmptyComment},
		{"wrong password", service.ErrWrongPassword, http.StatusUnauthorized, app.MsgInvalidLoginPassword},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, app.MsgAccessDenied},
		{"login taken", store.ErrLoginAlreadyExists, http.StatusConflict, app.MsgLoginAlreadyExists},
		{"wrapped not found", fmt.Errorf("select list: %w", store.ErrListNotFound), http.StatusNotFound, app.MsgListNotFound},
		{"notification not found", store.ErrNotificationNotFound, http.StatusNotFound, app.MsgNotificationNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, app.MsgInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := responseFromError(tt.err)
			assert.Equal(t, tt.wantStatus, resp.status)
			assert.Equal(t, tt.wantMessage, resp.message)
			assert.Equal(t, tt.wantStatus, statusFromError(tt.err))
		})
	}
}
