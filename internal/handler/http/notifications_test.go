package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSelectNotifications(t *testing.T) {
	router, m := newTestRouter(t)
	m.expectUser(2)

	query := models.TableQuery{OrderBy: "created_at", Desc: true, Limit: 50}
	m.notifications.EXPECT().SelectNotifications(gomock.Any(), int64(2), query).
		Return([]models.Notification{{ID: "n1", UserID: 2, Type: models.NotificationLike}}, nil)

	rec := do(t, router, http.MethodGet, "/api/notifications?order=created_at.desc&limit=50", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, models.NotificationLike, got[0].Type)
}

func TestNotificationMutations(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		expect     func(m *testServices)
		wantStatus int
	}{
		{
			name: "mark read", method: http.MethodPatch, target: "/api/notifications/n1/read",
			expect: func(m *testServices) {
				m.notifications.EXPECT().MarkRead(gomock.Any(), int64(2), "n1").Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "mark read of someone else's", method: http.MethodPatch, target: "/api/notifications/n1/read",
			expect: func(m *testServices) {
				m.notifications.EXPECT().MarkRead(gomock.Any(), int64(2), "n1").Return(store.ErrNotificationNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "mark all read", method: http.MethodPatch, target: "/api/notifications/read",
			expect: func(m *testServices) {
				m.notifications.EXPECT().MarkAllRead(gomock.Any(), int64(2)).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "delete", method: http.MethodDelete, target: "/api/notifications/n1",
			expect: func(m *testServices) {
				m.notifications.EXPECT().Delete(gomock.Any(), int64(2), "n1").Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
		{
			name: "delete all", method: http.MethodDelete, target: "/api/notifications",
			expect: func(m *testServices) {
				m.notifications.EXPECT().DeleteAll(gomock.Any(), int64(2)).Return(nil)
			},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t)
			m.expectUser(2)
			tt.expect(m)

			rec := do(t, router, tt.method, tt.target, "", true)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
