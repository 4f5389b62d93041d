package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/mock"
	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/internal/utils"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

const testToken = "valid-token"

type testServices struct {
	auth          *mock.MockAuthService
	lists         *mock.MockListService
	comments      *mock.MockCommentService
	notifications *mock.MockNotificationService
	appInfo       *mock.MockAppInfoService
}

// newTestRouter builds the full router over gomock services.
func newTestRouter(t *testing.T) (http.Handler, *testServices) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &testServices{
		auth:          mock.NewMockAuthService(ctrl),
		lists:         mock.NewMockListService(ctrl),
		comments:      mock.NewMockCommentService(ctrl),
		notifications: mock.NewMockNotificationService(ctrl),
		appInfo:       mock.NewMockAppInfoService(ctrl),
	}
	h := NewHandler(&service.Services{
		AuthService:         m.auth,
		ListService:         m.lists,
		CommentService:      m.comments,
		NotificationService: m.notifications,
		AppInfoService:      m.appInfo,
	}, config.Server{}, logger.Nop())

	return h.Init(), m
}

// expectUser makes testToken resolve to userID.
func (m *testServices) expectUser(userID int64) {
	m.auth.EXPECT().ParseToken(gomock.Any(), testToken).
		Return(models.Token{UserID: userID}, nil).AnyTimes()
}

func do(t *testing.T, router http.Handler, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}
