package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-list-feed/internal/app"
	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSelectLists(t *testing.T) {
	t.Run("query is parsed and viewer passed", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.expectUser(5)

		want := models.TableQuery{
			Filter:  map[string]string{"category": "movie"},
			OrderBy: "created_at",
			Desc:    true,
			Limit:   10,
			Offset:  20,
		}
		m.lists.EXPECT().SelectLists(gomock.Any(), int64(5), want).
			Return([]models.ListSummary{{ID: "a", LikeCount: 3, LikedByMe: true}}, nil)

		rec := do(t, router, http.MethodGet,
			"/api/lists?category=eq.movie&order=created_at.desc&limit=10&offset=20", "", true)

		require.Equal(t, http.StatusOK, rec.Code)
		var lists []models.ListSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lists))
		require.Len(t, lists, 1)
		assert.Equal(t, "a", lists[0].ID)
		assert.True(t, lists[0].LikedByMe)
	})

	t.Run("unknown operator", func(t *testing.T) {
		router, m := newTestRouter(t)
		m.expectUser(5)

		rec := do(t, router, http.MethodGet, "/api/lists?category=like.movie", "", true)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, app.MsgInvalidQuery, errorMessage(t, rec))
	})

	t.Run("requires authorization", func(t *testing.T) {
		router, _ := newTestRouter(t)

		rec := do(t, router, http.MethodGet, "/api/lists", "", false)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCreateList(t *testing.T) {
	router, m := newTestRouter(t)
	m.expectUser(5)

	m.lists.EXPECT().CreateList(gomock.Any(), int64(5), models.NewList{Title: "Top films", Category: "movie"}).
		Return(models.ListSummary{ID: "new", Title: "Top films", OwnerID: 5}, nil)

	rec := do(t, router, http.MethodPost, "/api/lists", `{"title":"Top films","category":"movie"}`, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.ListSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "new", created.ID)
}

func TestCreateList_Invalid(t *testing.T) {
	router, m := newTestRouter(t)
	m.expectUser(5)

	m.lists.EXPECT().CreateList(gomock.Any(), int64(5), gomock.Any()).
		Return(models.ListSummary{}, service.ErrInvalidDataProvided)

	rec := do(t, router, http.MethodPost, "/api/lists", `{"title":""}`, true)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, app.MsgInvalidDataProvided, errorMessage(t, rec))
}

func TestLikeRoutes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		err        error
		wantStatus int
	}{
		{name: "like", method: http.MethodPost, wantStatus: http.StatusOK},
		{name: "unlike", method: http.MethodDelete, wantStatus: http.StatusOK},
		{name: "like missing list", method: http.MethodPost, err: store.ErrListNotFound, wantStatus: http.StatusNotFound},
		{name: "unlike missing list", method: http.MethodDelete, err: store.ErrListNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t)
			m.expectUser(9)

			result := models.ListSummary{ID: "l1", LikeCount: 4, LikedByMe: tt.method == http.MethodPost}
			if tt.err != nil {
				result = models.ListSummary{}
			}
			if tt.method == http.MethodPost {
				m.lists.EXPECT().Like(gomock.Any(), int64(9), "l1").Return(result, tt.err)
			} else {
				m.lists.EXPECT().Unlike(gomock.Any(), int64(9), "l1").Return(result, tt.err)
			}

			rec := do(t, router, tt.method, "/api/lists/l1/like", "", true)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.err != nil {
				assert.Equal(t, app.MsgListNotFound, errorMessage(t, rec))
				return
			}
			var got models.ListSummary
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, 4, got.LikeCount)
			assert.Equal(t, tt.method == http.MethodPost, got.LikedByMe)
		})
	}
}
