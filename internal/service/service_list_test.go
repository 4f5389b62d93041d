package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/mock"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// serverMocks: все зависимости серверных сервисов
type serverMocks struct {
	users         *mock.MockUserRepository
	lists         *mock.MockListRepository
	likes         *mock.MockLikeRepository
	comments      *mock.MockCommentRepository
	notifications *mock.MockNotificationRepository
	publisher     *mock.MockPublisher
	ids           *mock.MockIDGenerator
}

func newServerMocks(t *testing.T) (*serverMocks, *store.Storages) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &serverMocks{
		users:         mock.NewMockUserRepository(ctrl),
		lists:         mock.NewMockListRepository(ctrl),
		likes:         mock.NewMockLikeRepository(ctrl),
		comments:      mock.NewMockCommentRepository(ctrl),
		notifications: mock.NewMockNotificationRepository(ctrl),
		publisher:     mock.NewMockPublisher(ctrl),
		ids:           mock.NewMockIDGenerator(ctrl),
	}
	return m, &store.Storages{
		UserRepository:         m.users,
		ListRepository:         m.lists,
		LikeRepository:         m.likes,
		CommentRepository:      m.comments,
		NotificationRepository: m.notifications,
	}
}

func newTestListSvc(t *testing.T) (ListService, *serverMocks) {
	m, storages := newServerMocks(t)
	return NewListService(storages, m.publisher, m.ids, logger.Nop()), m
}

func movieList() models.ListSummary {
	return models.ListSummary{ID: "l1", Title: "Top films", OwnerID: 1, Category: models.CategoryMovie, LikeCount: 3}
}

// ── SelectLists ──────────────────────────────────────────────────────────────

func TestListService_SelectLists_AllCategoryIsDropped(t *testing.T) {
	svc, m := newTestListSvc(t)
	ctx := context.Background()

	query := models.TableQuery{Filter: map[string]string{"category": models.CategoryAll}}
	m.lists.EXPECT().
		SelectLists(ctx, int64(2), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, q models.TableQuery) ([]models.ListSummary, error) {
			_, ok := q.Filter["category"]
			assert.False(t, ok)
			return nil, nil
		})

	lists, err := svc.SelectLists(ctx, 2, query)
	require.NoError(t, err)
	assert.NotNil(t, lists)
	assert.Empty(t, lists)
}

func TestListService_SelectLists_Error(t *testing.T) {
	svc, m := newTestListSvc(t)
	ctx := context.Background()

	m.lists.EXPECT().SelectLists(ctx, int64(0), gomock.Any()).Return(nil, models.ErrInvalidQuery)

	_, err := svc.SelectLists(ctx, 0, models.TableQuery{})
	assert.ErrorIs(t, err, models.ErrInvalidQuery)
}

// ── CreateList ───────────────────────────────────────────────────────────────

func TestListService_CreateList(t *testing.T) {
	svc, m := newTestListSvc(t)
	ctx := context.Background()

	items := []models.PreviewItem{{Title: "Alien", ContentType: "movie"}}
	m.ids.EXPECT().Generate().Return("l1")
	m.lists.EXPECT().
		CreateList(ctx, models.ListSummary{ID: "l1", OwnerID: 1, Title: "Top films", Category: models.CategoryMovie}, items).
		Return(movieList(), nil)
	m.publisher.EXPECT().Publish(ctx, gomock.Any(), models.EqFilter("category", models.CategoryMovie)).Return(nil)

	created, err := svc.CreateList(ctx, 1, models.NewList{Title: "  Top films ", Category: models.CategoryMovie, Items: items})
	require.NoError(t, err)
	assert.Equal(t, "l1", created.ID)
}

func TestListService_CreateList_Invalid(t *testing.T) {
	tests := []struct {
		name string
		list models.NewList
	}{
		{"empty title", models.NewList{Title: " ", Category: models.CategoryMovie}},
		{"filter-only category", models.NewList{Title: "x", Category: models.CategoryAll}},
		{"unknown category", models.NewList{Title: "x", Category: "podcast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestListSvc(t)
			_, err := svc.CreateList(context.Background(), 1, tt.list)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

// ── Like / Unlike ────────────────────────────────────────────────────────────

func TestListService_Like_NotifiesOwner(t *testing.T) {
	svc, m := newTestListSvc(t)
	ctx := context.Background()

	liked := movieList()
	liked.LikeCount = 4
	liked.LikedByMe = true

	m.likes.EXPECT().Like(ctx, int64(2), "l1").Return(liked, true, nil)
	m.publisher.EXPECT().
		Publish(ctx, gomock.Any(), models.EqFilter("category", models.CategoryMovie)).
		DoAndReturn(func(_ context.Context, ev models.ChangeEvent, _ ...string) error {
			var row models.ListSummary
			require.NoError(t, ev.DecodeNew(&row))
			assert.Equal(t, models.EventUpdate, ev.Type)
			assert.Equal(t, 4, row.LikeCount)
			// значение зрителя не уходит другим клиентам
			assert.False(t, row.LikedByMe)
			return nil
		})
	m.users.EXPECT().FindUserByID(ctx, int64(2)).Return(models.User{UserID: 2, Login: "bob"}, nil)
	m.ids.EXPECT().Generate().Return("n1")
	m.notifications.EXPECT().
		InsertNotification(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, n models.Notification) (models.Notification, error) {
			assert.Equal(t, int64(1), n.UserID)
			assert.Equal(t, models.NotificationLike, n.Type)
			p, err := n.DecodePayload()
			require.NoError(t, err)
			assert.Equal(t, "bob", p.ActorName)
			assert.Equal(t, "l1", p.ListID)
			return n, nil
		})
	m.publisher.EXPECT().Publish(ctx, gomock.Any(), userFilter(1)).Return(nil)

	got, err := svc.Like(ctx, 2, "l1")
	require.NoError(t, err)
	// вызывающий видит свой лайк
	assert.True(t, got.LikedByMe)
}

func TestListService_Like_OwnListDoesNotNotify(t *testing.T) {
	svc, m := newTestListSvc(t)
	ctx := context.Background()

	m.likes.EXPECT().Like(ctx, int64(1), "l1").Return(movieList(), true, nil)
	m.publisher.EXPECT().Publish(ctx, gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.Like(ctx, 1, "l1")
	require.NoError(t, err)
}

func TestListService_Like_Unchanged(t *testing.T) {
	svc, m := newTestListSvc(t)
	ctx := context.Background()

	// повторный лайк: ничего не публикуется
	m.likes.EXPECT().Like(ctx, int64(2), "l1").Return(movieList(), false, nil)

	_, err := svc.Like(ctx, 2, "l1")
	require.NoError(t, err)
}

func TestListService_Like_PublishFailureIsSwallowed(t *testing.T) {
	svc, m := newTestListSvc(t)
	ctx := context.Background()

	m.likes.EXPECT().Like(ctx, int64(1), "l1").Return(movieList(), true, nil)
	m.publisher.EXPECT().Publish(ctx, gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	_, err := svc.Like(ctx, 1, "l1")
	assert.NoError(t, err)
}

func TestListService_Like_ListNotFound(t *testing.T) {
	svc, m := newTestListSvc(t)
	ctx := context.Background()

	m.likes.EXPECT().Like(ctx, int64(2), "nope").Return(models.ListSummary{}, false, store.ErrListNotFound)

	_, err := svc.Like(ctx, 2, "nope")
	assert.ErrorIs(t, err, store.ErrListNotFound)
}

func TestListService_Unlike(t *testing.T) {
	svc, m := newTestListSvc(t)
	ctx := context.Background()

	unliked := movieList()
	unliked.LikeCount = 2

	m.likes.EXPECT().Unlike(ctx, int64(2), "l1").Return(unliked, true, nil)
	m.publisher.EXPECT().Publish(ctx, gomock.Any(), models.EqFilter("category", models.CategoryMovie)).Return(nil)

	got, err := svc.Unlike(ctx, 2, "l1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikeCount)
}
