package service

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestNotificationSvc(t *testing.T) (NotificationService, *serverMocks) {
	m, storages := newServerMocks(t)
	return NewNotificationService(storages.NotificationRepository, m.publisher, logger.Nop()), m
}

func TestNotificationService_SelectNotifications(t *testing.T) {
	svc, m := newTestNotificationSvc(t)
	ctx := context.Background()

	m.notifications.EXPECT().SelectNotifications(ctx, int64(1), gomock.Any()).
		Return([]models.Notification{{ID: "n1", UserID: 1}}, nil)

	items, err := svc.SelectNotifications(ctx, 1, models.TableQuery{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, m := newTestNotificationSvc(t)
	ctx := context.Background()

	m.notifications.EXPECT().MarkRead(ctx, int64(1), "n1").Return(models.Notification{ID: "n1", UserID: 1, IsRead: true}, nil)
	m.publisher.EXPECT().
		Publish(ctx, gomock.Any(), userFilter(1)).
		DoAndReturn(func(_ context.Context, ev models.ChangeEvent, _ ...string) error {
			assert.Equal(t, models.EventUpdate, ev.Type)
			return nil
		})

	require.NoError(t, svc.MarkRead(ctx, 1, "n1"))
}

func TestNotificationService_MarkRead_NotFound(t *testing.T) {
	svc, m := newTestNotificationSvc(t)
	ctx := context.Background()

	// чужое уведомление неотличимо от отсутствующего
	m.notifications.EXPECT().MarkRead(ctx, int64(1), "n2").Return(models.Notification{}, store.ErrNotificationNotFound)

	err := svc.MarkRead(ctx, 1, "n2")
	assert.ErrorIs(t, err, store.ErrNotificationNotFound)
}

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc, m := newTestNotificationSvc(t)
	ctx := context.Background()

	m.notifications.EXPECT().MarkAllRead(ctx, int64(1)).
		Return([]models.Notification{{ID: "n1", UserID: 1}, {ID: "n2", UserID: 1}}, nil)
	m.publisher.EXPECT().Publish(ctx, gomock.Any(), userFilter(1)).Return(nil).Times(2)

	require.NoError(t, svc.MarkAllRead(ctx, 1))
}

func TestNotificationService_Delete(t *testing.T) {
	svc, m := newTestNotificationSvc(t)
	ctx := context.Background()

	m.notifications.EXPECT().Delete(ctx, int64(1), "n1").Return(models.Notification{ID: "n1", UserID: 1}, nil)
	m.publisher.EXPECT().
		Publish(ctx, gomock.Any(), userFilter(1)).
		DoAndReturn(func(_ context.Context, ev models.ChangeEvent, _ ...string) error {
			assert.Equal(t, models.EventDelete, ev.Type)
			assert.Empty(t, ev.New)
			return nil
		})

	require.NoError(t, svc.Delete(ctx, 1, "n1"))
}

func TestNotificationService_DeleteAll_Empty(t *testing.T) {
	svc, m := newTestNotificationSvc(t)
	ctx := context.Background()

	m.notifications.EXPECT().DeleteAll(ctx, int64(1)).Return(nil, nil)

	require.NoError(t, svc.DeleteAll(ctx, 1))
}
