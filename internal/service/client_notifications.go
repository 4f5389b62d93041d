package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-feed/internal/adapter"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/models"
)

// NotificationView owns the notification list of the session user.
// Mark and delete operations are optimistic; a failed write restores the
// snapshot taken before it.
type NotificationView struct {
	listener

	notifications adapter.NotificationTable
	session       SessionProvider
	channels      ChannelSwitcher
	pageSize      int
	logger        *logger.Logger

	coordinator *Coordinator

	mu    sync.Mutex
	state NotificationState
	pager pager
}

func NewNotificationView(
	notifications adapter.NotificationTable,
	session SessionProvider,
	channels ChannelSwitcher,
	pageSize int,
	mutationTimeout time.Duration,
	log *logger.Logger,
) *NotificationView {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	v := &NotificationView{
		notifications: notifications,
		session:       session,
		channels:      channels,
		pageSize:      pageSize,
		logger:        log,
		state:         NewNotificationState(0),
		pager:         newPager(),
	}
	v.coordinator = NewCoordinator(&v.mu, mutationTimeout, v.changed, log)
	return v
}

// NotificationSnapshot is a consistent copy of the list for rendering.
type NotificationSnapshot struct {
	PageStatus
	Items  []models.Notification
	Unread int
}

func (v *NotificationView) Snapshot() NotificationSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return NotificationSnapshot{
		PageStatus: v.pager.status(),
		Items:      v.state.Items.Items(),
		Unread:     v.state.unread(),
	}
}

// Open subscribes to the notifications of the session user and loads the
// first page. Without a session it returns ErrAuthRequired.
func (v *NotificationView) Open(ctx context.Context) error {
	return v.restart(ctx, false)
}

// Refresh reloads the list from the first page.
func (v *NotificationView) Refresh(ctx context.Context) error {
	return v.restart(ctx, true)
}

func (v *NotificationView) restart(ctx context.Context, refreshing bool) error {
	session, ok := v.session.Session()
	if !ok {
		return ErrAuthRequired
	}

	v.mu.Lock()
	v.pager.reset()
	v.pager.refreshing = refreshing
	v.state = NewNotificationState(session.UserID)
	generation := v.pager.generation
	v.mu.Unlock()
	v.changed()

	topic := models.Topic{
		Table:  (models.Notification{}).TableName(),
		Filter: models.EqFilter("user_id", strconv.FormatInt(session.UserID, 10)),
	}
	err := v.channels.Switch(ctx, notificationsChannel, topic, func(ev models.ChangeEvent) {
		v.mu.Lock()
		if !v.pager.current(generation) {
			v.mu.Unlock()
			return
		}
		v.state = ReduceNotifications(v.state, ev)
		v.mu.Unlock()
		v.changed()
	})
	if err != nil {
		v.logger.Warn().Err(err).Int64("user_id", session.UserID).Msg("notifications realtime subscription failed")
	}

	return v.load(ctx, refreshing)
}

// Close releases the realtime channel and waits for pending mutations.
func (v *NotificationView) Close() error {
	v.mu.Lock()
	v.pager.reset()
	v.mu.Unlock()

	err := v.channels.Close(notificationsChannel)
	v.coordinator.Wait()
	return err
}

func (v *NotificationView) query(pageIndex int) models.TableQuery {
	return models.TableQuery{
		OrderBy: "created_at",
		Desc:    true,
		Limit:   v.pageSize,
		Offset:  pageIndex * v.pageSize,
	}
}

// LoadNextPage fetches the next page of older notifications.
func (v *NotificationView) LoadNextPage(ctx context.Context) error {
	return v.load(ctx, false)
}

func (v *NotificationView) load(ctx context.Context, refreshing bool) error {
	v.mu.Lock()
	if v.pager.busy() || !v.pager.hasMore {
		v.mu.Unlock()
		return nil
	}
	generation, pageIndex := v.pager.begin()
	v.pager.refreshing = refreshing
	v.mu.Unlock()
	v.changed()

	rows, err := v.notifications.SelectNotifications(ctx, v.query(pageIndex))

	v.mu.Lock()
	if !v.pager.current(generation) {
		v.mu.Unlock()
		return nil
	}
	v.pager.finish(len(rows), v.pageSize, err)
	if err == nil {
		for _, n := range rows {
			v.state.Items.InsertAtTail(n)
		}
	}
	v.state.HasMore = v.pager.hasMore
	v.mu.Unlock()
	v.changed()

	if err != nil {
		v.logger.Err(err).Int("page", pageIndex).Msg("failed to load notifications")
		return fmt.Errorf("load notifications page %d: %w", pageIndex, err)
	}
	return nil
}

// Resync merges the first page without resetting the list.
func (v *NotificationView) Resync(ctx context.Context) error {
	if _, ok := v.session.Session(); !ok {
		return nil
	}

	v.mu.Lock()
	generation := v.pager.generation
	v.mu.Unlock()

	rows, err := v.notifications.SelectNotifications(ctx, v.query(0))
	if err != nil {
		return fmt.Errorf("resync notifications: %w", err)
	}

	v.mu.Lock()
	if !v.pager.current(generation) {
		v.mu.Unlock()
		return nil
	}
	for i, n := range rows {
		v.state.Items.InsertAt(i, n)
	}
	v.mu.Unlock()
	v.changed()
	return nil
}

// MarkAsRead sets the read flag of one notification.
func (v *NotificationView) MarkAsRead(ctx context.Context, id string) <-chan error {
	type patch struct {
		wasRead bool
		found   bool
	}
	return Submit(ctx, v.coordinator, Mutation[patch, struct{}]{
		Name: "mark notification read",
		Key:  "notification:" + id,
		Apply: func() patch {
			n, ok := v.state.Items.Get(id)
			v.state.Items.UpdateByID(id, func(n *models.Notification) { n.IsRead = true })
			return patch{wasRead: n.IsRead, found: ok}
		},
		Commit: func(ctx context.Context, _ patch) (struct{}, error) {
			return struct{}{}, v.notifications.MarkNotificationRead(ctx, id)
		},
		Compensate: func(p patch, _ error) {
			if p.found {
				v.state.Items.UpdateByID(id, func(n *models.Notification) { n.IsRead = p.wasRead })
			}
		},
	})
}

// MarkAllAsRead sets the read flag of every notification.
func (v *NotificationView) MarkAllAsRead(ctx context.Context) <-chan error {
	return Submit(ctx, v.coordinator, Mutation[[]string, struct{}]{
		Name: "mark all notifications read",
		Key:  "notifications",
		Apply: func() []string {
			var unread []string
			for _, n := range v.state.Items.Items() {
				if !n.IsRead {
					unread = append(unread, n.ID)
					v.state.Items.UpdateByID(n.ID, func(n *models.Notification) { n.IsRead = true })
				}
			}
			return unread
		},
		Commit: func(ctx context.Context, _ []string) (struct{}, error) {
			return struct{}{}, v.notifications.MarkAllNotificationsRead(ctx)
		},
		Compensate: func(unread []string, _ error) {
			for _, id := range unread {
				v.state.Items.UpdateByID(id, func(n *models.Notification) { n.IsRead = false })
			}
		},
	})
}

// Delete removes one notification.
func (v *NotificationView) Delete(ctx context.Context, id string) <-chan error {
	type patch struct {
		item  models.Notification
		index int
	}
	return Submit(ctx, v.coordinator, Mutation[patch, struct{}]{
		Name: "delete notification",
		Key:  "notification:" + id,
		Apply: func() patch {
			p := patch{index: v.state.Items.IndexOf(id)}
			p.item, _ = v.state.Items.Get(id)
			v.state.Items.RemoveByID(id)
			return p
		},
		Commit: func(ctx context.Context, _ patch) (struct{}, error) {
			return struct{}{}, v.notifications.DeleteNotification(ctx, id)
		},
		Compensate: func(p patch, _ error) {
			if p.index >= 0 {
				v.state.Items.InsertAt(p.index, p.item)
			}
		},
	})
}

// DeleteAll clears the list.
func (v *NotificationView) DeleteAll(ctx context.Context) <-chan error {
	return Submit(ctx, v.coordinator, Mutation[[]models.Notification, struct{}]{
		Name: "delete all notifications",
		Key:  "notifications",
		Apply: func() []models.Notification {
			items := v.state.Items.Items()
			v.state.Items.Clear()
			return items
		},
		Commit: func(ctx context.Context, _ []models.Notification) (struct{}, error) {
			return struct{}{}, v.notifications.DeleteAllNotifications(ctx)
		},
		Compensate: func(items []models.Notification, _ error) {
			for _, n := range items {
				v.state.Items.InsertAtTail(n)
			}
		},
	})
}
