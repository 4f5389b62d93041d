package service

import (
	"context"
	"strconv"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/models"
)

// changePublisher turns committed writes into change events. The write has
// already succeeded when it runs, so failures are logged and swallowed.
type changePublisher struct {
	publisher Publisher
}

func (p changePublisher) publish(ctx context.Context, typ models.EventType, table string, newRow, oldRow any, filters ...string) {
	if p.publisher == nil {
		return
	}
	log := logger.FromContext(ctx)

	ev, err := models.NewChangeEvent(typ, table, newRow, oldRow)
	if err != nil {
		log.Err(err).Str("func", "changePublisher.publish").Str("table", table).Msg("error encoding change event")
		return
	}

	if err = p.publisher.Publish(ctx, ev, filters...); err != nil {
		log.Err(err).Str("func", "changePublisher.publish").Str("table", table).Str("type", string(typ)).Msg("change event dropped")
	}
}

// listChanged publishes the row as seen by nobody in particular:
// LikedByMe is a per-viewer value and must not leak to other clients.
func (p changePublisher) listChanged(ctx context.Context, typ models.EventType, list models.ListSummary) {
	list.LikedByMe = false
	p.publish(ctx, typ, list.TableName(), list, nil, models.EqFilter("category", list.Category))
}

func (p changePublisher) notificationChanged(ctx context.Context, typ models.EventType, n models.Notification) {
	var newRow, oldRow any = n, nil
	if typ == models.EventDelete {
		newRow, oldRow = nil, n
	}
	p.publish(ctx, typ, n.TableName(), newRow, oldRow, userFilter(n.UserID))
}

func userFilter(userID int64) string {
	return models.EqFilter("user_id", strconv.FormatInt(userID, 10))
}

// notifier delivers notifications to list owners.
type notifier struct {
	changePublisher
	notifications store.NotificationRepository
	ids           IDGenerator
}

// send stores a notification for userID and pushes it. Failing to notify
// never fails the action that caused it.
func (n notifier) send(ctx context.Context, userID int64, typ models.NotificationType, payload models.NotificationPayload) {
	log := logger.FromContext(ctx)

	raw, err := marshalPayload(payload)
	if err != nil {
		log.Err(err).Str("func", "notifier.send").Msg("error encoding notification payload")
		return
	}

	created, err := n.notifications.InsertNotification(ctx, models.Notification{
		ID:      n.ids.Generate(),
		UserID:  userID,
		Type:    typ,
		Payload: raw,
	})
	if err != nil {
		log.Err(err).Str("func", "notifier.send").Int64("user_id", userID).Str("type", string(typ)).Msg("notification not stored")
		return
	}

	n.notificationChanged(ctx, models.EventInsert, created)
}
