package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/models"
)

type notificationRepository struct {
	logger *logger.Logger
	db     *DB
}

func NewNotificationRepository(db *DB, logger *logger.Logger) NotificationRepository {
	logger.Debug().Msg("creating notification repository")
	return &notificationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *notificationRepository) SelectNotifications(ctx context.Context, userID int64, query models.TableQuery) ([]models.Notification, error) {
	log := logger.FromContext(ctx)

	sqlQuery, args, err := buildSelectNotificationsQuery(userID, query)
	if err != nil {
		log.Err(err).Str("func", "*notificationRepository.SelectNotifications").Msg("error building query")
		return nil, err
	}

	return r.queryMany(ctx, "*notificationRepository.SelectNotifications", sqlQuery, args...)
}

func (r *notificationRepository) InsertNotification(ctx context.Context, n models.Notification) (models.Notification, error) {
	payload := []byte(n.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	return r.queryOne(ctx, "*notificationRepository.InsertNotification", insertNotification, n.ID, n.UserID, string(n.Type), payload)
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID int64, id string) (models.Notification, error) {
	return r.queryOne(ctx, "*notificationRepository.MarkRead", markNotificationRead, id, userID)
}

// MarkAllRead returns only the notifications that were unread.
func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) ([]models.Notification, error) {
	return r.queryMany(ctx, "*notificationRepository.MarkAllRead", markAllNotificationsRead, userID)
}

func (r *notificationRepository) Delete(ctx context.Context, userID int64, id string) (models.Notification, error) {
	return r.queryOne(ctx, "*notificationRepository.Delete", deleteNotification, id, userID)
}

func (r *notificationRepository) DeleteAll(ctx context.Context, userID int64) ([]models.Notification, error) {
	return r.queryMany(ctx, "*notificationRepository.DeleteAll", deleteAllNotifications, userID)
}

func (r *notificationRepository) queryOne(ctx context.Context, fn, query string, args ...any) (models.Notification, error) {
	n, err := scanNotification(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Notification{}, ErrNotificationNotFound
		}
		logger.FromContext(ctx).Err(err).Str("func", fn).Msg("error executing query")
		return models.Notification{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return n, nil
}

func (r *notificationRepository) queryMany(ctx context.Context, fn, query string, args ...any) ([]models.Notification, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", fn).Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			log.Err(err).Str("func", fn).Msg("error scanning rows")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return notifications, nil
}

func scanNotification(row rowScanner) (models.Notification, error) {
	var (
		n       models.Notification
		typ     string
		payload []byte
	)
	if err := row.Scan(&n.ID, &n.UserID, &typ, &payload, &n.IsRead, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return models.Notification{}, err
	}
	n.Type = models.NotificationType(typ)
	n.Payload = payload
	return n, nil
}
