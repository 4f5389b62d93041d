package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/models"
)

type notificationService struct {
	notifications store.NotificationRepository
	changePublisher

	logger *logger.Logger
}

func NewNotificationService(notifications store.NotificationRepository, publisher Publisher, logger *logger.Logger) NotificationService {
	return &notificationService{
		notifications:   notifications,
		changePublisher: changePublisher{publisher: publisher},
		logger:          logger,
	}
}

func (s *notificationService) SelectNotifications(ctx context.Context, userID int64, query models.TableQuery) ([]models.Notification, error) {
	items, err := s.notifications.SelectNotifications(ctx, userID, query)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*notificationService.SelectNotifications").Msg("error selecting notifications")
		return nil, fmt.Errorf("error selecting notifications: %w", err)
	}
	if items == nil {
		items = []models.Notification{}
	}
	return items, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID int64, id string) error {
	n, err := s.notifications.MarkRead(ctx, userID, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*notificationService.MarkRead").Str("id", id).Msg("error marking notification read")
		return fmt.Errorf("error marking notification read: %w", err)
	}
	s.notificationChanged(ctx, models.EventUpdate, n)
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID int64) error {
	items, err := s.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*notificationService.MarkAllRead").Msg("error marking notifications read")
		return fmt.Errorf("error marking notifications read: %w", err)
	}
	for _, n := range items {
		s.notificationChanged(ctx, models.EventUpdate, n)
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, userID int64, id string) error {
	n, err := s.notifications.Delete(ctx, userID, id)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*notificationService.Delete").Str("id", id).Msg("error deleting notification")
		return fmt.Errorf("error deleting notification: %w", err)
	}
	s.notificationChanged(ctx, models.EventDelete, n)
	return nil
}

func (s *notificationService) DeleteAll(ctx context.Context, userID int64) error {
	items, err := s.notifications.DeleteAll(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*notificationService.DeleteAll").Msg("error deleting notifications")
		return fmt.Errorf("error deleting notifications: %w", err)
	}
	for _, n := range items {
		s.notificationChanged(ctx, models.EventDelete, n)
	}
	return nil
}

func marshalPayload(p models.NotificationPayload) (json.RawMessage, error) {
	return json.Marshal(p)
}
