package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/internal/validators"
	"github.com/MKhiriev/go-list-feed/models"
)

type listService struct {
	lists store.ListRepository
	likes store.LikeRepository
	users store.UserRepository
	notifier

	validator validators.Validator

	logger *logger.Logger
}

func NewListService(storages *store.Storages, publisher Publisher, ids IDGenerator, logger *logger.Logger) ListService {
	return &listService{
		lists: storages.ListRepository,
		likes: storages.LikeRepository,
		users: storages.UserRepository,
		notifier: notifier{
			changePublisher: changePublisher{publisher: publisher},
			notifications:   storages.NotificationRepository,
			ids:             ids,
		},
		validator: validators.NewInputValidator(),
		logger:    logger,
	}
}

func (s *listService) SelectLists(ctx context.Context, viewerID int64, query models.TableQuery) ([]models.ListSummary, error) {
	// "all" is a filter value of the client, not a stored category
	if query.Filter["category"] == models.CategoryAll {
		delete(query.Filter, "category")
	}

	lists, err := s.lists.SelectLists(ctx, viewerID, query)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*listService.SelectLists").Msg("error selecting lists")
		return nil, fmt.Errorf("error selecting lists: %w", err)
	}
	if lists == nil {
		lists = []models.ListSummary{}
	}
	return lists, nil
}

func (s *listService) CreateList(ctx context.Context, ownerID int64, list models.NewList) (models.ListSummary, error) {
	log := logger.FromContext(ctx)

	list.Title = strings.TrimSpace(list.Title)
	if err := s.validator.Validate(ctx, list); err != nil {
		log.Err(err).Str("title", list.Title).Str("category", list.Category).Msg("invalid list provided")
		return models.ListSummary{}, ErrInvalidDataProvided
	}

	created, err := s.lists.CreateList(ctx, models.ListSummary{
		ID:          s.ids.Generate(),
		OwnerID:     ownerID,
		Title:       list.Title,
		Description: strings.TrimSpace(list.Description),
		Category:    list.Category,
	}, list.Items)
	if err != nil {
		log.Err(err).Str("func", "*listService.CreateList").Msg("error creating list")
		return models.ListSummary{}, fmt.Errorf("error creating list: %w", err)
	}

	s.listChanged(ctx, models.EventInsert, created)
	return created, nil
}

// Like adds the caller's like. Liking one's own list is counted but does
// not notify.
func (s *listService) Like(ctx context.Context, userID int64, listID string) (models.ListSummary, error) {
	list, changed, err := s.likes.Like(ctx, userID, listID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*listService.Like").Str("list_id", listID).Msg("error liking list")
		return models.ListSummary{}, fmt.Errorf("error liking list: %w", err)
	}
	if !changed {
		return list, nil
	}

	s.listChanged(ctx, models.EventUpdate, list)
	if list.OwnerID != userID {
		s.send(ctx, list.OwnerID, models.NotificationLike, models.NotificationPayload{
			ActorName: s.actorName(ctx, userID),
			ListID:    list.ID,
			ListTitle: list.Title,
		})
	}
	return list, nil
}

func (s *listService) Unlike(ctx context.Context, userID int64, listID string) (models.ListSummary, error) {
	list, changed, err := s.likes.Unlike(ctx, userID, listID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*listService.Unlike").Str("list_id", listID).Msg("error unliking list")
		return models.ListSummary{}, fmt.Errorf("error unliking list: %w", err)
	}
	if changed {
		s.listChanged(ctx, models.EventUpdate, list)
	}
	return list, nil
}

func (s *listService) actorName(ctx context.Context, userID int64) string {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Int64("user_id", userID).Msg("actor not found")
		return ""
	}
	return user.Login
}
