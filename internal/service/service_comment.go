package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/internal/validators"
	"github.com/MKhiriev/go-list-feed/models"
)

type commentService struct {
	comments store.CommentRepository
	lists    store.ListRepository
	notifier

	validator validators.Validator

	logger *logger.Logger
}

func NewCommentService(storages *store.Storages, publisher Publisher, ids IDGenerator, logger *logger.Logger) CommentService {
	return &commentService{
		comments: storages.CommentRepository,
		lists:    storages.ListRepository,
		notifier: notifier{
			changePublisher: changePublisher{publisher: publisher},
			notifications:   storages.NotificationRepository,
			ids:             ids,
		},
		validator: validators.NewInputValidator(),
		logger:    logger,
	}
}

// SelectComments returns the flat comments of an existing list.
func (s *commentService) SelectComments(ctx context.Context, listID string) ([]models.Comment, error) {
	log := logger.FromContext(ctx)

	if _, err := s.lists.GetList(ctx, 0, listID); err != nil {
		log.Err(err).Str("func", "*commentService.SelectComments").Str("list_id", listID).Msg("list lookup failed")
		return nil, fmt.Errorf("list lookup failed: %w", err)
	}

	comments, err := s.comments.SelectComments(ctx, listID)
	if err != nil {
		log.Err(err).Str("func", "*commentService.SelectComments").Str("list_id", listID).Msg("error selecting comments")
		return nil, fmt.Errorf("error selecting comments: %w", err)
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// PostComment stores the comment, pushes it to the list's comment channel,
// pushes the new comment count and notifies the list owner.
func (s *commentService) PostComment(ctx context.Context, authorID int64, comment models.NewComment) (models.Comment, error) {
	log := logger.FromContext(ctx).With().Str("list_id", comment.ListID).Logger()

	if err := s.validator.Validate(ctx, comment, validators.FieldBody); err != nil {
		if errors.Is(err, validators.ErrEmptyBody) {
			return models.Comment{}, ErrEmptyComment
		}
		return models.Comment{}, ErrInvalidDataProvided
	}
	body := strings.TrimSpace(comment.Body)

	list, err := s.lists.GetList(ctx, 0, comment.ListID)
	if err != nil {
		log.Err(err).Str("func", "*commentService.PostComment").Msg("list lookup failed")
		return models.Comment{}, fmt.Errorf("list lookup failed: %w", err)
	}

	created, err := s.comments.InsertComment(ctx, models.Comment{
		ID:       s.ids.Generate(),
		ListID:   comment.ListID,
		AuthorID: authorID,
		Body:     body,
		ParentID: comment.ParentID,
	})
	if err != nil {
		log.Err(err).Str("func", "*commentService.PostComment").Msg("error inserting comment")
		return models.Comment{}, fmt.Errorf("error inserting comment: %w", err)
	}

	s.publish(ctx, models.EventInsert, created.TableName(), created, nil, models.EqFilter("list_id", created.ListID))
	s.refreshList(ctx, created.ListID)

	if list.OwnerID != authorID {
		s.send(ctx, list.OwnerID, models.NotificationComment, models.NotificationPayload{
			ActorName: created.AuthorName,
			ListID:    list.ID,
			ListTitle: list.Title,
		})
	}
	return created, nil
}

func (s *commentService) DeleteComment(ctx context.Context, userID int64, commentID string) error {
	log := logger.FromContext(ctx)

	comment, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		log.Err(err).Str("func", "*commentService.DeleteComment").Str("comment_id", commentID).Msg("comment lookup failed")
		return fmt.Errorf("comment lookup failed: %w", err)
	}
	if comment.AuthorID != userID {
		log.Warn().Int64("user_id", userID).Str("comment_id", commentID).Msg("delete of foreign comment rejected")
		return ErrForbidden
	}

	deleted, err := s.comments.DeleteComment(ctx, commentID)
	if err != nil {
		log.Err(err).Str("func", "*commentService.DeleteComment").Str("comment_id", commentID).Msg("error deleting comment")
		return fmt.Errorf("error deleting comment: %w", err)
	}

	for _, c := range deleted {
		s.publish(ctx, models.EventDelete, c.TableName(), nil, c, models.EqFilter("list_id", c.ListID))
	}
	s.refreshList(ctx, comment.ListID)
	return nil
}

// refreshList pushes the list row after its comment count changed.
func (s *commentService) refreshList(ctx context.Context, listID string) {
	list, err := s.lists.GetList(ctx, 0, listID)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("list_id", listID).Msg("list not refreshed")
		return
	}
	s.listChanged(ctx, models.EventUpdate, list)
}
