package service

import (
	"context"

	"github.com/MKhiriev/go-list-feed/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// ListService serves the feed. Reads and like results are personalised
// for the calling user; the rows published to other subscribers are not.
type ListService interface {
	SelectLists(ctx context.Context, viewerID int64, query models.TableQuery) ([]models.ListSummary, error)
	CreateList(ctx context.Context, ownerID int64, list models.NewList) (models.ListSummary, error)
	Like(ctx context.Context, userID int64, listID string) (models.ListSummary, error)
	Unlike(ctx context.Context, userID int64, listID string) (models.ListSummary, error)
}

type CommentService interface {
	SelectComments(ctx context.Context, listID string) ([]models.Comment, error)
	PostComment(ctx context.Context, authorID int64, comment models.NewComment) (models.Comment, error)
	// DeleteComment removes a comment of the caller together with its replies.
	DeleteComment(ctx context.Context, userID int64, commentID string) error
}

// NotificationService works on the notifications of the calling user only.
type NotificationService interface {
	SelectNotifications(ctx context.Context, userID int64, query models.TableQuery) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID int64, id string) error
	MarkAllRead(ctx context.Context, userID int64) error
	Delete(ctx context.Context, userID int64, id string) error
	DeleteAll(ctx context.Context, userID int64) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) models.AppBuildInfo
}

// Publisher fans change events out to realtime subscribers: to the table
// channel and to one channel per filter.
type Publisher interface {
	Publish(ctx context.Context, ev models.ChangeEvent, filters ...string) error
}

// IDGenerator issues ids for new rows.
type IDGenerator interface {
	Generate() string
}
