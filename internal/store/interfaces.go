package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/go-list-feed/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
}

// ListRepository reads and creates lists. Every read is made on behalf of
// viewerID, which decides LikedByMe; 0 is an anonymous viewer.
type ListRepository interface {
	SelectLists(ctx context.Context, viewerID int64, query models.TableQuery) ([]models.ListSummary, error)
	GetList(ctx context.Context, viewerID int64, listID string) (models.ListSummary, error)
	CreateList(ctx context.Context, list models.ListSummary, items []models.PreviewItem) (models.ListSummary, error)
}

// LikeRepository records likes and keeps lists.like_count in step. Both
// methods are idempotent and return the updated list row along with
// whether a like was actually added or removed.
type LikeRepository interface {
	Like(ctx context.Context, userID int64, listID string) (models.ListSummary, bool, error)
	Unlike(ctx context.Context, userID int64, listID string) (models.ListSummary, bool, error)
}

// CommentRepository stores comments. A reply is always stored under the
// root of its thread.
type CommentRepository interface {
	SelectComments(ctx context.Context, listID string) ([]models.Comment, error)
	GetComment(ctx context.Context, commentID string) (models.Comment, error)
	InsertComment(ctx context.Context, comment models.Comment) (models.Comment, error)
	// DeleteComment removes the comment and, for a root, its replies.
	// The removed rows are returned.
	DeleteComment(ctx context.Context, commentID string) ([]models.Comment, error)
}

// NotificationRepository stores the notifications of each user. Every
// mutating method returns the affected rows.
type NotificationRepository interface {
	SelectNotifications(ctx context.Context, userID int64, query models.TableQuery) ([]models.Notification, error)
	InsertNotification(ctx context.Context, n models.Notification) (models.Notification, error)
	MarkRead(ctx context.Context, userID int64, id string) (models.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) ([]models.Notification, error)
	Delete(ctx context.Context, userID int64, id string) (models.Notification, error)
	DeleteAll(ctx context.Context, userID int64) ([]models.Notification, error)
}

// ErrorClassificator decides whether a failed database operation may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// querier is implemented by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
