// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the client's transport to the feed server.
//
// The table interfaces mirror the server's REST table API: reads take a
// [models.TableQuery], writes return the stored row so the caller can
// reconcile its optimistic state. Non-2xx responses are mapped to the
// sentinel errors in errors.go so callers can use [errors.Is].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-list-feed/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// AuthGateway obtains and holds the bearer token.
type AuthGateway interface {
	// SetToken sets the token attached to authenticated requests.
	// An empty token clears it.
	SetToken(token string)
	Token() string

	// Register creates an account and returns its session.
	// The session token is stored via SetToken.
	Register(ctx context.Context, user models.User) (models.Session, error)

	// Login authenticates and returns the session.
	// The session token is stored via SetToken.
	Login(ctx context.Context, user models.User) (models.Session, error)
}

// ListTable reads the feed and toggles likes.
type ListTable interface {
	SelectLists(ctx context.Context, query models.TableQuery) ([]models.ListSummary, error)
	// Like and Unlike return the list row after the change, carrying the
	// authoritative like count and updated_at.
	Like(ctx context.Context, listID string) (models.ListSummary, error)
	Unlike(ctx context.Context, listID string) (models.ListSummary, error)
}

// CommentTable reads and writes comments of a list.
type CommentTable interface {
	// SelectComments returns the flat rows of a list, oldest first.
	SelectComments(ctx context.Context, listID string) ([]models.Comment, error)
	InsertComment(ctx context.Context, comment models.NewComment) (models.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

// NotificationTable reads and writes the current user's notifications.
type NotificationTable interface {
	SelectNotifications(ctx context.Context, query models.TableQuery) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
	DeleteAllNotifications(ctx context.Context) error
}

// ServerAdapter is the full client transport.
type ServerAdapter interface {
	AuthGateway
	ListTable
	CommentTable
	NotificationTable

	// Version returns the server build info.
	Version(ctx context.Context) (models.AppBuildInfo, error)
}
