package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/utils"
	"github.com/MKhiriev/go-list-feed/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *resty.Client

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter returns a REST implementation of [ServerAdapter].
// adapterCfg.HTTPAddress may omit the scheme, "http" is assumed.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, log *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	return &httpServerAdapter{client: client, logger: log}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register posts the credentials to POST /api/auth/register and builds the
// session from the token in the Authorization response header.
func (h *httpServerAdapter) Register(ctx context.Context, user models.User) (models.Session, error) {
	return h.authenticate(ctx, "/api/auth/register", user)
}

// Login posts the credentials to POST /api/auth/login.
func (h *httpServerAdapter) Login(ctx context.Context, user models.User) (models.Session, error) {
	return h.authenticate(ctx, "/api/auth/login", user)
}

func (h *httpServerAdapter) authenticate(ctx context.Context, path string, user models.User) (models.Session, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post(path)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %s: %w", ErrRequest, path, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Session{}, fmt.Errorf("%s parse bearer token: %w", path, err)
	}

	session, err := utils.ParseSessionFromJWT(token, user.Login)
	if err != nil {
		return models.Session{}, fmt.Errorf("%s parse session: %w", path, err)
	}

	h.SetToken(token)
	h.logger.Debug().Str("path", path).Int64("user_id", session.UserID).Msg("authenticated")
	return session, nil
}

// SelectLists reads GET /api/lists.
func (h *httpServerAdapter) SelectLists(ctx context.Context, query models.TableQuery) ([]models.ListSummary, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParamsFromValues(query.Values()).
		Get("/api/lists")
	return decode[[]models.ListSummary](resp, err, "select lists")
}

// Like calls POST /api/lists/{id}/like.
func (h *httpServerAdapter) Like(ctx context.Context, listID string) (models.ListSummary, error) {
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", listID).
		Post("/api/lists/{id}/like")
	return decode[models.ListSummary](resp, err, "like")
}

// Unlike calls DELETE /api/lists/{id}/like.
func (h *httpServerAdapter) Unlike(ctx context.Context, listID string) (models.ListSummary, error) {
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", listID).
		Delete("/api/lists/{id}/like")
	return decode[models.ListSummary](resp, err, "unlike")
}

// SelectComments reads GET /api/lists/{id}/comments.
func (h *httpServerAdapter) SelectComments(ctx context.Context, listID string) ([]models.Comment, error) {
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", listID).
		Get("/api/lists/{id}/comments")
	return decode[[]models.Comment](resp, err, "select comments")
}

// InsertComment posts to POST /api/lists/{id}/comments.
func (h *httpServerAdapter) InsertComment(ctx context.Context, comment models.NewComment) (models.Comment, error) {
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", comment.ListID).
		SetHeader("Content-Type", "application/json").
		SetBody(comment).
		Post("/api/lists/{id}/comments")
	return decode[models.Comment](resp, err, "insert comment")
}

// DeleteComment calls DELETE /api/comments/{id}.
func (h *httpServerAdapter) DeleteComment(ctx context.Context, commentID string) error {
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", commentID).
		Delete("/api/comments/{id}")
	return check(resp, err, "delete comment")
}

// SelectNotifications reads GET /api/notifications.
func (h *httpServerAdapter) SelectNotifications(ctx context.Context, query models.TableQuery) ([]models.Notification, error) {
	resp, err := h.authedRequest(ctx).
		SetQueryParamsFromValues(query.Values()).
		Get("/api/notifications")
	return decode[[]models.Notification](resp, err, "select notifications")
}

// MarkNotificationRead calls PATCH /api/notifications/{id}/read.
func (h *httpServerAdapter) MarkNotificationRead(ctx context.Context, id string) error {
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", id).
		Patch("/api/notifications/{id}/read")
	return check(resp, err, "mark notification read")
}

// MarkAllNotificationsRead calls PATCH /api/notifications/read.
func (h *httpServerAdapter) MarkAllNotificationsRead(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Patch("/api/notifications/read")
	return check(resp, err, "mark all notifications read")
}

// DeleteNotification calls DELETE /api/notifications/{id}.
func (h *httpServerAdapter) DeleteNotification(ctx context.Context, id string) error {
	resp, err := h.authedRequest(ctx).
		SetPathParam("id", id).
		Delete("/api/notifications/{id}")
	return check(resp, err, "delete notification")
}

// DeleteAllNotifications calls DELETE /api/notifications.
func (h *httpServerAdapter) DeleteAllNotifications(ctx context.Context) error {
	resp, err := h.authedRequest(ctx).Delete("/api/notifications")
	return check(resp, err, "delete all notifications")
}

// Version reads GET /api/version.
func (h *httpServerAdapter) Version(ctx context.Context) (models.AppBuildInfo, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/version")
	return decode[models.AppBuildInfo](resp, err, "version")
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func check(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRequest, op, err)
	}
	return mapHTTPError(resp)
}

func decode[T any](resp *resty.Response, err error, op string) (T, error) {
	var out T
	if err = check(resp, err, op); err != nil {
		return out, err
	}
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return out, fmt.Errorf("decode %s response: %w", op, err)
	}
	return out, nil
}
