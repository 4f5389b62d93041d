package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-list-feed/internal/adapter"
	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/models"
)

// ClientServices bundles the client-side views sharing one session and
// one set of realtime channels.
type ClientServices struct {
	AuthService   ClientAuthService
	Feed          *FeedView
	Notifications *NotificationView

	serverAdapter adapter.ServerAdapter
	channels      ChannelSwitcher
	cfg           *config.ClientConfig
	logger        *logger.Logger
}

func NewClientServices(
	storages *store.ClientStorages,
	serverAdapter adapter.ServerAdapter,
	channels ChannelSwitcher,
	cfg *config.ClientConfig,
	log *logger.Logger,
) *ClientServices {
	authSvc := NewClientAuthService(storages.SessionStore, serverAdapter, log)

	feed := NewFeedView(serverAdapter, authSvc, authSvc, channels, FeedOptions{
		PageSize:        cfg.Feed.PageSize,
		ScrollProximity: cfg.Feed.ScrollProximity,
		MutationTimeout: cfg.Adapter.MutationTimeout,
	}, log)

	notifications := NewNotificationView(serverAdapter, authSvc, channels,
		cfg.Feed.PageSize, cfg.Adapter.MutationTimeout, log)

	return &ClientServices{
		AuthService:   authSvc,
		Feed:          feed,
		Notifications: notifications,
		serverAdapter: serverAdapter,
		channels:      channels,
		cfg:           cfg,
		logger:        log,
	}
}

// NewThreadView opens nothing; the caller opens and closes the view
// while the comments screen of listID is shown.
func (s *ClientServices) NewThreadView(listID string) *ThreadView {
	return NewThreadView(listID, s.serverAdapter, s.AuthService, s.AuthService, s.channels,
		ThreadOptions{MutationTimeout: s.cfg.Adapter.MutationTimeout}, s.logger)
}

// Resyncers returns the views the refresh worker keeps in sync.
func (s *ClientServices) Resyncers() []Resyncer {
	return []Resyncer{s.Feed, s.Notifications}
}

func (s *ClientServices) Restore(ctx context.Context) (models.Session, bool, error) {
	return s.AuthService.Restore(ctx)
}

func (s *ClientServices) Logout(ctx context.Context) error {
	return s.AuthService.Logout(ctx)
}

// CloseViews releases the realtime channels of the feed and the
// notifications and waits for their pending mutations.
func (s *ClientServices) CloseViews() error {
	return errors.Join(s.Feed.Close(), s.Notifications.Close())
}
