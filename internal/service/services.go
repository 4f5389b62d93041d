package service

import (
	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/internal/utils"
	"github.com/MKhiriev/go-list-feed/models"
)

type Services struct {
	AuthService         AuthService
	ListService         ListService
	CommentService      CommentService
	NotificationService NotificationService
	AppInfoService      AppInfoService
}

func NewServices(storages *store.Storages, publisher Publisher, cfg *config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, err
	}

	ids := utils.NewUUIDGenerator()
	return &Services{
		AuthService:         NewAuthService(storages.UserRepository, cfg.App, logger),
		ListService:         NewListService(storages, publisher, ids, logger),
		CommentService:      NewCommentService(storages, publisher, ids, logger),
		NotificationService: NewNotificationService(storages.NotificationRepository, publisher, logger),
		AppInfoService:      appInfo,
	}, nil
}
