package http

import (
	"net/http"

	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/internal/utils"
)

// Handler serves the feed API on top of the server services. Routes are
// registered by Init.
type Handler struct {
	services *service.Services
	cfg      config.Server

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Str("address", cfg.HTTPAddress).Msg("feed http handler created")
	return &Handler{
		services: services,
		cfg:      cfg,
		logger:   logger,
	}
}

// getServerVersion answers GET /api/version without authentication so the
// client can check the server before signing in.
func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	_, _ = utils.WriteJSON(w, h.services.AppInfoService.GetAppVersion(r.Context()), http.StatusOK)
}
