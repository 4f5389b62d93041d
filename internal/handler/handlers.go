package handler

import (
	"errors"

	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/handler/http"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/service"
)

// errNoHandlersAreCreated is returned when no HTTP address is configured.
var errNoHandlersAreCreated = errors.New("no handlers are created")

// Handlers groups the transports of the feed server. The REST table API
// is the only one.
type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{HTTP: http.NewHandler(services, cfg, logger)}, nil
}
