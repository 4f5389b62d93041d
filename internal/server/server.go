package server

import (
	"context"
	"errors"
	"io"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/handler"
	"github.com/MKhiriev/go-list-feed/internal/logger"
)

var errNoServersAreCreated = errors.New("no servers are created")

// Server serves the feed API until the process is told to stop.
type Server interface {
	// RunServer blocks until a termination signal and a graceful shutdown.
	RunServer()
	// Shutdown stops the listener, then closes the broker and the storages.
	Shutdown()
}

type server struct {
	httpServer *httpServer
	closers    []io.Closer
	logger     *logger.Logger
}

// NewServer prepares the HTTP server. closers are closed in order after
// the listener has stopped, e.g. the realtime broker and the database.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger, closers ...io.Closer) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		closers:    closers,
		logger:     logger,
	}, nil
}

// RunServer blocks until SIGINT, SIGTERM or SIGQUIT and then shuts down.
func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	s.run(ctx)
}

func (s *server) run(ctx context.Context) {
	idleConnectionsClosed := make(chan struct{})

	// listen for stop signals
	go func() {
		<-ctx.Done()
		s.Shutdown()
		close(idleConnectionsClosed)
	}()

	s.logger.Info().Msg("Launching HTTP server")
	go s.httpServer.RunServer()

	<-idleConnectionsClosed
	s.logger.Info().Msg("server Shutdown gracefully")
}

func (s *server) Shutdown() {
	s.httpServer.Shutdown()

	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			s.logger.Err(err).Msg("error closing server resource")
		}
	}
}
