package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-list-feed/internal/adapter"
	"github.com/MKhiriev/go-list-feed/internal/client"
	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/realtime"
	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/internal/store"
	"github.com/MKhiriev/go-list-feed/internal/tui"
	"github.com/MKhiriev/go-list-feed/internal/workers"
	"github.com/MKhiriev/go-list-feed/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(build)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	log := logger.NewClientLogger("list-feed-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	log.SetLevel(cfg.App.LogLevel)

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	localStorage, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	broker := realtime.NewBroker(realtime.NewPool(realtime.Options{
		Network:     cfg.Realtime.Network,
		Address:     cfg.Realtime.Address,
		MaxIdle:     cfg.Realtime.MaxIdle,
		IdleTimeout: cfg.Realtime.IdleTimeout,
	}), 1, log)
	channels := realtime.NewRegistry(broker)

	services := service.NewClientServices(localStorage, serverAdapter, channels, cfg, log)

	ui, err := tui.New(services, cfg.App, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	resyncers := services.Resyncers()
	targets := make([]workers.Resyncer, 0, len(resyncers))
	for _, r := range resyncers {
		targets = append(targets, r)
	}
	jobs := workers.NewWorkers(workers.NewRefreshWorker(cfg.Workers.RefreshInterval, log, targets...))

	app, err := client.NewApp(services, ui, jobs, log, registryCloser{channels}, broker, localStorage)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

// registryCloser closes every realtime channel still open on exit.
type registryCloser struct {
	registry *realtime.Registry
}

func (c registryCloser) Close() error {
	return c.registry.CloseAll()
}
