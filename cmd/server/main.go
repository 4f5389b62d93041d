package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-list-feed/internal/config"
	"github.com/MKhiriev/go-list-feed/internal/handler"
	"github.com/MKhiriev/go-list-feed/internal/logger"
	"github.com/MKhiriev/go-list-feed/internal/realtime"
	"github.com/MKhiriev/go-list-feed/internal/server"
	"github.com/MKhiriev/go-list-feed/internal/service"
	"github.com/MKhiriev/go-list-feed/internal/store"
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

	log := logger.NewLogger("list-feed-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	log.SetLevel(cfg.App.LogLevel)

	log.Debug().Any("config", cfg).Msg("received configs")

	storages, err := store.NewStorages(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	broker := realtime.NewBroker(realtime.NewPool(realtime.Options{
		Network:     cfg.Realtime.Network,
		Address:     cfg.Realtime.Address,
		MaxIdle:     cfg.Realtime.MaxIdle,
		IdleTimeout: cfg.Realtime.IdleTimeout,
	}), cfg.Realtime.PublishAttempts, log)

	services, err := service.NewServices(storages, broker, cfg, build, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log, broker, storages)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}
