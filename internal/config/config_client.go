package config

import (
	"fmt"
	"time"
)

type ClientApp struct {
	LogLevel     string
	ShareBaseURL string
}

type ClientAdapter struct {
	HTTPAddress     string
	RequestTimeout  time.Duration
	MutationTimeout time.Duration
}

// ClientRealtime is where the client subscribes to change events.
type ClientRealtime struct {
	Address     string
	Network     string
	MaxIdle     int
	IdleTimeout time.Duration
}

type ClientStorage struct {
	// DSN is the sqlite file holding the session.
	DSN string
}

type ClientWorkers struct {
	RefreshInterval time.Duration
}

// ClientConfig is the part of StructuredConfig the terminal client uses.
type ClientConfig struct {
	App      ClientApp
	Adapter  ClientAdapter
	Realtime ClientRealtime
	Storage  ClientStorage
	Feed     Feed
	Workers  ClientWorkers
}

// GetClientConfig loads the structured config and projects the client view.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := cfg.clientConfig()
	return clientCfg, clientCfg.validate()
}

func (cfg *StructuredConfig) clientConfig() *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			LogLevel:     cfg.App.LogLevel,
			ShareBaseURL: cfg.App.ShareBaseURL,
		},
		Adapter: ClientAdapter{
			HTTPAddress:     cfg.Adapter.HTTPAddress,
			RequestTimeout:  cfg.Adapter.RequestTimeout,
			MutationTimeout: cfg.Adapter.MutationTimeout,
		},
		Realtime: ClientRealtime{
			Address:     cfg.Realtime.Address,
			Network:     cfg.Realtime.Network,
			MaxIdle:     cfg.Realtime.MaxIdle,
			IdleTimeout: cfg.Realtime.IdleTimeout,
		},
		Storage: ClientStorage{DSN: cfg.Storage.DB.DSN},
		Feed:    cfg.Feed,
		Workers: ClientWorkers{RefreshInterval: cfg.Workers.RefreshInterval},
	}
}

// GetServerConfig loads the structured config and checks the settings
// only the server needs.
func GetServerConfig() (*StructuredConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return cfg, cfg.validateServer()
}
