// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the configuration shared by the feed server and the
// terminal client. It is merged from defaults, environment variables,
// command-line flags and an optional JSON file.
type StructuredConfig struct {
	App      App      `envPrefix:"APP_"`
	Storage  Storage  `envPrefix:"STORAGE_"`
	Server   Server   `envPrefix:"SERVER_"`
	Realtime Realtime `envPrefix:"REALTIME_"`
	Adapter  Adapter  `envPrefix:"ADAPTER_"`
	Feed     Feed     `envPrefix:"FEED_"`
	Workers  Workers  `envPrefix:"WORKERS_"`

	// JSONFilePath is set by CONFIG or -c / -config.
	JSONFilePath string `env:"CONFIG"`
}

type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// App holds token settings and process-wide values.
type App struct {
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
	// Version is served by GET /api/version.
	Version string `env:"VERSION"`
	// LogLevel is a zerolog level name.
	LogLevel string `env:"LOG_LEVEL"`
	// ShareBaseURL prefixes list ids in share links copied by the client.
	ShareBaseURL string `env:"SHARE_BASE_URL"`
}

type Server struct {
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// DB is postgres on the server and a sqlite file on the client.
type DB struct {
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Realtime configures the redis pub/sub connection used for change events.
type Realtime struct {
	// Env: REALTIME_ADDRESS
	Address string `env:"ADDRESS"`
	// Env: REALTIME_NETWORK
	Network string `env:"NETWORK"`
	// Env: REALTIME_MAX_IDLE
	MaxIdle int `env:"MAX_IDLE"`
	// Env: REALTIME_IDLE_TIMEOUT
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT"`
	// Env: REALTIME_PUBLISH_ATTEMPTS
	PublishAttempts uint `env:"PUBLISH_ATTEMPTS"`
}

// Adapter configures the client's connection to the feed server.
type Adapter struct {
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	// MutationTimeout bounds the commit of an optimistic mutation.
	// Env: ADAPTER_MUTATION_TIMEOUT
	MutationTimeout time.Duration `env:"MUTATION_TIMEOUT"`
}

// Feed tunes pagination and the pull-to-refresh gesture.
type Feed struct {
	// Env: FEED_PAGE_SIZE
	PageSize int `env:"PAGE_SIZE"`
	// ScrollProximity is the distance from the bottom, in lines, that triggers the next page.
	// Env: FEED_SCROLL_PROXIMITY
	ScrollProximity int `env:"SCROLL_PROXIMITY"`
	// Env: FEED_PULL_THRESHOLD
	PullThreshold float64 `env:"PULL_THRESHOLD"`
	// Env: FEED_PULL_RESISTANCE
	PullResistance float64 `env:"PULL_RESISTANCE"`
}

type Workers struct {
	// RefreshInterval is how often the client resyncs views in case a
	// realtime channel dropped.
	// Env: WORKERS_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
}

// Defaults returns the values used for every field left unset by all sources.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   "go-list-feed",
			TokenDuration: 24 * time.Hour,
			LogLevel:      "debug",
			ShareBaseURL:  "https://lists.example.com/list/",
		},
		Server: Server{
			HTTPAddress:     "localhost:8080",
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Realtime: Realtime{
			Address:         "localhost:6379",
			Network:         "tcp",
			MaxIdle:         10,
			IdleTimeout:     4 * time.Minute,
			PublishAttempts: 3,
		},
		Adapter: Adapter{
			HTTPAddress:     "localhost:8080",
			RequestTimeout:  15 * time.Second,
			MutationTimeout: 10 * time.Second,
		},
		Feed: Feed{
			PageSize:        10,
			ScrollProximity: 3,
			PullThreshold:   80,
			PullResistance:  2.5,
		},
		Workers: Workers{
			RefreshInterval: 2 * time.Minute,
		},
	}
}

// GetStructuredConfig merges defaults, env, flags and the JSON file
// (later sources override non-zero fields) and validates the result.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags().
		withJSON().
		build()
}
